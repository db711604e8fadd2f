package service

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/repository"

	"go.uber.org/zap"
)

type UserService struct {
	repo   *repository.Repository
	hasher PasswordHasher
	perms  *PermissionService
	log    *zap.Logger
}

func NewUserService(repo *repository.Repository, hasher PasswordHasher, perms *PermissionService, log *zap.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, perms: perms, log: log}
}

type CreateUserInput struct {
	Username    string      `json:"username" validate:"required,min=3,max=50"`
	Password    string      `json:"password" validate:"required,min=6,max=128"`
	FirstName   string      `json:"firstName" validate:"max=100"`
	LastName    string      `json:"lastName" validate:"max=100"`
	Role        models.Role `json:"role" validate:"omitempty,oneof=admin user"`
	Permissions []string    `json:"permissions" validate:"omitempty,dive,required"`
}

type UserIDInput struct {
	UserID uint `json:"userId" validate:"required"`
}

type UpdateUserPermissionsInput struct {
	UserID      uint     `json:"userId" validate:"required"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required"`
}

type UserPermissionsResult struct {
	UserID      uint     `json:"userId"`
	Permissions []string `json:"permissions"`
}

func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.repo.Users.List(ctx)
}

// Create создаёт пользователя и выдаёт перечисленные права одной транзакцией.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:  in.Username,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
		Active:    true,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		exists, err := tx.Users.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameTaken
		}
		if err := tx.Users.Create(ctx, u); err != nil {
			return err
		}
		return s.grantByNames(ctx, tx, u.ID, in.Permissions)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Пользователь создан", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// GetPermissions доступен самому пользователю и администратору.
func (s *UserService) GetPermissions(ctx context.Context, in UserIDInput) (*UserPermissionsResult, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() && id.UserID != in.UserID {
		return nil, ErrForbidden
	}

	u, err := s.repo.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	names, err := s.repo.Permissions.NamesForUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	return &UserPermissionsResult{UserID: in.UserID, Permissions: names}, nil
}

// UpdatePermissions заменяет весь набор прав пользователя. Неизвестные имена пропускаются.
func (s *UserService) UpdatePermissions(ctx context.Context, in UpdateUserPermissionsInput) (*UserPermissionsResult, error) {
	var names []string
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		u, err := tx.Users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUserNotFound
		}
		if _, err := tx.Permissions.RevokeAll(ctx, in.UserID); err != nil {
			return err
		}
		if err := s.grantByNames(ctx, tx, in.UserID, in.Permissions); err != nil {
			return err
		}
		names, err = tx.Permissions.NamesForUser(ctx, in.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.perms.Invalidate(ctx, in.UserID)
	s.log.Info("Права пользователя обновлены", zap.Uint("user_id", in.UserID), zap.Strings("permissions", names))
	return &UserPermissionsResult{UserID: in.UserID, Permissions: names}, nil
}

func (s *UserService) grantByNames(ctx context.Context, tx *repository.Repository, userID uint, names []string) error {
	if len(names) == 0 {
		return nil
	}
	perms, err := tx.Permissions.GetByNames(ctx, names)
	if err != nil {
		return err
	}
	if len(perms) != len(dedupe(names)) {
		s.log.Warn("Часть прав не найдена в каталоге и пропущена",
			zap.Uint("user_id", userID), zap.Strings("requested", names))
	}
	ids := make([]uint, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return tx.Permissions.Grant(ctx, userID, ids)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
