package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/repository"

	"go.uber.org/zap"
)

type AuthService struct {
	repo   *repository.Repository
	hasher PasswordHasher
	tokens TokenProvider
	perms  *PermissionService

	accessTTL  time.Duration
	refreshTTL time.Duration
	// unifyLoginErrors скрывает, существует ли логин: оба отказа становятся ErrInvalidCredentials.
	unifyLoginErrors bool

	log *zap.Logger
}

type AuthOptions struct {
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	UnifyLoginErrors bool
}

func NewAuthService(
	repo *repository.Repository,
	hasher PasswordHasher,
	tokens TokenProvider,
	perms *PermissionService,
	opt AuthOptions,
	log *zap.Logger,
) *AuthService {
	if opt.AccessTTL <= 0 {
		opt.AccessTTL = 15 * time.Minute
	}
	if opt.RefreshTTL <= 0 {
		opt.RefreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		repo:             repo,
		hasher:           hasher,
		tokens:           tokens,
		perms:            perms,
		accessTTL:        opt.AccessTTL,
		refreshTTL:       opt.RefreshTTL,
		unifyLoginErrors: opt.UnifyLoginErrors,
		log:              log,
	}
}

type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

type RefreshResult struct {
	AccessToken     string    `json:"accessToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}

type MeResult struct {
	User        *models.User `json:"user"`
	Permissions []string     `json:"permissions"`
}

// Register создаёт пользователя с ролью user и правами, включёнными по умолчанию.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username:  in.Username,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      models.RoleUser,
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
		defaults, err := tx.Permissions.ListDefaultEnabled(ctx)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(defaults))
		for _, p := range defaults {
			ids = append(ids, p.ID)
		}
		return tx.Permissions.Grant(ctx, u.ID, ids)
	})
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, err
	}

	s.log.Info("Пользователь зарегистрирован", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return &AuthResult{User: u, Tokens: pair}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.Users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if s.unifyLoginErrors {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrUserNotFound
	}
	if !s.hasher.Compare(user.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInactiveUser
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh выдаёт новый access-токен по данным из базы; refresh-токен не ротируется.
func (s *AuthService) Refresh(ctx context.Context, in RefreshInput) (*RefreshResult, error) {
	uid, err := s.tokens.ParseAndValidateRefresh(ctx, in.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.Active {
		return nil, ErrInactiveUser
	}

	access, exp, err := s.tokens.SignAccess(ctx, user, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{AccessToken: access, AccessExpiresAt: exp}, nil
}

func (s *AuthService) Me(ctx context.Context) (*MeResult, error) {
	id, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	names, err := s.perms.NamesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &MeResult{User: user, Permissions: names}, nil
}

// Authenticate проверяет access-токен и возвращает личность вызывающего.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (Identity, error) {
	claims, err := s.tokens.ParseAndValidateAccess(ctx, accessToken)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

func (s *AuthService) issuePair(ctx context.Context, u *models.User) (TokenPair, error) {
	access, aexp, err := s.tokens.SignAccess(ctx, u, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.tokens.SignRefresh(ctx, u.ID, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  aexp,
		RefreshToken:     refresh,
		RefreshExpiresAt: rexp,
	}, nil
}
