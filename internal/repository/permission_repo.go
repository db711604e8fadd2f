package repository

import (
	"context"

	"pos-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PermissionRepo interface {
	// UpsertCatalog добавляет недостающие права и обновляет описания существующих. Имена не меняются.
	UpsertCatalog(ctx context.Context, perms []models.Permission) error
	List(ctx context.Context) ([]models.Permission, error)
	ListDefaultEnabled(ctx context.Context) ([]models.Permission, error)
	GetByNames(ctx context.Context, names []string) ([]models.Permission, error)

	NamesForUser(ctx context.Context, userID uint) ([]string, error)
	UserHas(ctx context.Context, userID uint, name string) (bool, error)
	Grant(ctx context.Context, userID uint, permissionIDs []uint) error
	RevokeAll(ctx context.Context, userID uint) (int64, error)
}

type permissionRepo struct{ db *gorm.DB }

func NewPermissionRepo(db *gorm.DB) PermissionRepo { return &permissionRepo{db: db} }

func (r *permissionRepo) UpsertCatalog(ctx context.Context, perms []models.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "category", "description", "default_enabled"}),
		}).
		Create(&perms).Error
}

func (r *permissionRepo) List(ctx context.Context) ([]models.Permission, error) {
	var list []models.Permission
	err := r.db.WithContext(ctx).Order("category ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *permissionRepo) ListDefaultEnabled(ctx context.Context) ([]models.Permission, error) {
	var list []models.Permission
	err := r.db.WithContext(ctx).Where("default_enabled = ?", true).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *permissionRepo) GetByNames(ctx context.Context, names []string) ([]models.Permission, error) {
	if len(names) == 0 {
		return []models.Permission{}, nil
	}
	var list []models.Permission
	err := r.db.WithContext(ctx).Where("name IN ?", names).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *permissionRepo) NamesForUser(ctx context.Context, userID uint) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).
		Table("user_permissions AS up").
		Joins("JOIN permissions AS p ON p.id = up.permission_id").
		Where("up.user_id = ?", userID).
		Order("p.name ASC").
		Pluck("p.name", &names).Error
	return names, err
}

func (r *permissionRepo) UserHas(ctx context.Context, userID uint, name string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("user_permissions AS up").
		Joins("JOIN permissions AS p ON p.id = up.permission_id").
		Where("up.user_id = ? AND p.name = ?", userID, name).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *permissionRepo) Grant(ctx context.Context, userID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	rows := make([]models.UserPermission, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		rows = append(rows, models.UserPermission{UserID: userID, PermissionID: pid})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&rows).Error
}

func (r *permissionRepo) RevokeAll(ctx context.Context, userID uint) (int64, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserPermission{})
	return tx.RowsAffected, tx.Error
}
