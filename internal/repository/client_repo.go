package repository

import (
	"context"
	"errors"

	"pos-service/internal/models"

	"gorm.io/gorm"
)

type ClientRepo interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	ListActive(ctx context.Context) ([]models.Client, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) (bool, error)
	SetActive(ctx context.Context, id uint, active bool) (bool, error)
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepo(db *gorm.DB) ClientRepo { return &clientRepo{db: db} }

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *clientRepo) ListActive(ctx context.Context) ([]models.Client, error) {
	var list []models.Client
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *clientRepo) UpdateFields(ctx context.Context, id uint, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	tx := r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(fields)
	return tx.RowsAffected > 0, tx.Error
}

func (r *clientRepo) SetActive(ctx context.Context, id uint, active bool) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Update("active", active)
	return tx.RowsAffected > 0, tx.Error
}
