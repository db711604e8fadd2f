package repository

import (
	"context"
	"errors"
	"time"

	"pos-service/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SpentListFilter struct {
	From *time.Time
	To   *time.Time
}

type SpentRepo interface {
	Create(ctx context.Context, s *models.Spent) error
	GetByID(ctx context.Context, id uint) (*models.Spent, error)
	List(ctx context.Context, f SpentListFilter) ([]models.Spent, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Sum(ctx context.Context, f SpentListFilter) (decimal.Decimal, error)
}

type spentRepo struct{ db *gorm.DB }

func NewSpentRepo(db *gorm.DB) SpentRepo { return &spentRepo{db: db} }

func (r *spentRepo) Create(ctx context.Context, s *models.Spent) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *spentRepo) GetByID(ctx context.Context, id uint) (*models.Spent, error) {
	var s models.Spent
	err := r.db.WithContext(ctx).Preload("Creator").First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *spentRepo) scoped(ctx context.Context, f SpentListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Spent{})
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	return q
}

func (r *spentRepo) List(ctx context.Context, f SpentListFilter) ([]models.Spent, error) {
	var list []models.Spent
	err := r.scoped(ctx, f).Preload("Creator").Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *spentRepo) UpdateFields(ctx context.Context, id uint, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	tx := r.db.WithContext(ctx).Model(&models.Spent{}).Where("id = ?", id).Updates(fields)
	return tx.RowsAffected > 0, tx.Error
}

func (r *spentRepo) Delete(ctx context.Context, id uint) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Spent{}, id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *spentRepo) Sum(ctx context.Context, f SpentListFilter) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := r.scoped(ctx, f).Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum, nil
}
