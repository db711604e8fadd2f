package repository

import (
	"context"
	"errors"

	"pos-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	ListActiveByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) (bool, error)
	SetActive(ctx context.Context, id uint, active bool) (bool, error)

	// SetStock выставляет абсолютный остаток; только для товаров с учётом остатков.
	SetStock(ctx context.Context, id uint, qty int) (bool, error)
	// TryDecrementStock атомарно: stock -= qty, если stock >= qty и учёт включён.
	TryDecrementStock(ctx context.Context, id uint, qty int) (bool, error)
	// IncrementStock: stock += qty для товаров с учётом остатков.
	IncrementStock(ctx context.Context, id uint, qty int) (bool, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("active = ?", true).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *productRepo) ListActiveByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ? AND active = ?", categoryID, true).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *productRepo) UpdateFields(ctx context.Context, id uint, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	tx := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) SetActive(ctx context.Context, id uint, active bool) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("active", active)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) SetStock(ctx context.Context, id uint, qty int) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock_quantity = @q,
    updated_at = CURRENT_TIMESTAMP
WHERE id = @id
  AND track_stock
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) TryDecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock_quantity = stock_quantity - @q,
    updated_at = CURRENT_TIMESTAMP
WHERE id = @id
  AND track_stock
  AND stock_quantity >= @q
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) IncrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock_quantity = stock_quantity + @q,
    updated_at = CURRENT_TIMESTAMP
WHERE id = @id
  AND track_stock
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}
