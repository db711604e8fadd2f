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

type OrderListFilter struct {
	From   *time.Time
	To     *time.Time
	Status *models.OrderStatus
}

type OrderTotals struct {
	Count int64
	Total decimal.Decimal
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	// GetDetailed подгружает создателя, клиента и позиции с товарами.
	GetDetailed(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]models.Order, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) (bool, error)
	// Totals суммирует итоги заказов без учёта отменённых.
	Totals(ctx context.Context, f OrderListFilter) (OrderTotals, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetDetailed(ctx context.Context, id uint) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product").
		First(&ord, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) scoped(ctx context.Context, f OrderListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if f.From != nil {
		q = q.Where("orders.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("orders.created_at <= ?", *f.To)
	}
	if f.Status != nil {
		q = q.Where("orders.status = ?", *f.Status)
	}
	return q
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]models.Order, error) {
	var list []models.Order
	err := r.scoped(ctx, f).
		Preload("Creator").
		Preload("Client").
		Order("orders.created_at DESC, orders.id DESC").
		Find(&list).Error
	return list, err
}

func (r *orderRepo) UpdateFields(ctx context.Context, id uint, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	return tx.RowsAffected > 0, tx.Error
}

func (r *orderRepo) Totals(ctx context.Context, f OrderListFilter) (OrderTotals, error) {
	var totals []decimal.Decimal
	err := r.scoped(ctx, f).
		Where("orders.status <> ?", models.OrderStatusCancelled).
		Pluck("orders.total", &totals).Error
	if err != nil {
		return OrderTotals{}, err
	}

	out := OrderTotals{Count: int64(len(totals)), Total: decimal.Zero}
	for _, t := range totals {
		out.Total = out.Total.Add(t)
	}
	return out, nil
}
