package service

import (
	"context"
	"strings"

	"pos-service/internal/models"
	"pos-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProductService(repo *repository.Repository, log *zap.Logger) *ProductService {
	return &ProductService{repo: repo, log: log}
}

type CreateProductInput struct {
	Name          string          `json:"name" validate:"required,min=2,max=100"`
	Price         decimal.Decimal `json:"price" validate:"gt=0"`
	Description   string          `json:"description" validate:"max=1000"`
	Image         string          `json:"image" validate:"max=2048"`
	StockQuantity int             `json:"stockQuantity" validate:"min=0"`
	TrackStock    *bool           `json:"trackStock"`
	CategoryID    uint            `json:"categoryId" validate:"required"`
}

type UpdateProductInput struct {
	ID          uint             `json:"id" validate:"required"`
	Name        *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Image       *string          `json:"image" validate:"omitempty,max=2048"`
	TrackStock  *bool            `json:"trackStock"`
	CategoryID  *uint            `json:"categoryId" validate:"omitempty,gt=0"`
}

type CategoryIDInput struct {
	CategoryID uint `json:"categoryId" validate:"required"`
}

func (in *CategoryIDInput) UnmarshalJSON(data []byte) error {
	type plain CategoryIDInput
	return unmarshalBareID(data, &in.CategoryID, (*plain)(in))
}

type UpdateStockInput struct {
	ID            uint `json:"id" validate:"required"`
	StockQuantity *int `json:"stockQuantity" validate:"required,min=0"`
}

func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	return s.repo.Products.ListActive(ctx)
}

func (s *ProductService) GetByCategory(ctx context.Context, in CategoryIDInput) ([]models.Product, error) {
	return s.repo.Products.ListActiveByCategory(ctx, in.CategoryID)
}

func (s *ProductService) GetByID(ctx context.Context, in IDInput) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	track := true
	if in.TrackStock != nil {
		track = *in.TrackStock
	}
	p := &models.Product{
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		Description:   in.Description,
		Image:         in.Image,
		StockQuantity: in.StockQuantity,
		TrackStock:    track,
		Active:        true,
		CategoryID:    in.CategoryID,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, IDInput{ID: p.ID})
}

// Update меняет только переданные поля; остаток меняется через UpdateStock.
func (s *ProductService) Update(ctx context.Context, in UpdateProductInput) (*models.Product, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.TrackStock != nil {
		fields["track_stock"] = *in.TrackStock
	}
	if in.CategoryID != nil {
		if err := s.ensureCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *in.CategoryID
	}

	ok, err := s.repo.Products.UpdateFields(ctx, in.ID, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotFound
	}
	return s.GetByID(ctx, IDInput{ID: in.ID})
}

// Delete выполняет мягкое удаление: строка остаётся, на неё ссылаются позиции заказов.
func (s *ProductService) Delete(ctx context.Context, in IDInput) (*models.Product, error) {
	return s.setActive(ctx, in.ID, false)
}

func (s *ProductService) Restore(ctx context.Context, in IDInput) (*models.Product, error) {
	return s.setActive(ctx, in.ID, true)
}

func (s *ProductService) UpdateStock(ctx context.Context, in UpdateStockInput) (*models.Product, error) {
	p, err := s.GetByID(ctx, IDInput{ID: in.ID})
	if err != nil {
		return nil, err
	}
	if !p.TrackStock {
		return nil, ErrStockNotTracked
	}

	ok, err := s.repo.Products.SetStock(ctx, in.ID, *in.StockQuantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		// учёт остатков отключили между чтением и записью
		return nil, ErrStockNotTracked
	}

	s.log.Info("Остаток товара обновлён",
		zap.Uint("product_id", in.ID), zap.Int("from", p.StockQuantity), zap.Int("to", *in.StockQuantity))
	return s.GetByID(ctx, IDInput{ID: in.ID})
}

func (s *ProductService) setActive(ctx context.Context, id uint, active bool) (*models.Product, error) {
	ok, err := s.repo.Products.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotFound
	}
	return s.GetByID(ctx, IDInput{ID: id})
}

func (s *ProductService) ensureCategory(ctx context.Context, id uint) error {
	c, err := s.repo.Categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCategoryNotFound
	}
	if !c.Active {
		return ErrCategoryInactive
	}
	return nil
}
