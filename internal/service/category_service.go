package service

import (
	"context"
	"strings"

	"pos-service/internal/models"
	"pos-service/internal/repository"

	"go.uber.org/zap"
)

type CategoryService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCategoryService(repo *repository.Repository, log *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateCategoryInput struct {
	ID          uint    `json:"id" validate:"required"`
	Name        *string `json:"name" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.repo.Categories.ListActive(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, in IDInput) (*models.Category, error) {
	c, err := s.repo.Categories.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	existing, err := s.repo.Categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	c := &models.Category{Name: name, Description: in.Description, Active: true}
	if err := s.repo.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		existing, err := s.repo.Categories.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != in.ID {
			return nil, ErrCategoryExists
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	ok, err := s.repo.Categories.UpdateFields(ctx, in.ID, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return s.GetByID(ctx, IDInput{ID: in.ID})
}

// Delete помечает категорию неактивной; товары и история заказов сохраняются.
func (s *CategoryService) Delete(ctx context.Context, in IDInput) (*models.Category, error) {
	return s.setActive(ctx, in.ID, false)
}

func (s *CategoryService) Restore(ctx context.Context, in IDInput) (*models.Category, error) {
	return s.setActive(ctx, in.ID, true)
}

func (s *CategoryService) setActive(ctx context.Context, id uint, active bool) (*models.Category, error) {
	ok, err := s.repo.Categories.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return s.GetByID(ctx, IDInput{ID: id})
}
