package service

import (
	"context"
	"strings"

	"pos-service/internal/models"
	"pos-service/internal/repository"

	"go.uber.org/zap"
)

type ClientService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewClientService(repo *repository.Repository, log *zap.Logger) *ClientService {
	return &ClientService{repo: repo, log: log}
}

type CreateClientInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=255"`
}

type UpdateClientInput struct {
	ID      uint    `json:"id" validate:"required"`
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

func (s *ClientService) GetAll(ctx context.Context) ([]models.Client, error) {
	return s.repo.Clients.ListActive(ctx)
}

func (s *ClientService) GetByID(ctx context.Context, in IDInput) (*models.Client, error) {
	c, err := s.repo.Clients.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	return c, nil
}

func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	c := &models.Client{
		Name:    strings.TrimSpace(in.Name),
		Phone:   in.Phone,
		Address: in.Address,
		Active:  true,
	}
	if err := s.repo.Clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, in UpdateClientInput) (*models.Client, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.Address != nil {
		fields["address"] = *in.Address
	}

	ok, err := s.repo.Clients.UpdateFields(ctx, in.ID, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClientNotFound
	}
	return s.GetByID(ctx, IDInput{ID: in.ID})
}

func (s *ClientService) Delete(ctx context.Context, in IDInput) (*models.Client, error) {
	return s.setActive(ctx, in.ID, false)
}

func (s *ClientService) Restore(ctx context.Context, in IDInput) (*models.Client, error) {
	return s.setActive(ctx, in.ID, true)
}

func (s *ClientService) setActive(ctx context.Context, id uint, active bool) (*models.Client, error) {
	ok, err := s.repo.Clients.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClientNotFound
	}
	return s.GetByID(ctx, IDInput{ID: id})
}
