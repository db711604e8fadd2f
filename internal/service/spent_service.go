package service

import (
	"context"
	"strings"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SpentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSpentService(repo *repository.Repository, log *zap.Logger) *SpentService {
	return &SpentService{repo: repo, log: log}
}

type CreateSpentInput struct {
	Title  string          `json:"title" validate:"required,min=2,max=100"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Note   *string         `json:"note" validate:"omitempty,max=1000"`
}

type UpdateSpentInput struct {
	ID     uint             `json:"id" validate:"required"`
	Title  *string          `json:"title" validate:"omitempty,min=2,max=100"`
	Amount *decimal.Decimal `json:"amount" validate:"omitempty,gt=0"`
	Note   *string          `json:"note" validate:"omitempty,max=1000"`
}

type SpentCreator struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type SpentView struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Note      *string         `json:"note"`
	CreatorID uint            `json:"creatorId"`
	Creator   SpentCreator    `json:"creator"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func newSpentView(sp *models.Spent) SpentView {
	v := SpentView{
		ID:        sp.ID,
		Title:     sp.Title,
		Amount:    sp.Amount,
		Note:      sp.Note,
		CreatorID: sp.CreatorID,
		Creator:   SpentCreator{ID: sp.CreatorID},
		CreatedAt: sp.CreatedAt,
		UpdatedAt: sp.UpdatedAt,
	}
	if sp.Creator != nil {
		v.Creator.Username = sp.Creator.Username
	}
	return v
}

func (s *SpentService) GetAll(ctx context.Context, in DateRangeInput) ([]SpentView, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	list, err := s.repo.Spents.List(ctx, repository.SpentListFilter{From: in.From, To: in.To})
	if err != nil {
		return nil, err
	}
	out := make([]SpentView, 0, len(list))
	for i := range list {
		out = append(out, newSpentView(&list[i]))
	}
	return out, nil
}

func (s *SpentService) GetByID(ctx context.Context, in IDInput) (*SpentView, error) {
	sp, err := s.get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	v := newSpentView(sp)
	return &v, nil
}

func (s *SpentService) Create(ctx context.Context, in CreateSpentInput) (*SpentView, error) {
	caller, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	sp := &models.Spent{
		Title:     strings.TrimSpace(in.Title),
		Amount:    in.Amount,
		Note:      in.Note,
		CreatorID: caller.UserID,
	}
	if err := s.repo.Spents.Create(ctx, sp); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, IDInput{ID: sp.ID})
}

// Update разрешён автору расхода и администратору.
func (s *SpentService) Update(ctx context.Context, in UpdateSpentInput) (*SpentView, error) {
	sp, err := s.ownedBy(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Amount != nil {
		fields["amount"] = *in.Amount
	}
	if in.Note != nil {
		fields["note"] = *in.Note
	}
	if _, err := s.repo.Spents.UpdateFields(ctx, sp.ID, fields); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, IDInput{ID: sp.ID})
}

func (s *SpentService) Delete(ctx context.Context, in IDInput) (*SpentView, error) {
	sp, err := s.ownedBy(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.Spents.Delete(ctx, sp.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSpentNotFound
	}
	v := newSpentView(sp)
	return &v, nil
}

func (s *SpentService) get(ctx context.Context, id uint) (*models.Spent, error) {
	sp, err := s.repo.Spents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrSpentNotFound
	}
	return sp, nil
}

func (s *SpentService) ownedBy(ctx context.Context, id uint) (*models.Spent, error) {
	caller, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	sp, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && sp.CreatorID != caller.UserID {
		return nil, ErrForbidden
	}
	return sp, nil
}
