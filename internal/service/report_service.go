package service

import (
	"context"

	"pos-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ReportService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReportService(repo *repository.Repository, log *zap.Logger) *ReportService {
	return &ReportService{repo: repo, log: log}
}

type SalesSummary struct {
	DateRangeInput
	OrderCount int64           `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
	Expenses   decimal.Decimal `json:"expenses"`
	Net        decimal.Decimal `json:"net"`
}

// Summary: выручка по неотменённым заказам минус расходы за период.
func (s *ReportService) Summary(ctx context.Context, in DateRangeInput) (*SalesSummary, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	totals, err := s.repo.Orders.Totals(ctx, repository.OrderListFilter{From: in.From, To: in.To})
	if err != nil {
		return nil, err
	}
	spent, err := s.repo.Spents.Sum(ctx, repository.SpentListFilter{From: in.From, To: in.To})
	if err != nil {
		return nil, err
	}

	return &SalesSummary{
		DateRangeInput: in,
		OrderCount:     totals.Count,
		Revenue:        totals.Total,
		Expenses:       spent,
		Net:            totals.Total.Sub(spent),
	}, nil
}
