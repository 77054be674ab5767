package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	StatusStats(ctx context.Context) (Stats, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

// Stats aggregates transaction counts and amount sums per status,
// for the reconciliation dashboard.
type Stats struct {
	Total          int64
	TotalAmount    decimal.Decimal
	UnmatchedCount int64
	UnmatchedSum   decimal.Decimal
	ReviewCount    int64
	ReviewSum      decimal.Decimal
	MatchedCount   int64
	MatchedSum     decimal.Decimal
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.StatusStats(ctx)
}
