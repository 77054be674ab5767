package reconcile

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/matchbook/internal/order"
	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

// DefaultCandidateLimit caps the candidate query when no limit is
// configured.
const DefaultCandidateLimit = 10

// CandidateQuery restricts the order lookup to the tolerance windows
// around a transaction. NameHint is used for relevance ranking only,
// never as a filter.
type CandidateQuery struct {
	AmountMin decimal.Decimal
	AmountMax decimal.Decimal
	DateMin   time.Time
	DateMax   time.Time
	NameHint  string
	Limit     int
}

//go:generate mockgen -source=finder.go -destination=finder_mock.go -package=reconcile
type OrderRepository interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindCandidates(ctx context.Context, q CandidateQuery) ([]*order.Order, error)
}

// Finder locates candidate orders for a transaction within the amount
// and date tolerance windows, ranked by relevance.
type Finder struct {
	orders OrderRepository
	scorer *Scorer
	limit  int
}

func NewFinder(orders OrderRepository, limit int) *Finder {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	return &Finder{orders: orders, scorer: NewScorer(), limit: limit}
}

// Find returns at most the configured number of candidate orders within
// ±5% of the transaction amount and ±2 days of its date, ordered by
// relevance descending, then order date descending, then order id
// ascending. An empty result is not an error.
func (f *Finder) Find(ctx context.Context, tx *transaction.Transaction) ([]*order.Order, error) {
	amountMin, amountMax := amountWindow(tx.Amount)
	dateMin, dateMax := dateWindow(tx.Date)

	candidates, err := f.orders.FindCandidates(ctx, CandidateQuery{
		AmountMin: amountMin,
		AmountMax: amountMax,
		DateMin:   dateMin,
		DateMax:   dateMax,
		NameHint:  tx.Reference,
		Limit:     f.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("finding candidates: %w", err)
	}

	type ranked struct {
		ord       *order.Order
		relevance float64
	}

	// The store pre-ranks and limits for efficiency; the window check and
	// ordering here are the authoritative ones regardless of backend.
	in := make([]ranked, 0, len(candidates))

	for _, ord := range candidates {
		if ord.TotalAmount.LessThan(amountMin) || ord.TotalAmount.GreaterThan(amountMax) {
			continue
		}

		day := midnightUTC(ord.OrderDate)
		if day.Before(dateMin) || day.After(dateMax) {
			continue
		}

		in = append(in, ranked{ord: ord, relevance: f.scorer.Score(tx, ord).Total})
	}

	sort.Slice(in, func(i, j int) bool {
		if in[i].relevance != in[j].relevance {
			return in[i].relevance > in[j].relevance
		}

		di, dj := midnightUTC(in[i].ord.OrderDate), midnightUTC(in[j].ord.OrderDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}

		return bytes.Compare(in[i].ord.ID[:], in[j].ord.ID[:]) < 0
	})

	if len(in) > f.limit {
		in = in[:f.limit]
	}

	result := make([]*order.Order, len(in))
	for i, r := range in {
		result[i] = r.ord
	}

	return result, nil
}
