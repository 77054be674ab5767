package reconcile_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/matchbook/internal/order"
	"github.com/MrJamesThe3rd/matchbook/internal/reconcile"
	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

func newTx(amount string, date time.Time, reference string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
		Reference: reference,
		Status:    transaction.StatusUnmatched,
	}
}

func newOrder(amount string, date time.Time, customerName string) *order.Order {
	return &order.Order{
		ID:           uuid.New(),
		CustomerName: customerName,
		TotalAmount:  decimal.RequireFromString(amount),
		OrderDate:    date,
		Status:       "completed",
	}
}

func TestScorer_Score(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name        string
		tx          *transaction.Transaction
		ord         *order.Order
		wantTotal   float64
		wantLevel   reconcile.ConfidenceLevel
		wantAmount  float64
		wantDate    float64
		wantName    float64
		wantInvalid bool
	}

	tests := []testCase{
		{
			name:       "PerfectMatch",
			tx:         newTx("50.00", day, "John Smith"),
			ord:        newOrder("50.00", day, "John Smith"),
			wantTotal:  200,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
			wantName:   50,
		},
		{
			name:       "AmountUpperBoundInside",
			tx:         newTx("100.00", day, ""),
			ord:        newOrder("104.99", day, "Jane Doe"),
			wantTotal:  150,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
		},
		{
			name:       "AmountUpperBoundExact",
			tx:         newTx("100.00", day, ""),
			ord:        newOrder("105.00", day, "Jane Doe"),
			wantTotal:  150,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
		},
		{
			name:      "AmountAboveWindow",
			tx:        newTx("100.00", day, ""),
			ord:       newOrder("105.01", day, "Jane Doe"),
			wantTotal: 50,
			wantLevel: reconcile.LevelLow,
			wantDate:  50,
		},
		{
			name:       "AmountLowerBoundExact",
			tx:         newTx("100.00", day, ""),
			ord:        newOrder("95.00", day, "Jane Doe"),
			wantTotal:  150,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
		},
		{
			name:      "AmountBelowWindow",
			tx:        newTx("100.00", day, ""),
			ord:       newOrder("94.99", day, "Jane Doe"),
			wantTotal: 50,
			wantLevel: reconcile.LevelLow,
			wantDate:  50,
		},
		{
			name:       "DateTwoDaysOffInclusive",
			tx:         newTx("100.00", day, ""),
			ord:        newOrder("100.00", day.AddDate(0, 0, 2), "Jane Doe"),
			wantTotal:  150,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
		},
		{
			name:       "DateThreeDaysOff",
			tx:         newTx("100.00", day, ""),
			ord:        newOrder("100.00", day.AddDate(0, 0, -3), "Jane Doe"),
			wantTotal:  100,
			wantLevel:  reconcile.LevelMedium,
			wantAmount: 100,
		},
		{
			name:       "TimeOfDayIgnored",
			tx:         newTx("100.00", day.Add(23*time.Hour), ""),
			ord:        newOrder("100.00", day.AddDate(0, 0, 2).Add(1*time.Hour), "Jane Doe"),
			wantTotal:  150,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
		},
		{
			name:       "NameCaseInsensitiveSubstring",
			tx:         newTx("100.00", day, "DEPOSIT john smith REF 1234"),
			ord:        newOrder("100.00", day, "John Smith"),
			wantTotal:  200,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
			wantName:   50,
		},
		{
			name:       "NameMismatchExactAmountAndDate",
			tx:         newTx("100.00", day, "ACME LTD"),
			ord:        newOrder("100.00", day, "Jane Doe"),
			wantTotal:  150,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
		},
		{
			name:       "EmptyCustomerName",
			tx:         newTx("100.00", day, "John Smith"),
			ord:        newOrder("100.00", day, ""),
			wantTotal:  150,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
		},
		{
			name:       "EmptyReference",
			tx:         newTx("100.00", day, ""),
			ord:        newOrder("100.00", day, "John Smith"),
			wantTotal:  150,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
		},
		{
			name:       "ZeroAmountBothSides",
			tx:         newTx("0.00", day, "John Smith"),
			ord:        newOrder("0.00", day, "John Smith"),
			wantTotal:  200,
			wantLevel:  reconcile.LevelHigh,
			wantAmount: 100,
			wantDate:   50,
			wantName:   50,
		},
		{
			name:        "NegativeTransactionAmount",
			tx:          newTx("-50.00", day, "John Smith"),
			ord:         newOrder("50.00", day, "John Smith"),
			wantTotal:   0,
			wantLevel:   reconcile.LevelLow,
			wantInvalid: true,
		},
		{
			name:        "NegativeOrderAmount",
			tx:          newTx("50.00", day, "John Smith"),
			ord:         newOrder("-50.00", day, "John Smith"),
			wantTotal:   0,
			wantLevel:   reconcile.LevelLow,
			wantInvalid: true,
		},
		{
			name:      "NothingMatches",
			tx:        newTx("100.00", day, "ACME LTD"),
			ord:       newOrder("200.00", day.AddDate(0, 0, 10), "Jane Doe"),
			wantTotal: 0,
			wantLevel: reconcile.LevelLow,
		},
	}

	scorer := reconcile.NewScorer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.tx, tt.ord)

			assert.Equal(t, tt.wantTotal, got.Total)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantAmount, got.Breakdown.Amount)
			assert.Equal(t, tt.wantDate, got.Breakdown.Date)
			assert.Equal(t, tt.wantName, got.Breakdown.Name)
			assert.Equal(t, tt.wantInvalid, got.Breakdown.InvalidAmount)
		})
	}
}

func TestScorer_Deterministic(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	tx := newTx("50.00", day, "John Smith")
	ord := newOrder("50.00", day, "John Smith")

	scorer := reconcile.NewScorer()

	first := scorer.Score(tx, ord)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(tx, ord))
	}
}
