package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/MrJamesThe3rd/matchbook/internal/order"
	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

// Component weights and tolerance windows are fixed business rules shared
// by the scorer, the candidate finder and the workflow thresholds.
const (
	amountWeight = 100.0
	dateWeight   = 50.0
	nameWeight   = 50.0

	// MaxScore is a perfect all-components match.
	MaxScore = amountWeight + dateWeight + nameWeight

	dateToleranceDays = 2
)

var (
	amountWindowLow  = decimal.NewFromFloat(0.95)
	amountWindowHigh = decimal.NewFromFloat(1.05)
)

// ConfidenceLevel buckets a score for display. The bucket boundaries line
// up with the workflow thresholds so UI and engine never disagree.
type ConfidenceLevel string

const (
	LevelHigh   ConfidenceLevel = "high"   // >= 150
	LevelMedium ConfidenceLevel = "medium" // >= 100
	LevelLow    ConfidenceLevel = "low"
)

// Breakdown holds the per-component scores behind a total.
type Breakdown struct {
	Amount float64 `json:"amount"`
	Date   float64 `json:"date"`
	Name   float64 `json:"name"`
	// InvalidAmount is set when either amount is negative; the pair is
	// scored zero instead of rejected since this is scoring, not
	// validation.
	InvalidAmount bool `json:"invalid_amount,omitempty"`
}

// Score is the scorer's verdict on one transaction/order pair.
type Score struct {
	Total     float64         `json:"total"`
	Level     ConfidenceLevel `json:"confidence_level"`
	Breakdown Breakdown       `json:"breakdown"`
}

// Scorer computes a deterministic confidence score between a bank
// transaction and a candidate order. Pure, no I/O.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score awards 100 points if the order total is within ±5% of the
// transaction amount, 50 if the order date is within ±2 calendar days
// (inclusive) and 50 if the customer name matches the transaction
// reference case-insensitively. A negative amount on either side scores
// zero with the InvalidAmount flag set.
func (s *Scorer) Score(tx *transaction.Transaction, ord *order.Order) Score {
	if tx.Amount.IsNegative() || ord.TotalAmount.IsNegative() {
		return Score{Total: 0, Level: LevelLow, Breakdown: Breakdown{InvalidAmount: true}}
	}

	var b Breakdown

	low, high := amountWindow(tx.Amount)
	if ord.TotalAmount.GreaterThanOrEqual(low) && ord.TotalAmount.LessThanOrEqual(high) {
		b.Amount = amountWeight
	}

	if withinDays(tx.Date, ord.OrderDate, dateToleranceDays) {
		b.Date = dateWeight
	}

	if nameMatches(tx.Reference, ord.CustomerName) {
		b.Name = nameWeight
	}

	total := b.Amount + b.Date + b.Name

	return Score{Total: total, Level: levelFor(total), Breakdown: b}
}

func levelFor(total float64) ConfidenceLevel {
	switch {
	case total >= reviewThreshold:
		return LevelHigh
	case total >= 100:
		return LevelMedium
	default:
		return LevelLow
	}
}

func amountWindow(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	return amount.Mul(amountWindowLow), amount.Mul(amountWindowHigh)
}

func dateWindow(date time.Time) (time.Time, time.Time) {
	day := midnightUTC(date)
	return day.AddDate(0, 0, -dateToleranceDays), day.AddDate(0, 0, dateToleranceDays)
}

// withinDays compares calendar dates, ignoring the time-of-day component,
// so a same-day boundary is always inclusive.
func withinDays(a, b time.Time, days int) bool {
	delta := midnightUTC(a).Sub(midnightUTC(b)).Hours() / 24
	if delta < 0 {
		delta = -delta
	}

	return delta <= float64(days)
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var nameFolder = cases.Fold()

// nameMatches reports whether the folded customer name and transaction
// reference are both non-empty and one contains the other.
func nameMatches(reference, customerName string) bool {
	ref := strings.TrimSpace(nameFolder.String(reference))
	name := strings.TrimSpace(nameFolder.String(customerName))

	if ref == "" || name == "" {
		return false
	}

	return strings.Contains(ref, name) || strings.Contains(name, ref)
}
