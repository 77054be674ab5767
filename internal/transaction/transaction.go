package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the reconciliation state of a bank transaction.
type Status string

const (
	StatusUnmatched Status = "unmatched"
	StatusReview    Status = "review"
	StatusMatched   Status = "matched"
)

// MatchType records how a transaction was matched to an order.
type MatchType string

const (
	MatchTypeAuto   MatchType = "AUTO"
	MatchTypeManual MatchType = "MANUAL"
)

// Transaction represents a bank deposit awaiting reconciliation.
// Rows are created by upstream bank-feed ingestion; only the reconciliation
// workflow mutates the status and match columns.
type Transaction struct {
	ID              uuid.UUID
	Amount          decimal.Decimal
	Date            time.Time
	Reference       string // free-text payer name / bank reference
	Status          Status
	OrderID         *uuid.UUID
	PaymentID       *uuid.UUID
	MatchedAt       *time.Time
	MatchedBy       *MatchType
	MatchedByUserID *uuid.UUID
	ConfidenceScore *float64
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
