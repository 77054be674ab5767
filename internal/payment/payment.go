package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a payment.
type Status string

const (
	StatusPaid Status = "paid"
	StatusVoid Status = "void"
)

// MethodBankTransfer is the payment method recorded for reconciled deposits.
const MethodBankTransfer = "bank_transfer"

// Payment is the ledger record created when a bank deposit is matched to
// an order. At most one non-void payment may exist per (order, amount,
// date) combination.
type Payment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	Date      time.Time
	Method    string
	Metadata  Metadata
	Status    Status
	CreatedAt time.Time
}

// Metadata is stored alongside the payment so a reconciled deposit can be
// traced back to the bank transaction and the decision that produced it.
type Metadata struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Reference     string    `json:"reference,omitempty"`
	Confidence    float64   `json:"confidence"`
	MatchType     string    `json:"match_type"`
	MatchedBy     string    `json:"matched_by,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}
