package reconcile

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

// Outcome is the business result of a match attempt. Needs-review and
// no-match are valid outcomes, not errors; only true failures (store
// errors, conflicts) surface as Go errors.
type Outcome string

const (
	OutcomeMatched     Outcome = "matched"
	OutcomeNeedsReview Outcome = "needs_review"
	OutcomeNoMatch     Outcome = "no_match"
)

// Result describes what the workflow decided for a transaction.
type Result struct {
	Outcome       Outcome
	TransactionID uuid.UUID

	// Set when Outcome is OutcomeMatched.
	OrderID    *uuid.UUID
	PaymentID  *uuid.UUID
	Confidence float64
	MatchType  transaction.MatchType

	// Set for needs-review and no-match outcomes so the caller can show
	// how close the best candidate came.
	BestScore  float64
	Threshold  float64
	Suggestion *Suggestion
}
