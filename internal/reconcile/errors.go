package reconcile

import "errors"

var (
	// ErrAlreadyMatched is returned when a match is attempted on a
	// transaction that another attempt already matched. Not transient;
	// callers must not retry.
	ErrAlreadyMatched = errors.New("transaction already matched")

	// ErrDuplicatePayment is returned when an active payment already
	// exists for the same order, amount and date.
	ErrDuplicatePayment = errors.New("payment already recorded for this order, amount and date")
)
