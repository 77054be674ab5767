package transaction

import "errors"

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")
