package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an order id does not exist.
var ErrNotFound = errors.New("order not found")

// Order is a sales order considered as a possible match for a bank
// deposit. The reconciliation subsystem never mutates orders.
type Order struct {
	ID            uuid.UUID
	CustomerName  string
	CustomerEmail string
	TotalAmount   decimal.Decimal
	OrderDate     time.Time
	OutletID      string
	Status        string
}
