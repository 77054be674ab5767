package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/matchbook/internal/order"
	"github.com/MrJamesThe3rd/matchbook/internal/reconcile"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectOrderColumns = `
	o.id, o.customer_name, o.customer_email, o.total_amount, o.order_date, o.outlet_id, o.status
`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*order.Order, error) {
	var ord order.Order

	if err := s.Scan(
		&ord.ID, &ord.CustomerName, &ord.CustomerEmail, &ord.TotalAmount,
		&ord.OrderDate, &ord.OutletID, &ord.Status,
	); err != nil {
		return nil, err
	}

	return &ord, nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + `
		FROM orders o
		WHERE o.id = $1`

	ord, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	return ord, nil
}

// FindCandidates returns orders inside the amount and date windows,
// pre-ranked so the LIMIT keeps the most promising rows. The date window
// bounds are midnights; order_date may carry a time of day, so the upper
// bound spans to the end of the boundary day to match the finder's
// calendar-day filter. Every row in the
// window already carries the amount and date relevance weights, so only
// the name hint differentiates here. The finder re-ranks the result; this
// ordering only decides what survives the cap.
func (s *Store) FindCandidates(ctx context.Context, q reconcile.CandidateQuery) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + `
		FROM orders o
		WHERE o.total_amount >= $1 AND o.total_amount <= $2
		  AND o.order_date >= $3 AND o.order_date < $4 + interval '1 day'
		ORDER BY
			CASE WHEN $5 <> '' AND o.customer_name ILIKE '%' || $5 || '%' THEN 1 ELSE 0 END DESC,
			o.order_date DESC,
			o.id ASC
		LIMIT $6`

	rows, err := s.db.QueryContext(ctx, query,
		q.AmountMin, q.AmountMax, q.DateMin, q.DateMax, q.NameHint, q.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying candidate orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, ord)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}
