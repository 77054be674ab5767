package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.amount, t.date, t.reference, t.status,
	t.order_id, t.payment_id, t.matched_at, t.matched_by, t.matched_by_user_id,
	t.confidence_score, t.created_at, t.updated_at
`

// ScanTransaction reads a transaction row in selectTransactionColumns
// order. Shared with the reconcile store's locked re-fetch.
func ScanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var statusStr string

	var matchedBy sql.NullString

	var confidence sql.NullFloat64

	if err := s.Scan(
		&tx.ID, &tx.Amount, &tx.Date, &tx.Reference, &statusStr,
		&tx.OrderID, &tx.PaymentID, &tx.MatchedAt, &matchedBy, &tx.MatchedByUserID,
		&confidence, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Status = transaction.Status(statusStr)

	if matchedBy.Valid {
		mt := transaction.MatchType(matchedBy.String)
		tx.MatchedBy = &mt
	}

	if confidence.Valid {
		tx.ConfidenceScore = &confidence.Float64
	}

	return &tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM bank_transactions t
		WHERE t.id = $1`

	tx, err := ScanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM bank_transactions t
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date DESC, t.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := ScanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status transaction.Status) error {
	query := `
		UPDATE bank_transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) StatusStats(ctx context.Context) (transaction.Stats, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM bank_transactions
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return transaction.Stats{}, fmt.Errorf("querying transaction stats: %w", err)
	}
	defer rows.Close()

	var stats transaction.Stats

	for rows.Next() {
		var (
			status string
			count  int64
			sum    decimal.Decimal
		)

		if err := rows.Scan(&status, &count, &sum); err != nil {
			return transaction.Stats{}, fmt.Errorf("scanning stats row: %w", err)
		}

		stats.Total += count
		stats.TotalAmount = stats.TotalAmount.Add(sum)

		switch transaction.Status(status) {
		case transaction.StatusUnmatched:
			stats.UnmatchedCount = count
			stats.UnmatchedSum = sum
		case transaction.StatusReview:
			stats.ReviewCount = count
			stats.ReviewSum = sum
		case transaction.StatusMatched:
			stats.MatchedCount = count
			stats.MatchedSum = sum
		}
	}

	if err := rows.Err(); err != nil {
		return transaction.Stats{}, fmt.Errorf("iterating stats rows: %w", err)
	}

	return stats, nil
}
