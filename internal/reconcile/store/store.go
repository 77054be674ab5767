package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/matchbook/internal/audit"
	"github.com/MrJamesThe3rd/matchbook/internal/payment"
	"github.com/MrJamesThe3rd/matchbook/internal/reconcile"
	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
	txstore "github.com/MrJamesThe3rd/matchbook/internal/transaction/store"
)

// Store implements the workflow's repository: transaction reads, the
// review-status update and the transactional match unit of work.
type Store struct {
	db *sql.DB
	tx *txstore.Store
}

func New(db *sql.DB) *Store {
	return &Store{db: db, tx: txstore.New(db)}
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return s.tx.GetTransaction(ctx, id)
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status transaction.Status) error {
	return s.tx.UpdateStatus(ctx, id, status)
}

type matchTx struct {
	tx *sql.Tx
}

// BeginMatch opens the database transaction all match mutations run in.
// READ COMMITTED plus the FOR UPDATE re-fetch is enough to serialize
// concurrent attempts on one transaction row.
func (s *Store) BeginMatch(ctx context.Context) (reconcile.MatchTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning match tx: %w", err)
	}

	return &matchTx{tx: dbTx}, nil
}

func (m *matchTx) Commit() error   { return m.tx.Commit() }
func (m *matchTx) Rollback() error { return m.tx.Rollback() }

const selectTransactionForUpdate = `
	SELECT
		t.id, t.amount, t.date, t.reference, t.status,
		t.order_id, t.payment_id, t.matched_at, t.matched_by, t.matched_by_user_id,
		t.confidence_score, t.created_at, t.updated_at
	FROM bank_transactions t
	WHERE t.id = $1
	FOR UPDATE
`

func (m *matchTx) GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	tx, err := txstore.ScanTransaction(m.tx.QueryRowContext(ctx, selectTransactionForUpdate, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("locking transaction row: %w", err)
	}

	return tx, nil
}

func (m *matchTx) HasActivePayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE order_id = $1 AND amount = $2 AND date = $3 AND status <> $4
		)
	`

	var exists bool
	if err := m.tx.QueryRowContext(ctx, query, orderID, amount, date, payment.StatusVoid).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking active payment: %w", err)
	}

	return exists, nil
}

func (m *matchTx) CreatePayment(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (order_id, amount, date, method, metadata, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling payment metadata: %w", err)
	}

	if err := m.tx.QueryRowContext(ctx, query,
		p.OrderID, p.Amount, p.Date, p.Method, metadata, p.Status,
	).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}

func (m *matchTx) MarkMatched(ctx context.Context, params reconcile.MatchedParams) error {
	query := `
		UPDATE bank_transactions
		SET status = $1, order_id = $2, payment_id = $3, matched_at = $4,
			matched_by = $5, matched_by_user_id = $6, confidence_score = $7,
			updated_at = NOW()
		WHERE id = $8
	`

	res, err := m.tx.ExecContext(ctx, query,
		transaction.StatusMatched,
		params.OrderID,
		params.PaymentID,
		params.MatchedAt,
		params.MatchType,
		params.MatchedByUserID,
		params.Confidence,
		params.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("marking transaction matched: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// AppendAudit inserts the audit entry under a savepoint. A failed insert
// would otherwise abort the whole Postgres transaction and turn the later
// Commit into a rollback; rolling back to the savepoint keeps the match
// mutations committable when the caller decides to swallow the error.
func (m *matchTx) AppendAudit(ctx context.Context, entry *audit.Entry) error {
	if _, err := m.tx.ExecContext(ctx, `SAVEPOINT audit_entry`); err != nil {
		return fmt.Errorf("creating audit savepoint: %w", err)
	}

	query := `
		INSERT INTO audit_entries (entity_type, entity_id, action, actor, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	if _, err := m.tx.ExecContext(ctx, query,
		entry.EntityType, entry.EntityID, entry.Action, entry.Actor, []byte(entry.Detail),
	); err != nil {
		if _, rbErr := m.tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT audit_entry`); rbErr != nil {
			return fmt.Errorf("rolling back audit savepoint: %w", rbErr)
		}

		return fmt.Errorf("appending audit entry: %w", err)
	}

	if _, err := m.tx.ExecContext(ctx, `RELEASE SAVEPOINT audit_entry`); err != nil {
		return fmt.Errorf("releasing audit savepoint: %w", err)
	}

	return nil
}
