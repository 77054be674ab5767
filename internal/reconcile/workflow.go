package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/matchbook/internal/audit"
	"github.com/MrJamesThe3rd/matchbook/internal/payment"
	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

// Decision thresholds. These are load-bearing business rules shared with
// the upstream accounting process, not tunables.
const (
	// autoMatchThreshold is the scorer's maximum: only a perfect
	// all-components match may be committed without human review.
	autoMatchThreshold = MaxScore

	// reviewThreshold is the floor for flagging a transaction for
	// manual review.
	reviewThreshold = 150.0
)

// EntityTransaction is the audit entity type for bank transactions.
const EntityTransaction = "bank_transaction"

// DecideOutcome applies the decision thresholds to a best candidate
// score: only a perfect score auto-matches, anything from the review
// floor up goes to a human, everything else stays unmatched.
func DecideOutcome(score float64) Outcome {
	switch {
	case score >= autoMatchThreshold:
		return OutcomeMatched
	case score >= reviewThreshold:
		return OutcomeNeedsReview
	default:
		return OutcomeNoMatch
	}
}

//go:generate mockgen -source=workflow.go -destination=workflow_mock.go -package=reconcile
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status transaction.Status) error

	BeginMatch(ctx context.Context) (MatchTx, error)
}

// MatchTx is the unit of work for committing a match. Payment creation,
// the transaction-row update and the audit entry commit together or not
// at all.
type MatchTx interface {
	// GetTransactionForUpdate re-fetches the transaction row under a row
	// lock so concurrent match attempts on the same id serialize.
	GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	HasActivePayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, date time.Time) (bool, error)
	CreatePayment(ctx context.Context, p *payment.Payment) error
	MarkMatched(ctx context.Context, params MatchedParams) error
	// AppendAudit must leave the transaction committable when it returns
	// an error; the workflow swallows audit failures and still commits.
	AppendAudit(ctx context.Context, entry *audit.Entry) error
	Commit() error
	Rollback() error
}

// MatchedParams carries the transaction-row mutation of a committed match.
type MatchedParams struct {
	TransactionID   uuid.UUID
	OrderID         uuid.UUID
	PaymentID       uuid.UUID
	MatchedAt       time.Time
	MatchType       transaction.MatchType
	MatchedByUserID *uuid.UUID
	Confidence      float64
}

// Workflow is the reconciliation state machine: it runs the matching
// engine over a transaction, applies the decision thresholds and commits
// the resulting state transition.
type Workflow struct {
	repo    Repository
	orders  OrderRepository
	engine  *Engine
	scorer  *Scorer
	auditor *audit.Logger
	now     func() time.Time
}

func NewWorkflow(repo Repository, orders OrderRepository, engine *Engine, scorer *Scorer, auditor *audit.Logger) *Workflow {
	return &Workflow{
		repo:    repo,
		orders:  orders,
		engine:  engine,
		scorer:  scorer,
		auditor: auditor,
		now:     time.Now,
	}
}

// AutoMatch runs the matching engine for the transaction and either
// commits an auto-match, flags the transaction for review or leaves it
// unmatched, depending on the best candidate's score.
func (w *Workflow) AutoMatch(ctx context.Context, txID uuid.UUID) (*Result, error) {
	tx, err := w.repo.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}

	if tx.Status == transaction.StatusMatched {
		return nil, ErrAlreadyMatched
	}

	suggestions, err := w.engine.Suggest(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("suggesting matches: %w", err)
	}

	if len(suggestions) == 0 {
		w.auditor.Record(ctx, EntityTransaction, tx.ID, audit.ActionNoMatch, audit.ActorSystem, map[string]any{
			"candidate_count": 0,
			"threshold":       reviewThreshold,
		})

		return &Result{Outcome: OutcomeNoMatch, TransactionID: tx.ID, Threshold: reviewThreshold}, nil
	}

	best := suggestions[0]

	switch DecideOutcome(best.Score.Total) {
	case OutcomeMatched:
		return w.executeMatch(ctx, tx.ID, best.OrderID, best.Score, transaction.MatchTypeAuto, nil, "")

	case OutcomeNeedsReview:
		if err := w.repo.UpdateStatus(ctx, tx.ID, transaction.StatusReview); err != nil {
			return nil, fmt.Errorf("sending to review: %w", err)
		}

		w.auditor.Record(ctx, EntityTransaction, tx.ID, audit.ActionSentToReview, audit.ActorSystem, map[string]any{
			"order_id":   best.OrderID,
			"best_score": best.Score.Total,
			"breakdown":  best.Score.Breakdown,
			"threshold":  autoMatchThreshold,
		})

		return &Result{
			Outcome:       OutcomeNeedsReview,
			TransactionID: tx.ID,
			BestScore:     best.Score.Total,
			Threshold:     autoMatchThreshold,
			Suggestion:    &best,
		}, nil

	default:
		w.auditor.Record(ctx, EntityTransaction, tx.ID, audit.ActionNoMatch, audit.ActorSystem, map[string]any{
			"order_id":   best.OrderID,
			"best_score": best.Score.Total,
			"threshold":  reviewThreshold,
		})

		return &Result{
			Outcome:       OutcomeNoMatch,
			TransactionID: tx.ID,
			BestScore:     best.Score.Total,
			Threshold:     reviewThreshold,
			Suggestion:    &best,
		}, nil
	}
}

// ManualMatch commits a human-decided match. The pair is scored for the
// audit record only; manual matches are never rejected for low
// confidence.
func (w *Workflow) ManualMatch(ctx context.Context, txID, orderID, actorID uuid.UUID, reason string) (*Result, error) {
	tx, err := w.repo.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}

	if tx.Status == transaction.StatusMatched {
		return nil, ErrAlreadyMatched
	}

	ord, err := w.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	score := w.scorer.Score(tx, ord)

	return w.executeMatch(ctx, tx.ID, ord.ID, score, transaction.MatchTypeManual, &actorID, reason)
}

// executeMatch commits the match inside a single database transaction and
// writes a durable match_failed audit entry when the commit fails. The
// underlying cause is always re-raised after rollback.
func (w *Workflow) executeMatch(ctx context.Context, txID, orderID uuid.UUID, score Score, matchType transaction.MatchType, actorID *uuid.UUID, reason string) (*Result, error) {
	result, err := w.runMatch(ctx, txID, orderID, score, matchType, actorID, reason)
	if err != nil {
		w.auditor.Record(ctx, EntityTransaction, txID, audit.ActionMatchFailed, actorName(actorID), map[string]any{
			"order_id":   orderID,
			"match_type": matchType,
			"score":      score.Total,
			"error":      err.Error(),
		})

		return nil, err
	}

	return result, nil
}

func (w *Workflow) runMatch(ctx context.Context, txID, orderID uuid.UUID, score Score, matchType transaction.MatchType, actorID *uuid.UUID, reason string) (*Result, error) {
	mtx, err := w.repo.BeginMatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning match: %w", err)
	}
	defer mtx.Rollback()

	// Re-fetch inside the transaction: a concurrent attempt on the same
	// id must observe the status change or the duplicate-payment guard.
	cur, err := mtx.GetTransactionForUpdate(ctx, txID)
	if err != nil {
		return nil, err
	}

	if cur.Status == transaction.StatusMatched {
		return nil, ErrAlreadyMatched
	}

	dup, err := mtx.HasActivePayment(ctx, orderID, cur.Amount, cur.Date)
	if err != nil {
		return nil, fmt.Errorf("checking duplicate payment: %w", err)
	}

	if dup {
		return nil, ErrDuplicatePayment
	}

	p := &payment.Payment{
		OrderID: orderID,
		Amount:  cur.Amount,
		Date:    cur.Date,
		Method:  payment.MethodBankTransfer,
		Status:  payment.StatusPaid,
		Metadata: payment.Metadata{
			TransactionID: cur.ID,
			Reference:     cur.Reference,
			Confidence:    score.Total,
			MatchType:     string(matchType),
			MatchedBy:     actorName(actorID),
			Reason:        reason,
		},
	}
	if err := mtx.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	matchedAt := w.now()

	if err := mtx.MarkMatched(ctx, MatchedParams{
		TransactionID:   cur.ID,
		OrderID:         orderID,
		PaymentID:       p.ID,
		MatchedAt:       matchedAt,
		MatchType:       matchType,
		MatchedByUserID: actorID,
		Confidence:      score.Total,
	}); err != nil {
		return nil, fmt.Errorf("marking transaction matched: %w", err)
	}

	// Audit inside the unit of work so the entry commits with the match.
	// A failed insert is logged and swallowed: audit must never break
	// the main flow.
	detail, _ := json.Marshal(map[string]any{
		"order_id":   orderID,
		"payment_id": p.ID,
		"match_type": matchType,
		"score":      score.Total,
		"breakdown":  score.Breakdown,
		"reason":     reason,
	})
	if err := mtx.AppendAudit(ctx, &audit.Entry{
		EntityType: EntityTransaction,
		EntityID:   cur.ID,
		Action:     audit.ActionMatched,
		Actor:      actorName(actorID),
		Detail:     detail,
	}); err != nil {
		slog.Error("failed to write match audit entry", "transaction_id", cur.ID, "error", err)
	}

	if err := mtx.Commit(); err != nil {
		return nil, fmt.Errorf("committing match: %w", err)
	}

	return &Result{
		Outcome:       OutcomeMatched,
		TransactionID: cur.ID,
		OrderID:       &orderID,
		PaymentID:     &p.ID,
		Confidence:    score.Total,
		MatchType:     matchType,
	}, nil
}

func actorName(actorID *uuid.UUID) string {
	if actorID == nil {
		return audit.ActorSystem
	}

	return actorID.String()
}
