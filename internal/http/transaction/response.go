package transaction

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/matchbook/internal/audit"
	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

type transactionResponse struct {
	ID              uuid.UUID             `json:"id"`
	Amount          decimal.Decimal       `json:"amount"`
	Date            time.Time             `json:"date"`
	Reference       string                `json:"reference,omitempty"`
	Status          transaction.Status    `json:"status"`
	OrderID         *uuid.UUID            `json:"order_id,omitempty"`
	PaymentID       *uuid.UUID            `json:"payment_id,omitempty"`
	MatchedAt       *time.Time            `json:"matched_at,omitempty"`
	MatchedBy       *transaction.MatchType `json:"matched_by,omitempty"`
	MatchedByUserID *uuid.UUID            `json:"matched_by_user_id,omitempty"`
	ConfidenceScore *float64              `json:"confidence_score,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       *time.Time            `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID,
		Amount:          tx.Amount,
		Date:            tx.Date,
		Reference:       tx.Reference,
		Status:          tx.Status,
		OrderID:         tx.OrderID,
		PaymentID:       tx.PaymentID,
		MatchedAt:       tx.MatchedAt,
		MatchedBy:       tx.MatchedBy,
		MatchedByUserID: tx.MatchedByUserID,
		ConfidenceScore: tx.ConfidenceScore,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type statsResponse struct {
	Total          int64           `json:"total"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	UnmatchedCount int64           `json:"unmatched_count"`
	UnmatchedSum   decimal.Decimal `json:"unmatched_sum"`
	ReviewCount    int64           `json:"review_count"`
	ReviewSum      decimal.Decimal `json:"review_sum"`
	MatchedCount   int64           `json:"matched_count"`
	MatchedSum     decimal.Decimal `json:"matched_sum"`
}

func toStatsResponse(s transaction.Stats) statsResponse {
	return statsResponse{
		Total:          s.Total,
		TotalAmount:    s.TotalAmount,
		UnmatchedCount: s.UnmatchedCount,
		UnmatchedSum:   s.UnmatchedSum,
		ReviewCount:    s.ReviewCount,
		ReviewSum:      s.ReviewSum,
		MatchedCount:   s.MatchedCount,
		MatchedSum:     s.MatchedSum,
	}
}

type auditResponse struct {
	ID        uuid.UUID       `json:"id"`
	Action    string          `json:"action"`
	Actor     string          `json:"actor"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toAuditResponseList(entries []*audit.Entry) []auditResponse {
	resp := make([]auditResponse, len(entries))
	for i, e := range entries {
		resp[i] = auditResponse{
			ID:        e.ID,
			Action:    e.Action,
			Actor:     e.Actor,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		}
	}

	return resp
}
