package reconcile

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/matchbook/internal/reconcile"
)

type resultResponse struct {
	Success bool           `json:"success"`
	Data    *matchData     `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details *outcomeDetail `json:"details,omitempty"`
}

type matchData struct {
	TransactionID uuid.UUID  `json:"transaction_id"`
	OrderID       *uuid.UUID `json:"order_id"`
	PaymentID     *uuid.UUID `json:"payment_id"`
	Confidence    float64    `json:"confidence"`
	MatchType     string     `json:"match_type"`
}

type outcomeDetail struct {
	Action     string                `json:"action"`
	BestScore  float64               `json:"best_score"`
	Threshold  float64               `json:"threshold"`
	Suggestion *reconcile.Suggestion `json:"suggestion,omitempty"`
}

func toResultResponse(result *reconcile.Result) resultResponse {
	switch result.Outcome {
	case reconcile.OutcomeMatched:
		return resultResponse{
			Success: true,
			Data: &matchData{
				TransactionID: result.TransactionID,
				OrderID:       result.OrderID,
				PaymentID:     result.PaymentID,
				Confidence:    result.Confidence,
				MatchType:     string(result.MatchType),
			},
		}

	case reconcile.OutcomeNeedsReview:
		return resultResponse{
			Success: false,
			Error:   "confidence below auto-match threshold",
			Details: &outcomeDetail{
				Action:     "sent_to_review",
				BestScore:  result.BestScore,
				Threshold:  result.Threshold,
				Suggestion: result.Suggestion,
			},
		}

	default:
		return resultResponse{
			Success: false,
			Error:   "no suitable candidate found",
			Details: &outcomeDetail{
				Action:     "no_match",
				BestScore:  result.BestScore,
				Threshold:  result.Threshold,
				Suggestion: result.Suggestion,
			},
		}
	}
}

type suggestionsResponse struct {
	TransactionID uuid.UUID              `json:"transaction_id"`
	Suggestions   []reconcile.Suggestion `json:"suggestions"`
}

func toSuggestionsResponse(txID uuid.UUID, suggestions []reconcile.Suggestion) suggestionsResponse {
	if suggestions == nil {
		suggestions = []reconcile.Suggestion{}
	}

	return suggestionsResponse{TransactionID: txID, Suggestions: suggestions}
}
