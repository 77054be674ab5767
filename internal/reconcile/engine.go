package reconcile

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

// SuggestionLimit caps the ranked suggestions returned per transaction.
const SuggestionLimit = 5

// Suggestion is a scored candidate order for a transaction. Suggestions
// are recomputed on every call and never cached, so the breakdown always
// reflects current data.
type Suggestion struct {
	OrderID      uuid.UUID `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Score        Score     `json:"score"`
}

// Engine composes the candidate finder and the confidence scorer into a
// ranked suggestion list. No persistence side effects; safe to call
// repeatedly for preview purposes.
type Engine struct {
	finder *Finder
	scorer *Scorer
}

func NewEngine(finder *Finder, scorer *Scorer) *Engine {
	return &Engine{finder: finder, scorer: scorer}
}

// Suggest returns up to SuggestionLimit suggestions for the transaction,
// ordered by total score descending, ties broken by order id ascending.
func (e *Engine) Suggest(ctx context.Context, tx *transaction.Transaction) ([]Suggestion, error) {
	candidates, err := e.finder.Find(ctx, tx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(candidates))

	for _, ord := range candidates {
		suggestions = append(suggestions, Suggestion{
			OrderID:      ord.ID,
			CustomerName: ord.CustomerName,
			Score:        e.scorer.Score(tx, ord),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score.Total != suggestions[j].Score.Total {
			return suggestions[i].Score.Total > suggestions[j].Score.Total
		}

		return bytes.Compare(suggestions[i].OrderID[:], suggestions[j].OrderID[:]) < 0
	})

	if len(suggestions) > SuggestionLimit {
		suggestions = suggestions[:SuggestionLimit]
	}

	return suggestions, nil
}
