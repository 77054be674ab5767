package reconcile

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/matchbook/internal/order"
	"github.com/MrJamesThe3rd/matchbook/internal/reconcile"
	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

type Handler struct {
	workflow *reconcile.Workflow
	engine   *reconcile.Engine
	txs      *transaction.Service
}

func NewHandler(workflow *reconcile.Workflow, engine *reconcile.Engine, txs *transaction.Service) *Handler {
	return &Handler{workflow: workflow, engine: engine, txs: txs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/transactions/{id}/automatch", h.autoMatch)
	r.Post("/transactions/{id}/match", h.manualMatch)
	r.Get("/transactions/{id}/suggestions", h.suggestions)
}

func (h *Handler) autoMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	result, err := h.workflow.AutoMatch(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(result))
}

type manualMatchRequest struct {
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason,omitempty"`
}

func (h *Handler) manualMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	// The authenticated user id is supplied by the web layer.
	actorID, err := uuid.Parse(r.Header.Get("X-User-ID"))
	if err != nil {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}

	var req manualMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.OrderID == uuid.Nil {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.workflow.ManualMatch(r.Context(), id, req.OrderID, actorID, req.Reason)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(result))
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	tx, err := h.txs.Get(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	suggestions, err := h.engine.Suggest(r.Context(), tx)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toSuggestionsResponse(id, suggestions))
}

func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, order.ErrNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, reconcile.ErrAlreadyMatched):
		http.Error(w, "transaction already matched", http.StatusConflict)
	case errors.Is(err, reconcile.ErrDuplicatePayment):
		http.Error(w, "payment already recorded for this order, amount and date", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
