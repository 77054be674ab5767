package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ActorSystem is recorded for decisions made without a human actor.
const ActorSystem = "SYSTEM"

// Actions emitted by the reconciliation workflow.
const (
	ActionMatched      = "matched"
	ActionMatchFailed  = "match_failed"
	ActionSentToReview = "sent_to_review"
	ActionNoMatch      = "no_match"
)

// Entry is a single append-only audit record. Entries are never mutated
// or deleted.
type Entry struct {
	ID         uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Action     string
	Actor      string
	Detail     json.RawMessage
	CreatedAt  time.Time
}

//go:generate mockgen -source=audit.go -destination=sink_mock.go -package=audit
type Sink interface {
	Append(ctx context.Context, entry *Entry) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Entry, error)
}

// Logger records audit entries best-effort. A failing sink must never
// break the flow that produced the entry, so Append errors are logged
// and swallowed.
type Logger struct {
	sink Sink
}

func NewLogger(sink Sink) *Logger {
	return &Logger{sink: sink}
}

// Record appends an audit entry. The detail value is marshalled to JSON;
// marshal and sink failures are logged locally and never propagated.
func (l *Logger) Record(ctx context.Context, entityType string, entityID uuid.UUID, action, actor string, detail any) {
	blob, err := json.Marshal(detail)
	if err != nil {
		slog.Error("failed to marshal audit detail", "action", action, "entity_id", entityID, "error", err)
		blob = nil
	}

	entry := &Entry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      actor,
		Detail:     blob,
	}

	if err := l.sink.Append(ctx, entry); err != nil {
		slog.Error("failed to write audit entry", "action", action, "entity_id", entityID, "error", err)
	}
}

// Trail returns the audit entries recorded for an entity, oldest first.
func (l *Logger) Trail(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Entry, error) {
	return l.sink.ListByEntity(ctx, entityType, entityID)
}
