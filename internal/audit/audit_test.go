package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/matchbook/internal/audit"
)

func TestLogger_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := audit.NewMockSink(ctrl)
	logger := audit.NewLogger(sink)

	entityID := uuid.New()

	sink.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *audit.Entry) error {
			assert.Equal(t, "bank_transaction", entry.EntityType)
			assert.Equal(t, entityID, entry.EntityID)
			assert.Equal(t, audit.ActionMatched, entry.Action)
			assert.Equal(t, audit.ActorSystem, entry.Actor)

			var detail map[string]any
			require.NoError(t, json.Unmarshal(entry.Detail, &detail))
			assert.Equal(t, float64(200), detail["score"])

			return nil
		})

	logger.Record(context.Background(), "bank_transaction", entityID, audit.ActionMatched, audit.ActorSystem, map[string]any{
		"score": 200,
	})
}

func TestLogger_Record_SwallowsSinkError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := audit.NewMockSink(ctrl)
	logger := audit.NewLogger(sink)

	sink.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("audit db down"))

	// Must not panic or propagate; Record has no error to return.
	logger.Record(context.Background(), "bank_transaction", uuid.New(), audit.ActionNoMatch, audit.ActorSystem, nil)
}

func TestLogger_Record_UnmarshalableDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := audit.NewMockSink(ctrl)
	logger := audit.NewLogger(sink)

	sink.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *audit.Entry) error {
			// The entry is still written, just without the detail blob.
			assert.Nil(t, entry.Detail)

			return nil
		})

	logger.Record(context.Background(), "bank_transaction", uuid.New(), audit.ActionMatchFailed, audit.ActorSystem, make(chan int))
}

func TestLogger_Trail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := audit.NewMockSink(ctrl)
	logger := audit.NewLogger(sink)

	entityID := uuid.New()
	entries := []*audit.Entry{
		{ID: uuid.New(), Action: audit.ActionSentToReview},
		{ID: uuid.New(), Action: audit.ActionMatched},
	}

	sink.EXPECT().ListByEntity(gomock.Any(), "bank_transaction", entityID).Return(entries, nil)

	got, err := logger.Trail(context.Background(), "bank_transaction", entityID)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
