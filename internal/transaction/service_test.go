package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/matchbook/internal/transaction"
)

func TestService_Get(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository, id uuid.UUID)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository, id uuid.UUID) {
				m.EXPECT().
					GetTransaction(gomock.Any(), id).
					Return(&transaction.Transaction{
						ID:     id,
						Amount: decimal.RequireFromString("125.50"),
						Status: transaction.StatusUnmatched,
					}, nil)
			},
		},
		{
			name: "NotFound",
			setupMock: func(m *transaction.MockRepository, id uuid.UUID) {
				m.EXPECT().
					GetTransaction(gomock.Any(), id).
					Return(nil, transaction.ErrNotFound)
			},
			wantErr: transaction.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			svc := transaction.NewService(repo)

			id := uuid.New()
			tt.setupMock(repo, id)

			got, err := svc.Get(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	status := transaction.StatusReview
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := transaction.ListFilter{Status: &status, StartDate: &start}

	want := []*transaction.Transaction{
		{ID: uuid.New(), Status: transaction.StatusReview},
	}

	repo.EXPECT().ListTransactions(gomock.Any(), filter).Return(want, nil)

	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	want := transaction.Stats{
		Total:          3,
		TotalAmount:    decimal.RequireFromString("600.00"),
		UnmatchedCount: 1,
		UnmatchedSum:   decimal.RequireFromString("100.00"),
		ReviewCount:    1,
		ReviewSum:      decimal.RequireFromString("200.00"),
		MatchedCount:   1,
		MatchedSum:     decimal.RequireFromString("300.00"),
	}

	repo.EXPECT().StatusStats(gomock.Any()).Return(want, nil)

	got, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	repo.EXPECT().StatusStats(gomock.Any()).Return(transaction.Stats{}, errors.New("db down"))

	_, err = svc.Stats(context.Background())
	assert.Error(t, err)
}
