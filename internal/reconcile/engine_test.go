package reconcile_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/matchbook/internal/order"
	"github.com/MrJamesThe3rd/matchbook/internal/reconcile"
)

func newEngine(orders reconcile.OrderRepository) *reconcile.Engine {
	return reconcile.NewEngine(reconcile.NewFinder(orders, 10), reconcile.NewScorer())
}

func TestEngine_Suggest_Ordering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tx := newTx("100.00", day, "John Smith")

	perfect := newOrder("100.00", day, "John Smith")
	noName := newOrder("100.00", day, "Jane Doe")

	tieLow := newOrder("100.00", day, "Jane Doe")
	tieLow.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	tieHigh := newOrder("100.00", day, "Jane Doe")
	tieHigh.ID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	noName.ID = uuid.MustParse("88888888-8888-8888-8888-888888888888")

	orders := reconcile.NewMockOrderRepository(ctrl)
	orders.EXPECT().
		FindCandidates(gomock.Any(), gomock.Any()).
		Return([]*order.Order{tieHigh, noName, perfect, tieLow}, nil)

	engine := newEngine(orders)

	got, err := engine.Suggest(context.Background(), tx)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, perfect.ID, got[0].OrderID)
	assert.Equal(t, 200.0, got[0].Score.Total)
	assert.Equal(t, reconcile.LevelHigh, got[0].Score.Level)

	// Equal scores sort by order id ascending.
	assert.Equal(t, tieLow.ID, got[1].OrderID)
	assert.Equal(t, noName.ID, got[2].OrderID)
	assert.Equal(t, tieHigh.ID, got[3].OrderID)

	for _, s := range got[1:] {
		assert.Equal(t, 150.0, s.Score.Total)
	}
}

func TestEngine_Suggest_CapsAtFive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tx := newTx("100.00", day, "")

	var candidates []*order.Order
	for i := 0; i < 7; i++ {
		candidates = append(candidates, newOrder("100.00", day, fmt.Sprintf("Customer %d", i)))
	}

	orders := reconcile.NewMockOrderRepository(ctrl)
	orders.EXPECT().
		FindCandidates(gomock.Any(), gomock.Any()).
		Return(candidates, nil)

	engine := newEngine(orders)

	got, err := engine.Suggest(context.Background(), tx)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestEngine_Suggest_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tx := newTx("100.00", day, "John Smith")

	candidates := []*order.Order{
		newOrder("100.00", day, "John Smith"),
		newOrder("99.00", day.AddDate(0, 0, 1), "Jane Doe"),
		newOrder("101.00", day.AddDate(0, 0, -1), "John Smith Ltd"),
	}

	orders := reconcile.NewMockOrderRepository(ctrl)
	orders.EXPECT().
		FindCandidates(gomock.Any(), gomock.Any()).
		Return(candidates, nil).
		Times(2)

	engine := newEngine(orders)

	first, err := engine.Suggest(context.Background(), tx)
	require.NoError(t, err)

	second, err := engine.Suggest(context.Background(), tx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Suggest_EmptyCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tx := newTx("100.00", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), "")

	orders := reconcile.NewMockOrderRepository(ctrl)
	orders.EXPECT().
		FindCandidates(gomock.Any(), gomock.Any()).
		Return(nil, nil)

	engine := newEngine(orders)

	got, err := engine.Suggest(context.Background(), tx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
