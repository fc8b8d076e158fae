package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"restaurant-order-services/internal/db"
	"restaurant-order-services/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRollback = errors.New("rollback")

// withPostgres runs fn inside a transaction that is always rolled back, so
// the target database is left untouched.
func withPostgres(t *testing.T, fn func(ctx context.Context, q Querier)) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool))

	err = NewPostgres(pool).InTx(ctx, func(q Querier) error {
		fn(ctx, q)
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)
}

func scratchTableNumber() int32 {
	return int32(time.Now().UnixNano()%1_000_000_000) + 1_000_000
}

func TestPostgresActiveSessionIgnoresTerminalOrders(t *testing.T) {
	withPostgres(t, func(ctx context.Context, q Querier) {
		table, err := q.CreateTable(ctx, models.Table{TableNumber: scratchTableNumber(), Capacity: 2, Status: models.TableAvailable})
		require.NoError(t, err)
		require.NoError(t, q.LockTable(ctx, table.ID))

		_, ok, err := q.ActiveSessionID(ctx, table.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		_, err = q.InsertOrder(ctx, models.Order{TableID: table.ID, SessionID: "old", Status: models.OrderPending, TotalAmount: decimal.Zero, CreatedAt: base})
		require.NoError(t, err)
		served, err := q.InsertOrder(ctx, models.Order{TableID: table.ID, SessionID: "newer", Status: models.OrderServed, TotalAmount: decimal.Zero, CreatedAt: base.Add(time.Minute)})
		require.NoError(t, err)

		sessionID, ok, err := q.ActiveSessionID(ctx, table.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "old", sessionID)

		updated, err := q.UpdateOrderStatus(ctx, served.ID, models.OrderPreparing)
		require.NoError(t, err)
		require.True(t, updated)

		sessionID, ok, err = q.ActiveSessionID(ctx, table.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "newer", sessionID)
	})
}

func TestPostgresUpdateInventoryStockKeepsRestockStamp(t *testing.T) {
	withPostgres(t, func(ctx context.Context, q Querier) {
		item, err := q.InsertInventoryItem(ctx, models.InventoryItem{
			Name:              "Basmati Rice",
			Quantity:          decimal.RequireFromString("10"),
			UnitType:          models.UnitKilogram,
			MinimumStockLevel: decimal.RequireFromString("2"),
			MaximumStockLevel: decimal.RequireFromString("40"),
			Status:            models.StockIn,
			Cost:              decimal.RequireFromString("3.50"),
		})
		require.NoError(t, err)
		assert.Nil(t, item.LastRestockedAt)

		restocked := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)
		require.NoError(t, q.UpdateInventoryStock(ctx, item.ID, decimal.RequireFromString("25.5"), models.StockIn, &restocked))

		locked, err := q.GetInventoryItemForUpdate(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, locked.Quantity.Equal(decimal.RequireFromString("25.5")))
		require.NotNil(t, locked.LastRestockedAt)
		assert.True(t, restocked.Equal(*locked.LastRestockedAt))

		require.NoError(t, q.UpdateInventoryStock(ctx, item.ID, decimal.RequireFromString("1"), models.StockLow, nil))

		got, err := q.GetInventoryItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StockLow, got.Status)
		require.NotNil(t, got.LastRestockedAt)
		assert.True(t, restocked.Equal(*got.LastRestockedAt))

		err = q.UpdateInventoryStock(ctx, item.ID+1_000_000, decimal.Zero, models.StockOut, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
