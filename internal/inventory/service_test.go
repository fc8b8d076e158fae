package inventory

import (
	"context"
	"testing"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/events"
	"restaurant-order-services/internal/metrics"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestService(t *testing.T) (*Service, *events.Recorder, *time.Time) {
	t.Helper()
	rec := &events.Recorder{}
	svc := NewService(store.NewMemory(), rec, metrics.New(), nil)
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return clock }
	return svc, rec, &clock
}

func createFlour(t *testing.T, svc *Service, quantity string) models.InventoryItem {
	t.Helper()
	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:              "Flour",
		Quantity:          dec(quantity),
		UnitType:          models.UnitKilogram,
		MinimumStockLevel: dec("5"),
		MaximumStockLevel: dec("50"),
		Cost:              dec("1.20"),
	})
	require.NoError(t, err)
	return item
}

func TestCreateItemValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemInput{
		Name:              "Oil",
		Quantity:          dec("3"),
		UnitType:          models.UnitLiter,
		MinimumStockLevel: dec("10"),
		MaximumStockLevel: dec("10"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	item := createFlour(t, svc, "3")
	assert.Equal(t, models.StockLow, item.Status)
	require.NotNil(t, item.LastRestockedAt)
}

func TestApplyStockUpdateDecreaseToLowStock(t *testing.T) {
	svc, rec, _ := newTestService(t)
	ctx := context.Background()
	item := createFlour(t, svc, "20")
	restockedAt := *item.LastRestockedAt

	userID := int64(42)
	reason := "dinner service"
	updated, err := svc.ApplyStockUpdate(ctx, item.ID, dec("3"), &reason, &userID)
	require.NoError(t, err)

	assert.True(t, updated.Quantity.Equal(dec("3")))
	assert.Equal(t, models.StockLow, updated.Status)
	assert.Equal(t, restockedAt, *updated.LastRestockedAt)

	txns, err := svc.Transactions(ctx, item.ID, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionStockOut, txns[0].Type)
	assert.True(t, txns[0].Quantity.Equal(dec("17")))
	assert.True(t, txns[0].PreviousQuantity.Equal(dec("20")))
	assert.True(t, txns[0].NewQuantity.Equal(dec("3")))
	assert.Equal(t, &userID, txns[0].UserID)

	assert.Equal(t, []string{events.TypeInventoryLowStock}, rec.Keys())
}

func TestApplyStockUpdateIncreaseStampsRestock(t *testing.T) {
	svc, rec, clock := newTestService(t)
	ctx := context.Background()
	item := createFlour(t, svc, "0")
	assert.Equal(t, models.StockOut, item.Status)

	*clock = clock.Add(2 * time.Hour)
	updated, err := svc.ApplyStockUpdate(ctx, item.ID, dec("25.5"), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StockIn, updated.Status)
	require.NotNil(t, updated.LastRestockedAt)
	assert.Equal(t, *clock, *updated.LastRestockedAt)
	assert.Empty(t, rec.Keys())

	txns, err := svc.Transactions(ctx, item.ID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionStockIn, txns[0].Type)
	assert.True(t, txns[0].Quantity.Equal(dec("25.5")))
}

func TestApplyStockUpdateSameQuantityRecordsZeroStockOut(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	item := createFlour(t, svc, "12")

	_, err := svc.ApplyStockUpdate(ctx, item.ID, dec("12"), nil, nil)
	require.NoError(t, err)

	txns, err := svc.Transactions(ctx, item.ID, 10)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionStockOut, txns[0].Type)
	assert.True(t, txns[0].Quantity.IsZero())
}

func TestApplyStockUpdateErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ApplyStockUpdate(ctx, 999, dec("1"), nil, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	item := createFlour(t, svc, "8")
	_, err = svc.ApplyStockUpdate(ctx, item.ID, dec("-1"), nil, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.Transactions(ctx, 999, 10)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestLowStockItems(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	low := createFlour(t, svc, "4")
	createFlour(t, svc, "30")
	createFlour(t, svc, "0")

	items, err := svc.LowStockItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}
