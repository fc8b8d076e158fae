package kitchen

import (
	"context"
	"sync"
	"testing"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/events"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) KitchenChanged(context.Context) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
}

func setup(t *testing.T) (*Service, *store.Memory, *countingNotifier, models.Order) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()
	svc := NewService(s, &events.Recorder{}, nil, nil)
	notifier := &countingNotifier{}
	svc.Notifier = notifier
	clock := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	table, err := s.CreateTable(ctx, models.Table{TableNumber: 14, Capacity: 4, Status: models.TableOccupied})
	require.NoError(t, err)
	order, err := s.InsertOrder(ctx, models.Order{TableID: table.ID, SessionID: "T1_20240801_1", Status: models.OrderPending})
	require.NoError(t, err)
	note := "no onions"
	_, err = s.InsertOrderItem(ctx, models.OrderItem{OrderID: order.ID, MenuItemID: 1, MenuItemName: "Pasta", Quantity: 2, ItemPrice: decimal.NewFromInt(9), SpecialInstructions: &note})
	require.NoError(t, err)
	return svc, s, notifier, order
}

func TestCreateDefaults(t *testing.T) {
	svc, _, notifier, order := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, CreateInput{
		OrderID:     order.ID,
		TableNumber: 14,
		Items:       []ItemInput{{MenuItemName: "Soup", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.KitchenNew, ticket.Status)
	assert.Equal(t, int32(1), ticket.Priority)
	require.NotNil(t, ticket.StartedAt)
	assert.Nil(t, ticket.CompletedAt)
	require.Len(t, ticket.Items, 1)
	assert.Equal(t, models.KitchenNew, ticket.Items[0].Status)
	assert.Equal(t, 1, notifier.calls)

	_, err = svc.Create(ctx, CreateInput{OrderID: 999, Items: []ItemInput{{MenuItemName: "Soup", Quantity: 1}}})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = svc.Create(ctx, CreateInput{OrderID: order.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCreateFromOrderMirrorsLines(t *testing.T) {
	svc, _, _, order := setup(t)
	ctx := context.Background()

	priority := int32(3)
	ticket, err := svc.CreateFromOrder(ctx, order.ID, &priority)
	require.NoError(t, err)

	assert.Equal(t, int32(14), ticket.TableNumber)
	assert.Equal(t, int32(3), ticket.Priority)
	require.Len(t, ticket.Items, 1)
	assert.Equal(t, "Pasta", ticket.Items[0].MenuItemName)
	assert.Equal(t, int32(2), ticket.Items[0].Quantity)
	require.NotNil(t, ticket.Items[0].SpecialInstructions)
	assert.Equal(t, "no onions", *ticket.Items[0].SpecialInstructions)

	_, err = svc.CreateFromOrder(ctx, 555, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdateStatusCompletionStamp(t *testing.T) {
	svc, _, _, order := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, CreateInput{OrderID: order.ID, Items: []ItemInput{{MenuItemName: "Soup", Quantity: 1}}})
	require.NoError(t, err)

	eta := int32(12)
	prep, ok, err := svc.UpdateStatus(ctx, ticket.ID, models.KitchenInPreparation, &eta)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, prep.CompletedAt)
	require.NotNil(t, prep.EstimatedPrepTime)
	assert.Equal(t, int32(12), *prep.EstimatedPrepTime)

	ready, ok, err := svc.UpdateStatus(ctx, ticket.ID, models.KitchenReadyToServe, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, ready.CompletedAt)
	assert.Nil(t, ready.EstimatedPrepTime)

	served, ok, err := svc.UpdateStatus(ctx, ticket.ID, models.KitchenServed, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, served.CompletedAt)
	assert.Equal(t, *ready.CompletedAt, *served.CompletedAt)

	_, ok, err = svc.UpdateStatus(ctx, 999, models.KitchenServed, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.UpdateStatus(ctx, ticket.ID, models.KitchenStatus("BURNT"), nil)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestServedDirectlyLeavesCompletionEmpty(t *testing.T) {
	svc, _, _, order := setup(t)
	ctx := context.Background()

	ticket, err := svc.Create(ctx, CreateInput{OrderID: order.ID, Items: []ItemInput{{MenuItemName: "Tea", Quantity: 1}}})
	require.NoError(t, err)

	served, ok, err := svc.UpdateStatus(ctx, ticket.ID, models.KitchenServed, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, served.CompletedAt)
}

func TestActiveOrdering(t *testing.T) {
	svc, _, _, order := setup(t)
	ctx := context.Background()

	create := func(priority int32) models.KitchenOrder {
		ticket, err := svc.Create(ctx, CreateInput{OrderID: order.ID, Priority: &priority, Items: []ItemInput{{MenuItemName: "Dish", Quantity: 1}}})
		require.NoError(t, err)
		return ticket
	}
	low := create(1)
	high := create(5)
	mid := create(3)
	done := create(9)

	_, _, err := svc.UpdateStatus(ctx, done.ID, models.KitchenServed, nil)
	require.NoError(t, err)
	_, _, err = svc.UpdateStatus(ctx, mid.ID, models.KitchenReadyToServe, nil)
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, []int64{high.ID, mid.ID, low.ID}, []int64{active[0].ID, active[1].ID, active[2].ID})
	for _, ticket := range active {
		assert.Len(t, ticket.Items, 1)
	}
}
