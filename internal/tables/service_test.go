package tables

import (
	"context"
	"testing"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	first, err := svc.Create(ctx, CreateInput{TableNumber: 1, Capacity: 4})
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, first.Status)

	second, err := svc.Create(ctx, CreateInput{TableNumber: 2, Capacity: 2, Status: models.TableReserved})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{TableNumber: 1, Capacity: 6})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	available, err := svc.Available(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, first.ID, available[0].ID)

	updated, err := svc.UpdateStatus(ctx, second.ID, models.TableAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, updated.Status)

	_, err = svc.UpdateStatus(ctx, second.ID, models.TableStatus("BROKEN"))
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.UpdateStatus(ctx, 99, models.TableOccupied)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = svc.Get(ctx, 99)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	cases := []struct {
		name string
		in   CreateInput
	}{
		{name: "zero number", in: CreateInput{TableNumber: 0, Capacity: 2}},
		{name: "zero capacity", in: CreateInput{TableNumber: 3, Capacity: 0}},
		{name: "unknown status", in: CreateInput{TableNumber: 3, Capacity: 2, Status: "CLOSED"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		})
	}
}
