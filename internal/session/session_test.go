package session

import (
	"context"
	"regexp"
	"strconv"
	"testing"
	"time"

	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDFormat(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC+2", 2*3600))
	id := NewID(12, now)

	assert.Regexp(t, regexp.MustCompile(`^T12_\d{8}_\d+$`), id)
	assert.Equal(t, "T12_20240309_"+strconv.FormatInt(now.UnixMilli(), 10), id)
}

func TestResolveReusesOpenSession(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	first, minted, err := Resolve(ctx, s, 3, now)
	require.NoError(t, err)
	assert.True(t, minted)

	order, err := s.InsertOrder(ctx, models.Order{TableID: 3, SessionID: first, Status: models.OrderPending, CreatedAt: now})
	require.NoError(t, err)

	again, minted, err := Resolve(ctx, s, 3, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, minted)
	assert.Equal(t, first, again)

	_, err = s.UpdateOrderStatus(ctx, order.ID, models.OrderServed)
	require.NoError(t, err)

	fresh, minted, err := Resolve(ctx, s, 3, now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, minted)
	assert.NotEqual(t, first, fresh)

	_, ok, err := Active(ctx, s, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}
