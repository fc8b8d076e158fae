package feedback

import (
	"context"
	"testing"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (*Service, models.Order) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()
	table, err := s.CreateTable(ctx, models.Table{TableNumber: 3, Capacity: 2, Status: models.TableAvailable})
	require.NoError(t, err)
	order, err := s.InsertOrder(ctx, models.Order{TableID: table.ID, SessionID: "T1_20240801_1", Status: models.OrderServed})
	require.NoError(t, err)

	svc := NewService(s)
	clock := time.Date(2024, 8, 1, 21, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, order
}

func TestSubmitValidation(t *testing.T) {
	svc, order := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SubmitInput
		kind apperror.Kind
	}{
		{name: "rating zero", in: SubmitInput{OrderID: order.ID, Rating: 0}, kind: apperror.KindValidation},
		{name: "rating six", in: SubmitInput{OrderID: order.ID, Rating: 6}, kind: apperror.KindValidation},
		{name: "sub rating out of range", in: SubmitInput{OrderID: order.ID, Rating: 4, Ambience: ptr(int32(9))}, kind: apperror.KindValidation},
		{name: "unknown order", in: SubmitInput{OrderID: 404, Rating: 4}, kind: apperror.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.in)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, tc.kind), err.Error())
		})
	}
}

func TestSubmitAnnotatesAndHidesAnonymousUser(t *testing.T) {
	svc, order := newService(t)
	ctx := context.Background()

	fb, err := svc.Submit(ctx, SubmitInput{
		OrderID:     order.ID,
		UserID:      ptr(int64(7)),
		Rating:      5,
		Comment:     ptr("Delicious food and friendly staff"),
		IsAnonymous: true,
	})
	require.NoError(t, err)
	assert.Nil(t, fb.UserID)
	assert.Equal(t, "positive", fb.Sentiment)
	assert.ElementsMatch(t, []string{"food", "service"}, fb.Tags)

	got, err := svc.ByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fb.ID, got.ID)
	assert.Equal(t, "positive", got.Sentiment)

	_, err = svc.ByOrder(ctx, 999)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestSummaryAndRecent(t *testing.T) {
	svc, order := newService(t)
	ctx := context.Background()

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalFeedbacks)
	assert.Nil(t, summary.AverageFoodQuality)

	for _, in := range []SubmitInput{
		{OrderID: order.ID, Rating: 5, FoodQuality: ptr(int32(5))},
		{OrderID: order.ID, Rating: 4, FoodQuality: ptr(int32(3))},
		{OrderID: order.ID, Rating: 1, Comment: ptr("cold soup")},
	} {
		_, err := svc.Submit(ctx, in)
		require.NoError(t, err)
	}

	summary, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalFeedbacks)
	assert.InDelta(t, 10.0/3.0, summary.AverageRating, 1e-9)
	assert.Equal(t, map[int32]int{5: 1, 4: 1, 1: 1}, summary.RatingDistribution)
	require.NotNil(t, summary.AverageFoodQuality)
	assert.InDelta(t, 4.0, *summary.AverageFoodQuality, 1e-9)
	assert.Nil(t, summary.AverageCleanliness)
	assert.Equal(t, 1, summary.SentimentCounts["negative"])

	recent, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int32(1), recent[0].Rating)
	assert.Equal(t, "negative", recent[0].Sentiment)
}
