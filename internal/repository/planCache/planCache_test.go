package planCache_test

import (
	"context"
	"testing"
	"time"

	"clouddrive/internal/model/billing"
	"clouddrive/internal/repository/planCache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := planCache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	plans := []*billing.Plan{
		{ID: 1, Name: "Basic", AvailableQuote: 52428800, IsAvailable: true},
		{ID: 2, Name: "Premium", Price: 499, AvailableQuote: 524288000, IsAvailable: true},
	}
	require.NoError(t, cache.Set(ctx, plans, time.Minute))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "Premium", got[1].Name)
	assert.Equal(t, int64(524288000), got[1].AvailableQuote)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, plans, time.Minute))
	require.NoError(t, cache.Invalidate(ctx))
	_, ok, _ = cache.Get(ctx)
	assert.False(t, ok)
}

func TestPlanCache_Corrupted(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("plans:catalog", "not json"))
	cache := planCache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}
