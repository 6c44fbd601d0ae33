package planService_test

import (
	"context"
	"testing"
	"time"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/billing"
	"clouddrive/internal/repository/memoryRepo"
	"clouddrive/internal/repository/planCache"
	"clouddrive/internal/service/planService"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*planService.PlanService, *memoryRepo.DB, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	db := memoryRepo.New()
	return planService.New(db.Plans(), planCache.New(client), 10*time.Minute, 3), db, mr
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, db, _ := setup(t)

	_, err := s.DefaultQuota(ctx)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	plans, err := db.Plans().List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	quota, err := s.DefaultQuota(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(52428800), quota)
}

func TestListPlansCaching(t *testing.T) {
	ctx := context.Background()
	s, db, mr := setup(t)
	require.NoError(t, s.Seed(ctx))

	plans, err := s.ListPlans(ctx, 0)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "Basic", plans[0].Name)
	assert.True(t, mr.Exists("plans:catalog"))
	assert.Equal(t, 10*time.Minute, mr.TTL("plans:catalog"))

	require.NoError(t, db.Plans().Upsert(ctx, &billing.Plan{Name: "Enterprise", AvailableQuote: 1, IsAvailable: true}))
	cached, err := s.ListPlans(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, cached, 3)

	mr.FastForward(11 * time.Minute)
	fresh, err := s.ListPlans(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)

	capped, err := s.ListPlans(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)

	require.NoError(t, s.Seed(ctx))
	assert.False(t, mr.Exists("plans:catalog"))
}

func TestListPlansWithoutRedis(t *testing.T) {
	ctx := context.Background()
	s, db, mr := setup(t)
	require.NoError(t, db.Plans().Upsert(ctx, &billing.Plan{Name: "Basic", AvailableQuote: 10}))
	mr.Close()

	plans, err := s.ListPlans(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}
