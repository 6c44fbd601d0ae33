package quotaService_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/account"
	"clouddrive/internal/repository/memoryRepo"
	"clouddrive/internal/service/quotaService"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, quota int64) (*quotaService.QuotaService, int64) {
	ctx := context.Background()
	db := memoryRepo.New()
	user := &account.User{Email: "q@drive.io"}
	require.NoError(t, db.Users().Create(ctx, user))
	storage := &account.Storage{UserID: user.ID, Quota: quota}
	require.NoError(t, db.Storages().Create(ctx, storage))
	return quotaService.New(db.Storages()), storage.ID
}

func TestCheckAndReserve(t *testing.T) {
	ctx := context.Background()
	s, id := setup(t, 1000)

	require.NoError(t, s.CheckAndReserve(ctx, id, 600))

	err := s.CheckAndReserve(ctx, id, 500)
	assert.True(t, errors.Is(err, quotaService.ErrInsufficientSpace))
	assert.True(t, apperr.Is(err, apperr.KindAborted))

	usage, err := s.Usage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(600), usage.Used)

	require.NoError(t, s.CheckAndReserve(ctx, id, 400))
	usage, _ = s.Usage(ctx, id)
	assert.Equal(t, int64(0), usage.Free())
}

func TestCheckAndReserve_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, id := setup(t, 1000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.CheckAndReserve(ctx, id, 300) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, accepted)
	usage, err := s.Usage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(900), usage.Used)
}

func TestReleaseAndSetQuota(t *testing.T) {
	ctx := context.Background()
	s, id := setup(t, 100)

	require.NoError(t, s.CheckAndReserve(ctx, id, 80))
	require.NoError(t, s.Release(ctx, id, 30))
	require.NoError(t, s.Release(ctx, id, 0))
	require.NoError(t, s.Release(ctx, id, 500))

	usage, err := s.Usage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage.Used)

	require.NoError(t, s.SetQuota(ctx, id, 5000))
	usage, _ = s.Usage(ctx, id)
	assert.Equal(t, int64(5000), usage.Quota)

	_, err = s.Usage(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Error(t, s.CheckAndReserve(ctx, id, -1))
}
