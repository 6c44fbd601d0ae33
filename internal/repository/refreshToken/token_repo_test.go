package refreshToken_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clouddrive/internal/repository/refreshToken"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenCommands(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	repo := refreshToken.New(db)

	mock.ExpectSet("drive:refresh:1", "token123", 7*24*time.Hour).SetVal("OK")
	require.NoError(t, repo.SaveToken(ctx, 1, "token123", 7*24*time.Hour))

	mock.ExpectGet("drive:refresh:2").RedisNil()
	token, err := repo.GetToken(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, token)

	mock.ExpectDel("drive:refresh:1").SetVal(1)
	require.NoError(t, repo.DeleteToken(ctx, 1))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func setup(t *testing.T) (*refreshToken.RefreshTokenRepo, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return refreshToken.New(client), mr
}

func TestConsume(t *testing.T) {
	ctx := context.Background()
	repo, mr := setup(t)

	require.NoError(t, repo.SaveToken(ctx, 7, "abc", time.Hour))

	ok, err := repo.Consume(ctx, 7, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	// чужой токен не гасит настоящий
	assert.True(t, mr.Exists("drive:refresh:7"))

	ok, err = repo.Consume(ctx, 7, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("drive:refresh:7"))

	ok, err = repo.Consume(ctx, 7, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Consume(ctx, 8, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConsumeExpired(t *testing.T) {
	ctx := context.Background()
	repo, mr := setup(t)

	require.NoError(t, repo.SaveToken(ctx, 1, "abc", time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := repo.Consume(ctx, 1, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConsumeOnce(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)
	require.NoError(t, repo.SaveToken(ctx, 1, "abc", time.Hour))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := repo.Consume(ctx, 1, "abc"); err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
