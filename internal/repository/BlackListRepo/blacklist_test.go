package BlackListRepo_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"clouddrive/internal/repository/BlackListRepo"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeLifetime(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := BlackListRepo.NewBlackListRepo(client)

	tests := []struct {
		name    string
		token   string
		expires time.Duration
		revoked bool
	}{
		{name: "live token", token: "live.jwt", expires: time.Minute, revoked: true},
		{name: "already expired", token: "old.jwt", expires: -time.Minute, revoked: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, repo.Revoke(ctx, tt.token, time.Now().Add(tt.expires)))
			got, err := repo.IsRevoked(ctx, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.revoked, got)
		})
	}

	// запись живёт не дольше самого токена
	mr.FastForward(2 * time.Minute)
	got, err := repo.IsRevoked(ctx, "live.jwt")
	require.NoError(t, err)
	assert.False(t, got)

	// ключ не содержит токен в открытом виде
	require.NoError(t, repo.Revoke(ctx, "secret.jwt", time.Now().Add(time.Hour)))
	for _, k := range mr.Keys() {
		assert.NotContains(t, k, "secret.jwt")
	}
}

func TestIsRevokedError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := BlackListRepo.NewBlackListRepo(db)

	sum := sha256.Sum256([]byte("x"))
	mock.ExpectExists("drive:revoked:" + hex.EncodeToString(sum[:])).SetErr(errors.New("conn reset"))

	_, err := repo.IsRevoked(context.Background(), "x")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
