package userService_test

import (
	"context"
	"testing"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/account"
	"clouddrive/internal/repository/memoryRepo"
	"clouddrive/internal/service/accessService"
	"clouddrive/internal/service/userService"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	ctx := context.Background()
	db := memoryRepo.New()
	user := &account.User{Email: "p@drive.io", Name: "Pavel"}
	require.NoError(t, db.Users().Create(ctx, user))
	require.NoError(t, db.Storages().Create(ctx, &account.Storage{UserID: user.ID, Used: 3, Quota: 10}))

	s := userService.New(db.Users(), accessService.New(db.Storages(), db.Contents()))

	got, storage, err := s.Profile(ctx, "p@drive.io")
	require.NoError(t, err)
	assert.Equal(t, "Pavel", got.Name)
	assert.Equal(t, int64(10), storage.Quota)
	assert.Equal(t, int64(3), storage.Used)

	_, _, err = s.Profile(ctx, "ghost@drive.io")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
