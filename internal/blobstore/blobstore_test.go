package blobstore_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"clouddrive/internal/blobstore"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, s *blobstore.FSStore, key string, chunks ...string) {
	w, err := s.Create(context.Background(), key)
	require.NoError(t, err)
	for _, c := range chunks {
		_, err := w.Write([]byte(c))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func read(t *testing.T, s *blobstore.FSStore, key string) (string, int64) {
	r, size, err := s.Open(context.Background(), key)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data), size
}

func TestFSStore_WriteRead(t *testing.T) {
	s := blobstore.NewFSStore(afero.NewMemMapFs())
	write(t, s, "storage1/home/docs/5_a.txt", "hello ", "world")

	data, size := read(t, s, "storage1/home/docs/5_a.txt")
	assert.Equal(t, "hello world", data)
	assert.Equal(t, int64(11), size)
}

func TestFSStore_Abort(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := blobstore.NewFSStore(fs)

	w, err := s.Create(context.Background(), "storage1/home/1_part.bin")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	w.Abort(errors.New("connection reset"))

	exists, err := afero.Exists(fs, "storage1/home/1_part.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFSStore_MoveRemove(t *testing.T) {
	ctx := context.Background()
	s := blobstore.NewFSStore(afero.NewMemMapFs())
	write(t, s, "storage1/home/3_old.txt", "data")

	require.NoError(t, s.Move(ctx, "storage1/home/3_old.txt", "storage1/home/3_new.txt"))
	data, _ := read(t, s, "storage1/home/3_new.txt")
	assert.Equal(t, "data", data)

	_, _, err := s.Open(ctx, "storage1/home/3_old.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, s.Remove(ctx, "storage1/home/3_new.txt"))
	assert.NoError(t, s.Remove(ctx, "storage1/home/3_new.txt"))
	assert.ErrorIs(t, s.Move(ctx, "missing", "other"), blobstore.ErrNotFound)
}

func TestFSStore_EnsureDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := blobstore.NewFSStore(fs)
	require.NoError(t, s.EnsureDir(context.Background(), "storage9/home/photos"))

	ok, err := afero.DirExists(fs, "storage9/home/photos")
	require.NoError(t, err)
	assert.True(t, ok)
}
