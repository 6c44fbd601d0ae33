package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"
)

var ErrNotFound = errors.New("object not found")

// Writer пишет объект последовательно. Close фиксирует объект, Abort выбрасывает недописанное.
type Writer interface {
	io.Writer
	Close() error
	Abort(cause error)
}

type Store interface {
	Create(ctx context.Context, key string) (Writer, error)
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Remove(ctx context.Context, key string) error
	Move(ctx context.Context, src, dst string) error
	EnsureDir(ctx context.Context, dir string) error
}

// FSStore хранит байты в дереве каталогов storage{id}/home/..., повторяющем логические пути.
type FSStore struct {
	fs afero.Fs
}

func NewFSStore(fs afero.Fs) *FSStore {
	return &FSStore{fs: fs}
}

// NewDiskStore - FSStore поверх каталога root на диске.
func NewDiskStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

func (s *FSStore) Create(_ context.Context, key string) (Writer, error) {
	if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	f, err := s.fs.OpenFile(key, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", key, err)
	}
	return &fileWriter{fs: s.fs, file: f, key: key}, nil
}

func (s *FSStore) Open(_ context.Context, key string) (io.ReadCloser, int64, error) {
	f, err := s.fs.Open(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to open %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return f, info.Size(), nil
}

func (s *FSStore) Remove(_ context.Context, key string) error {
	if err := s.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *FSStore) Move(_ context.Context, src, dst string) error {
	if err := s.fs.MkdirAll(path.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := s.fs.Rename(src, dst); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to move %s: %w", src, err)
	}
	return nil
}

func (s *FSStore) EnsureDir(_ context.Context, dir string) error {
	return s.fs.MkdirAll(dir, 0o755)
}

type fileWriter struct {
	fs   afero.Fs
	file afero.File
	key  string
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *fileWriter) Close() error {
	return w.file.Close()
}

func (w *fileWriter) Abort(_ error) {
	_ = w.file.Close()
	_ = w.fs.Remove(w.key)
}
