package MinIO

import (
	"errors"
	"io"
	"testing"

	"clouddrive/internal/blobstore"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

var _ blobstore.Store = (*MinIOClient)(nil)

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(minio.ErrorResponse{Code: "NoSuchKey"}), blobstore.ErrNotFound)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}

// fakeUpload читает pipe так же, как PutObject, и возвращает ошибку чтения.
func fakeUpload(pr *io.PipeReader, w *objectWriter, got *[]byte) {
	data, err := io.ReadAll(pr)
	*got = data
	w.done <- err
}

func TestObjectWriter_Close(t *testing.T) {
	pr, pw := io.Pipe()
	w := &objectWriter{pw: pw, done: make(chan error, 1)}
	var got []byte
	go fakeUpload(pr, w, &got)

	_, err := w.Write([]byte("chunk-1 "))
	assert.NoError(t, err)
	_, err = w.Write([]byte("chunk-2"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.Equal(t, "chunk-1 chunk-2", string(got))
}

func TestObjectWriter_Abort(t *testing.T) {
	pr, pw := io.Pipe()
	w := &objectWriter{pw: pw, done: make(chan error, 1)}
	var got []byte
	go fakeUpload(pr, w, &got)

	_, err := w.Write([]byte("partial"))
	assert.NoError(t, err)
	w.Abort(errors.New("client gone"))
	assert.Equal(t, "partial", string(got))
}
