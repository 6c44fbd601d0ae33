package MinIO

import (
	"context"
	"fmt"
	"io"

	"clouddrive/internal/blobstore"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// partSize ограничивает буфер PutObject, когда размер объекта заранее неизвестен.
const partSize = 16 << 20

type Config struct {
	MinioEndpoint  string `env:"MINIO_ENDPOINT" env-default:"minio:9000"`
	BucketName     string `env:"MINIO_BUCKET_NAME" env-default:"storage"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" env-default:"admin"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" env-default:"Study2005@"`
}

type MinIOClient struct {
	Client *minio.Client
	Bucket string
}

func New(ctx context.Context, cfg Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.BucketName)
		if !(errBucketExists == nil && exists) {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.BucketName, err)
		}
	}

	return &MinIOClient{
		Client: client,
		Bucket: cfg.BucketName,
	}, nil
}

// Create стримит чанки в PutObject через pipe, объект появляется в бакете только после Close.
func (m *MinIOClient) Create(ctx context.Context, key string) (blobstore.Writer, error) {
	pr, pw := io.Pipe()
	w := &objectWriter{pw: pw, done: make(chan error, 1)}
	go func() {
		_, err := m.Client.PutObject(ctx, m.Bucket, key, pr, -1, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
			PartSize:    partSize,
		})
		pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}

func (m *MinIOClient) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	obj, err := m.Client.GetObject(ctx, m.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, translate(err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, translate(err)
	}
	return obj, info.Size, nil
}

func (m *MinIOClient) Remove(ctx context.Context, key string) error {
	return m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
}

// Move - copy + remove, переименования в S3 нет.
func (m *MinIOClient) Move(ctx context.Context, src, dst string) error {
	_, err := m.Client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.Bucket, Object: dst},
		minio.CopySrcOptions{Bucket: m.Bucket, Object: src},
	)
	if err != nil {
		return translate(err)
	}
	return m.Remove(ctx, src)
}

// EnsureDir ничего не делает: каталоги в бакете задаются префиксом ключа.
func (m *MinIOClient) EnsureDir(context.Context, string) error {
	return nil
}

func translate(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return blobstore.ErrNotFound
	}
	return err
}

type objectWriter struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *objectWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

func (w *objectWriter) Abort(cause error) {
	_ = w.pw.CloseWithError(cause)
	<-w.done
}
