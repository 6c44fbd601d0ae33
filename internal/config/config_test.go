package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"clouddrive/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	td := t.TempDir()
	cfgDir := filepath.Join(td, "config")
	require.NoError(t, os.Mkdir(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "local.env"), []byte(content), 0o644))
	return td
}

func chdir(t *testing.T, dir string) {
	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(dir))
}

func TestNew_Success(t *testing.T) {
	td := writeEnv(t, `POSTGRES_HOST=localhost
POSTGRES_PORT=5433
POSTGRES_USER=drive
POSTGRES_PASSWORD=2529
POSTGRES_DB=drive

JWT_TOKEN=very_very_secret_key

GRPC_PORT=50051

REDIS_HOST=localhost
REDIS_PORT=6380
REDIS_PASSWORD=
REDIS_DB=0

BLOB_DRIVER=disk
UPLOAD_TTL=6h
PLAN_CACHE_TTL=30s
`)
	chdir(t, td)

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, uint16(5433), cfg.Postgres.Port)
	assert.Equal(t, "drive", cfg.Postgres.Username)
	assert.Equal(t, "2529", cfg.Postgres.Password)
	assert.Equal(t, "drive", cfg.Postgres.Database)

	assert.Equal(t, "very_very_secret_key", cfg.JWTSecret)
	assert.Equal(t, "50051", cfg.GRPCPort)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6380", cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.Db)

	assert.Equal(t, "disk", cfg.Storage.BlobDriver)
	assert.Equal(t, 6*time.Hour, cfg.Transfer.UploadTTL)
	assert.Equal(t, 2*time.Minute, cfg.Transfer.UploadIdleTimeout)
	assert.Equal(t, 1<<20, cfg.Transfer.ChunkSize)
	assert.Equal(t, 30*time.Second, cfg.Plans.CacheTTL)
	assert.Equal(t, int32(3), cfg.Plans.DefaultMax)
}

func TestNew_ConfigPathEnv(t *testing.T) {
	td := writeEnv(t, "JWT_TOKEN=secret\nDB_DRIVER=memory\n")
	t.Setenv("CONFIG_PATH", filepath.Join(td, "config", "local.env"))

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.DBDriver)
}

func TestNew_InvalidDriver(t *testing.T) {
	td := writeEnv(t, "JWT_TOKEN=secret\nBLOB_DRIVER=ftp\n")
	chdir(t, td)

	_, err := config.New()
	assert.Error(t, err)
}

func TestNew_FileNotFound(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := config.New()
	assert.Error(t, err)
}
