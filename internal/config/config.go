package config

import (
	"fmt"
	"os"
	"time"

	"clouddrive/internal/MinIO"
	"clouddrive/pkg/database/postgres"
	"clouddrive/pkg/database/redis"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.env"

type Config struct {
	GRPCPort    string `env:"GRPC_PORT" env-default:"50052"`
	MetricsPort string `env:"METRICS_PORT" env-default:"9090"`
	JWTSecret   string `env:"JWT_TOKEN" env-required:"true"`

	Postgres postgres.Config
	Redis    redis.RedisConfig
	MinIO    MinIO.Config
	Storage  StorageConfig
	Transfer TransferConfig
	Plans    PlansConfig
}

type StorageConfig struct {
	// DBDriver: postgres | memory. memory годится только для локального запуска.
	DBDriver   string `env:"DB_DRIVER" env-default:"postgres"`
	BlobDriver string `env:"BLOB_DRIVER" env-default:"minio"`
	BlobRoot   string `env:"BLOB_ROOT" env-default:"UsersStorage"`
}

type TransferConfig struct {
	ChunkSize         int           `env:"TRANSFER_CHUNK_SIZE" env-default:"1048576"`
	UploadIdleTimeout time.Duration `env:"UPLOAD_IDLE_TIMEOUT" env-default:"2m"`
	UploadTTL         time.Duration `env:"UPLOAD_TTL" env-default:"24h"`
	TrashRetention    time.Duration `env:"TRASH_RETENTION" env-default:"0s"`
	JanitorInterval   time.Duration `env:"JANITOR_INTERVAL" env-default:"1h"`
}

type PlansConfig struct {
	CacheTTL   time.Duration `env:"PLAN_CACHE_TTL" env-default:"10m"`
	DefaultMax int32         `env:"PLANS_DEFAULT_MAX" env-default:"3"`
}

func New() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.DBDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Storage.DBDriver)
	}
	switch c.Storage.BlobDriver {
	case "minio", "disk":
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", c.Storage.BlobDriver)
	}
	if c.Transfer.ChunkSize <= 0 {
		return fmt.Errorf("TRANSFER_CHUNK_SIZE must be positive")
	}
	return nil
}
