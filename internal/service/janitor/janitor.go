package janitor

import (
	"context"
	"time"

	"clouddrive/pkg/logger"
	"clouddrive/pkg/metrics"

	"go.uber.org/zap"
)

type UploadReaper interface {
	ReapStaleUploads(ctx context.Context, before time.Time) (int, error)
}

type TrashPurger interface {
	PurgeExpiredTrash(ctx context.Context, before time.Time) (int, error)
}

type Config struct {
	Interval       time.Duration
	UploadTTL      time.Duration
	TrashRetention time.Duration
}

// Janitor периодически убирает брошенные загрузки и, если задан срок хранения, старую корзину.
type Janitor struct {
	reaper  UploadReaper
	purger  TrashPurger
	metrics *metrics.Metrics
	cfg     Config
	now     func() time.Time
}

func New(reaper UploadReaper, purger TrashPurger, m *metrics.Metrics, cfg Config) *Janitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Janitor{reaper: reaper, purger: purger, metrics: m, cfg: cfg, now: time.Now}
}

// Run работает до отмены ctx.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

func (j *Janitor) Sweep(ctx context.Context) {
	log := logger.GetLogger(ctx)
	now := j.now()

	if j.cfg.UploadTTL > 0 {
		n, err := j.reaper.ReapStaleUploads(ctx, now.Add(-j.cfg.UploadTTL))
		if err != nil {
			log.Error("failed to reap stale uploads", zap.Error(err))
		} else if n > 0 {
			log.Info("stale uploads reaped", zap.Int("count", n))
			j.metrics.UploadsReaped(n)
		}
	}

	if j.cfg.TrashRetention > 0 {
		n, err := j.purger.PurgeExpiredTrash(ctx, now.Add(-j.cfg.TrashRetention))
		if err != nil {
			log.Error("failed to purge trash", zap.Error(err))
		} else if n > 0 {
			log.Info("expired trash purged", zap.Int("count", n))
			j.metrics.TrashPurged(n)
		}
	}
}
