package main

import (
	"context"
	"fmt"

	"clouddrive/internal/config"
	"clouddrive/internal/repository/codeRepo"
	"clouddrive/internal/repository/contentRepo"
	"clouddrive/internal/repository/memoryRepo"
	"clouddrive/internal/repository/planRepo"
	"clouddrive/internal/repository/storageRepo"
	"clouddrive/internal/repository/subscriptionRepo"
	"clouddrive/internal/repository/userRepo"
	"clouddrive/internal/service/accessService"
	"clouddrive/internal/service/authService"
	"clouddrive/internal/service/contentService"
	"clouddrive/internal/service/planService"
	"clouddrive/internal/service/quotaService"
	"clouddrive/internal/service/subscriptionService"
	"clouddrive/internal/service/transferService"
	"clouddrive/internal/service/userService"
	"clouddrive/pkg/database/postgres"
	"clouddrive/pkg/logger"
)

type userStore interface {
	authService.UserRepository
	userService.UserRepository
}

type storageStore interface {
	authService.StorageRepository
	accessService.StorageRepository
	quotaService.StorageRepository
}

type contentStore interface {
	authService.ContentRepository
	accessService.ContentRepository
	contentService.ContentRepository
	transferService.ContentRepository
}

type planStore interface {
	planService.PlanRepository
	subscriptionService.PlanRepository
}

type txManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// stores - репозитории одного драйвера: postgres или memory.
type stores struct {
	users         userStore
	storages      storageStore
	contents      contentStore
	plans         planStore
	subscriptions subscriptionService.SubscriptionRepository
	codes         subscriptionService.CodeRepository
	tx            txManager
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Storage.DBDriver == "memory" {
		logger.GetLogger(ctx).Warn("using in-memory database, data is lost on restart")
		db := memoryRepo.New()
		return &stores{
			users:         db.Users(),
			storages:      db.Storages(),
			contents:      db.Contents(),
			plans:         db.Plans(),
			subscriptions: db.Subscriptions(),
			codes:         db.Codes(),
			tx:            db,
			close:         func() {},
		}, nil
	}

	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(cfg.Postgres); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &stores{
		users:         userRepo.New(pool),
		storages:      storageRepo.New(pool),
		contents:      contentRepo.New(pool),
		plans:         planRepo.New(pool),
		subscriptions: subscriptionRepo.New(pool),
		codes:         codeRepo.New(pool),
		tx:            postgres.NewTxManager(pool),
		close:         pool.Close,
	}, nil
}
