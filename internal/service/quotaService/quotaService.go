package quotaService

import (
	"context"
	"fmt"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/account"
)

// ErrInsufficientSpace - ответ CheckAndReserve, когда used + delta > quota.
var ErrInsufficientSpace = apperr.Aborted("Not enough storage space!")

type StorageRepository interface {
	GetByID(ctx context.Context, id int64) (*account.Storage, error)
	Reserve(ctx context.Context, id int64, delta int64) (bool, error)
	Release(ctx context.Context, id int64, delta int64) error
	SetQuota(ctx context.Context, id int64, quota int64) error
}

type QuotaService struct {
	storages StorageRepository
}

func New(storages StorageRepository) *QuotaService {
	return &QuotaService{storages: storages}
}

// CheckAndReserve добавляет delta к used одним условным апдейтом, проверка и запись не разделены.
func (s *QuotaService) CheckAndReserve(ctx context.Context, storageID, delta int64) error {
	if delta < 0 {
		return fmt.Errorf("negative reservation %d", delta)
	}
	ok, err := s.storages.Reserve(ctx, storageID, delta)
	if err != nil {
		return fmt.Errorf("failed to reserve %d bytes: %w", delta, err)
	}
	if !ok {
		return ErrInsufficientSpace
	}
	return nil
}

func (s *QuotaService) Release(ctx context.Context, storageID, delta int64) error {
	if delta <= 0 {
		return nil
	}
	if err := s.storages.Release(ctx, storageID, delta); err != nil {
		return fmt.Errorf("failed to release %d bytes: %w", delta, err)
	}
	return nil
}

func (s *QuotaService) SetQuota(ctx context.Context, storageID, quota int64) error {
	if err := s.storages.SetQuota(ctx, storageID, quota); err != nil {
		return fmt.Errorf("failed to set quota: %w", err)
	}
	return nil
}

func (s *QuotaService) Usage(ctx context.Context, storageID int64) (*account.Storage, error) {
	storage, err := s.storages.GetByID(ctx, storageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage: %w", err)
	}
	if storage == nil {
		return nil, apperr.NotFound("Storage not found")
	}
	return storage, nil
}
