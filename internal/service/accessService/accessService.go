package accessService

import (
	"context"
	"fmt"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/account"
	"clouddrive/internal/model/content"
)

type StorageRepository interface {
	GetByID(ctx context.Context, id int64) (*account.Storage, error)
	GetByOwnerEmail(ctx context.Context, email string) (*account.Storage, error)
}

type ContentRepository interface {
	GetByID(ctx context.Context, id int64) (*content.Content, error)
}

// Guard связывает аутентифицированного пользователя с его хранилищем.
type Guard struct {
	storages StorageRepository
	contents ContentRepository
}

func New(storages StorageRepository, contents ContentRepository) *Guard {
	return &Guard{storages: storages, contents: contents}
}

func (g *Guard) Resolve(ctx context.Context, email string) (*account.Storage, error) {
	storage, err := g.storages.GetByOwnerEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage by owner: %w", err)
	}
	if storage == nil {
		return nil, apperr.NotFound("Storage not found")
	}
	return storage, nil
}

func (g *Guard) ResolveByID(ctx context.Context, storageID int64) (*account.Storage, error) {
	storage, err := g.storages.GetByID(ctx, storageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage: %w", err)
	}
	if storage == nil {
		return nil, apperr.NotFound("Storage not found")
	}
	return storage, nil
}

func (g *Guard) Authorize(storage *account.Storage, email string) bool {
	return storage != nil && email != "" && storage.OwnerEmail == email
}

func (g *Guard) AuthorizeStorage(ctx context.Context, storageID int64, email string) (*account.Storage, error) {
	storage, err := g.ResolveByID(ctx, storageID)
	if err != nil {
		return nil, err
	}
	if !g.Authorize(storage, email) {
		return nil, apperr.PermissionDenied("Access denied!")
	}
	return storage, nil
}

// AuthorizeContent возвращает узел вместе с хранилищем, если пользователь его владелец.
func (g *Guard) AuthorizeContent(ctx context.Context, contentID int64, email string) (*content.Content, *account.Storage, error) {
	c, err := g.contents.GetByID(ctx, contentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get content: %w", err)
	}
	if c == nil {
		return nil, nil, apperr.NotFound("Content not found")
	}
	storage, err := g.AuthorizeStorage(ctx, c.StorageID, email)
	if err != nil {
		return nil, nil, err
	}
	return c, storage, nil
}
