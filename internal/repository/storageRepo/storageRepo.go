package storageRepo

import (
	"context"
	"errors"
	"fmt"

	"clouddrive/internal/model/account"
	"clouddrive/pkg/database/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectStorage = `SELECT s.id, s.user_id, u.email, s.used, s.quota FROM storages s JOIN users u ON u.id = s.user_id`

type StorageRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *StorageRepository {
	return &StorageRepository{pool: pool}
}

func (r *StorageRepository) get(ctx context.Context, query string, arg any) (*account.Storage, error) {
	var s account.Storage
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx, query, arg).
		Scan(&s.ID, &s.UserID, &s.OwnerEmail, &s.Used, &s.Quota)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StorageRepository) Create(ctx context.Context, s *account.Storage) error {
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO storages (user_id, used, quota) VALUES ($1, $2, $3) RETURNING id`,
		s.UserID, s.Used, s.Quota).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to insert storage: %w", err)
	}
	return nil
}

func (r *StorageRepository) GetByID(ctx context.Context, id int64) (*account.Storage, error) {
	return r.get(ctx, selectStorage+` WHERE s.id = $1`, id)
}

func (r *StorageRepository) GetByOwnerEmail(ctx context.Context, email string) (*account.Storage, error) {
	return r.get(ctx, selectStorage+` WHERE u.email = $1`, email)
}

// Reserve атомарно увеличивает used, если после этого used не превысит quota.
func (r *StorageRepository) Reserve(ctx context.Context, id int64, delta int64) (bool, error) {
	tag, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE storages SET used = used + $2 WHERE id = $1 AND used + $2 <= quota`,
		id, delta)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *StorageRepository) Release(ctx context.Context, id int64, delta int64) error {
	_, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE storages SET used = GREATEST(0, used - $2) WHERE id = $1`,
		id, delta)
	return err
}

func (r *StorageRepository) SetQuota(ctx context.Context, id int64, quota int64) error {
	tag, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE storages SET quota = $2 WHERE id = $1`,
		id, quota)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage %d not found", id)
	}
	return nil
}
