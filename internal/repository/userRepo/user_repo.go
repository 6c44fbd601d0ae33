package userRepo

import (
	"context"
	"errors"
	"fmt"

	"clouddrive/internal/model/account"
	"clouddrive/pkg/database/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *account.User) error {
	query := `INSERT INTO users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx, query, u.Email, u.Name, u.Password).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user and retrieve id: %w", err)
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (*account.User, error) {
	var u account.User
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*account.User, error) {
	return r.get(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	return r.get(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1`, email)
}
