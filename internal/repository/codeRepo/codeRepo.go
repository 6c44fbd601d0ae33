package codeRepo

import (
	"context"
	"errors"
	"fmt"

	"clouddrive/internal/model/billing"
	"clouddrive/pkg/database/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CodeRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *CodeRepository {
	return &CodeRepository{pool: pool}
}

func (r *CodeRepository) GetBySecret(ctx context.Context, secret int64) (*billing.PurchaseCode, error) {
	var c billing.PurchaseCode
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, secret_number, plan_id, activations, max_activations FROM purchase_codes WHERE secret_number = $1`,
		secret).Scan(&c.ID, &c.SecretNumber, &c.PlanID, &c.Activations, &c.MaxActivations)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Consume засчитывает активацию, только пока лимит не исчерпан.
func (r *CodeRepository) Consume(ctx context.Context, secret int64) (bool, error) {
	tag, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE purchase_codes SET activations = activations + 1
		 WHERE secret_number = $1 AND activations < max_activations`,
		secret)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CodeRepository) Create(ctx context.Context, c *billing.PurchaseCode) error {
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO purchase_codes (secret_number, plan_id, activations, max_activations)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		c.SecretNumber, c.PlanID, c.Activations, c.MaxActivations).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to insert purchase code: %w", err)
	}
	return nil
}
