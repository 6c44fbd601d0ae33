package subscriptionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clouddrive/internal/model/billing"
	"clouddrive/pkg/database/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id, user_id, plan_id, started_at, finish_at, is_active`

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) get(ctx context.Context, query string, arg any) (*billing.Subscription, error) {
	var s billing.Subscription
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx, query, arg).
		Scan(&s.ID, &s.UserID, &s.PlanID, &s.StartedAt, &s.FinishAt, &s.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) GetActive(ctx context.Context, userID int64) (*billing.Subscription, error) {
	return r.get(ctx,
		`SELECT `+columns+` FROM subscriptions WHERE user_id = $1 AND is_active FOR UPDATE`,
		userID)
}

func (r *SubscriptionRepository) GetLatest(ctx context.Context, userID int64) (*billing.Subscription, error) {
	return r.get(ctx,
		`SELECT `+columns+` FROM subscriptions WHERE user_id = $1 ORDER BY started_at DESC, id DESC LIMIT 1`,
		userID)
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *billing.Subscription) error {
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, plan_id, started_at, finish_at, is_active)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.UserID, s.PlanID, s.StartedAt, s.FinishAt, s.IsActive).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Deactivate(ctx context.Context, id int64) error {
	_, err := postgres.Conn(ctx, r.pool).Exec(ctx, `UPDATE subscriptions SET is_active = FALSE WHERE id = $1`, id)
	return err
}

func (r *SubscriptionRepository) ExtendFinish(ctx context.Context, id int64, finishAt time.Time) error {
	_, err := postgres.Conn(ctx, r.pool).Exec(ctx, `UPDATE subscriptions SET finish_at = $2 WHERE id = $1`, id, finishAt)
	return err
}
