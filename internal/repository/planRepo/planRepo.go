package planRepo

import (
	"context"
	"errors"

	"clouddrive/internal/model/billing"
	"clouddrive/pkg/database/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columns = `id, name, description, price, available_quote, available_speed, is_available, created_at`

type PlanRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

func scanPlan(row pgx.Row) (*billing.Plan, error) {
	var p billing.Plan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.AvailableQuote, &p.AvailableSpeed, &p.IsAvailable, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) List(ctx context.Context) ([]*billing.Plan, error) {
	rows, err := postgres.Conn(ctx, r.pool).Query(ctx, `SELECT `+columns+` FROM plans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*billing.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *PlanRepository) get(ctx context.Context, query string, arg any) (*billing.Plan, error) {
	p, err := scanPlan(postgres.Conn(ctx, r.pool).QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*billing.Plan, error) {
	return r.get(ctx, `SELECT `+columns+` FROM plans WHERE id = $1`, id)
}

func (r *PlanRepository) GetByName(ctx context.Context, name string) (*billing.Plan, error) {
	return r.get(ctx, `SELECT `+columns+` FROM plans WHERE name = $1`, name)
}

// Upsert сидит план по имени: новый вставляется, существующий обновляется.
func (r *PlanRepository) Upsert(ctx context.Context, p *billing.Plan) error {
	return postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO plans (name, description, price, available_quote, available_speed, is_available)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name) DO UPDATE SET
		     description = EXCLUDED.description,
		     price = EXCLUDED.price,
		     available_quote = EXCLUDED.available_quote,
		     available_speed = EXCLUDED.available_speed,
		     is_available = EXCLUDED.is_available
		 RETURNING id, created_at`,
		p.Name, p.Description, p.Price, p.AvailableQuote, p.AvailableSpeed, p.IsAvailable).
		Scan(&p.ID, &p.CreatedAt)
}
