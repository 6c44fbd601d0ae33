package planCache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clouddrive/internal/model/billing"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const catalogKey = "plans:catalog"

type PlanCache struct {
	Client *redis.Client
}

func New(client *redis.Client) *PlanCache {
	return &PlanCache{Client: client}
}

// Get возвращает ok=false, если каталога в кеше нет.
func (c *PlanCache) Get(ctx context.Context) ([]*billing.Plan, bool, error) {
	raw, err := c.Client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var plans []*billing.Plan
	if err := json.Unmarshal(raw, &plans); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached plans: %w", err)
	}
	return plans, true, nil
}

func (c *PlanCache) Set(ctx context.Context, plans []*billing.Plan, ttl time.Duration) error {
	raw, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("failed to encode plans: %w", err)
	}
	return c.Client.Set(ctx, catalogKey, raw, ttl).Err()
}

func (c *PlanCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, catalogKey).Err()
}
