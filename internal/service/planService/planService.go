package planService

import (
	"context"
	"fmt"
	"time"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/billing"
	"clouddrive/pkg/logger"

	"go.uber.org/zap"
)

type PlanRepository interface {
	List(ctx context.Context) ([]*billing.Plan, error)
	GetByName(ctx context.Context, name string) (*billing.Plan, error)
	Upsert(ctx context.Context, p *billing.Plan) error
}

type PlanCache interface {
	Get(ctx context.Context) ([]*billing.Plan, bool, error)
	Set(ctx context.Context, plans []*billing.Plan, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type PlanService struct {
	plans      PlanRepository
	cache      PlanCache
	ttl        time.Duration
	defaultMax int32
}

func New(plans PlanRepository, cache PlanCache, ttl time.Duration, defaultMax int32) *PlanService {
	if defaultMax <= 0 {
		defaultMax = 3
	}
	return &PlanService{plans: plans, cache: cache, ttl: ttl, defaultMax: defaultMax}
}

// ListPlans читает каталог через кеш. Ошибки кеша не мешают ответу, каталог берётся из базы.
func (s *PlanService) ListPlans(ctx context.Context, limit int32) ([]*billing.Plan, error) {
	if limit <= 0 {
		limit = s.defaultMax
	}
	log := logger.GetLogger(ctx)

	plans, ok, err := s.cache.Get(ctx)
	if err != nil {
		log.Warn("failed to read plan cache", zap.Error(err))
	}
	if !ok {
		plans, err = s.plans.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list plans: %w", err)
		}
		if err := s.cache.Set(ctx, plans, s.ttl); err != nil {
			log.Warn("failed to fill plan cache", zap.Error(err))
		}
	}

	if int(limit) < len(plans) {
		plans = plans[:limit]
	}
	return plans, nil
}

// Seed заводит стандартные тарифы, повторный запуск только обновляет их по имени.
func (s *PlanService) Seed(ctx context.Context) error {
	for _, p := range billing.DefaultPlans() {
		plan := p
		if err := s.plans.Upsert(ctx, &plan); err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", plan.Name, err)
		}
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.GetLogger(ctx).Warn("failed to invalidate plan cache", zap.Error(err))
	}
	return nil
}

// DefaultQuota - квота бесплатного тарифа, её получает новый пользователь.
func (s *PlanService) DefaultQuota(ctx context.Context) (int64, error) {
	plan, err := s.plans.GetByName(ctx, billing.DefaultPlanName)
	if err != nil {
		return 0, fmt.Errorf("failed to get default plan: %w", err)
	}
	if plan == nil {
		return 0, apperr.NotFound("Plan not found")
	}
	return plan.AvailableQuote, nil
}
