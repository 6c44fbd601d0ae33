package subscriptionService

import (
	"context"
	"fmt"
	"time"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/account"
	"clouddrive/internal/model/billing"
	"clouddrive/pkg/logger"

	"go.uber.org/zap"
)

type CodeRepository interface {
	GetBySecret(ctx context.Context, secret int64) (*billing.PurchaseCode, error)
	Consume(ctx context.Context, secret int64) (bool, error)
}

type PlanRepository interface {
	GetByID(ctx context.Context, id int64) (*billing.Plan, error)
}

type SubscriptionRepository interface {
	GetActive(ctx context.Context, userID int64) (*billing.Subscription, error)
	GetLatest(ctx context.Context, userID int64) (*billing.Subscription, error)
	Create(ctx context.Context, s *billing.Subscription) error
	Deactivate(ctx context.Context, id int64) error
	ExtendFinish(ctx context.Context, id int64, finishAt time.Time) error
}

type Guard interface {
	Resolve(ctx context.Context, email string) (*account.Storage, error)
}

type Quota interface {
	SetQuota(ctx context.Context, storageID, quota int64) error
}

type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type SubscriptionService struct {
	codes         CodeRepository
	plans         PlanRepository
	subscriptions SubscriptionRepository
	guard         Guard
	quota         Quota
	tx            TxManager
	now           func() time.Time
}

func New(codes CodeRepository, plans PlanRepository, subscriptions SubscriptionRepository, guard Guard, quota Quota, tx TxManager) *SubscriptionService {
	return &SubscriptionService{
		codes:         codes,
		plans:         plans,
		subscriptions: subscriptions,
		guard:         guard,
		quota:         quota,
		tx:            tx,
		now:           time.Now,
	}
}

// Activate применяет код покупки. Тот же тариф продлевает текущую подписку на 30 дней,
// более дорогой заменяет её и поднимает квоту, более дешёвый отклоняется.
func (s *SubscriptionService) Activate(ctx context.Context, email string, secret int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		code, err := s.codes.GetBySecret(ctx, secret)
		if err != nil {
			return fmt.Errorf("failed to get code: %w", err)
		}
		if code == nil {
			return apperr.NotFound("Code not found")
		}
		if code.Exhausted() {
			return apperr.NotFound("Activation limit exceeded!")
		}

		plan, err := s.plans.GetByID(ctx, code.PlanID)
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}
		if plan == nil {
			return apperr.NotFound("Plan not found")
		}

		storage, err := s.guard.Resolve(ctx, email)
		if err != nil {
			return err
		}

		current, err := s.subscriptions.GetActive(ctx, storage.UserID)
		if err != nil {
			return fmt.Errorf("failed to get active subscription: %w", err)
		}

		extended := false
		if current != nil {
			currentPlan, err := s.plans.GetByID(ctx, current.PlanID)
			if err != nil {
				return fmt.Errorf("failed to get current plan: %w", err)
			}
			if currentPlan != nil && currentPlan.Price > plan.Price {
				return apperr.Unknown("At the moment, you have a better plan")
			}
			if current.PlanID == plan.ID {
				if err := s.subscriptions.ExtendFinish(ctx, current.ID, current.FinishAt.Add(billing.SubscriptionTerm)); err != nil {
					return fmt.Errorf("failed to extend subscription: %w", err)
				}
				extended = true
			} else if err := s.subscriptions.Deactivate(ctx, current.ID); err != nil {
				return fmt.Errorf("failed to deactivate subscription: %w", err)
			}
		}

		if !extended {
			now := s.now().UTC()
			sub := &billing.Subscription{
				UserID:    storage.UserID,
				PlanID:    plan.ID,
				StartedAt: now,
				FinishAt:  now.Add(billing.SubscriptionTerm),
				IsActive:  true,
			}
			if err := s.subscriptions.Create(ctx, sub); err != nil {
				return fmt.Errorf("failed to create subscription: %w", err)
			}
			if err := s.quota.SetQuota(ctx, storage.ID, plan.AvailableQuote); err != nil {
				return err
			}
		}

		ok, err := s.codes.Consume(ctx, secret)
		if err != nil {
			return fmt.Errorf("failed to consume code: %w", err)
		}
		if !ok {
			return apperr.NotFound("Activation limit exceeded!")
		}

		logger.GetLogger(ctx).Info("code activated",
			zap.Int64("user_id", storage.UserID), zap.String("plan", plan.Name), zap.Bool("extended", extended))
		return nil
	})
}

// MySubscription - последняя по startedAt подписка пользователя и её тариф.
func (s *SubscriptionService) MySubscription(ctx context.Context, email string) (*billing.Subscription, *billing.Plan, error) {
	storage, err := s.guard.Resolve(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	sub, err := s.subscriptions.GetLatest(ctx, storage.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, nil, apperr.NotFound("Subscription not found")
	}
	plan, err := s.plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, nil, apperr.NotFound("Plan not found")
	}
	return sub, plan, nil
}
