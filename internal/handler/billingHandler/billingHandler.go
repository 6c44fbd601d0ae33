package billingHandler

import (
	"context"

	"clouddrive/api/driveproto"
	"clouddrive/internal/handler"
	"clouddrive/internal/model/billing"
	"clouddrive/internal/service/planService"
	"clouddrive/internal/service/subscriptionService"

	"google.golang.org/protobuf/types/known/emptypb"
)

// CodesHandler активирует коды покупки.
type CodesHandler struct {
	subscriptionService *subscriptionService.SubscriptionService
	driveproto.UnimplementedCodesServiceServer
}

func NewCodes(service *subscriptionService.SubscriptionService) *CodesHandler {
	return &CodesHandler{subscriptionService: service}
}

func (h *CodesHandler) Activate(ctx context.Context, req *driveproto.ActivateRequest) (*driveproto.Ok, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.subscriptionService.Activate(ctx, p.Email, req.Code); err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.Ok{Ok: true}, nil
}

type PlansHandler struct {
	planService *planService.PlanService
	driveproto.UnimplementedPlansServiceServer
}

func NewPlans(service *planService.PlanService) *PlansHandler {
	return &PlansHandler{planService: service}
}

func (h *PlansHandler) GetAll(ctx context.Context, req *driveproto.GetAllPlansRequest) (*driveproto.PlanList, error) {
	plans, err := h.planService.ListPlans(ctx, req.Max)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	list := &driveproto.PlanList{Plans: make([]*driveproto.Plan, 0, len(plans))}
	for _, p := range plans {
		list.Plans = append(list.Plans, toPlanMessage(p))
	}
	return list, nil
}

type SubscriptionsHandler struct {
	subscriptionService *subscriptionService.SubscriptionService
	driveproto.UnimplementedSubscriptionsServiceServer
}

func NewSubscriptions(service *subscriptionService.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{subscriptionService: service}
}

func (h *SubscriptionsHandler) GetMySubscription(ctx context.Context, _ *emptypb.Empty) (*driveproto.Subscription, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	sub, plan, err := h.subscriptionService.MySubscription(ctx, p.Email)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return toSubscriptionMessage(sub, plan), nil
}

func toPlanMessage(p *billing.Plan) *driveproto.Plan {
	return &driveproto.Plan{
		Id:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		AvailableQuote: p.AvailableQuote,
		AvailableSpeed: p.AvailableSpeed,
		IsAvailable:    p.IsAvailable,
	}
}

func toSubscriptionMessage(s *billing.Subscription, p *billing.Plan) *driveproto.Subscription {
	msg := &driveproto.Subscription{
		Id:        s.ID,
		StartedAt: handler.Timestamp(s.StartedAt),
		FinishAt:  handler.Timestamp(s.FinishAt),
		IsActive:  s.IsActive,
	}
	if p != nil {
		msg.Plan = toPlanMessage(p)
	}
	return msg
}
