package billing

import "time"

const (
	DefaultPlanName  = "Basic"
	SubscriptionTerm = 30 * 24 * time.Hour
)

type Plan struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	AvailableQuote int64     `json:"available_quote"`
	AvailableSpeed int64     `json:"available_speed"`
	IsAvailable    bool      `json:"is_available"`
	CreatedAt      time.Time `json:"created_at"`
}

type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PlanID    int64     `json:"plan_id"`
	StartedAt time.Time `json:"started_at"`
	FinishAt  time.Time `json:"finish_at"`
	IsActive  bool      `json:"is_active"`
}

type PurchaseCode struct {
	ID             int64 `json:"id"`
	SecretNumber   int64 `json:"secret_number"`
	PlanID         int64 `json:"plan_id"`
	Activations    int32 `json:"activations"`
	MaxActivations int32 `json:"max_activations"`
}

func (c *PurchaseCode) Exhausted() bool {
	return c.Activations >= c.MaxActivations
}

// DefaultPlans - каталог, которым сидится база при старте.
func DefaultPlans() []Plan {
	return []Plan{
		{Name: "Basic", Description: "Default free plan", Price: 0, AvailableQuote: 52428800, AvailableSpeed: 0, IsAvailable: true},
		{Name: "Premium", Description: "Middle premium plan", Price: 499, AvailableQuote: 524288000, AvailableSpeed: 0, IsAvailable: true},
		{Name: "Supporter", Description: "Plan for real funs", Price: 999, AvailableQuote: 10485760000, AvailableSpeed: 0, IsAvailable: true},
	}
}
