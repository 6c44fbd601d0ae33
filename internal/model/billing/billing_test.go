package billing_test

import (
	"testing"

	"clouddrive/internal/model/billing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseCodeExhausted(t *testing.T) {
	code := billing.PurchaseCode{Activations: 0, MaxActivations: 1}
	assert.False(t, code.Exhausted())

	code.Activations = 1
	assert.True(t, code.Exhausted())
}

func TestDefaultPlans(t *testing.T) {
	plans := billing.DefaultPlans()
	assert.Len(t, plans, 3)
	assert.Equal(t, billing.DefaultPlanName, plans[0].Name)
	assert.Equal(t, int64(52428800), plans[0].AvailableQuote)
	for i := 1; i < len(plans); i++ {
		assert.Greater(t, plans[i].Price, plans[i-1].Price)
	}
}
