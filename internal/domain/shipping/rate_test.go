package shipping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func rate(amount float64, token string) Rate {
	return Rate{
		Amount:            decimal.NewFromFloat(amount),
		Currency:          "USD",
		Provider:          "USPS",
		ServiceLevelToken: token,
	}
}

func TestSelectLowestRate(t *testing.T) {
	rates := []Rate{
		rate(12.50, "usps_priority_express"),
		rate(8.00, "usps_priority"),
		rate(9.99, "ups_ground"),
	}

	got := SelectLowestRate(rates)
	assert.True(t, got.Amount.Equal(decimal.NewFromFloat(8.00)))
	assert.Equal(t, "usps_priority", got.ServiceLevelToken)
}

func TestSelectLowestRate_FirstWinsTies(t *testing.T) {
	rates := []Rate{
		rate(8.00, "first"),
		rate(8.00, "second"),
	}

	assert.Equal(t, "first", SelectLowestRate(rates).ServiceLevelToken)
}

func TestSelectLowestRate_EmptyYieldsFallback(t *testing.T) {
	got := SelectLowestRate(nil)

	assert.True(t, got.Amount.Equal(decimal.NewFromFloat(5.00)))
	assert.Equal(t, "USPS", got.Provider)
	assert.Equal(t, "usps_first", got.ServiceLevelToken)
}

func TestFallbackRate(t *testing.T) {
	fb := FallbackRate()
	assert.Equal(t, "USD", fb.Currency)
	assert.Equal(t, 5, fb.EstimatedDays)
}
