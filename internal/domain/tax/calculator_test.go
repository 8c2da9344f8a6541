package tax

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRate(t *testing.T, country, state, prefix string, rate float64) TaxRate {
	t.Helper()
	r, err := NewTaxRate(uuid.New(), country, state, prefix, decimal.NewFromFloat(rate))
	require.NoError(t, err)
	return *r
}

func ohioAddress() valueobject.Address {
	return valueobject.Address{
		StreetAddress: "100 Main St",
		City:          "Columbus",
		State:         "OH",
		PostalCode:    "43004",
		CountryCode:   "US",
	}
}

func TestCompute_MatchesStateRule(t *testing.T) {
	rules := []TaxRate{
		mustRate(t, "US", "OH", "", 0.0725),
		mustRate(t, "US", "CA", "", 0.0950),
	}

	tax := Compute(decimal.NewFromFloat(100.00), ohioAddress(), rules)
	assert.True(t, tax.Equal(decimal.NewFromFloat(7.25)))
}

func TestCompute_PostalPrefixBeatsStateRule(t *testing.T) {
	rules := []TaxRate{
		mustRate(t, "US", "OH", "", 0.0725),
		mustRate(t, "US", "OH", "430", 0.0800),
	}

	tax := Compute(decimal.NewFromFloat(100.00), ohioAddress(), rules)
	assert.True(t, tax.Equal(decimal.NewFromFloat(8.00)))
}

func TestCompute_NoMatchingRule(t *testing.T) {
	rules := []TaxRate{
		mustRate(t, "US", "CA", "", 0.0950),
	}

	tax := Compute(decimal.NewFromFloat(100.00), ohioAddress(), rules)
	assert.True(t, tax.IsZero())
}

func TestCompute_CaseInsensitiveAddress(t *testing.T) {
	addr := ohioAddress()
	addr.State = "oh"
	addr.CountryCode = "us"
	rules := []TaxRate{mustRate(t, "US", "OH", "", 0.0725)}

	tax := Compute(decimal.NewFromFloat(100.00), addr, rules)
	assert.True(t, tax.Equal(decimal.NewFromFloat(7.25)))
}

func TestCompute_ZeroOrNegativeSubtotal(t *testing.T) {
	rules := []TaxRate{mustRate(t, "US", "OH", "", 0.0725)}

	assert.True(t, Compute(decimal.Zero, ohioAddress(), rules).IsZero())
	assert.True(t, Compute(decimal.NewFromFloat(-10), ohioAddress(), rules).IsZero())
}

func TestCompute_RoundsToCents(t *testing.T) {
	rules := []TaxRate{mustRate(t, "US", "OH", "", 0.0725)}

	tax := Compute(decimal.NewFromFloat(19.99), ohioAddress(), rules)
	assert.True(t, tax.Equal(decimal.NewFromFloat(1.45)))
}

func TestNewTaxRate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		country string
		state   string
		rate    float64
		wantErr bool
	}{
		{"valid", "US", "OH", 0.0725, false},
		{"lowercase normalized", "us", "oh", 0.0725, false},
		{"bad country", "USA", "OH", 0.0725, true},
		{"missing state", "US", "", 0.0725, true},
		{"negative rate", "US", "OH", -0.01, true},
		{"rate above one", "US", "OH", 1.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewTaxRate(uuid.New(), tt.country, tt.state, "", decimal.NewFromFloat(tt.rate))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "US", r.CountryCode)
			assert.Equal(t, "OH", r.State)
		})
	}
}
