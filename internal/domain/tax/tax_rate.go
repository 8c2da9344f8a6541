package tax

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// TaxRate is a jurisdiction rule: country, state and an optional postal
// code prefix, mapping to a decimal fraction (0.0875 = 8.75%).
type TaxRate struct {
	shared.TenantAggregateRoot
	CountryCode      string          `gorm:"size:2;not null;index:idx_tax_rates_jurisdiction,priority:1"`
	State            string          `gorm:"size:100;not null;index:idx_tax_rates_jurisdiction,priority:2"`
	PostalCodePrefix string          `gorm:"size:10;index:idx_tax_rates_jurisdiction,priority:3"`
	Rate             decimal.Decimal `gorm:"type:numeric(8,6);not null"`
}

// TableName returns the table name for GORM
func (TaxRate) TableName() string { return "tax_rates" }

// NewTaxRate creates a jurisdiction rule for a tenant
func NewTaxRate(tenantID uuid.UUID, countryCode, state, postalPrefix string, rate decimal.Decimal) (*TaxRate, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	state = strings.ToUpper(strings.TrimSpace(state))
	if len(countryCode) != 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "country code must be ISO alpha-2")
	}
	if state == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "state is required")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "rate must be between 0 and 1")
	}
	return &TaxRate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CountryCode:         countryCode,
		State:               state,
		PostalCodePrefix:    strings.TrimSpace(postalPrefix),
		Rate:                rate,
	}, nil
}
