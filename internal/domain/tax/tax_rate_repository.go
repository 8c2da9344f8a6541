package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// TaxRateRepository defines persistence operations for tax rules
type TaxRateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TaxRate, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TaxRate, int64, error)
	// FindForJurisdiction returns the candidate rules for a country/state
	// pair; the calculator applies postal-prefix precedence in memory.
	FindForJurisdiction(ctx context.Context, tenantID uuid.UUID, countryCode, state string) ([]TaxRate, error)
	Save(ctx context.Context, rate *TaxRate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
