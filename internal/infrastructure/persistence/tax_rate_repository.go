package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tax"
	"gorm.io/gorm"
)

// GormTaxRateRepository implements tax.TaxRateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new tax rate repository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindByID loads one jurisdiction rule
func (r *GormTaxRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.TaxRate, error) {
	var rate tax.TaxRate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindAllForTenant returns the tenant's rules with pagination
func (r *GormTaxRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]tax.TaxRate, int64, error) {
	q := r.db.WithContext(ctx).Model(&tax.TaxRate{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rates []tax.TaxRate
	if err := applyFilter(q, filter).Find(&rates).Error; err != nil {
		return nil, 0, err
	}
	return rates, total, nil
}

// FindForJurisdiction returns candidate rules for a country/state pair
func (r *GormTaxRateRepository) FindForJurisdiction(ctx context.Context, tenantID uuid.UUID, countryCode, state string) ([]tax.TaxRate, error) {
	var rates []tax.TaxRate
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND country_code = ? AND state = ?",
			tenantID,
			strings.ToUpper(strings.TrimSpace(countryCode)),
			strings.ToUpper(strings.TrimSpace(state)),
		).
		Find(&rates).Error
	return rates, err
}

// Save inserts or updates a rule
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *tax.TaxRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

// Delete removes a rule
func (r *GormTaxRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&tax.TaxRate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ tax.TaxRateRepository = (*GormTaxRateRepository)(nil)
