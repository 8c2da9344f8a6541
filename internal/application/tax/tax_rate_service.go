package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tax"
	"go.uber.org/zap"
)

// TaxRateService manages jurisdiction tax rules through the admin API
type TaxRateService struct {
	rates  tax.TaxRateRepository
	logger *zap.Logger
}

// NewTaxRateService creates a tax rate service
func NewTaxRateService(rates tax.TaxRateRepository, logger *zap.Logger) *TaxRateService {
	return &TaxRateService{rates: rates, logger: logger}
}

// CreateTaxRateRequest creates a jurisdiction rule
type CreateTaxRateRequest struct {
	CountryCode      string          `json:"country_code" binding:"required,len=2"`
	State            string          `json:"state" binding:"required"`
	PostalCodePrefix string          `json:"postal_code_prefix"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
}

// UpdateTaxRateRequest patches a jurisdiction rule
type UpdateTaxRateRequest struct {
	PostalCodePrefix *string          `json:"postal_code_prefix"`
	Rate             *decimal.Decimal `json:"rate"`
}

// TaxRateResponse is one jurisdiction rule
type TaxRateResponse struct {
	ID               string          `json:"id"`
	CountryCode      string          `json:"country_code"`
	State            string          `json:"state"`
	PostalCodePrefix string          `json:"postal_code_prefix,omitempty"`
	Rate             decimal.Decimal `json:"rate"`
}

// List returns the tenant's tax rules
func (s *TaxRateService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TaxRateResponse, int64, error) {
	items, total, err := s.rates.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]TaxRateResponse, 0, len(items))
	for i := range items {
		out = append(out, toTaxRateResponse(&items[i]))
	}
	return out, total, nil
}

// Create adds a jurisdiction rule
func (s *TaxRateService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTaxRateRequest) (*TaxRateResponse, error) {
	rate, err := tax.NewTaxRate(tenantID, req.CountryCode, req.State, req.PostalCodePrefix, req.Rate)
	if err != nil {
		return nil, err
	}
	if err := s.rates.Save(ctx, rate); err != nil {
		return nil, err
	}
	s.logger.Info("tax rate created",
		zap.String("country", rate.CountryCode),
		zap.String("state", rate.State),
		zap.String("rate", rate.Rate.String()),
	)
	resp := toTaxRateResponse(rate)
	return &resp, nil
}

// Update patches a jurisdiction rule
func (s *TaxRateService) Update(ctx context.Context, id uuid.UUID, req UpdateTaxRateRequest) (*TaxRateResponse, error) {
	rate, err := s.rates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.PostalCodePrefix != nil {
		rate.PostalCodePrefix = *req.PostalCodePrefix
	}
	if req.Rate != nil {
		if req.Rate.IsNegative() || req.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, shared.NewDomainError("INVALID_INPUT", "rate must be between 0 and 1")
		}
		rate.Rate = *req.Rate
	}
	if err := s.rates.Save(ctx, rate); err != nil {
		return nil, err
	}
	resp := toTaxRateResponse(rate)
	return &resp, nil
}

// Delete removes a jurisdiction rule
func (s *TaxRateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.rates.Delete(ctx, id)
}

func toTaxRateResponse(r *tax.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		ID:               r.ID.String(),
		CountryCode:      r.CountryCode,
		State:            r.State,
		PostalCodePrefix: r.PostalCodePrefix,
		Rate:             r.Rate,
	}
}
