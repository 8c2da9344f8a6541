package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenIssuer mints API access tokens for authenticated tenants
type TokenIssuer interface {
	Issue(tenantID uuid.UUID) (token string, expiresAt time.Time, err error)
}

// TenantService manages API tenants and exchanges api keys for tokens
type TenantService struct {
	tenants identity.TenantRepository
	issuer  TokenIssuer
	logger  *zap.Logger
}

// NewTenantService creates a tenant service
func NewTenantService(tenants identity.TenantRepository, issuer TokenIssuer, logger *zap.Logger) *TenantService {
	return &TenantService{tenants: tenants, issuer: issuer, logger: logger}
}

// CreateTenantRequest registers a new API consumer
type CreateTenantRequest struct {
	ApplicationName string `json:"application_name" binding:"required"`
	ApplicationURL  string `json:"application_url"`
}

// UpdateTenantRequest patches a tenant
type UpdateTenantRequest struct {
	ApplicationName *string `json:"application_name"`
	ApplicationURL  *string `json:"application_url"`
	Active          *bool   `json:"active"`
}

// TenantResponse is the tenant payload. APIKey is only populated on
// creation; the raw key is not recoverable afterwards.
type TenantResponse struct {
	ID              string `json:"id"`
	ApplicationName string `json:"application_name"`
	ApplicationURL  string `json:"application_url"`
	Active          bool   `json:"active"`
	APIKey          string `json:"api_key,omitempty"`
}

// AuthRequest exchanges an api key for an access token
type AuthRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// AuthResponse carries the issued access token
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticate verifies an api key and issues a JWT for the admin API
func (s *TenantService) Authenticate(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	t, err := s.tenants.FindByAPIKeyHash(ctx, identity.HashAPIKey(req.APIKey))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !t.Active {
		return nil, shared.ErrUnauthorized
	}

	token, expiresAt, err := s.issuer.Issue(t.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("tenant authenticated", zap.String("tenant_id", t.ID.String()))
	return &AuthResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// Create registers a tenant and returns the one-time raw api key
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	t, rawKey, err := identity.NewTenant(req.ApplicationName, req.ApplicationURL)
	if err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("tenant created", zap.String("tenant_id", t.ID.String()), zap.String("application", t.ApplicationName))

	resp := toTenantResponse(t)
	resp.APIKey = rawKey
	return &resp, nil
}

// Get returns one tenant
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTenantResponse(t)
	return &resp, nil
}

// List returns all tenants
func (s *TenantService) List(ctx context.Context, filter shared.Filter) ([]TenantResponse, int64, error) {
	items, total, err := s.tenants.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]TenantResponse, 0, len(items))
	for i := range items {
		out = append(out, toTenantResponse(&items[i]))
	}
	return out, total, nil
}

// Update patches a tenant
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ApplicationName != nil {
		t.ApplicationName = *req.ApplicationName
	}
	if req.ApplicationURL != nil {
		t.ApplicationURL = *req.ApplicationURL
	}
	if req.Active != nil {
		t.Active = *req.Active
	}
	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := toTenantResponse(t)
	return &resp, nil
}

// Delete removes a tenant
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tenants.Delete(ctx, id)
}

func toTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:              t.ID.String(),
		ApplicationName: t.ApplicationName,
		ApplicationURL:  t.ApplicationURL,
		Active:          t.Active,
	}
}
