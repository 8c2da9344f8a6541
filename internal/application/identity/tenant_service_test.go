package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByAPIKeyHash(ctx context.Context, hash string) (*identity.Tenant, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Tenant), args.Get(1).(int64), args.Error(2)
}

func (m *MockTenantRepository) Save(ctx context.Context, t *identity.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(tenantID uuid.UUID) (string, time.Time, error) {
	args := m.Called(tenantID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func newTenantService() (*TenantService, *MockTenantRepository, *MockTokenIssuer) {
	repo := new(MockTenantRepository)
	issuer := new(MockTokenIssuer)
	return NewTenantService(repo, issuer, zap.NewNop()), repo, issuer
}

func TestAuthenticate(t *testing.T) {
	svc, repo, issuer := newTenantService()
	tenant, rawKey, err := identity.NewTenant("App", "")
	require.NoError(t, err)
	expiresAt := time.Now().Add(time.Hour)

	repo.On("FindByAPIKeyHash", mock.Anything, identity.HashAPIKey(rawKey)).Return(tenant, nil)
	issuer.On("Issue", tenant.ID).Return("signed-token", expiresAt, nil)

	resp, err := svc.Authenticate(context.Background(), AuthRequest{APIKey: rawKey})
	require.NoError(t, err)

	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, expiresAt, resp.ExpiresAt)
}

func TestAuthenticate_UnknownKey(t *testing.T) {
	svc, repo, issuer := newTenantService()

	repo.On("FindByAPIKeyHash", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	_, err := svc.Authenticate(context.Background(), AuthRequest{APIKey: "bogus"})

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	issuer.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestAuthenticate_InactiveTenant(t *testing.T) {
	svc, repo, issuer := newTenantService()
	tenant, rawKey, err := identity.NewTenant("App", "")
	require.NoError(t, err)
	tenant.Active = false

	repo.On("FindByAPIKeyHash", mock.Anything, identity.HashAPIKey(rawKey)).Return(tenant, nil)

	_, err = svc.Authenticate(context.Background(), AuthRequest{APIKey: rawKey})

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	issuer.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestCreate_ReturnsOneTimeKey(t *testing.T) {
	svc, repo, _ := newTenantService()

	repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	resp, err := svc.Create(context.Background(), CreateTenantRequest{ApplicationName: "Storefront Web"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.APIKey)
	assert.Equal(t, "Storefront Web", resp.ApplicationName)
	assert.True(t, resp.Active)
}

func TestGet_OmitsAPIKey(t *testing.T) {
	svc, repo, _ := newTenantService()
	tenant, _, err := identity.NewTenant("App", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

	resp, err := svc.Get(context.Background(), tenant.ID)
	require.NoError(t, err)

	assert.Empty(t, resp.APIKey, "the key is only shown at creation")
}

func TestUpdate_PatchesProvidedFields(t *testing.T) {
	svc, repo, _ := newTenantService()
	tenant, _, err := identity.NewTenant("Old Name", "https://old.example")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	repo.On("Save", mock.Anything, tenant).Return(nil)

	newName := "New Name"
	inactive := false
	resp, err := svc.Update(context.Background(), tenant.ID, UpdateTenantRequest{
		ApplicationName: &newName,
		Active:          &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", resp.ApplicationName)
	assert.Equal(t, "https://old.example", resp.ApplicationURL)
	assert.False(t, resp.Active)
}
