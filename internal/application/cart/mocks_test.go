package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/billing"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/domain/tax"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByToken(ctx context.Context, token string, withItems bool) (*cart.Cart, error) {
	args := m.Called(ctx, token, withItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID, withItems bool) (*cart.Cart, error) {
	args := m.Called(ctx, id, withItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCartRepository) AddOrIncrementItem(ctx context.Context, cartID, productID uuid.UUID, size string, qty int) error {
	return m.Called(ctx, cartID, productID, size, qty).Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *MockCartRepository) SetItemQty(ctx context.Context, itemID uuid.UUID, qty int) error {
	return m.Called(ctx, itemID, qty).Error(0)
}

func (m *MockCartRepository) UpdateFields(ctx context.Context, cartID uuid.UUID, fields map[string]any) error {
	return m.Called(ctx, cartID, fields).Error(0)
}

func (m *MockCartRepository) BeginCharge(ctx context.Context, cartID uuid.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *MockCartRepository) ReleaseCharge(ctx context.Context, cartID uuid.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *MockCartRepository) CloseCharged(ctx context.Context, cartID uuid.UUID, closedAt time.Time, fields map[string]any) error {
	return m.Called(ctx, cartID, closedAt, fields).Error(0)
}

// MockPaymentRepository is a mock implementation of cart.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByCartID(ctx context.Context, cartID uuid.UUID) ([]cart.Payment, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).([]cart.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]cart.Payment, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]cart.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *cart.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) UpdateShippingRefs(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return m.Called(ctx, id, fields).Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySeoURI(ctx context.Context, seoURI string) (*catalog.Product, error) {
	args := m.Called(ctx, seoURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindAvailableForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) DecrementInventory(ctx context.Context, productID uuid.UUID, size string, qty int) error {
	return m.Called(ctx, productID, size, qty).Error(0)
}

// MockTaxRateRepository is a mock implementation of tax.TaxRateRepository
type MockTaxRateRepository struct {
	mock.Mock
}

func (m *MockTaxRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.TaxRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]tax.TaxRate, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]tax.TaxRate), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaxRateRepository) FindForJurisdiction(ctx context.Context, tenantID uuid.UUID, countryCode, state string) ([]tax.TaxRate, error) {
	args := m.Called(ctx, tenantID, countryCode, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tax.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) Save(ctx context.Context, rate *tax.TaxRate) error {
	return m.Called(ctx, rate).Error(0)
}

func (m *MockTaxRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockRateGateway is a mock implementation of shipping.RateGateway
type MockRateGateway struct {
	mock.Mock
}

func (m *MockRateGateway) QuoteRates(ctx context.Context, shipment shipping.Shipment) ([]shipping.Rate, error) {
	args := m.Called(ctx, shipment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Rate), args.Error(1)
}

// MockPaymentGateway is a mock implementation of billing.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Charge(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ChargeResult), args.Error(1)
}

// MockLocker is a mock implementation of cart.CheckoutLocker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, token, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Unlock(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// MockEmailSender is a mock implementation of notification.EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg notification.Message) error {
	return m.Called(ctx, msg).Error(0)
}
