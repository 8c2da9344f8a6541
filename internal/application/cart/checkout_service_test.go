package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/billing"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	carts    *MockCartRepository
	payments *MockPaymentRepository
	taxRates *MockTaxRateRepository
	gateway  *MockPaymentGateway
	locker   *MockLocker
	events   *MockEventPublisher
	sender   *MockEmailSender
	notify   *NotificationService
	svc      *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:    new(MockCartRepository),
		payments: new(MockPaymentRepository),
		taxRates: new(MockTaxRateRepository),
		gateway:  new(MockPaymentGateway),
		locker:   new(MockLocker),
		events:   new(MockEventPublisher),
		sender:   new(MockEmailSender),
	}
	f.notify = NewNotificationService(f.sender, f.carts, NotificationConfig{
		BrandName:  "Test Store",
		AdminEmail: "admin@test.example",
		FromEmail:  "orders@test.example",
	}, zap.NewNop())
	f.svc = NewCheckoutService(
		f.carts, f.payments, f.taxRates, f.gateway,
		f.locker, f.events, f.notify, uuid.New(), zap.NewNop(),
	)
	return f
}

// readyCart builds a cart with one item, a shipping address and consistent
// totals, the state a buyer reaches right before checkout.
func readyCart() *cart.Cart {
	p := &catalog.Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(uuid.New()),
		Title:               "Test Shirt",
		BasePrice:           decimal.NewFromFloat(25.00),
		WeightOz:            decimal.NewFromFloat(6),
		IsAvailable:         true,
	}
	c := cart.NewCart(cart.NewToken())
	c.Items = append(c.Items, cart.CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ProductID:  p.ID,
		Size:       "M",
		Qty:        2,
		Product:    p,
	})
	c.ShippingAddress = valueobject.Address{
		FirstName:     "Jo",
		LastName:      "Doe",
		StreetAddress: "100 Main St",
		City:          "Columbus",
		State:         "OH",
		PostalCode:    "43004",
		CountryCode:   "US",
		Email:         "jo@test.example",
	}
	c.SubTotal = decimal.NewFromFloat(50.00)
	c.ShippingTotal = decimal.NewFromFloat(5.00)
	c.SalesTax = decimal.Zero
	c.GrandTotal = decimal.NewFromFloat(55.00)
	return c
}

func TestCheckout_Success(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)
	f.locker.On("TryLock", mock.Anything, c.Token, checkoutLockTTL).Return(true, nil)
	f.locker.On("Unlock", mock.Anything, c.Token).Return(nil)
	f.carts.On("BeginCharge", mock.Anything, c.ID).Return(nil)
	f.taxRates.On("FindForJurisdiction", mock.Anything, mock.Anything, "US", "OH").Return([]tax.TaxRate{}, nil)
	f.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req billing.ChargeRequest) bool {
		return req.AmountMinor == 5500 && req.Currency == "USD" && req.Nonce == "cnon:test"
	})).Return(&billing.ChargeResult{TransactionID: "txn-1", Status: "COMPLETED", RawResponse: "{}"}, nil)
	f.payments.On("Save", mock.Anything, mock.MatchedBy(func(p *cart.Payment) bool {
		return p.Success && p.TransactionID == "txn-1"
	})).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("CloseCharged", mock.Anything, c.ID, mock.Anything, mock.Anything).Return(nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("UpdateFields", mock.Anything, c.ID, mock.Anything).Return(nil)

	resp, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:test"})
	require.NoError(t, err)
	assert.Equal(t, "txn-1", resp.TransactionID)

	f.notify.Wait()
	f.carts.AssertCalled(t, "CloseCharged", mock.Anything, c.ID, mock.Anything, mock.Anything)
	f.sender.AssertNumberOfCalls(t, "Send", 2)
	f.carts.AssertCalled(t, "UpdateFields", mock.Anything, c.ID, mock.MatchedBy(func(fields map[string]any) bool {
		_, ok := fields["purchase_confirmation_email_sent_at"]
		return ok
	}))
}

func TestCheckout_DeclineReopensCart(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()

	declined := &billing.GatewayError{
		StatusCode: 402,
		Errors: []billing.ErrorDetail{
			{Category: "PAYMENT_METHOD_ERROR", Code: "CARD_DECLINED", Detail: "Card declined."},
		},
		RawResponse: []byte(`{"errors":[{"code":"CARD_DECLINED"}]}`),
	}

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)
	f.locker.On("TryLock", mock.Anything, c.Token, checkoutLockTTL).Return(true, nil)
	f.locker.On("Unlock", mock.Anything, c.Token).Return(nil)
	f.carts.On("BeginCharge", mock.Anything, c.ID).Return(nil)
	f.taxRates.On("FindForJurisdiction", mock.Anything, mock.Anything, "US", "OH").Return([]tax.TaxRate{}, nil)
	f.gateway.On("Charge", mock.Anything, mock.Anything).Return(nil, declined)
	f.payments.On("Save", mock.Anything, mock.MatchedBy(func(p *cart.Payment) bool {
		return !p.Success && p.TransactionID == ""
	})).Return(nil)
	f.carts.On("ReleaseCharge", mock.Anything, c.ID).Return(nil)

	_, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:bad"})
	require.Error(t, err)

	var gwErr *billing.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "CARD_DECLINED", gwErr.Errors[0].Code)

	f.carts.AssertCalled(t, "ReleaseCharge", mock.Anything, c.ID)
	f.carts.AssertNotCalled(t, "CloseCharged", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.payments.AssertNumberOfCalls(t, "Save", 1)
}

func TestCheckout_LockHeld(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)
	f.locker.On("TryLock", mock.Anything, c.Token, checkoutLockTTL).Return(false, nil)

	_, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:test"})
	assert.ErrorIs(t, err, cart.ErrCheckoutInProgress)
	f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestCheckout_BeginChargeConflict(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)
	f.locker.On("TryLock", mock.Anything, c.Token, checkoutLockTTL).Return(true, nil)
	f.locker.On("Unlock", mock.Anything, c.Token).Return(nil)
	f.carts.On("BeginCharge", mock.Anything, c.ID).Return(cart.ErrCheckoutInProgress)

	_, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:test"})
	assert.ErrorIs(t, err, cart.ErrCheckoutInProgress)
	f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
	f.locker.AssertCalled(t, "Unlock", mock.Anything, c.Token)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	c := cart.NewCart(cart.NewToken())

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)

	_, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:test"})
	assert.ErrorIs(t, err, cart.ErrCartEmpty)
}

func TestCheckout_ClosedCart(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()
	c.Status = cart.StatusClosed

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)

	_, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:test"})
	assert.ErrorIs(t, err, cart.ErrCartNotActive)
}

func TestCheckout_InvalidToken(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.Checkout(context.Background(), "not-a-token", CheckoutRequest{Nonce: "cnon:test"})
	assert.ErrorIs(t, err, cart.ErrCartNotActive)
	f.carts.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_UnknownToken(t *testing.T) {
	f := newCheckoutFixture()
	token := cart.NewToken()

	f.carts.On("FindByToken", mock.Anything, token, true).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Checkout(context.Background(), token, CheckoutRequest{Nonce: "cnon:test"})
	assert.ErrorIs(t, err, cart.ErrCartNotActive)
}

func TestCheckout_RecomputedTotalWins(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()
	// Tamper with the persisted grand total; the charge must use the
	// recomputed amount instead.
	c.GrandTotal = decimal.NewFromFloat(1.00)

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)
	f.locker.On("TryLock", mock.Anything, c.Token, checkoutLockTTL).Return(true, nil)
	f.locker.On("Unlock", mock.Anything, c.Token).Return(nil)
	f.carts.On("BeginCharge", mock.Anything, c.ID).Return(nil)
	f.taxRates.On("FindForJurisdiction", mock.Anything, mock.Anything, "US", "OH").Return([]tax.TaxRate{}, nil)
	f.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req billing.ChargeRequest) bool {
		return req.AmountMinor == 5500
	})).Return(&billing.ChargeResult{TransactionID: "txn-2", RawResponse: "{}"}, nil)
	f.payments.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("CloseCharged", mock.Anything, c.ID, mock.Anything, mock.Anything).Return(nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("UpdateFields", mock.Anything, c.ID, mock.Anything).Return(nil)

	resp, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:test"})
	require.NoError(t, err)
	assert.Equal(t, "txn-2", resp.TransactionID)
	f.notify.Wait()
}

func TestCheckout_ChargesRateCurrency(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()
	c.RateCurrency = "CAD"

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)
	f.locker.On("TryLock", mock.Anything, c.Token, checkoutLockTTL).Return(true, nil)
	f.locker.On("Unlock", mock.Anything, c.Token).Return(nil)
	f.carts.On("BeginCharge", mock.Anything, c.ID).Return(nil)
	f.taxRates.On("FindForJurisdiction", mock.Anything, mock.Anything, "US", "OH").Return([]tax.TaxRate{}, nil)
	f.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req billing.ChargeRequest) bool {
		return req.AmountMinor == 5500 && req.Currency == "CAD"
	})).Return(&billing.ChargeResult{TransactionID: "txn-5", RawResponse: "{}"}, nil)
	f.payments.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("CloseCharged", mock.Anything, c.ID, mock.Anything, mock.Anything).Return(nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("UpdateFields", mock.Anything, c.ID, mock.Anything).Return(nil)

	_, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:test"})
	require.NoError(t, err)
	f.notify.Wait()
}

func TestCheckout_NonceNeverPersisted(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()

	var closedFields map[string]any
	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)
	f.locker.On("TryLock", mock.Anything, c.Token, checkoutLockTTL).Return(true, nil)
	f.locker.On("Unlock", mock.Anything, c.Token).Return(nil)
	f.carts.On("BeginCharge", mock.Anything, c.ID).Return(nil)
	f.taxRates.On("FindForJurisdiction", mock.Anything, mock.Anything, "US", "OH").Return([]tax.TaxRate{}, nil)
	f.gateway.On("Charge", mock.Anything, mock.Anything).Return(&billing.ChargeResult{TransactionID: "txn-3", RawResponse: "{}"}, nil)
	f.payments.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("CloseCharged", mock.Anything, c.ID, mock.Anything, mock.MatchedBy(func(fields map[string]any) bool {
		closedFields = fields
		return true
	})).Return(nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.carts.On("UpdateFields", mock.Anything, c.ID, mock.Anything).Return(nil)

	_, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:secret"})
	require.NoError(t, err)
	f.notify.Wait()

	for k, v := range closedFields {
		s, ok := v.(string)
		if ok {
			assert.NotContains(t, s, "cnon:secret", "field %s must not contain the nonce", k)
		}
	}
}

func TestCheckout_GatewayErrorMessage(t *testing.T) {
	err := &billing.GatewayError{
		Errors: []billing.ErrorDetail{{Code: "CARD_DECLINED", Detail: "Card declined."}},
	}
	assert.Equal(t, "Card declined.", err.Error())

	var empty billing.GatewayError
	assert.Equal(t, "payment gateway error", empty.Error())
}

func TestCheckout_LockerError(t *testing.T) {
	f := newCheckoutFixture()
	c := readyCart()
	boom := errors.New("redis down")

	f.carts.On("FindByToken", mock.Anything, c.Token, true).Return(c, nil)
	f.locker.On("TryLock", mock.Anything, c.Token, checkoutLockTTL).Return(false, boom)

	_, err := f.svc.Checkout(context.Background(), c.Token, CheckoutRequest{Nonce: "cnon:test"})
	assert.ErrorIs(t, err, boom)
}
