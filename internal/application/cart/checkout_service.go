package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/billing"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/tax"
	"go.uber.org/zap"
)

// checkoutLockTTL bounds how long a crashed checkout can keep a cart locked
const checkoutLockTTL = 30 * time.Second

// CheckoutService orchestrates the capture flow:
// lock -> open->charging -> charge -> payment row -> event -> close -> emails.
type CheckoutService struct {
	carts         cart.Repository
	payments      cart.PaymentRepository
	taxRates      tax.TaxRateRepository
	gateway       billing.PaymentGateway
	locker        cart.CheckoutLocker
	events        shared.EventPublisher
	notifications *NotificationService
	tenantID      uuid.UUID
	logger        *zap.Logger
}

// NewCheckoutService creates a checkout service with explicit dependencies
func NewCheckoutService(
	carts cart.Repository,
	payments cart.PaymentRepository,
	taxRates tax.TaxRateRepository,
	gateway billing.PaymentGateway,
	locker cart.CheckoutLocker,
	events shared.EventPublisher,
	notifications *NotificationService,
	tenantID uuid.UUID,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:         carts,
		payments:      payments,
		taxRates:      taxRates,
		gateway:       gateway,
		locker:        locker,
		events:        events,
		notifications: notifications,
		tenantID:      tenantID,
		logger:        logger,
	}
}

// Checkout captures payment for the cart behind the cookie token. On
// success the cart is closed and can never be mutated again; on decline
// the cart reopens so the buyer can retry, and the gateway's structured
// decline reason is returned unwrapped.
func (s *CheckoutService) Checkout(ctx context.Context, cookieToken string, req CheckoutRequest) (*CheckoutResponse, error) {
	token, ok := cart.ResolveToken(cookieToken)
	if !ok {
		return nil, cart.ErrCartNotActive
	}

	c, err := s.carts.FindByToken(ctx, token, true)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, cart.ErrCartNotActive
		}
		return nil, err
	}
	if !c.IsActive() {
		return nil, cart.ErrCartNotActive
	}
	if c.IsEmpty() {
		return nil, cart.ErrCartEmpty
	}

	acquired, err := s.locker.TryLock(ctx, token, checkoutLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, cart.ErrCheckoutInProgress
	}
	defer func() {
		if err := s.locker.Unlock(ctx, token); err != nil {
			s.logger.Warn("failed to release checkout lock", zap.String("cart_token", token), zap.Error(err))
		}
	}()

	// Conditional open -> charging transition. The database is the
	// authority: even if two requests pass the lock on different
	// processes, only one can flip the row.
	if err := s.carts.BeginCharge(ctx, c.ID); err != nil {
		return nil, err
	}

	amount, currency := s.chargeAmount(ctx, c)

	result, err := s.gateway.Charge(ctx, billing.ChargeRequest{
		IdempotencyKey:  billing.NewIdempotencyKey(),
		Nonce:           req.Nonce,
		AmountMinor:     amount,
		Currency:        currency,
		BuyerEmail:      c.ShippingAddress.Email,
		BillingAddress:  req.BillingAddress(),
		ShippingAddress: c.ShippingAddress,
		Note:            "order " + c.Token,
	})
	if err != nil {
		s.recordDecline(ctx, c, err)
		if relErr := s.carts.ReleaseCharge(ctx, c.ID); relErr != nil {
			s.logger.Error("failed to reopen cart after declined charge",
				zap.String("cart_token", token), zap.Error(relErr))
		}
		return nil, err
	}

	payment := cart.NewPayment(c.ID, cart.PaymentTypeCreditCard, true, result.TransactionID, result.RawResponse)
	if err := s.payments.Save(ctx, payment); err != nil {
		// The charge went through; losing the audit row is not a reason
		// to report failure to the buyer.
		s.logger.Error("failed to persist successful payment",
			zap.String("cart_token", token),
			zap.String("transaction_id", result.TransactionID),
			zap.Error(err))
	}

	if err := s.events.Publish(ctx, cart.NewCheckoutSucceededEvent(c, result.TransactionID)); err != nil {
		s.logger.Error("failed to publish checkout event",
			zap.String("cart_token", token), zap.Error(err))
	}

	// Billing fields are persisted with the close; the nonce never is.
	fields := addressFields("billing_", req.BillingAddress())
	if err := s.carts.CloseCharged(ctx, c.ID, time.Now(), fields); err != nil {
		s.logger.Error("failed to close cart after successful charge",
			zap.String("cart_token", token), zap.Error(err))
	}

	s.notifications.DispatchPurchaseConfirmations(c, result.TransactionID)

	s.logger.Info("checkout succeeded",
		zap.String("cart_token", token),
		zap.String("transaction_id", result.TransactionID),
		zap.Int64("amount_minor", amount),
	)
	return &CheckoutResponse{TransactionID: result.TransactionID}, nil
}

// chargeAmount returns the amount to capture in minor units. The persisted
// grand total is trusted only after recomputing it from the loaded items;
// a mismatch is logged and the recomputed value wins.
func (s *CheckoutService) chargeAmount(ctx context.Context, c *cart.Cart) (int64, string) {
	currency := valueobject.Currency(c.RateCurrency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	subTotal := c.ComputeSubTotal()
	salesTax := c.SalesTax
	if rules, err := s.taxRates.FindForJurisdiction(ctx, s.tenantID, c.ShippingAddress.CountryCode, c.ShippingAddress.State); err == nil {
		salesTax = tax.Compute(subTotal, c.ShippingAddress, rules)
	} else {
		s.logger.Warn("tax recompute failed at charge time, using persisted sales tax",
			zap.String("cart_token", c.Token), zap.Error(err))
	}
	recomputed := subTotal.Add(c.ShippingTotal).Add(salesTax)

	total := c.GrandTotal
	if !recomputed.Equal(c.GrandTotal) {
		s.logger.Error("grand total mismatch at charge time, charging recomputed amount",
			zap.String("cart_token", c.Token),
			zap.String("persisted", c.GrandTotal.StringFixed(2)),
			zap.String("recomputed", recomputed.StringFixed(2)),
		)
		total = recomputed
	}

	// currency is never empty here, so NewMoney cannot fail
	money, _ := valueobject.NewMoney(total, currency)
	return money.MinorUnits(), string(currency)
}

// recordDecline persists the failed attempt for audit. The gateway's own
// error payload is stored verbatim when present.
func (s *CheckoutService) recordDecline(ctx context.Context, c *cart.Cart, chargeErr error) {
	raw := ""
	var gwErr *billing.GatewayError
	if errors.As(chargeErr, &gwErr) && len(gwErr.RawResponse) > 0 {
		raw = string(gwErr.RawResponse)
	} else {
		encoded, _ := json.Marshal(map[string]string{"error": chargeErr.Error()})
		raw = string(encoded)
	}

	payment := cart.NewPayment(c.ID, cart.PaymentTypeCreditCard, false, "", raw)
	if err := s.payments.Save(ctx, payment); err != nil {
		s.logger.Error("failed to persist declined payment",
			zap.String("cart_token", c.Token), zap.Error(err))
	}

	s.logger.Warn("payment declined",
		zap.String("cart_token", c.Token),
		zap.Error(chargeErr),
	)
}
