package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/domain/tax"
	"go.uber.org/zap"
)

// CartService handles all storefront cart operations short of checkout
type CartService struct {
	carts       cart.Repository
	products    catalog.ProductRepository
	taxRates    tax.TaxRateRepository
	rateGateway shipping.RateGateway
	tenantID    uuid.UUID
	logger      *zap.Logger
}

// NewCartService creates a cart service with explicit dependencies
func NewCartService(
	carts cart.Repository,
	products catalog.ProductRepository,
	taxRates tax.TaxRateRepository,
	rateGateway shipping.RateGateway,
	tenantID uuid.UUID,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		carts:       carts,
		products:    products,
		taxRates:    taxRates,
		rateGateway: rateGateway,
		tenantID:    tenantID,
		logger:      logger,
	}
}

// GetCart returns the cart for the given cookie token, minting a fresh
// cart when the token is absent, malformed or points at a closed cart.
func (s *CartService) GetCart(ctx context.Context, cookieToken string) (*CartResult, error) {
	c, err := s.getOrCreateActiveCart(ctx, cookieToken)
	if err != nil {
		return nil, err
	}
	return &CartResult{Token: c.Token, Cart: toCartResponse(c)}, nil
}

// AddItem adds a product variant to the active cart. Adding the same
// (product, size) pair again increments the existing line's quantity.
func (s *CartService) AddItem(ctx context.Context, cookieToken string, req AddItemRequest) (*CartResult, error) {
	c, err := s.getOrCreateActiveCart(ctx, cookieToken)
	if err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid product id")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, shared.NewDomainError("INVALID_STATE", "product is not available for purchase")
	}
	if _, ok := product.SizeFor(req.Options.Size); !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown size for product")
	}

	qty := cart.NormalizeQty(req.Options.Qty)
	if err := s.carts.AddOrIncrementItem(ctx, c.ID, productID, req.Options.Size, qty); err != nil {
		return nil, err
	}

	return s.refreshTotals(ctx, c.Token)
}

// RemoveItem deletes a line item from the active cart
func (s *CartService) RemoveItem(ctx context.Context, cookieToken string, req RemoveItemRequest) (*CartResult, error) {
	c, itemID, err := s.activeCartItem(ctx, cookieToken, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.refreshTotals(ctx, c.Token)
}

// SetItemQty updates a line item quantity. Invalid quantities are coerced
// to 1 rather than rejected.
func (s *CartService) SetItemQty(ctx context.Context, cookieToken string, req SetItemQtyRequest) (*CartResult, error) {
	c, itemID, err := s.activeCartItem(ctx, cookieToken, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SetItemQty(ctx, itemID, cart.NormalizeQty(req.Qty)); err != nil {
		return nil, err
	}
	return s.refreshTotals(ctx, c.Token)
}

// SetShippingAddress stores the address, recomputes the sales tax, then
// quotes carrier rates with the new address and persists the lowest one.
// Tax is always persisted before the rate.
func (s *CartService) SetShippingAddress(ctx context.Context, cookieToken string, req ShippingAddressRequest) (*CartResult, error) {
	addr := req.Address()
	if err := addr.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	c, err := s.getOrCreateActiveCart(ctx, cookieToken)
	if err != nil {
		return nil, err
	}

	subTotal := c.ComputeSubTotal()
	salesTax, err := s.computeTax(ctx, subTotal, addr)
	if err != nil {
		return nil, err
	}

	fields := addressFields("shipping_", addr)
	fields["sub_total"] = subTotal
	fields["sales_tax"] = salesTax
	fields["grand_total"] = subTotal.Add(c.ShippingTotal).Add(salesTax)
	if err := s.carts.UpdateFields(ctx, c.ID, fields); err != nil {
		return nil, err
	}

	// The address is threaded into the quote directly instead of being
	// re-read from storage, so tax and rate persistence stay two separate
	// updates but a single logical phase.
	rate := s.lowestRateFor(ctx, c, addr)
	c.SubTotal = subTotal
	c.SalesTax = salesTax
	c.ApplyShippingRate(rate)

	rateFields := rateFields(rate)
	rateFields["shipping_total"] = c.ShippingTotal
	rateFields["grand_total"] = c.GrandTotal
	if err := s.carts.UpdateFields(ctx, c.ID, rateFields); err != nil {
		return nil, err
	}

	return s.result(ctx, c.Token)
}

// QuoteRates returns all carrier quotes for the active cart. Unlike rate
// selection during address save, a gateway failure here is surfaced.
func (s *CartService) QuoteRates(ctx context.Context, cookieToken string) (*RatesResult, error) {
	c, err := s.getOrCreateActiveCart(ctx, cookieToken)
	if err != nil {
		return nil, err
	}
	if c.ShippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_STATE", "shipping address must be set before quoting rates")
	}
	rates, err := s.rateGateway.QuoteRates(ctx, s.shipmentFor(c, c.ShippingAddress))
	if err != nil {
		return nil, err
	}
	return &RatesResult{Token: c.Token, Rates: rates}, nil
}

// SelectRate persists a rate the client chose from the quoted list
func (s *CartService) SelectRate(ctx context.Context, cookieToken string, req SelectRateRequest) (*CartResult, error) {
	c, err := s.getOrCreateActiveCart(ctx, cookieToken)
	if err != nil {
		return nil, err
	}

	c.ApplyShippingRate(req.Rate())
	fields := rateFields(req.Rate())
	fields["shipping_total"] = c.ShippingTotal
	fields["grand_total"] = c.GrandTotal
	if err := s.carts.UpdateFields(ctx, c.ID, fields); err != nil {
		return nil, err
	}
	return s.result(ctx, c.Token)
}

// getOrCreateActiveCart enforces the cart precondition shared by every
// storefront operation: a valid token pointing at an open cart, otherwise
// a brand-new cart under a fresh token.
func (s *CartService) getOrCreateActiveCart(ctx context.Context, cookieToken string) (*cart.Cart, error) {
	if token, ok := cart.ResolveToken(cookieToken); ok {
		c, err := s.carts.FindByToken(ctx, token, true)
		switch {
		case err == nil && c.IsActive():
			return c, nil
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}

	fresh := cart.NewCart(cart.NewToken())
	if err := s.carts.Create(ctx, fresh); err != nil {
		return nil, err
	}
	s.logger.Debug("minted new cart", zap.String("token", fresh.Token))
	return fresh, nil
}

// activeCartItem loads the active cart and verifies the item belongs to it
func (s *CartService) activeCartItem(ctx context.Context, cookieToken, itemID string) (*cart.Cart, uuid.UUID, error) {
	c, err := s.getOrCreateActiveCart(ctx, cookieToken)
	if err != nil {
		return nil, uuid.Nil, err
	}
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, uuid.Nil, shared.NewDomainError("INVALID_INPUT", "invalid cart item id")
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			return c, id, nil
		}
	}
	return nil, uuid.Nil, cart.ErrItemNotFound
}

// refreshTotals reloads the cart after an item mutation and keeps the
// persisted totals in line with the new contents.
func (s *CartService) refreshTotals(ctx context.Context, token string) (*CartResult, error) {
	c, err := s.carts.FindByToken(ctx, token, true)
	if err != nil {
		return nil, err
	}

	subTotal := c.ComputeSubTotal()
	salesTax := c.SalesTax
	if !c.ShippingAddress.IsEmpty() {
		salesTax, err = s.computeTax(ctx, subTotal, c.ShippingAddress)
		if err != nil {
			return nil, err
		}
	}
	grandTotal := subTotal.Add(c.ShippingTotal).Add(salesTax)

	if !subTotal.Equal(c.SubTotal) || !salesTax.Equal(c.SalesTax) || !grandTotal.Equal(c.GrandTotal) {
		fields := map[string]any{
			"sub_total":   subTotal,
			"sales_tax":   salesTax,
			"grand_total": grandTotal,
		}
		if err := s.carts.UpdateFields(ctx, c.ID, fields); err != nil {
			return nil, err
		}
		c.SubTotal = subTotal
		c.SalesTax = salesTax
		c.GrandTotal = grandTotal
	}

	return &CartResult{Token: c.Token, Cart: toCartResponse(c)}, nil
}

func (s *CartService) result(ctx context.Context, token string) (*CartResult, error) {
	c, err := s.carts.FindByToken(ctx, token, true)
	if err != nil {
		return nil, err
	}
	return &CartResult{Token: c.Token, Cart: toCartResponse(c)}, nil
}

func (s *CartService) computeTax(ctx context.Context, subTotal decimal.Decimal, addr valueobject.Address) (decimal.Decimal, error) {
	rules, err := s.taxRates.FindForJurisdiction(ctx, s.tenantID, addr.CountryCode, addr.State)
	if err != nil {
		return decimal.Zero, err
	}
	return tax.Compute(subTotal, addr, rules), nil
}

// lowestRateFor quotes rates and selects the cheapest. Any gateway
// failure or an empty quote list falls back to the fixed USPS rate so the
// buyer can still check out.
func (s *CartService) lowestRateFor(ctx context.Context, c *cart.Cart, addr valueobject.Address) shipping.Rate {
	rates, err := s.rateGateway.QuoteRates(ctx, s.shipmentFor(c, addr))
	if err != nil {
		s.logger.Warn("shipping rate quote failed, using fallback rate",
			zap.String("cart_token", c.Token),
			zap.Error(err),
		)
		return shipping.FallbackRate()
	}
	if len(rates) == 0 {
		s.logger.Warn("shipping rate quote returned no rates, using fallback rate",
			zap.String("cart_token", c.Token),
		)
	}
	return shipping.SelectLowestRate(rates)
}

func (s *CartService) shipmentFor(c *cart.Cart, addr valueobject.Address) shipping.Shipment {
	return shipping.Shipment{
		To: addr,
		Parcels: []shipping.Parcel{
			{
				Length:       decimal.NewFromInt(10),
				Width:        decimal.NewFromInt(8),
				Height:       decimal.NewFromInt(4),
				DistanceUnit: "in",
				WeightOz:     c.TotalWeightOz(),
			},
		},
	}
}

func addressFields(prefix string, addr valueobject.Address) map[string]any {
	return map[string]any{
		prefix + "first_name":       addr.FirstName,
		prefix + "last_name":        addr.LastName,
		prefix + "company":          addr.Company,
		prefix + "street_address":   addr.StreetAddress,
		prefix + "extended_address": addr.ExtendedAddress,
		prefix + "city":             addr.City,
		prefix + "state":            addr.State,
		prefix + "postal_code":      addr.PostalCode,
		prefix + "country_code":     addr.CountryCode,
		prefix + "phone":            addr.Phone,
		prefix + "email":            addr.Email,
	}
}

func rateFields(rate shipping.Rate) map[string]any {
	return map[string]any{
		"rate_amount":         rate.Amount,
		"rate_currency":       rate.Currency,
		"rate_provider":       rate.Provider,
		"rate_service_name":   rate.ServiceLevelName,
		"rate_service_token":  rate.ServiceLevelToken,
		"rate_estimated_days": rate.EstimatedDays,
	}
}
