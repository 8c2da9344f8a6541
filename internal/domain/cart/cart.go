package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
)

// Status is the cart lifecycle state. The charging state exists so that
// checkout can flip open -> charging with a single conditional update,
// which is what prevents two concurrent checkouts from double-charging.
type Status string

const (
	StatusOpen     Status = "open"
	StatusCharging Status = "charging"
	StatusClosed   Status = "closed"
)

// Cart is an anonymous shopping session identified by an opaque token.
// A closed cart is immutable; callers mint a new token and a new cart.
type Cart struct {
	shared.BaseAggregateRoot
	Token  string `gorm:"size:36;uniqueIndex;not null"`
	Status Status `gorm:"size:20;not null;default:'open'"`

	ShippingAddress valueobject.Address `gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress  valueobject.Address `gorm:"embedded;embeddedPrefix:billing_"`

	RateAmount        decimal.Decimal `gorm:"type:numeric(19,4)"`
	RateCurrency      string          `gorm:"size:3"`
	RateProvider      string          `gorm:"size:50"`
	RateServiceName   string          `gorm:"size:100"`
	RateServiceToken  string          `gorm:"size:50"`
	RateEstimatedDays int

	SubTotal      decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0"`
	ShippingTotal decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0"`
	SalesTax      decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0"`

	ClosedAt                        *time.Time
	PurchaseConfirmationEmailSentAt *time.Time

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string { return "carts" }

// NewCart creates a new open cart bound to the given token
func NewCart(token string) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Token:             token,
		Status:            StatusOpen,
		SubTotal:          decimal.Zero,
		ShippingTotal:     decimal.Zero,
		SalesTax:          decimal.Zero,
		GrandTotal:        decimal.Zero,
	}
}

// IsActive reports whether the cart may still be mutated
func (c *Cart) IsActive() bool {
	return c.ClosedAt == nil && c.Status != StatusClosed
}

// IsEmpty reports whether the cart has no line items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// NumItems returns the total quantity across all line items
func (c *Cart) NumItems() int {
	n := 0
	for i := range c.Items {
		n += c.Items[i].Qty
	}
	return n
}

// ComputeSubTotal sums line totals from the loaded items. Items must have
// been loaded with their products.
func (c *Cart) ComputeSubTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// ComputeGrandTotal returns subtotal + shipping + tax from the current fields
func (c *Cart) ComputeGrandTotal() decimal.Decimal {
	return c.SubTotal.Add(c.ShippingTotal).Add(c.SalesTax)
}

// TotalWeightOz returns the shipment weight of all items in ounces
func (c *Cart) TotalWeightOz() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		if c.Items[i].Product == nil {
			continue
		}
		qty := decimal.NewFromInt(int64(c.Items[i].Qty))
		total = total.Add(c.Items[i].Product.WeightOz.Mul(qty))
	}
	return total
}

// ApplyShippingRate records the selected rate and refreshes the totals
func (c *Cart) ApplyShippingRate(rate shipping.Rate) {
	c.RateAmount = rate.Amount
	c.RateCurrency = rate.Currency
	c.RateProvider = rate.Provider
	c.RateServiceName = rate.ServiceLevelName
	c.RateServiceToken = rate.ServiceLevelToken
	c.RateEstimatedDays = rate.EstimatedDays
	c.ShippingTotal = rate.Amount
	c.GrandTotal = c.ComputeGrandTotal()
}

// SelectedRate returns the persisted shipping rate, if one was chosen
func (c *Cart) SelectedRate() (shipping.Rate, bool) {
	if c.RateProvider == "" {
		return shipping.Rate{}, false
	}
	return shipping.Rate{
		Amount:            c.RateAmount,
		Currency:          c.RateCurrency,
		Provider:          c.RateProvider,
		ServiceLevelName:  c.RateServiceName,
		ServiceLevelToken: c.RateServiceToken,
		EstimatedDays:     c.RateEstimatedDays,
	}, true
}

// Close marks the cart closed. It is an error to close a cart twice.
func (c *Cart) Close(at time.Time) error {
	if c.ClosedAt != nil {
		return ErrCartNotActive
	}
	c.ClosedAt = &at
	c.Status = StatusClosed
	return nil
}
