package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
)

// AddItemRequest adds a product variant to the cart
type AddItemRequest struct {
	ID      string         `json:"id" binding:"required,uuid"`
	Options AddItemOptions `json:"options" binding:"required"`
}

// AddItemOptions carries the variant selector and quantity
type AddItemOptions struct {
	Size string `json:"size" binding:"required"`
	Qty  int    `json:"qty"`
}

// RemoveItemRequest removes a line item by id
type RemoveItemRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

// SetItemQtyRequest changes a line item quantity
type SetItemQtyRequest struct {
	ID  string `json:"id" binding:"required,uuid"`
	Qty int    `json:"qty"`
}

// ShippingAddressRequest captures the buyer's shipping address
type ShippingAddressRequest struct {
	FirstName       string `json:"shipping_firstName" binding:"required"`
	LastName        string `json:"shipping_lastName" binding:"required"`
	Company         string `json:"shipping_company"`
	StreetAddress   string `json:"shipping_streetAddress" binding:"required"`
	ExtendedAddress string `json:"shipping_extendedAddress"`
	City            string `json:"shipping_city" binding:"required"`
	State           string `json:"shipping_state" binding:"required"`
	PostalCode      string `json:"shipping_postalCode" binding:"required"`
	CountryCode     string `json:"shipping_countryCodeAlpha2" binding:"required,len=2"`
	Email           string `json:"shipping_email" binding:"required,email"`
}

// Address converts the request into the address value object
func (r ShippingAddressRequest) Address() valueobject.Address {
	return valueobject.Address{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Company:         r.Company,
		StreetAddress:   r.StreetAddress,
		ExtendedAddress: r.ExtendedAddress,
		City:            r.City,
		State:           r.State,
		PostalCode:      r.PostalCode,
		CountryCode:     r.CountryCode,
		Email:           r.Email,
	}
}

// SelectRateRequest persists a chosen shipping rate
type SelectRateRequest struct {
	RateID            string          `json:"rate_id"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Currency          string          `json:"currency" binding:"required"`
	Provider          string          `json:"provider" binding:"required"`
	ServiceLevelName  string          `json:"servicelevel_name"`
	ServiceLevelToken string          `json:"servicelevel_token"`
	EstimatedDays     int             `json:"estimated_days"`
}

// Rate converts the request into the domain rate
func (r SelectRateRequest) Rate() shipping.Rate {
	return shipping.Rate{
		ObjectID:          r.RateID,
		Amount:            r.Amount,
		Currency:          r.Currency,
		Provider:          r.Provider,
		ServiceLevelName:  r.ServiceLevelName,
		ServiceLevelToken: r.ServiceLevelToken,
		EstimatedDays:     r.EstimatedDays,
	}
}

// CheckoutRequest carries the one-time payment nonce and billing fields.
// The nonce is used for the capture only and is never persisted.
type CheckoutRequest struct {
	Nonce           string `json:"nonce" binding:"required"`
	FirstName       string `json:"billing_firstName"`
	LastName        string `json:"billing_lastName"`
	Company         string `json:"billing_company"`
	StreetAddress   string `json:"billing_streetAddress"`
	ExtendedAddress string `json:"billing_extendedAddress"`
	City            string `json:"billing_city"`
	State           string `json:"billing_state"`
	PostalCode      string `json:"billing_postalCode"`
	CountryCode     string `json:"billing_countryCodeAlpha2"`
	Phone           string `json:"billing_phone"`
	Email           string `json:"billing_email"`
}

// BillingAddress converts the billing fields into the address value object
func (r CheckoutRequest) BillingAddress() valueobject.Address {
	return valueobject.Address{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Company:         r.Company,
		StreetAddress:   r.StreetAddress,
		ExtendedAddress: r.ExtendedAddress,
		City:            r.City,
		State:           r.State,
		PostalCode:      r.PostalCode,
		CountryCode:     r.CountryCode,
		Phone:           r.Phone,
		Email:           r.Email,
	}
}

// CheckoutResponse is returned after a successful capture
type CheckoutResponse struct {
	TransactionID string `json:"transactionId"`
}

// CartItemResponse is one line item in the cart payload
type CartItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Size      string          `json:"size"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Pics      []string        `json:"pics,omitempty"`
}

// CartResponse is the cart payload returned by every /cart endpoint
type CartResponse struct {
	ID              string              `json:"id"`
	Token           string              `json:"token"`
	Status          string              `json:"status"`
	Items           []CartItemResponse  `json:"items"`
	NumItems        int                 `json:"num_items"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	BillingAddress  valueobject.Address `json:"billing_address"`
	ShippingRate    *shipping.Rate      `json:"shipping_rate,omitempty"`
	SubTotal        decimal.Decimal     `json:"sub_total"`
	ShippingTotal   decimal.Decimal     `json:"shipping_total"`
	SalesTax        decimal.Decimal     `json:"sales_tax"`
	GrandTotal      decimal.Decimal     `json:"grand_total"`
	ClosedAt        *time.Time          `json:"closed_at,omitempty"`
}

// CartResult pairs a cart payload with the token the client must persist.
// The token may differ from the one the client sent when a new cart was
// minted (absent, malformed or closed-cart cookie).
type CartResult struct {
	Token string
	Cart  CartResponse
}

// RatesResult pairs quoted rates with the token of the cart they were
// quoted for, so the rates endpoint can echo the token like every other
// cart endpoint.
type RatesResult struct {
	Token string
	Rates []shipping.Rate
}

func toCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		resp := CartItemResponse{
			ID:        it.ID.String(),
			ProductID: it.ProductID.String(),
			Size:      it.Size,
			Qty:       it.Qty,
			LineTotal: it.LineTotal(),
		}
		if it.Product != nil {
			resp.Title = it.Product.Title
			resp.Price = it.Product.DisplayPrice()
			for _, pic := range it.Product.Pics {
				resp.Pics = append(resp.Pics, pic.URL)
			}
		}
		items = append(items, resp)
	}

	resp := CartResponse{
		ID:              c.ID.String(),
		Token:           c.Token,
		Status:          string(c.Status),
		Items:           items,
		NumItems:        c.NumItems(),
		ShippingAddress: c.ShippingAddress,
		BillingAddress:  c.BillingAddress,
		SubTotal:        c.SubTotal,
		ShippingTotal:   c.ShippingTotal,
		SalesTax:        c.SalesTax,
		GrandTotal:      c.GrandTotal,
		ClosedAt:        c.ClosedAt,
	}
	if rate, ok := c.SelectedRate(); ok {
		resp.ShippingRate = &rate
	}
	return resp
}
