package cart

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(t *testing.T, price float64, weightOz float64) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(uuid.New()),
		Title:               "Test Shirt",
		BasePrice:           decimal.NewFromFloat(price),
		WeightOz:            decimal.NewFromFloat(weightOz),
		IsAvailable:         true,
	}
	return p
}

func addItem(c *Cart, p *catalog.Product, size string, qty int) {
	c.Items = append(c.Items, CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ProductID:  p.ID,
		Size:       size,
		Qty:        qty,
		Product:    p,
	})
}

func TestNewCart(t *testing.T) {
	token := NewToken()
	c := NewCart(token)

	assert.Equal(t, token, c.Token)
	assert.Equal(t, StatusOpen, c.Status)
	assert.True(t, c.IsActive())
	assert.True(t, c.IsEmpty())
	assert.True(t, c.GrandTotal.IsZero())
}

func TestCart_NumItems(t *testing.T) {
	c := NewCart(NewToken())
	p := testProduct(t, 25.00, 6)
	addItem(c, p, "M", 2)
	addItem(c, p, "L", 3)

	assert.Equal(t, 5, c.NumItems())
}

func TestCart_ComputeSubTotal(t *testing.T) {
	c := NewCart(NewToken())
	addItem(c, testProduct(t, 25.00, 6), "M", 2)
	addItem(c, testProduct(t, 10.50, 4), "S", 1)

	assert.True(t, c.ComputeSubTotal().Equal(decimal.NewFromFloat(60.50)))
}

func TestCart_ComputeSubTotal_UnloadedProduct(t *testing.T) {
	c := NewCart(NewToken())
	c.Items = append(c.Items, CartItem{Qty: 3, Size: "M"})

	assert.True(t, c.ComputeSubTotal().IsZero())
}

func TestCart_TotalWeightOz(t *testing.T) {
	c := NewCart(NewToken())
	addItem(c, testProduct(t, 25.00, 6), "M", 2)
	addItem(c, testProduct(t, 10.50, 4.5), "S", 1)

	assert.True(t, c.TotalWeightOz().Equal(decimal.NewFromFloat(16.5)))
}

func TestCart_ApplyShippingRate(t *testing.T) {
	c := NewCart(NewToken())
	addItem(c, testProduct(t, 25.00, 6), "M", 2)
	c.SubTotal = c.ComputeSubTotal()
	c.SalesTax = decimal.NewFromFloat(4.38)

	c.ApplyShippingRate(shipping.Rate{
		Amount:            decimal.NewFromFloat(8.00),
		Currency:          "USD",
		Provider:          "USPS",
		ServiceLevelName:  "Priority Mail",
		ServiceLevelToken: "usps_priority",
		EstimatedDays:     2,
	})

	assert.True(t, c.ShippingTotal.Equal(decimal.NewFromFloat(8.00)))
	assert.True(t, c.GrandTotal.Equal(decimal.NewFromFloat(62.38)))

	rate, ok := c.SelectedRate()
	require.True(t, ok)
	assert.Equal(t, "usps_priority", rate.ServiceLevelToken)
}

func TestCart_SelectedRate_NoneChosen(t *testing.T) {
	c := NewCart(NewToken())
	_, ok := c.SelectedRate()
	assert.False(t, ok)
}

func TestCart_Close(t *testing.T) {
	c := NewCart(NewToken())
	now := time.Now()

	require.NoError(t, c.Close(now))
	assert.Equal(t, StatusClosed, c.Status)
	assert.False(t, c.IsActive())
	require.NotNil(t, c.ClosedAt)
	assert.Equal(t, now, *c.ClosedAt)
}

func TestCart_Close_Twice(t *testing.T) {
	c := NewCart(NewToken())
	require.NoError(t, c.Close(time.Now()))

	err := c.Close(time.Now())
	assert.ErrorIs(t, err, ErrCartNotActive)
}

func TestNormalizeQty(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{7, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeQty(tt.in))
	}
}

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"empty", "", false},
		{"garbage", "not-a-uuid", false},
		{"v1 uuid", "f47ac10b-58cc-1372-a567-0e02b2c3d479", false},
		{"valid v4", uuid.NewString(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ResolveToken(tt.value)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestResolveToken_Canonicalizes(t *testing.T) {
	raw := uuid.NewString()
	got, ok := ResolveToken(strings.ToUpper(raw))
	require.True(t, ok)
	assert.Equal(t, raw, got)
}
