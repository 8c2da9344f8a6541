package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartItem is a line item. Its merge identity is (cart, product, size):
// adding the same product and size again increments Qty instead of
// inserting a second row.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_identity,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_identity,priority:2"`
	Size      string    `gorm:"size:50;not null;uniqueIndex:idx_cart_items_identity,priority:3"`
	Qty       int       `gorm:"not null;default:1"`

	Product *catalog.Product `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string { return "cart_items" }

// NormalizeQty coerces an invalid or missing quantity to 1
func NormalizeQty(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

// LineTotal returns qty * display price. Zero when the product relation
// has not been loaded.
func (i *CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.DisplayPrice().Mul(decimal.NewFromInt(int64(i.Qty)))
}
