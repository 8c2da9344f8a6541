package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product is the catalog aggregate root. Prices are stored as decimals;
// the effective storefront price depends on the sale flag.
type Product struct {
	shared.TenantAggregateRoot
	Title       string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	SeoURI      string          `gorm:"size:255;uniqueIndex"`
	SeoTitle    string          `gorm:"size:255"`
	SeoDesc     string          `gorm:"size:500"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	SalePrice   decimal.Decimal `gorm:"type:numeric(19,4)"`
	IsOnSale    bool            `gorm:"not null;default:false"`
	IsAvailable bool            `gorm:"not null;default:true"`
	WeightOz    decimal.Decimal `gorm:"type:numeric(10,2)"`
	Material    string          `gorm:"size:100"`
	Fit         string          `gorm:"size:100"`
	VideoURL    string          `gorm:"size:500"`

	Sizes []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Pics  []ProductPic  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductSize is a purchasable variant of a product with its own inventory count
type ProductSize struct {
	shared.BaseEntity
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index:idx_product_sizes_product"`
	Size           string    `gorm:"size:50;not null"`
	InventoryCount int       `gorm:"not null;default:0"`
	IsVisible      bool      `gorm:"not null;default:true"`
	SortOrder      int       `gorm:"not null;default:0"`
}

// ProductPic is a product image reference
type ProductPic struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_product_pics_product"`
	URL       string    `gorm:"size:500;not null"`
	IsVisible bool      `gorm:"not null;default:true"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string { return "products" }

// TableName returns the table name for GORM
func (ProductSize) TableName() string { return "product_sizes" }

// TableName returns the table name for GORM
func (ProductPic) TableName() string { return "product_pics" }

// NewProduct creates a new product for a tenant
func NewProduct(tenantID uuid.UUID, title string, basePrice decimal.Decimal) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product title cannot be empty")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "product price cannot be negative")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		BasePrice:           basePrice,
		IsAvailable:         true,
	}, nil
}

// DisplayPrice returns the effective storefront price: the sale price when
// the product is on sale, otherwise the base price.
func (p *Product) DisplayPrice() decimal.Decimal {
	if p.IsOnSale && p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.BasePrice
}

// SizeFor returns the variant matching the given size label, if present
func (p *Product) SizeFor(size string) (*ProductSize, bool) {
	for i := range p.Sizes {
		if p.Sizes[i].Size == size {
			return &p.Sizes[i], true
		}
	}
	return nil, false
}
