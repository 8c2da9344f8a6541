package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products.
// Loads include only visible sizes and pics, ordered by sort order; hidden
// variants never participate in cart, tax or shipping computation.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySeoURI(ctx context.Context, seoURI string) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	FindAvailableForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementInventory atomically reduces the inventory count of a size
	// variant. The count never goes below zero.
	DecrementInventory(ctx context.Context, productID uuid.UUID, size string, qty int) error
}
