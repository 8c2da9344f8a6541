package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryHandler decrements per-size inventory counts when a checkout
// succeeds. It subscribes to the event bus; checkout itself knows nothing
// about inventory.
type InventoryHandler struct {
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewInventoryHandler creates the checkout inventory subscriber
func NewInventoryHandler(products catalog.ProductRepository, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{products: products, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *InventoryHandler) EventTypes() []string {
	return []string{cart.EventTypeCheckoutSucceeded}
}

// Handle implements shared.EventHandler
func (h *InventoryHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*cart.CheckoutSucceededEvent)
	if !ok {
		return nil
	}

	for _, item := range e.Items {
		if err := h.products.DecrementInventory(ctx, item.ProductID, item.Size, item.Qty); err != nil {
			// Inventory drift is recoverable by hand; the purchase is not
			// rolled back over it.
			h.logger.Error("failed to decrement inventory",
				zap.String("product_id", item.ProductID.String()),
				zap.String("size", item.Size),
				zap.Int("qty", item.Qty),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ shared.EventHandler = (*InventoryHandler)(nil)
