package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence operations for carts and their items.
// All cart storage mutations go through this interface; the checkout
// orchestrator never touches the database directly.
type Repository interface {
	// FindByToken loads a cart by token. With withItems, line items are
	// eagerly loaded together with their product and the product's visible
	// pics and sizes ordered by sort order.
	FindByToken(ctx context.Context, token string, withItems bool) (*Cart, error)
	FindByID(ctx context.Context, id uuid.UUID, withItems bool) (*Cart, error)
	Create(ctx context.Context, c *Cart) error

	// AddOrIncrementItem inserts a line item or, when one already exists
	// for (cart, product, size), increments its quantity atomically.
	AddOrIncrementItem(ctx context.Context, cartID, productID uuid.UUID, size string, qty int) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	SetItemQty(ctx context.Context, itemID uuid.UUID, qty int) error

	// UpdateFields applies a partial update to cart columns. Used for
	// addresses, totals, the selected rate and timestamp transitions.
	UpdateFields(ctx context.Context, cartID uuid.UUID, fields map[string]any) error

	// BeginCharge performs the atomic open -> charging transition. Returns
	// ErrCheckoutInProgress when the cart is not open anymore.
	BeginCharge(ctx context.Context, cartID uuid.UUID) error
	// ReleaseCharge reverts charging -> open after a declined capture.
	ReleaseCharge(ctx context.Context, cartID uuid.UUID) error
	// CloseCharged finishes charging -> closed, setting closed_at and the
	// billing fields in the same update.
	CloseCharged(ctx context.Context, cartID uuid.UUID, closedAt time.Time, fields map[string]any) error
}
