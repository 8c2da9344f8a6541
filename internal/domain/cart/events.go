package cart

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Event types emitted by the cart domain
const (
	EventTypeCheckoutSucceeded = "cart.checkout_succeeded"
)

// CheckoutItem is the per-line payload carried by the checkout event
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Size      string    `json:"size"`
	Qty       int       `json:"qty"`
}

// CheckoutSucceededEvent is published after a successful payment capture.
// The inventory handler consumes it to decrement per-size counts.
type CheckoutSucceededEvent struct {
	shared.BaseDomainEvent
	CartID        uuid.UUID      `json:"cart_id"`
	CartToken     string         `json:"cart_token"`
	TransactionID string         `json:"transaction_id"`
	Items         []CheckoutItem `json:"items"`
}

// NewCheckoutSucceededEvent builds the event from a charged cart
func NewCheckoutSucceededEvent(c *Cart, transactionID string) *CheckoutSucceededEvent {
	items := make([]CheckoutItem, 0, len(c.Items))
	for i := range c.Items {
		items = append(items, CheckoutItem{
			ProductID: c.Items[i].ProductID,
			Size:      c.Items[i].Size,
			Qty:       c.Items[i].Qty,
		})
	}
	return &CheckoutSucceededEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCheckoutSucceeded, "Cart", c.ID),
		CartID:          c.ID,
		CartToken:       c.Token,
		TransactionID:   transactionID,
		Items:           items,
	}
}
