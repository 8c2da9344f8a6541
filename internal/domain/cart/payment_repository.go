package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentRepository defines persistence operations for payment records
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByCartID(ctx context.Context, cartID uuid.UUID) ([]Payment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, int64, error)
	Save(ctx context.Context, p *Payment) error
	// UpdateShippingRefs stores the provider order and label transaction ids
	UpdateShippingRefs(ctx context.Context, id uuid.UUID, fields map[string]any) error
}
