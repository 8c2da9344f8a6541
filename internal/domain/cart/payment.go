package cart

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentType identifies how the buyer paid
type PaymentType int

const (
	PaymentTypeCreditCard PaymentType = 1
	PaymentTypePayPal     PaymentType = 2
)

// Payment is one capture attempt against a cart. Both successful and
// declined attempts are persisted so there is always an audit trail.
type Payment struct {
	shared.BaseAggregateRoot
	CartID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	PaymentType   PaymentType `gorm:"not null;default:1"`
	Success       bool        `gorm:"not null;default:false"`
	TransactionID string      `gorm:"size:100;index"`
	RawResponse   string      `gorm:"type:jsonb"`

	// Set later through the admin shipping-label flow
	ShippoOrderID       *string `gorm:"size:100"`
	ShippoTransactionID *string `gorm:"size:100"`

	Cart *Cart `gorm:"foreignKey:CartID"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string { return "payments" }

// NewPayment records a capture attempt for a cart
func NewPayment(cartID uuid.UUID, paymentType PaymentType, success bool, transactionID, rawResponse string) *Payment {
	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CartID:            cartID,
		PaymentType:       paymentType,
		Success:           success,
		TransactionID:     transactionID,
		RawResponse:       rawResponse,
	}
}

// HasShippingLabel reports whether a label was already purchased
func (p *Payment) HasShippingLabel() bool {
	return p.ShippoTransactionID != nil && *p.ShippoTransactionID != ""
}
