package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shipping"
	"go.uber.org/zap"
)

// PaymentService serves the admin payment surface: browsing capture
// records and producing provider orders, packing slips and shipping
// labels for fulfilled purchases.
type PaymentService struct {
	payments cart.PaymentRepository
	labels   shipping.LabelGateway
	logger   *zap.Logger
}

// NewPaymentService creates a payment service
func NewPaymentService(payments cart.PaymentRepository, labels shipping.LabelGateway, logger *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, labels: labels, logger: logger}
}

// PaymentResponse is one capture record
type PaymentResponse struct {
	ID                  string  `json:"id"`
	CartID              string  `json:"cart_id"`
	PaymentType         int     `json:"payment_type"`
	Success             bool    `json:"success"`
	TransactionID       string  `json:"transaction_id"`
	ShippoOrderID       *string `json:"shippo_order_id,omitempty"`
	ShippoTransactionID *string `json:"shippo_transaction_id,omitempty"`
}

// List returns capture records, newest first
func (s *PaymentService) List(ctx context.Context, filter shared.Filter) ([]PaymentResponse, int64, error) {
	items, total, err := s.payments.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PaymentResponse, 0, len(items))
	for i := range items {
		out = append(out, toPaymentResponse(&items[i]))
	}
	return out, total, nil
}

// Get returns one capture record
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPaymentResponse(p)
	return &resp, nil
}

// CreateShippingOrder creates a provider-side order for a successful
// payment so a packing slip and label can be produced.
func (s *PaymentService) CreateShippingOrder(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.Success {
		return nil, shared.NewDomainError("INVALID_STATE", "cannot create a shipping order for a declined payment")
	}
	if p.Cart == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "payment has no cart loaded")
	}

	c := p.Cart
	lines := make([]shipping.OrderLineItem, 0, len(c.Items))
	for i := range c.Items {
		it := &c.Items[i]
		title := ""
		weight := "0"
		if it.Product != nil {
			title = it.Product.Title
			weight = it.Product.WeightOz.String()
		}
		lines = append(lines, shipping.OrderLineItem{
			Title:      title,
			Quantity:   it.Qty,
			TotalPrice: it.LineTotal().StringFixed(2),
			Currency:   "USD",
			WeightOz:   weight,
		})
	}

	orderID, err := s.labels.CreateOrder(ctx, shipping.OrderRequest{
		OrderNumber: p.ID.String(),
		To:          c.ShippingAddress,
		LineItems:   lines,
		WeightOz:    c.TotalWeightOz().String(),
		Total:       c.GrandTotal.StringFixed(2),
		Currency:    "USD",
	})
	if err != nil {
		return nil, err
	}

	if err := s.payments.UpdateShippingRefs(ctx, p.ID, map[string]any{"shippo_order_id": orderID}); err != nil {
		return nil, err
	}
	p.ShippoOrderID = &orderID
	s.logger.Info("shipping order created",
		zap.String("payment_id", p.ID.String()),
		zap.String("shippo_order_id", orderID),
	)
	resp := toPaymentResponse(p)
	return &resp, nil
}

// PurchaseShippingLabel buys a label for the given provider rate and
// stores the transaction id on the payment.
func (s *PaymentService) PurchaseShippingLabel(ctx context.Context, paymentID uuid.UUID, rateID string) (*shipping.LabelTransaction, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if rateID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "rate id is required")
	}

	tx, err := s.labels.PurchaseLabel(ctx, rateID)
	if err != nil {
		return nil, err
	}

	if err := s.payments.UpdateShippingRefs(ctx, p.ID, map[string]any{"shippo_transaction_id": tx.ObjectID}); err != nil {
		return nil, err
	}
	s.logger.Info("shipping label purchased",
		zap.String("payment_id", p.ID.String()),
		zap.String("shippo_transaction_id", tx.ObjectID),
	)
	return tx, nil
}

// GetShippingLabel fetches the label transaction bought for a payment
func (s *PaymentService) GetShippingLabel(ctx context.Context, paymentID uuid.UUID) (*shipping.LabelTransaction, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.HasShippingLabel() {
		return nil, shared.ErrNotFound
	}
	return s.labels.GetTransaction(ctx, *p.ShippoTransactionID)
}

// DeleteShippingLabel detaches a purchased label from a payment so a new
// one can be bought (the provider transaction itself is not refunded here).
func (s *PaymentService) DeleteShippingLabel(ctx context.Context, paymentID uuid.UUID) error {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if !p.HasShippingLabel() {
		return shared.ErrNotFound
	}
	return s.payments.UpdateShippingRefs(ctx, p.ID, map[string]any{"shippo_transaction_id": nil})
}

// GetPackingSlip fetches the packing slip for a payment's provider order
func (s *PaymentService) GetPackingSlip(ctx context.Context, paymentID uuid.UUID) (*shipping.PackingSlip, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.ShippoOrderID == nil || *p.ShippoOrderID == "" {
		return nil, shared.NewDomainError("INVALID_STATE", "payment has no shipping order yet")
	}
	return s.labels.GetPackingSlip(ctx, *p.ShippoOrderID)
}

func toPaymentResponse(p *cart.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                  p.ID.String(),
		CartID:              p.CartID.String(),
		PaymentType:         int(p.PaymentType),
		Success:             p.Success,
		TransactionID:       p.TransactionID,
		ShippoOrderID:       p.ShippoOrderID,
		ShippoTransactionID: p.ShippoTransactionID,
	}
}
