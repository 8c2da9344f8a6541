package shipping

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// RateGateway quotes carrier rates for a shipment
type RateGateway interface {
	QuoteRates(ctx context.Context, shipment Shipment) ([]Rate, error)
}

// OrderRequest creates a provider-side order so a packing slip and label
// can be produced for a completed purchase.
type OrderRequest struct {
	OrderNumber string
	To          valueobject.Address
	LineItems   []OrderLineItem
	WeightOz    string
	Total       string
	Currency    string
}

// OrderLineItem is one purchased line on a provider order
type OrderLineItem struct {
	Title      string
	Quantity   int
	TotalPrice string
	Currency   string
	WeightOz   string
}

// LabelTransaction is the result of purchasing a shipping label
type LabelTransaction struct {
	ObjectID       string `json:"object_id"`
	Status         string `json:"status"`
	LabelURL       string `json:"label_url"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url_provider"`
}

// PackingSlip is a downloadable slip for a provider order
type PackingSlip struct {
	SlipURL string `json:"slip_url"`
	Expires string `json:"expires"`
}

// LabelGateway covers the provider's order and label surface, used by the
// admin API after checkout.
type LabelGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (orderID string, err error)
	PurchaseLabel(ctx context.Context, rateID string) (*LabelTransaction, error)
	GetTransaction(ctx context.Context, transactionID string) (*LabelTransaction, error)
	GetPackingSlip(ctx context.Context, orderID string) (*PackingSlip, error)
}
