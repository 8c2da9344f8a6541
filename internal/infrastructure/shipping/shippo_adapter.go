package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const (
	shippoShipmentsPath    = "/shipments/"
	shippoOrdersPath       = "/orders/"
	shippoTransactionsPath = "/transactions/"
	shippoPackingSlipPath  = "/orders/%s/packingslip/"
)

// ShippoAdapter implements the rate and label gateways against the Shippo
// REST API.
type ShippoAdapter struct {
	baseURL    string
	apiToken   string
	from       shippoAddress
	httpClient *http.Client
}

// NewShippoAdapter creates a new Shippo adapter. The warehouse origin
// address comes from configuration and is attached to every shipment.
func NewShippoAdapter(cfg config.ShippingConfig) *ShippoAdapter {
	return &ShippoAdapter{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		from: shippoAddress{
			Name:    cfg.FromName,
			Street1: cfg.FromStreet,
			City:    cfg.FromCity,
			State:   cfg.FromState,
			Zip:     cfg.FromPostal,
			Country: cfg.FromCountry,
		},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type shippoAddress struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type shippoParcel struct {
	Length       string `json:"length"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	DistanceUnit string `json:"distance_unit"`
	Weight       string `json:"weight"`
	MassUnit     string `json:"mass_unit"`
}

type shippoShipmentRequest struct {
	AddressFrom shippoAddress  `json:"address_from"`
	AddressTo   shippoAddress  `json:"address_to"`
	Parcels     []shippoParcel `json:"parcels"`
	Async       bool           `json:"async"`
}

type shippoServiceLevel struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

type shippoShipmentResponse struct {
	ObjectID string `json:"object_id"`
	Status   string `json:"status"`
	Rates    []struct {
		ObjectID      string             `json:"object_id"`
		Amount        string             `json:"amount"`
		Currency      string             `json:"currency"`
		Provider      string             `json:"provider"`
		ServiceLevel  shippoServiceLevel `json:"servicelevel"`
		EstimatedDays int                `json:"estimated_days"`
	} `json:"rates"`
}

type shippoOrderLineItem struct {
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	TotalPrice string `json:"total_price"`
	Currency   string `json:"currency"`
	Weight     string `json:"weight"`
	WeightUnit string `json:"weight_unit"`
}

type shippoOrderRequest struct {
	OrderNumber string                `json:"order_number"`
	ToAddress   shippoAddress         `json:"to_address"`
	LineItems   []shippoOrderLineItem `json:"line_items"`
	Weight      string                `json:"weight"`
	WeightUnit  string                `json:"weight_unit"`
	OrderStatus string                `json:"order_status"`
	Placed      string                `json:"placed_at"`
}

type shippoOrderResponse struct {
	ObjectID string `json:"object_id"`
}

type shippoTransactionRequest struct {
	Rate          string `json:"rate"`
	LabelFileType string `json:"label_file_type"`
	Async         bool   `json:"async"`
}

// QuoteRates creates a synchronous shipment and returns its carrier rates
func (a *ShippoAdapter) QuoteRates(ctx context.Context, shipment shipping.Shipment) ([]shipping.Rate, error) {
	parcels := make([]shippoParcel, 0, len(shipment.Parcels))
	for _, p := range shipment.Parcels {
		parcels = append(parcels, shippoParcel{
			Length:       p.Length.String(),
			Width:        p.Width.String(),
			Height:       p.Height.String(),
			DistanceUnit: p.DistanceUnit,
			Weight:       p.WeightOz.String(),
			MassUnit:     "oz",
		})
	}

	body := shippoShipmentRequest{
		AddressFrom: a.from,
		AddressTo:   toShippoAddress(shipment.To),
		Parcels:     parcels,
		Async:       false,
	}

	var respData shippoShipmentResponse
	if err := a.doRequest(ctx, http.MethodPost, shippoShipmentsPath, body, &respData); err != nil {
		return nil, err
	}

	rates := make([]shipping.Rate, 0, len(respData.Rates))
	for _, r := range respData.Rates {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			continue
		}
		rates = append(rates, shipping.Rate{
			ObjectID:          r.ObjectID,
			Amount:            amount,
			Currency:          r.Currency,
			Provider:          r.Provider,
			ServiceLevelName:  r.ServiceLevel.Name,
			ServiceLevelToken: r.ServiceLevel.Token,
			EstimatedDays:     r.EstimatedDays,
		})
	}
	return rates, nil
}

// CreateOrder registers a completed purchase as a provider order
func (a *ShippoAdapter) CreateOrder(ctx context.Context, req shipping.OrderRequest) (string, error) {
	lines := make([]shippoOrderLineItem, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lines = append(lines, shippoOrderLineItem{
			Title:      li.Title,
			Quantity:   li.Quantity,
			TotalPrice: li.TotalPrice,
			Currency:   li.Currency,
			Weight:     li.WeightOz,
			WeightUnit: "oz",
		})
	}

	body := shippoOrderRequest{
		OrderNumber: req.OrderNumber,
		ToAddress:   toShippoAddress(req.To),
		LineItems:   lines,
		Weight:      req.WeightOz,
		WeightUnit:  "oz",
		OrderStatus: "PAID",
		Placed:      time.Now().UTC().Format(time.RFC3339),
	}

	var respData shippoOrderResponse
	if err := a.doRequest(ctx, http.MethodPost, shippoOrdersPath, body, &respData); err != nil {
		return "", err
	}
	return respData.ObjectID, nil
}

// PurchaseLabel buys a label for a previously quoted rate
func (a *ShippoAdapter) PurchaseLabel(ctx context.Context, rateID string) (*shipping.LabelTransaction, error) {
	body := shippoTransactionRequest{
		Rate:          rateID,
		LabelFileType: "PDF",
		Async:         false,
	}

	var tx shipping.LabelTransaction
	if err := a.doRequest(ctx, http.MethodPost, shippoTransactionsPath, body, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransaction fetches an existing label transaction
func (a *ShippoAdapter) GetTransaction(ctx context.Context, transactionID string) (*shipping.LabelTransaction, error) {
	var tx shipping.LabelTransaction
	if err := a.doRequest(ctx, http.MethodGet, shippoTransactionsPath+transactionID, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetPackingSlip fetches the packing slip URL for a provider order
func (a *ShippoAdapter) GetPackingSlip(ctx context.Context, orderID string) (*shipping.PackingSlip, error) {
	var slip shipping.PackingSlip
	path := fmt.Sprintf(shippoPackingSlipPath, orderID)
	if err := a.doRequest(ctx, http.MethodGet, path, nil, &slip); err != nil {
		return nil, err
	}
	return &slip, nil
}

func (a *ShippoAdapter) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("shippo: failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("shippo: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "ShippoToken "+a.apiToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shippo: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("shippo: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("shippo: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("shippo: failed to parse response: %w", err)
		}
	}
	return nil
}

func toShippoAddress(addr valueobject.Address) shippoAddress {
	return shippoAddress{
		Name:    addr.FullName(),
		Company: addr.Company,
		Street1: addr.StreetAddress,
		Street2: addr.ExtendedAddress,
		City:    addr.City,
		State:   addr.State,
		Zip:     addr.PostalCode,
		Country: addr.CountryCode,
		Phone:   addr.Phone,
		Email:   addr.Email,
	}
}

var (
	_ shipping.RateGateway  = (*ShippoAdapter)(nil)
	_ shipping.LabelGateway = (*ShippoAdapter)(nil)
)
