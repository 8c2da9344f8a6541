package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storefront/backend/internal/domain/billing"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const squarePaymentsPath = "/v2/payments"

// SquareAdapter implements billing.PaymentGateway against the Square
// Payments API. The card nonce from the storefront is forwarded as the
// source id and never stored.
type SquareAdapter struct {
	baseURL     string
	accessToken string
	locationID  string
	httpClient  *http.Client
}

// NewSquareAdapter creates a new Square payments adapter
func NewSquareAdapter(cfg config.PaymentConfig) *SquareAdapter {
	return &SquareAdapter{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		locationID:  cfg.LocationID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type squareMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type squareAddress struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Locality     string `json:"locality,omitempty"`
	AdminArea    string `json:"administrative_district_level_1,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
}

type squareCreatePaymentRequest struct {
	IdempotencyKey  string         `json:"idempotency_key"`
	SourceID        string         `json:"source_id"`
	AmountMoney     squareMoney    `json:"amount_money"`
	LocationID      string         `json:"location_id,omitempty"`
	BuyerEmail      string         `json:"buyer_email_address,omitempty"`
	BillingAddress  *squareAddress `json:"billing_address,omitempty"`
	ShippingAddress *squareAddress `json:"shipping_address,omitempty"`
	Note            string         `json:"note,omitempty"`
	Autocomplete    bool           `json:"autocomplete"`
}

type squareCreatePaymentResponse struct {
	Payment struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		ReceiptURL string `json:"receipt_url"`
	} `json:"payment"`
}

type squareErrorResponse struct {
	Errors []billing.ErrorDetail `json:"errors"`
}

// Charge captures a payment. A non-2xx response is returned as a
// *billing.GatewayError carrying Square's own error entries and raw body.
func (a *SquareAdapter) Charge(ctx context.Context, req billing.ChargeRequest) (*billing.ChargeResult, error) {
	body := squareCreatePaymentRequest{
		IdempotencyKey: req.IdempotencyKey,
		SourceID:       req.Nonce,
		AmountMoney: squareMoney{
			Amount:   req.AmountMinor,
			Currency: req.Currency,
		},
		LocationID:      a.locationID,
		BuyerEmail:      req.BuyerEmail,
		BillingAddress:  toSquareAddress(req.BillingAddress),
		ShippingAddress: toSquareAddress(req.ShippingAddress),
		Note:            req.Note,
		Autocomplete:    true,
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("square: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+squarePaymentsPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("square: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.accessToken)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("square: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("square: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gwErr := &billing.GatewayError{
			StatusCode:  resp.StatusCode,
			RawResponse: json.RawMessage(respBody),
		}
		var errResp squareErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			gwErr.Errors = errResp.Errors
		}
		return nil, gwErr
	}

	var respData squareCreatePaymentResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("square: failed to parse response: %w", err)
	}

	return &billing.ChargeResult{
		TransactionID: respData.Payment.ID,
		Status:        respData.Payment.Status,
		ReceiptURL:    respData.Payment.ReceiptURL,
		RawResponse:   string(respBody),
	}, nil
}

func toSquareAddress(addr valueobject.Address) *squareAddress {
	if addr.IsEmpty() {
		return nil
	}
	return &squareAddress{
		AddressLine1: addr.StreetAddress,
		AddressLine2: addr.ExtendedAddress,
		Locality:     addr.City,
		AdminArea:    addr.State,
		PostalCode:   addr.PostalCode,
		Country:      addr.CountryCode,
		FirstName:    addr.FirstName,
		LastName:     addr.LastName,
	}
}

// Ensure SquareAdapter implements PaymentGateway
var _ billing.PaymentGateway = (*SquareAdapter)(nil)
