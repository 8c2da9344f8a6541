package billing

import (
	"context"
	"encoding/json"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ChargeRequest is the input to a payment capture. Amount is expressed in
// minor currency units (cents for USD).
type ChargeRequest struct {
	IdempotencyKey  string
	Nonce           string
	AmountMinor     int64
	Currency        string
	BuyerEmail      string
	BillingAddress  valueobject.Address
	ShippingAddress valueobject.Address
	Note            string
}

// ChargeResult is the processor's answer to a successful capture
type ChargeResult struct {
	TransactionID string
	Status        string
	ReceiptURL    string
	// RawResponse is the processor's full response body, persisted on the
	// payment record for audit.
	RawResponse string
}

// PaymentGateway captures charges against an external processor
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// ErrorDetail is one structured error entry as reported by the processor
type ErrorDetail struct {
	Category string `json:"category,omitempty"`
	Code     string `json:"code,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Field    string `json:"field,omitempty"`
}

// GatewayError carries the processor's own structured error payload. It is
// propagated to the API boundary unwrapped so the client sees the
// provider-specific decline reason verbatim.
type GatewayError struct {
	StatusCode  int             `json:"status_code"`
	Errors      []ErrorDetail   `json:"errors,omitempty"`
	RawResponse json.RawMessage `json:"raw_response,omitempty"`
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if len(e.Errors) > 0 && e.Errors[0].Detail != "" {
		return e.Errors[0].Detail
	}
	if len(e.Errors) > 0 {
		return e.Errors[0].Code
	}
	return "payment gateway error"
}
