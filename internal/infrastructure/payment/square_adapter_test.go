package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront/backend/internal/domain/billing"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chargeRequest() billing.ChargeRequest {
	return billing.ChargeRequest{
		IdempotencyKey: "cart-token-1",
		Nonce:          "cnon:test-nonce",
		AmountMinor:    5500,
		Currency:       "USD",
		BuyerEmail:     "jo@test.example",
		BillingAddress: valueobject.Address{
			FirstName:     "Jo",
			LastName:      "Doe",
			StreetAddress: "100 Main St",
			City:          "Columbus",
			State:         "OH",
			PostalCode:    "43004",
			CountryCode:   "US",
		},
	}
}

func TestSquareAdapter_Charge(t *testing.T) {
	var captured squareCreatePaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/payments", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"payment":{"id":"pay-1","status":"COMPLETED","receipt_url":"https://squareup.example/r/1"}}`))
	}))
	defer srv.Close()

	adapter := NewSquareAdapter(config.PaymentConfig{
		BaseURL:     srv.URL,
		AccessToken: "test-token",
		LocationID:  "loc-1",
	})

	result, err := adapter.Charge(context.Background(), chargeRequest())
	require.NoError(t, err)

	assert.Equal(t, "pay-1", result.TransactionID)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.Equal(t, "https://squareup.example/r/1", result.ReceiptURL)
	assert.Contains(t, result.RawResponse, "pay-1")

	assert.Equal(t, "cnon:test-nonce", captured.SourceID)
	assert.Equal(t, int64(5500), captured.AmountMoney.Amount)
	assert.Equal(t, "USD", captured.AmountMoney.Currency)
	assert.Equal(t, "loc-1", captured.LocationID)
	assert.True(t, captured.Autocomplete)
	require.NotNil(t, captured.BillingAddress)
	assert.Equal(t, "Columbus", captured.BillingAddress.Locality)
	assert.Nil(t, captured.ShippingAddress)
}

func TestSquareAdapter_Charge_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"errors":[{"category":"PAYMENT_METHOD_ERROR","code":"CARD_DECLINED","detail":"Card declined."}]}`))
	}))
	defer srv.Close()

	adapter := NewSquareAdapter(config.PaymentConfig{BaseURL: srv.URL, AccessToken: "test-token"})

	result, err := adapter.Charge(context.Background(), chargeRequest())
	assert.Nil(t, result)

	var gwErr *billing.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusPaymentRequired, gwErr.StatusCode)
	require.Len(t, gwErr.Errors, 1)
	assert.Equal(t, "CARD_DECLINED", gwErr.Errors[0].Code)
	assert.Equal(t, "Card declined.", gwErr.Error())
	assert.Contains(t, string(gwErr.RawResponse), "CARD_DECLINED")
}

func TestSquareAdapter_Charge_UnparseableErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	adapter := NewSquareAdapter(config.PaymentConfig{BaseURL: srv.URL, AccessToken: "test-token"})

	_, err := adapter.Charge(context.Background(), chargeRequest())

	var gwErr *billing.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadGateway, gwErr.StatusCode)
	assert.Empty(t, gwErr.Errors)
	assert.Equal(t, "payment gateway error", gwErr.Error())
}
