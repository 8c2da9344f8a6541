package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(baseURL string) *ShippoAdapter {
	return NewShippoAdapter(config.ShippingConfig{
		BaseURL:     baseURL,
		APIToken:    "shippo-test-token",
		FromName:    "Warehouse",
		FromStreet:  "1 Dock Rd",
		FromCity:    "Columbus",
		FromState:   "OH",
		FromPostal:  "43004",
		FromCountry: "US",
	})
}

func testShipment() shipping.Shipment {
	return shipping.Shipment{
		To: valueobject.Address{
			FirstName:     "Jo",
			LastName:      "Doe",
			StreetAddress: "100 Main St",
			City:          "Cleveland",
			State:         "OH",
			PostalCode:    "44101",
			CountryCode:   "US",
		},
		Parcels: []shipping.Parcel{
			{
				Length:       decimal.NewFromInt(10),
				Width:        decimal.NewFromInt(8),
				Height:       decimal.NewFromInt(4),
				DistanceUnit: "in",
				WeightOz:     decimal.NewFromFloat(12.5),
			},
		},
	}
}

func TestShippoAdapter_QuoteRates(t *testing.T) {
	var captured shippoShipmentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shipments/", r.URL.Path)
		assert.Equal(t, "ShippoToken shippo-test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"object_id": "shp-1",
			"status": "SUCCESS",
			"rates": [
				{"object_id":"rate-1","amount":"8.00","currency":"USD","provider":"USPS","servicelevel":{"name":"Priority Mail","token":"usps_priority"},"estimated_days":2},
				{"object_id":"rate-2","amount":"not-a-number","currency":"USD","provider":"UPS","servicelevel":{"name":"Ground","token":"ups_ground"},"estimated_days":5}
			]
		}`))
	}))
	defer srv.Close()

	rates, err := newTestAdapter(srv.URL).QuoteRates(context.Background(), testShipment())
	require.NoError(t, err)

	// The malformed amount is skipped rather than failing the quote
	require.Len(t, rates, 1)
	assert.Equal(t, "rate-1", rates[0].ObjectID)
	assert.True(t, rates[0].Amount.Equal(decimal.NewFromFloat(8.00)))
	assert.Equal(t, "usps_priority", rates[0].ServiceLevelToken)
	assert.Equal(t, 2, rates[0].EstimatedDays)

	assert.False(t, captured.Async)
	assert.Equal(t, "Warehouse", captured.AddressFrom.Name)
	assert.Equal(t, "Jo Doe", captured.AddressTo.Name)
	require.Len(t, captured.Parcels, 1)
	assert.Equal(t, "12.5", captured.Parcels[0].Weight)
	assert.Equal(t, "oz", captured.Parcels[0].MassUnit)
}

func TestShippoAdapter_QuoteRates_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer srv.Close()

	rates, err := newTestAdapter(srv.URL).QuoteRates(context.Background(), testShipment())
	assert.Nil(t, rates)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestShippoAdapter_CreateOrder(t *testing.T) {
	var captured shippoOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"object_id":"order-1"}`))
	}))
	defer srv.Close()

	orderID, err := newTestAdapter(srv.URL).CreateOrder(context.Background(), shipping.OrderRequest{
		OrderNumber: "cart-token-1",
		To:          testShipment().To,
		LineItems: []shipping.OrderLineItem{
			{Title: "Test Shirt", Quantity: 2, TotalPrice: "50.00", Currency: "USD", WeightOz: "12"},
		},
		WeightOz: "12",
	})
	require.NoError(t, err)

	assert.Equal(t, "order-1", orderID)
	assert.Equal(t, "cart-token-1", captured.OrderNumber)
	assert.Equal(t, "PAID", captured.OrderStatus)
	require.Len(t, captured.LineItems, 1)
	assert.Equal(t, "oz", captured.LineItems[0].WeightUnit)
}

func TestShippoAdapter_PurchaseLabel(t *testing.T) {
	var captured shippoTransactionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{
			"object_id": "txn-1",
			"status": "SUCCESS",
			"label_url": "https://shippo.example/label.pdf",
			"tracking_number": "9400100000000000000000",
			"tracking_url_provider": "https://tools.usps.example/track"
		}`))
	}))
	defer srv.Close()

	tx, err := newTestAdapter(srv.URL).PurchaseLabel(context.Background(), "rate-1")
	require.NoError(t, err)

	assert.Equal(t, "rate-1", captured.Rate)
	assert.Equal(t, "PDF", captured.LabelFileType)
	assert.False(t, captured.Async)
	assert.Equal(t, "txn-1", tx.ObjectID)
	assert.Equal(t, "https://shippo.example/label.pdf", tx.LabelURL)
	assert.Equal(t, "9400100000000000000000", tx.TrackingNumber)
}

func TestShippoAdapter_GetPackingSlip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/order-1/packingslip/", r.URL.Path)
		w.Write([]byte(`{"slip_url":"https://shippo.example/slip.pdf","expires":"2026-09-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	slip, err := newTestAdapter(srv.URL).GetPackingSlip(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "https://shippo.example/slip.pdf", slip.SlipURL)
}
