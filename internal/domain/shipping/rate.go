package shipping

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Rate is one carrier quote for a shipment
type Rate struct {
	ObjectID          string          `json:"rate_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Provider          string          `json:"provider"`
	ServiceLevelName  string          `json:"servicelevel_name"`
	ServiceLevelToken string          `json:"servicelevel_token"`
	EstimatedDays     int             `json:"estimated_days"`
}

// Parcel describes one package in a shipment request
type Parcel struct {
	Length       decimal.Decimal
	Width        decimal.Decimal
	Height       decimal.Decimal
	DistanceUnit string
	WeightOz     decimal.Decimal
}

// Shipment is the input to a rate quote: where it goes and what it weighs
type Shipment struct {
	To      valueobject.Address
	Parcels []Parcel
}

// FallbackRate is substituted when the carrier API fails or returns no
// rates, so checkout can still proceed. Availability is deliberately
// preferred over rate accuracy here; callers log when it is used.
func FallbackRate() Rate {
	return Rate{
		Amount:            decimal.NewFromFloat(5.00),
		Currency:          "USD",
		Provider:          "USPS",
		ServiceLevelName:  "First-Class Package/Mail Parcel",
		ServiceLevelToken: "usps_first",
		EstimatedDays:     5,
	}
}

// SelectLowestRate picks the cheapest rate by numeric amount. The first
// entry wins ties. An empty list yields the fallback rate.
func SelectLowestRate(rates []Rate) Rate {
	if len(rates) == 0 {
		return FallbackRate()
	}
	lowest := rates[0]
	for _, r := range rates[1:] {
		if r.Amount.LessThan(lowest.Amount) {
			lowest = r
		}
	}
	return lowest
}
