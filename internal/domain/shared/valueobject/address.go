package valueobject

import (
	"fmt"
	"strings"
)

// Address is a postal address used for shipping and billing.
// Fields are exported so the address can be embedded into GORM models
// with a column prefix (shipping_*, billing_*).
type Address struct {
	FirstName       string `gorm:"size:100" json:"firstName"`
	LastName        string `gorm:"size:100" json:"lastName"`
	Company         string `gorm:"size:100" json:"company,omitempty"`
	StreetAddress   string `gorm:"size:255" json:"streetAddress"`
	ExtendedAddress string `gorm:"size:255" json:"extendedAddress,omitempty"`
	City            string `gorm:"size:100" json:"city"`
	State           string `gorm:"size:100" json:"state"`
	PostalCode      string `gorm:"size:20" json:"postalCode"`
	CountryCode     string `gorm:"size:2" json:"countryCodeAlpha2"`
	Phone           string `gorm:"size:30" json:"phone,omitempty"`
	Email           string `gorm:"size:255" json:"email,omitempty"`
}

// Validate checks that the fields required for tax and rate quoting are present
func (a Address) Validate() error {
	if strings.TrimSpace(a.StreetAddress) == "" {
		return fmt.Errorf("street address is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("city is required")
	}
	if strings.TrimSpace(a.State) == "" {
		return fmt.Errorf("state is required")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		return fmt.Errorf("postal code is required")
	}
	if len(strings.TrimSpace(a.CountryCode)) != 2 {
		return fmt.Errorf("country code must be ISO alpha-2")
	}
	return nil
}

// IsEmpty returns true if no address has been captured yet
func (a Address) IsEmpty() bool {
	return a.StreetAddress == "" && a.City == "" && a.PostalCode == ""
}

// FullName returns the recipient name for labels and emails
func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
