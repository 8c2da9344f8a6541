package tax

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Compute derives the sales tax for a subtotal shipped to an address,
// using the given jurisdiction rules. It is a pure function: identical
// inputs always produce identical output, so it can be re-run every time
// the shipping address changes.
//
// Match precedence: (country, state, postal prefix) beats (country, state).
// No matching rule means no tax.
func Compute(subtotal decimal.Decimal, address valueobject.Address, rules []TaxRate) decimal.Decimal {
	if subtotal.IsZero() || subtotal.IsNegative() {
		return decimal.Zero
	}

	country := strings.ToUpper(strings.TrimSpace(address.CountryCode))
	state := strings.ToUpper(strings.TrimSpace(address.State))
	postal := strings.TrimSpace(address.PostalCode)

	var matched *TaxRate
	for i := range rules {
		r := &rules[i]
		if r.CountryCode != country || r.State != state {
			continue
		}
		if r.PostalCodePrefix != "" {
			if strings.HasPrefix(postal, r.PostalCodePrefix) {
				matched = r
				break
			}
			continue
		}
		if matched == nil {
			matched = r
		}
	}

	if matched == nil {
		return decimal.Zero
	}
	return subtotal.Mul(matched.Rate).Round(2)
}
