package cart

import "github.com/storefront/backend/internal/domain/shared"

// Cart-specific domain errors
var (
	ErrCartNotActive      = shared.NewDomainError("CART_NOT_ACTIVE", "Cart is closed and can no longer be modified")
	ErrCartEmpty          = shared.NewDomainError("CART_EMPTY", "Cart has no items to check out")
	ErrCheckoutInProgress = shared.NewDomainError("CHECKOUT_IN_PROGRESS", "A checkout for this cart is already in progress")
	ErrItemNotFound       = shared.NewDomainError("NOT_FOUND", "Cart item not found")
)
