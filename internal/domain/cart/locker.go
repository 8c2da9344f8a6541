package cart

import (
	"context"
	"time"
)

// CheckoutLocker serializes checkout attempts per cart token. The database
// status transition is the authoritative guard; the locker keeps concurrent
// requests from even reaching the payment gateway.
type CheckoutLocker interface {
	// TryLock acquires the lock for a token. Returns false when another
	// checkout currently holds it.
	TryLock(ctx context.Context, token string, ttl time.Duration) (bool, error)
	// Unlock releases the lock for a token.
	Unlock(ctx context.Context, token string) error
}
