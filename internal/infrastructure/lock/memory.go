package lock

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
)

// MemoryLocker is a single-process CheckoutLocker. Entries expire after
// their TTL so a crashed request cannot wedge a cart forever.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

// NewMemoryLocker creates a new in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]time.Time)}
}

// TryLock acquires the lock for a token unless a live lock exists
func (l *MemoryLocker) TryLock(_ context.Context, token string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, ok := l.locks[token]; ok && now.Before(expiry) {
		return false, nil
	}
	l.locks[token] = now.Add(ttl)
	return true, nil
}

// Unlock releases the lock for a token
func (l *MemoryLocker) Unlock(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, token)
	return nil
}

var _ cart.CheckoutLocker = (*MemoryLocker)(nil)
