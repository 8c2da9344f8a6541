package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/cart"
)

const checkoutLockPrefix = "checkout:lock:"

// RedisLocker is a CheckoutLocker backed by Redis SET NX, for deployments
// running more than one server instance.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a Redis-backed locker
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// TryLock acquires the lock for a token via SET NX with expiry
func (l *RedisLocker) TryLock(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, checkoutLockPrefix+token, "1", ttl).Result()
}

// Unlock releases the lock for a token
func (l *RedisLocker) Unlock(ctx context.Context, token string) error {
	return l.client.Del(ctx, checkoutLockPrefix+token).Err()
}

var _ cart.CheckoutLocker = (*RedisLocker)(nil)
