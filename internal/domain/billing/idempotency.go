package billing

import (
	"crypto/rand"
	"encoding/hex"
)

// NewIdempotencyKey returns a fresh random key for one capture attempt.
// Keys are never reused across retries; a retried checkout is a new
// attempt with its own key.
func NewIdempotencyKey() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
