package cart

import "github.com/google/uuid"

// NewToken mints a fresh cart token (a v4 UUID string)
func NewToken() string {
	return uuid.NewString()
}

// ResolveToken validates a token taken from the request cookie. It accepts
// only well-formed v4 UUIDs; anything else means the caller should mint a
// new token and start a new cart. Side-effect free.
func ResolveToken(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	id, err := uuid.Parse(value)
	if err != nil || id.Version() != 4 {
		return "", false
	}
	return id.String(), true
}
