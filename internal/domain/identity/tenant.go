package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Tenant is an API consumer of the admin surface. The raw API key is
// shown once at creation; only its hash is stored.
type Tenant struct {
	shared.BaseAggregateRoot
	APIKeyHash      string `gorm:"size:64;uniqueIndex;not null"`
	ApplicationName string `gorm:"size:100;not null"`
	ApplicationURL  string `gorm:"size:255"`
	Active          bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string { return "tenants" }

// NewTenant creates a tenant and returns the raw API key alongside it
func NewTenant(applicationName, applicationURL string) (*Tenant, string, error) {
	applicationName = strings.TrimSpace(applicationName)
	if applicationName == "" {
		return nil, "", shared.NewDomainError("INVALID_INPUT", "application name cannot be empty")
	}

	rawKey, err := newAPIKey()
	if err != nil {
		return nil, "", err
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		APIKeyHash:        HashAPIKey(rawKey),
		ApplicationName:   applicationName,
		ApplicationURL:    strings.TrimSpace(applicationURL),
		Active:            true,
	}
	return t, rawKey, nil
}

// VerifyAPIKey checks a raw key against the stored hash in constant time
func (t *Tenant) VerifyAPIKey(rawKey string) bool {
	if !t.Active {
		return false
	}
	h := HashAPIKey(rawKey)
	return subtle.ConstantTimeCompare([]byte(h), []byte(t.APIKeyHash)) == 1
}

// HashAPIKey returns the hex SHA-256 of a raw API key
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func newAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
