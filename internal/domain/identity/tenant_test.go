package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	tenant, rawKey, err := NewTenant("  Storefront Web  ", "https://shop.example")
	require.NoError(t, err)

	assert.Equal(t, "Storefront Web", tenant.ApplicationName)
	assert.Equal(t, "https://shop.example", tenant.ApplicationURL)
	assert.True(t, tenant.Active)

	require.Len(t, rawKey, 64)
	assert.NotEqual(t, rawKey, tenant.APIKeyHash, "the raw key must never be stored")
	assert.Equal(t, HashAPIKey(rawKey), tenant.APIKeyHash)
}

func TestNewTenant_EmptyName(t *testing.T) {
	_, _, err := NewTenant("   ", "")
	assert.Error(t, err)
}

func TestNewTenant_KeysAreUnique(t *testing.T) {
	_, keyA, err := NewTenant("App A", "")
	require.NoError(t, err)
	_, keyB, err := NewTenant("App B", "")
	require.NoError(t, err)

	assert.NotEqual(t, keyA, keyB)
}

func TestVerifyAPIKey(t *testing.T) {
	tenant, rawKey, err := NewTenant("App", "")
	require.NoError(t, err)

	assert.True(t, tenant.VerifyAPIKey(rawKey))
	assert.False(t, tenant.VerifyAPIKey("wrong-key"))

	tenant.Active = false
	assert.False(t, tenant.VerifyAPIKey(rawKey), "inactive tenants cannot authenticate")
}
