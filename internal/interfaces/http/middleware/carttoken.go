package middleware

import (
	"github.com/gin-gonic/gin"
)

// Cart token transport
const (
	CartTokenKey    = "cart_token"
	CartTokenHeader = "X-Cart-Token"
)

// CartToken extracts the anonymous cart token from the cookie or the
// X-Cart-Token header and stores it in the context. An absent token is
// fine; the cart service mints a fresh one.
func CartToken(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			token = c.GetHeader(CartTokenHeader)
		}
		if token != "" {
			c.Set(CartTokenKey, token)
		}
		c.Next()
	}
}

// GetCartToken retrieves the cart token from the context, empty when the
// client presented none.
func GetCartToken(c *gin.Context) string {
	return c.GetString(CartTokenKey)
}
