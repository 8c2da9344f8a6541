package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BootstrapAuth protects tenant management with a static token so API
// clients can be provisioned before any tenant exists. With an empty
// configured token the routes are disabled outright.
func BootstrapAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Tenant management is disabled",
				},
			})
			return
		}

		presented := strings.TrimPrefix(c.GetHeader(AuthHeaderKey), BearerPrefix)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		c.Next()
	}
}
