package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthHandler exchanges tenant api keys for admin API tokens
type AuthHandler struct {
	BaseHandler
	tenants *appidentity.TenantService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tenants *appidentity.TenantService) *AuthHandler {
	return &AuthHandler{tenants: tenants}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/token", h.Token)
	}
}

// Token exchanges an api key for a JWT
func (h *AuthHandler) Token(c *gin.Context) {
	var req appidentity.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.tenants.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
