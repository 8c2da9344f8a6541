package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CartHandler serves the anonymous storefront cart surface
type CartHandler struct {
	BaseHandler
	carts    *appcart.CartService
	checkout *appcart.CheckoutService
	cookie   config.CartConfig
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *appcart.CartService, checkout *appcart.CheckoutService, cookie config.CartConfig) *CartHandler {
	return &CartHandler{
		carts:    carts,
		checkout: checkout,
		cookie:   cookie,
	}
}

// RegisterRoutes registers the storefront cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("/get", h.GetCart)
		cart.POST("/item/add", h.AddItem)
		cart.POST("/item/remove", h.RemoveItem)
		cart.POST("/item/qty", h.SetItemQty)
		cart.POST("/shipping/address", h.SetShippingAddress)
		cart.GET("/shipping/rates", h.QuoteRates)
		cart.POST("/shipping/rate", h.SelectRate)
		cart.POST("/checkout", h.Checkout)
	}
}

// GetCart returns the active cart, minting one when the cookie is absent
// or points at a closed cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.carts.GetCart(c.Request.Context(), middleware.GetCartToken(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondWithCart(c, result)
}

// AddItem adds a product variant to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req appcart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.carts.AddItem(c.Request.Context(), middleware.GetCartToken(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondWithCart(c, result)
}

// RemoveItem deletes a line item
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req appcart.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetCartToken(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondWithCart(c, result)
}

// SetItemQty changes a line item quantity
func (h *CartHandler) SetItemQty(c *gin.Context) {
	var req appcart.SetItemQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.carts.SetItemQty(c.Request.Context(), middleware.GetCartToken(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondWithCart(c, result)
}

// SetShippingAddress stores the buyer's address, recomputing tax and the
// selected shipping rate.
func (h *CartHandler) SetShippingAddress(c *gin.Context) {
	var req appcart.ShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.carts.SetShippingAddress(c.Request.Context(), middleware.GetCartToken(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondWithCart(c, result)
}

// QuoteRates returns all carrier quotes for the cart. The token is echoed
// like on every other cart response so a freshly minted cart is not lost.
func (h *CartHandler) QuoteRates(c *gin.Context) {
	result, err := h.carts.QuoteRates(c.Request.Context(), middleware.GetCartToken(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.setCartToken(c, result.Token)
	h.Success(c, result.Rates)
}

// SelectRate persists a rate chosen from the quoted list
func (h *CartHandler) SelectRate(c *gin.Context) {
	var req appcart.SelectRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.carts.SelectRate(c.Request.Context(), middleware.GetCartToken(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondWithCart(c, result)
}

// Checkout captures payment for the cart and closes it
func (h *CartHandler) Checkout(c *gin.Context) {
	var req appcart.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.checkout.Checkout(c.Request.Context(), middleware.GetCartToken(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// respondWithCart echoes the cart token in the cookie and header before
// writing the body, so a freshly minted token reaches the client.
func (h *CartHandler) respondWithCart(c *gin.Context, result *appcart.CartResult) {
	h.setCartToken(c, result.Token)
	h.Success(c, result.Cart)
}

func (h *CartHandler) setCartToken(c *gin.Context, token string) {
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(
		h.cookie.CookieName,
		token,
		int(h.cookie.CookieMaxAge.Seconds()),
		"/",
		"",
		h.cookie.CookieSecure,
		true,
	)
	c.Header(middleware.CartTokenHeader, token)
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
