package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/storefront/backend/internal/application/billing"
)

// PaymentHandler serves the admin payment and fulfillment surface
type PaymentHandler struct {
	BaseHandler
	payments *appbilling.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *appbilling.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterRoutes registers the admin payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
		payments.POST("/:id/shipping/order", h.CreateShippingOrder)
		payments.POST("/:id/shipping/label", h.PurchaseShippingLabel)
		payments.GET("/:id/shipping/label", h.GetShippingLabel)
		payments.DELETE("/:id/shipping/label", h.DeleteShippingLabel)
		payments.GET("/:id/shipping/packingslip", h.GetPackingSlip)
	}
}

// List returns capture records
func (h *PaymentHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get returns one capture record
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// CreateShippingOrder registers a provider order for a successful payment
func (h *PaymentHandler) CreateShippingOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.payments.CreateShippingOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// PurchaseShippingLabelRequest buys a label for a quoted provider rate
type PurchaseShippingLabelRequest struct {
	RateID string `json:"rate_id" binding:"required"`
}

// PurchaseShippingLabel buys a label and stores its transaction id
func (h *PaymentHandler) PurchaseShippingLabel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req PurchaseShippingLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tx, err := h.payments.PurchaseShippingLabel(c.Request.Context(), id, req.RateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// GetShippingLabel fetches the purchased label for a payment
func (h *PaymentHandler) GetShippingLabel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	tx, err := h.payments.GetShippingLabel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// DeleteShippingLabel detaches a purchased label from a payment
func (h *PaymentHandler) DeleteShippingLabel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.payments.DeleteShippingLabel(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": true})
}

// GetPackingSlip fetches the packing slip for a payment's provider order
func (h *PaymentHandler) GetPackingSlip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	slip, err := h.payments.GetPackingSlip(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slip)
}
