package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptax "github.com/storefront/backend/internal/application/tax"
)

// TaxRateHandler serves the admin tax rule surface
type TaxRateHandler struct {
	BaseHandler
	taxRates *apptax.TaxRateService
}

// NewTaxRateHandler creates a new tax rate handler
func NewTaxRateHandler(taxRates *apptax.TaxRateService) *TaxRateHandler {
	return &TaxRateHandler{taxRates: taxRates}
}

// RegisterRoutes registers the admin tax rate routes
func (h *TaxRateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	taxes := rg.Group("/taxes")
	{
		taxes.GET("", h.List)
		taxes.POST("", h.Create)
		taxes.PUT("/:id", h.Update)
		taxes.DELETE("/:id", h.Delete)
	}
}

// List returns the tenant's jurisdiction rules
func (h *TaxRateHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	items, total, err := h.taxRates.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create adds a jurisdiction rule
func (h *TaxRateHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apptax.CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	rate, err := h.taxRates.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rate)
}

// Update patches a jurisdiction rule
func (h *TaxRateHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	var req apptax.UpdateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	rate, err := h.taxRates.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// Delete removes a jurisdiction rule
func (h *TaxRateHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	if err := h.taxRates.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": true})
}
