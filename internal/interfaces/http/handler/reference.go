package handler

import (
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PermissionReferenceInvalidate guards the cache invalidation endpoint
const PermissionReferenceInvalidate = "reference:invalidate"

// InvalidateReferenceRequest names the cached reference records to drop.
// An empty kind drops every kind.
type InvalidateReferenceRequest struct {
	Kind string     `json:"kind" binding:"omitempty,oneof=store supplier product grn" example:"product"`
	ID   *uuid.UUID `json:"id,omitempty"`
}

// ReferenceHandler manages the reference data cache
type ReferenceHandler struct {
	BaseHandler
	invalidator reconciliation.ReferenceCacheInvalidator
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(invalidator reconciliation.ReferenceCacheInvalidator) *ReferenceHandler {
	return &ReferenceHandler{invalidator: invalidator}
}

// Invalidate godoc
// @ID           invalidateReferenceCache
// @Summary      Invalidate cached reference data
// @Description  Drop cached stores, suppliers, products or goods-received notes on every instance
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        request body InvalidateReferenceRequest true "Invalidation request"
// @Success      200 {object} APIResponse[InvalidateReferenceRequest]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/cache/invalidate [post]
func (h *ReferenceHandler) Invalidate(c *gin.Context) {
	var req InvalidateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.invalidator.Invalidate(c.Request.Context(), reconciliation.ReferenceKind(req.Kind), req.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}

// RegisterRoutes registers the reference cache routes
func (h *ReferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reference/cache/invalidate",
		middleware.RequirePermission(PermissionReferenceInvalidate), h.Invalidate)
}
