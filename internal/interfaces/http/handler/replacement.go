package handler

import (
	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/gin-gonic/gin"
)

// ReplacementHandler handles supplier replacement endpoints
type ReplacementHandler struct {
	documentHandler
}

// NewReplacementHandler creates a new ReplacementHandler
func NewReplacementHandler(service ReconciliationService) *ReplacementHandler {
	return &ReplacementHandler{documentHandler{service: service, ref: reconciliation.ReplacementRef}}
}

// Create godoc
// @ID           createReplacement
// @Summary      Create a supplier replacement
// @Description  Create a Draft replacement against a Pending or Posted return
// @Tags         replacements
// @Accept       json
// @Produce      json
// @Param        request body appreconciliation.ReplacementRequest true "Replacement request"
// @Success      201 {object} APIResponse[appreconciliation.ReplacementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /replacements [post]
func (h *ReplacementHandler) Create(c *gin.Context) {
	var req appreconciliation.ReplacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	rep, err := h.service.CreateReplacement(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rep)
}

// Update godoc
// @ID           updateReplacement
// @Summary      Save a supplier replacement
// @Tags         replacements
// @Accept       json
// @Produce      json
// @Param        id path string true "Replacement ID" format(uuid)
// @Param        request body appreconciliation.ReplacementRequest true "Replacement request"
// @Success      200 {object} APIResponse[appreconciliation.ReplacementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /replacements/{id} [put]
func (h *ReplacementHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appreconciliation.ReplacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	rep, err := h.service.SaveReplacement(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// GetByID godoc
// @ID           getReplacementById
// @Summary      Get supplier replacement by ID
// @Tags         replacements
// @Produce      json
// @Param        id path string true "Replacement ID" format(uuid)
// @Success      200 {object} APIResponse[appreconciliation.ReplacementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /replacements/{id} [get]
func (h *ReplacementHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.service.GetReplacement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// List godoc
// @ID           listReplacements
// @Summary      List supplier replacements
// @Tags         replacements
// @Produce      json
// @Param        status query string false "Status" Enums(DRAFT, PENDING, POSTED, CANCELLED)
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        return_id query string false "Return ID" format(uuid)
// @Param        date_from query string false "From date (YYYY-MM-DD)"
// @Param        date_to query string false "To date (YYYY-MM-DD)"
// @Param        search query string false "Document number search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appreconciliation.ReplacementResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /replacements [get]
func (h *ReplacementHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.service.ListReplacements(c.Request.Context(), filter)
	list(&h.documentHandler, c, page, err)
}

// Submit godoc
// @ID           submitReplacement
// @Summary      Submit a supplier replacement
// @Tags         replacements
// @Produce      json
// @Param        id path string true "Replacement ID" format(uuid)
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /replacements/{id}/submit [post]
func (h *ReplacementHandler) Submit(c *gin.Context) { h.submit(c) }

// Post godoc
// @ID           postReplacement
// @Summary      Post a supplier replacement
// @Description  Receive the replacement goods into stock and reduce the pending quantity of the return
// @Tags         replacements
// @Accept       json
// @Produce      json
// @Param        id path string true "Replacement ID" format(uuid)
// @Param        request body appreconciliation.PostRequest false "Post request"
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /replacements/{id}/post [post]
func (h *ReplacementHandler) Post(c *gin.Context) { h.post(c) }

// Cancel godoc
// @ID           cancelReplacement
// @Summary      Cancel a supplier replacement
// @Tags         replacements
// @Accept       json
// @Produce      json
// @Param        id path string true "Replacement ID" format(uuid)
// @Param        request body appreconciliation.CancelRequest false "Cancel request"
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /replacements/{id}/cancel [post]
func (h *ReplacementHandler) Cancel(c *gin.Context) { h.cancel(c) }

// RegisterRoutes registers the replacement routes
func (h *ReplacementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	replacements := rg.Group("/replacements")
	{
		replacements.POST("", h.Create)
		replacements.GET("", h.List)
		replacements.GET("/:id", h.GetByID)
		replacements.PUT("/:id", h.Update)
		replacements.POST("/:id/submit", h.Submit)
		replacements.POST("/:id/post", h.Post)
		replacements.POST("/:id/cancel", h.Cancel)
	}
}
