package handler

import (
	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReturnHandler handles supplier return endpoints
type ReturnHandler struct {
	documentHandler
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(service ReconciliationService) *ReturnHandler {
	return &ReturnHandler{documentHandler{service: service, ref: reconciliation.ReturnRef}}
}

// Create godoc
// @ID           createReturn
// @Summary      Create a supplier return
// @Description  Create a Draft supplier return, optionally sourced from a posted goods-received note
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body appreconciliation.ReturnRequest true "Return request"
// @Success      201 {object} APIResponse[appreconciliation.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	var req appreconciliation.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	ret, err := h.service.CreateReturn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// Update godoc
// @ID           updateReturn
// @Summary      Save a supplier return
// @Description  Replace the header and lines of a Draft or Pending return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Param        request body appreconciliation.ReturnRequest true "Return request"
// @Success      200 {object} APIResponse[appreconciliation.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id} [put]
func (h *ReturnHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appreconciliation.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	ret, err := h.service.SaveReturn(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// GetByID godoc
// @ID           getReturnById
// @Summary      Get supplier return by ID
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} APIResponse[appreconciliation.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id} [get]
func (h *ReturnHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ret, err := h.service.GetReturn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// List godoc
// @ID           listReturns
// @Summary      List supplier returns
// @Tags         returns
// @Produce      json
// @Param        status query string false "Status" Enums(DRAFT, PENDING, POSTED, CANCELLED)
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        date_from query string false "From date (YYYY-MM-DD)"
// @Param        date_to query string false "To date (YYYY-MM-DD)"
// @Param        search query string false "Document number search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]appreconciliation.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.service.ListReturns(c.Request.Context(), filter)
	list(&h.documentHandler, c, page, err)
}

// Submit godoc
// @ID           submitReturn
// @Summary      Submit a supplier return
// @Description  Validate a Draft return and move it to Pending
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id}/submit [post]
func (h *ReturnHandler) Submit(c *gin.Context) { h.submit(c) }

// Post godoc
// @ID           postReturn
// @Summary      Post a supplier return
// @Description  Post a Draft or Pending return. Posting a Posted return returns the stored result.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Param        request body appreconciliation.PostRequest false "Post request"
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id}/post [post]
func (h *ReturnHandler) Post(c *gin.Context) { h.post(c) }

// Cancel godoc
// @ID           cancelReturn
// @Summary      Cancel a supplier return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Param        request body appreconciliation.CancelRequest false "Cancel request"
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id}/cancel [post]
func (h *ReturnHandler) Cancel(c *gin.Context) { h.cancel(c) }

// PendingQuantity godoc
// @ID           getReturnLinePending
// @Summary      Get the pending quantity of a return line
// @Description  Return quantity minus the quantity already replaced by posted replacements
// @Tags         returns
// @Produce      json
// @Param        lineId path string true "Return line ID" format(uuid)
// @Success      200 {object} APIResponse[appreconciliation.PendingQuantityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/lines/{lineId}/pending [get]
func (h *ReturnHandler) PendingQuantity(c *gin.Context) {
	lineID, ok := h.pathID(c, "lineId")
	if !ok {
		return
	}
	pending, err := h.service.GetPendingQuantity(c.Request.Context(), lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pending)
}

// Eligible godoc
// @ID           listEligibleReturns
// @Summary      List returns eligible for replacement
// @Description  Pending and Posted returns with quantity still pending
// @Tags         returns
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[[]appreconciliation.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/eligible [get]
func (h *ReturnHandler) Eligible(c *gin.Context) {
	storeID, ok := h.queryUUID(c, "store_id")
	if !ok {
		return
	}
	supplierID, ok := h.queryUUID(c, "supplier_id")
	if !ok {
		return
	}
	returns, err := h.service.ListEligibleReturns(c.Request.Context(), storeID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, returns)
}

// EligibleGRNs godoc
// @ID           listEligibleGRNs
// @Summary      List goods-received notes that can seed a return
// @Tags         returns
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        supplier_id query string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[[]appreconciliation.GRNResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grns/eligible [get]
func (h *ReturnHandler) EligibleGRNs(c *gin.Context) {
	storeID, ok := h.queryUUID(c, "store_id")
	if !ok {
		return
	}
	supplierID, ok := h.queryUUID(c, "supplier_id")
	if !ok {
		return
	}
	grns, err := h.service.ListEligibleGRNs(c.Request.Context(), deref(storeID), deref(supplierID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, grns)
}

func deref(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

// RegisterRoutes registers the return routes
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/returns")
	{
		returns.POST("", h.Create)
		returns.GET("", h.List)
		returns.GET("/eligible", h.Eligible)
		returns.GET("/lines/:lineId/pending", h.PendingQuantity)
		returns.GET("/:id", h.GetByID)
		returns.PUT("/:id", h.Update)
		returns.POST("/:id/submit", h.Submit)
		returns.POST("/:id/post", h.Post)
		returns.POST("/:id/cancel", h.Cancel)
	}
	rg.GET("/grns/eligible", h.EligibleGRNs)
}
