package handler

import (
	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/gin-gonic/gin"
)

// ExchangeHandler handles customer exchange endpoints
type ExchangeHandler struct {
	documentHandler
}

// NewExchangeHandler creates a new ExchangeHandler
func NewExchangeHandler(service ReconciliationService) *ExchangeHandler {
	return &ExchangeHandler{documentHandler{service: service, ref: reconciliation.ExchangeRef}}
}

// Create godoc
// @ID           createExchange
// @Summary      Create a customer exchange
// @Description  Create a Draft exchange of sold items for new items
// @Tags         exchanges
// @Accept       json
// @Produce      json
// @Param        request body appreconciliation.ExchangeRequest true "Exchange request"
// @Success      201 {object} APIResponse[appreconciliation.ExchangeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exchanges [post]
func (h *ExchangeHandler) Create(c *gin.Context) {
	var req appreconciliation.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	ex, err := h.service.CreateExchange(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ex)
}

// Update godoc
// @ID           updateExchange
// @Summary      Save a customer exchange
// @Tags         exchanges
// @Accept       json
// @Produce      json
// @Param        id path string true "Exchange ID" format(uuid)
// @Param        request body appreconciliation.ExchangeRequest true "Exchange request"
// @Success      200 {object} APIResponse[appreconciliation.ExchangeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exchanges/{id} [put]
func (h *ExchangeHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appreconciliation.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	ex, err := h.service.SaveExchange(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ex)
}

// GetByID godoc
// @ID           getExchangeById
// @Summary      Get customer exchange by ID
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID" format(uuid)
// @Success      200 {object} APIResponse[appreconciliation.ExchangeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exchanges/{id} [get]
func (h *ExchangeHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ex, err := h.service.GetExchange(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ex)
}

// List godoc
// @ID           listExchanges
// @Summary      List customer exchanges
// @Tags         exchanges
// @Produce      json
// @Param        status query string false "Status" Enums(DRAFT, PENDING, POSTED, CANCELLED)
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        sale_id query string false "Sale ID" format(uuid)
// @Param        date_from query string false "From date (YYYY-MM-DD)"
// @Param        date_to query string false "To date (YYYY-MM-DD)"
// @Param        search query string false "Document number search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]appreconciliation.ExchangeResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exchanges [get]
func (h *ExchangeHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.service.ListExchanges(c.Request.Context(), filter)
	list(&h.documentHandler, c, page, err)
}

// Submit godoc
// @ID           submitExchange
// @Summary      Submit a customer exchange
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Exchange ID" format(uuid)
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exchanges/{id}/submit [post]
func (h *ExchangeHandler) Submit(c *gin.Context) { h.submit(c) }

// Post godoc
// @ID           postExchange
// @Summary      Post a customer exchange
// @Description  Restock returned items, consume new items and record the per-batch allocation
// @Tags         exchanges
// @Accept       json
// @Produce      json
// @Param        id path string true "Exchange ID" format(uuid)
// @Param        request body appreconciliation.PostRequest false "Post request"
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exchanges/{id}/post [post]
func (h *ExchangeHandler) Post(c *gin.Context) { h.post(c) }

// Cancel godoc
// @ID           cancelExchange
// @Summary      Cancel a customer exchange
// @Tags         exchanges
// @Accept       json
// @Produce      json
// @Param        id path string true "Exchange ID" format(uuid)
// @Param        request body appreconciliation.CancelRequest false "Cancel request"
// @Success      200 {object} APIResponse[appreconciliation.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exchanges/{id}/cancel [post]
func (h *ExchangeHandler) Cancel(c *gin.Context) { h.cancel(c) }

// Preview godoc
// @ID           previewExchange
// @Summary      Price an exchange
// @Description  Compute totals, difference and settlement direction without saving anything
// @Tags         exchanges
// @Accept       json
// @Produce      json
// @Param        request body appreconciliation.PreviewExchangeRequest true "Priced lines"
// @Success      200 {object} APIResponse[appreconciliation.DifferentialResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exchanges/preview [post]
func (h *ExchangeHandler) Preview(c *gin.Context) {
	var req appreconciliation.PreviewExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.service.PreviewExchange(c.Request.Context(), req))
}

// EligibleSaleLines godoc
// @ID           listEligibleSaleLines
// @Summary      List sale lines that can be exchanged
// @Description  Lines of a sale with quantity not yet returned by posted exchanges
// @Tags         exchanges
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[[]appreconciliation.EligibleSaleLineResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/eligible-lines [get]
func (h *ExchangeHandler) EligibleSaleLines(c *gin.Context) {
	saleID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	lines, err := h.service.ListEligibleSaleLines(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// RegisterRoutes registers the exchange routes
func (h *ExchangeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	exchanges := rg.Group("/exchanges")
	{
		exchanges.POST("", h.Create)
		exchanges.GET("", h.List)
		exchanges.POST("/preview", h.Preview)
		exchanges.GET("/:id", h.GetByID)
		exchanges.PUT("/:id", h.Update)
		exchanges.POST("/:id/submit", h.Submit)
		exchanges.POST("/:id/post", h.Post)
		exchanges.POST("/:id/cancel", h.Cancel)
	}
	rg.GET("/sales/:id/eligible-lines", h.EligibleSaleLines)
}
