package handler

import (
	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// documentHandler carries the lifecycle endpoints shared by the three
// document types
type documentHandler struct {
	BaseHandler
	service ReconciliationService
	ref     func(uuid.UUID) reconciliation.DocumentRef
}

func (h *documentHandler) submit(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.Submit(c.Request.Context(), h.ref(id))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *documentHandler) post(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appreconciliation.PostRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	if req.PostedBy == nil {
		req.PostedBy = currentUserID(c)
	}
	result, err := h.service.Post(c.Request.Context(), h.ref(id), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *documentHandler) cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appreconciliation.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	result, err := h.service.Cancel(c.Request.Context(), h.ref(id), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// listFilter binds the list query. The id filters are parsed here because
// form binding cannot fill uuid.UUID.
func (h *documentHandler) listFilter(c *gin.Context) (appreconciliation.DocumentListFilter, bool) {
	var filter appreconciliation.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return filter, false
	}
	for name, dst := range map[string]**uuid.UUID{
		"store_id":    &filter.StoreID,
		"supplier_id": &filter.SupplierID,
		"return_id":   &filter.ReturnID,
		"sale_id":     &filter.SaleID,
	} {
		id, ok := h.queryUUID(c, name)
		if !ok {
			return filter, false
		}
		*dst = id
	}
	return filter, true
}

// list renders one page of documents
func list[T any](h *documentHandler, c *gin.Context, page *appreconciliation.ListResponse[T], err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
