package handler

import (
	"github.com/gin-gonic/gin"
)

// PostingHandler exposes the stored results of posted documents
type PostingHandler struct {
	BaseHandler
	service ReconciliationService
}

// NewPostingHandler creates a new PostingHandler
func NewPostingHandler(service ReconciliationService) *PostingHandler {
	return &PostingHandler{service: service}
}

// GetByDocument godoc
// @ID           getPostingResult
// @Summary      Get the posting result of a document
// @Description  Stock movements applied when the document was posted
// @Tags         postings
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[appreconciliation.PostingResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /postings/{id} [get]
func (h *PostingHandler) GetByDocument(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.GetPostingResult(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterRoutes registers the posting routes
func (h *PostingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/postings/:id", h.GetByDocument)
}
