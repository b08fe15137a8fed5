package reconciliation

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Return DTOs ====================

// ReturnRequest creates a supplier return or replaces the content of a draft/pending one
type ReturnRequest struct {
	StoreID     uuid.UUID           `json:"store_id"`
	SupplierID  uuid.UUID           `json:"supplier_id"`
	SourceGRNID *uuid.UUID          `json:"source_grn_id"`
	ReturnDate  *time.Time          `json:"return_date"`
	Remark      string              `json:"remark" binding:"max=500"`
	Lines       []ReturnLineRequest `json:"lines"`
}

// ReturnLineRequest is one line of a return request. ID is set when
// editing an existing line so its replaced quantity is kept.
type ReturnLineRequest struct {
	ID              *uuid.UUID      `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	BatchID         uuid.UUID       `json:"batch_id"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	ReturnQuantity  decimal.Decimal `json:"return_quantity"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SourceGRNLineID *uuid.UUID      `json:"source_grn_line_id"`
}

// ReturnResponse represents a supplier return in API responses
type ReturnResponse struct {
	ID                uuid.UUID            `json:"id"`
	DocumentNumber    string               `json:"document_number"`
	StoreID           uuid.UUID            `json:"store_id"`
	SupplierID        uuid.UUID            `json:"supplier_id"`
	SourceGRNID       *uuid.UUID           `json:"source_grn_id,omitempty"`
	ReturnDate        time.Time            `json:"return_date"`
	Remark            string               `json:"remark,omitempty"`
	Lines             []ReturnLineResponse `json:"lines"`
	TotalQuantity     decimal.Decimal      `json:"total_quantity"`
	TotalPending      decimal.Decimal      `json:"total_pending"`
	TotalAmount       decimal.Decimal      `json:"total_amount"`
	IsTotallyReplaced bool                 `json:"is_totally_replaced"`
	LifecycleResponse
}

// ReturnLineResponse represents a return line in API responses
type ReturnLineResponse struct {
	ID                      uuid.UUID       `json:"id"`
	ProductID               uuid.UUID       `json:"product_id"`
	ProductName             string          `json:"product_name,omitempty"`
	BatchID                 uuid.UUID       `json:"batch_id"`
	BatchNumber             string          `json:"batch_number"`
	ExpiryDate              *time.Time      `json:"expiry_date,omitempty"`
	ReturnQuantity          decimal.Decimal `json:"return_quantity"`
	AlreadyReplacedQuantity decimal.Decimal `json:"already_replaced_quantity"`
	PendingQuantity         decimal.Decimal `json:"pending_quantity"`
	CostPrice               decimal.Decimal `json:"cost_price"`
	Amount                  decimal.Decimal `json:"amount"`
	SourceGRNLineID         *uuid.UUID      `json:"source_grn_line_id,omitempty"`
}

// LifecycleResponse holds the status fields shared by every document response
type LifecycleResponse struct {
	Status       string     `json:"status"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	PostedAt     *time.Time `json:"posted_at,omitempty"`
	PostedBy     *uuid.UUID `json:"posted_by,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
}

// PendingQuantityResponse is the pending quantity of one return line
type PendingQuantityResponse struct {
	ReturnLineID            uuid.UUID       `json:"return_line_id"`
	ReturnQuantity          decimal.Decimal `json:"return_quantity"`
	AlreadyReplacedQuantity decimal.Decimal `json:"already_replaced_quantity"`
	PendingQuantity         decimal.Decimal `json:"pending_quantity"`
}

// ==================== Replacement DTOs ====================

// ReplacementRequest creates a replacement or replaces the content of a draft/pending one.
// ReturnID is only read on create.
type ReplacementRequest struct {
	ReturnID        uuid.UUID                `json:"return_id"`
	ReplacementDate *time.Time               `json:"replacement_date"`
	Remark          string                   `json:"remark" binding:"max=500"`
	Lines           []ReplacementLineRequest `json:"lines"`
}

// ReplacementLineRequest is one line of a replacement request. BatchID
// defaults to the batch of the return line.
type ReplacementLineRequest struct {
	ID           *uuid.UUID      `json:"id"`
	ReturnLineID uuid.UUID       `json:"return_line_id"`
	BatchID      *uuid.UUID      `json:"batch_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
}

// ReplacementResponse represents a replacement in API responses
type ReplacementResponse struct {
	ID              uuid.UUID                 `json:"id"`
	DocumentNumber  string                    `json:"document_number"`
	ReturnID        uuid.UUID                 `json:"return_id"`
	StoreID         uuid.UUID                 `json:"store_id"`
	SupplierID      uuid.UUID                 `json:"supplier_id"`
	ReplacementDate time.Time                 `json:"replacement_date"`
	Remark          string                    `json:"remark,omitempty"`
	Lines           []ReplacementLineResponse `json:"lines"`
	TotalQuantity   decimal.Decimal           `json:"total_quantity"`
	TotalAmount     decimal.Decimal           `json:"total_amount"`
	LifecycleResponse
}

// ReplacementLineResponse represents a replacement line in API responses.
// ReturnQuantity, AlreadyReplacedQuantity and PendingQuantity are the
// return line as it was when last validated.
type ReplacementLineResponse struct {
	ID                      uuid.UUID       `json:"id"`
	ReturnLineID            uuid.UUID       `json:"return_line_id"`
	ProductID               uuid.UUID       `json:"product_id"`
	BatchID                 uuid.UUID       `json:"batch_id"`
	ReturnQuantity          decimal.Decimal `json:"return_quantity"`
	AlreadyReplacedQuantity decimal.Decimal `json:"already_replaced_quantity"`
	PendingQuantity         decimal.Decimal `json:"pending_quantity"`
	Quantity                decimal.Decimal `json:"quantity"`
	Rate                    decimal.Decimal `json:"rate"`
	Amount                  decimal.Decimal `json:"amount"`
}

// ==================== Exchange DTOs ====================

// ExchangeRequest creates an exchange or replaces the content of a draft/pending one.
// SaleID is only read on create.
type ExchangeRequest struct {
	SaleID       uuid.UUID                   `json:"sale_id"`
	ExchangeDate *time.Time                  `json:"exchange_date"`
	Remark       string                      `json:"remark" binding:"max=500"`
	ReturnItems  []ExchangeReturnItemRequest `json:"return_items"`
	NewItems     []ExchangeNewItemRequest    `json:"new_items"`
}

// ExchangeReturnItemRequest selects part of a sale line to bring back
type ExchangeReturnItemRequest struct {
	ID             *uuid.UUID      `json:"id"`
	SaleLineID     uuid.UUID       `json:"sale_line_id"`
	ReturnQuantity decimal.Decimal `json:"return_quantity"`
	Reason         string          `json:"reason"`
}

// ExchangeNewItemRequest is a product the customer takes in exchange
type ExchangeNewItemRequest struct {
	ID        *uuid.UUID      `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	BatchID   uuid.UUID       `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ExchangeResponse represents an exchange in API responses
type ExchangeResponse struct {
	ID                uuid.UUID                    `json:"id"`
	DocumentNumber    string                       `json:"document_number"`
	SaleID            uuid.UUID                    `json:"sale_id"`
	StoreID           uuid.UUID                    `json:"store_id"`
	ExchangeDate      time.Time                    `json:"exchange_date"`
	Remark            string                       `json:"remark,omitempty"`
	ReturnItems       []ExchangeReturnItemResponse `json:"return_items"`
	NewItems          []ExchangeNewItemResponse    `json:"new_items"`
	TotalReturnAmount decimal.Decimal              `json:"total_return_amount"`
	TotalNewAmount    decimal.Decimal              `json:"total_new_amount"`
	DifferenceToPay   decimal.Decimal              `json:"difference_to_pay"`
	Settlement        string                       `json:"settlement"`
	Allocations       []AllocationResponse         `json:"allocations,omitempty"`
	LifecycleResponse
}

// ExchangeReturnItemResponse represents a returned item in API responses
type ExchangeReturnItemResponse struct {
	ID                       uuid.UUID       `json:"id"`
	SaleLineID               uuid.UUID       `json:"sale_line_id"`
	ProductID                uuid.UUID       `json:"product_id"`
	BatchID                  uuid.UUID       `json:"batch_id"`
	OriginalQuantity         decimal.Decimal `json:"original_quantity"`
	AlreadyExchangedQuantity decimal.Decimal `json:"already_exchanged_quantity"`
	ReturnQuantity           decimal.Decimal `json:"return_quantity"`
	UnitPrice                decimal.Decimal `json:"unit_price"`
	Amount                   decimal.Decimal `json:"amount"`
	Reason                   string          `json:"reason"`
	ReasonLabel              string          `json:"reason_label"`
	Restock                  bool            `json:"restock"`
}

// ExchangeNewItemResponse represents a new item in API responses
type ExchangeNewItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	BatchID   uuid.UUID       `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// AllocationResponse is one informational returned/new pairing row
type AllocationResponse struct {
	ReturnItemID    uuid.UUID       `json:"return_item_id"`
	NewItemID       uuid.UUID       `json:"new_item_id"`
	Share           decimal.Decimal `json:"share"`
	ReturnAmount    decimal.Decimal `json:"return_amount"`
	NewAmount       decimal.Decimal `json:"new_amount"`
	DifferenceShare decimal.Decimal `json:"difference_share"`
}

// PreviewExchangeRequest prices an exchange without saving it
type PreviewExchangeRequest struct {
	ReturnItems []PricedLineRequest `json:"return_items" binding:"required,min=1,dive"`
	NewItems    []PricedLineRequest `json:"new_items" binding:"required,min=1,dive"`
}

// PricedLineRequest is a quantity at a unit price
type PricedLineRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
}

// DifferentialResponse is the result of pricing an exchange
type DifferentialResponse struct {
	TotalReturn decimal.Decimal `json:"total_return"`
	TotalNew    decimal.Decimal `json:"total_new"`
	Difference  decimal.Decimal `json:"difference"`
	Settlement  string          `json:"settlement"`
	AmountDue   decimal.Decimal `json:"amount_due"`
	RefundDue   decimal.Decimal `json:"refund_due"`
}

// ==================== Lifecycle DTOs ====================

// PostRequest carries who posts a document
type PostRequest struct {
	PostedBy *uuid.UUID `json:"posted_by"`
}

// CancelRequest carries why a document is cancelled
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// DocumentResponse is the result of a lifecycle operation. Exactly one of
// Return, Replacement and Exchange is set.
type DocumentResponse struct {
	DocumentType  string                 `json:"document_type"`
	Return        *ReturnResponse        `json:"return,omitempty"`
	Replacement   *ReplacementResponse   `json:"replacement,omitempty"`
	Exchange      *ExchangeResponse      `json:"exchange,omitempty"`
	Posting       *PostingResultResponse `json:"posting,omitempty"`
	AlreadyPosted bool                   `json:"already_posted,omitempty"`
}

// Status returns the status of whichever document is set
func (d *DocumentResponse) Status() string {
	switch {
	case d.Return != nil:
		return d.Return.Status
	case d.Replacement != nil:
		return d.Replacement.Status
	case d.Exchange != nil:
		return d.Exchange.Status
	}
	return ""
}

// PostingResultResponse describes what posting a document did
type PostingResultResponse struct {
	DocumentID     uuid.UUID               `json:"document_id"`
	DocumentType   string                  `json:"document_type"`
	DocumentNumber string                  `json:"document_number"`
	PostedBy       *uuid.UUID              `json:"posted_by,omitempty"`
	PostedAt       time.Time               `json:"posted_at"`
	Movements      []StockMovementResponse `json:"movements"`
}

// StockMovementResponse is one batch delta applied while posting
type StockMovementResponse struct {
	BatchID       uuid.UUID       `json:"batch_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	LineID        uuid.UUID       `json:"line_id"`
	Kind          string          `json:"kind"`
	Delta         decimal.Decimal `json:"delta"`
	QuantityAfter decimal.Decimal `json:"quantity_after"`
}

// ==================== Query DTOs ====================

// DocumentListFilter represents filter options for document lists. The id
// filters are parsed by the HTTP layer, not by form binding.
type DocumentListFilter struct {
	Status     string     `form:"status"`
	StoreID    *uuid.UUID `form:"-"`
	SupplierID *uuid.UUID `form:"-"`
	ReturnID   *uuid.UUID `form:"-"`
	SaleID     *uuid.UUID `form:"-"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=document_number created_at updated_at status"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ListResponse is one page of documents
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// GRNResponse represents a goods-received note that can seed a return
type GRNResponse struct {
	ID           uuid.UUID         `json:"id"`
	Number       string            `json:"number"`
	StoreID      uuid.UUID         `json:"store_id"`
	SupplierID   uuid.UUID         `json:"supplier_id"`
	ReceivedDate time.Time         `json:"received_date"`
	Lines        []GRNLineResponse `json:"lines"`
}

// GRNLineResponse represents a goods-received note line
type GRNLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	BatchID          uuid.UUID       `json:"batch_id"`
	BatchNumber      string          `json:"batch_number"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	CostPrice        decimal.Decimal `json:"cost_price"`
}

// EligibleSaleLineResponse is a sale line that can still be exchanged
type EligibleSaleLineResponse struct {
	ID                       uuid.UUID       `json:"id"`
	SaleID                   uuid.UUID       `json:"sale_id"`
	ProductID                uuid.UUID       `json:"product_id"`
	BatchID                  uuid.UUID       `json:"batch_id"`
	OriginalQuantity         decimal.Decimal `json:"original_quantity"`
	AlreadyExchangedQuantity decimal.Decimal `json:"already_exchanged_quantity"`
	RemainingQuantity        decimal.Decimal `json:"remaining_quantity"`
	UnitPrice                decimal.Decimal `json:"unit_price"`
}

// ==================== Converters ====================

func toLifecycleResponse(l *reconciliation.Lifecycle, createdAt, updatedAt time.Time, version int) LifecycleResponse {
	return LifecycleResponse{
		Status:       string(l.Status),
		SubmittedAt:  l.SubmittedAt,
		PostedAt:     l.PostedAt,
		PostedBy:     l.PostedBy,
		CancelledAt:  l.CancelledAt,
		CancelReason: l.CancelReason,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		Version:      version,
	}
}

// ToReturnResponse converts a domain ReturnDocument to a response DTO
func ToReturnResponse(r *reconciliation.ReturnDocument) ReturnResponse {
	lines := make([]ReturnLineResponse, len(r.Lines))
	total := decimal.Zero
	for i := range r.Lines {
		l := &r.Lines[i]
		total = total.Add(l.ReturnQuantity)
		lines[i] = ReturnLineResponse{
			ID:                      l.ID,
			ProductID:               l.ProductID,
			ProductName:             l.ProductName,
			BatchID:                 l.BatchID,
			BatchNumber:             l.BatchNumber,
			ExpiryDate:              l.ExpiryDate,
			ReturnQuantity:          l.ReturnQuantity,
			AlreadyReplacedQuantity: l.AlreadyReplacedQuantity,
			PendingQuantity:         l.PendingQuantity(),
			CostPrice:               l.CostPrice,
			Amount:                  l.Amount(),
			SourceGRNLineID:         l.SourceGRNLineID,
		}
	}
	return ReturnResponse{
		ID:                r.ID,
		DocumentNumber:    r.DocumentNumber,
		StoreID:           r.StoreID,
		SupplierID:        r.SupplierID,
		SourceGRNID:       r.SourceGRNID,
		ReturnDate:        r.ReturnDate,
		Remark:            r.Remark,
		Lines:             lines,
		TotalQuantity:     total,
		TotalPending:      r.TotalPending(),
		TotalAmount:       r.TotalAmount(),
		IsTotallyReplaced: r.IsTotallyReplaced(),
		LifecycleResponse: toLifecycleResponse(&r.Lifecycle, r.CreatedAt, r.UpdatedAt, r.Version),
	}
}

// ToReplacementResponse converts a domain ReplacementDocument to a response DTO
func ToReplacementResponse(r *reconciliation.ReplacementDocument) ReplacementResponse {
	lines := make([]ReplacementLineResponse, len(r.Lines))
	for i := range r.Lines {
		l := &r.Lines[i]
		lines[i] = ReplacementLineResponse{
			ID:                      l.ID,
			ReturnLineID:            l.ReturnLineID,
			ProductID:               l.ProductID,
			BatchID:                 l.BatchID,
			ReturnQuantity:          l.ReturnQuantity,
			AlreadyReplacedQuantity: l.AlreadyReplacedQuantity,
			PendingQuantity:         l.SnapshotPending(),
			Quantity:                l.Quantity,
			Rate:                    l.Rate,
			Amount:                  l.Amount(),
		}
	}
	return ReplacementResponse{
		ID:                r.ID,
		DocumentNumber:    r.DocumentNumber,
		ReturnID:          r.ReturnID,
		StoreID:           r.StoreID,
		SupplierID:        r.SupplierID,
		ReplacementDate:   r.ReplacementDate,
		Remark:            r.Remark,
		Lines:             lines,
		TotalQuantity:     r.TotalQuantity(),
		TotalAmount:       r.TotalAmount(),
		LifecycleResponse: toLifecycleResponse(&r.Lifecycle, r.CreatedAt, r.UpdatedAt, r.Version),
	}
}

// ToExchangeResponse converts a domain ExchangeDocument to a response DTO
func ToExchangeResponse(e *reconciliation.ExchangeDocument, policy reconciliation.RestockPolicy) ExchangeResponse {
	returned := make([]ExchangeReturnItemResponse, len(e.ReturnItems))
	for i := range e.ReturnItems {
		item := &e.ReturnItems[i]
		returned[i] = ExchangeReturnItemResponse{
			ID:                       item.ID,
			SaleLineID:               item.SaleLineID,
			ProductID:                item.ProductID,
			BatchID:                  item.BatchID,
			OriginalQuantity:         item.OriginalQuantity,
			AlreadyExchangedQuantity: item.AlreadyExchangedQuantity,
			ReturnQuantity:           item.ReturnQuantity,
			UnitPrice:                item.UnitPrice,
			Amount:                   item.Amount(),
			Reason:                   string(item.Reason),
			ReasonLabel:              item.Reason.Label(),
			Restock:                  policy.Restocks(item.Reason),
		}
	}
	issued := make([]ExchangeNewItemResponse, len(e.NewItems))
	for i := range e.NewItems {
		item := &e.NewItems[i]
		issued[i] = ExchangeNewItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount(),
		}
	}
	diff := e.Differential()
	return ExchangeResponse{
		ID:                e.ID,
		DocumentNumber:    e.DocumentNumber,
		SaleID:            e.SaleID,
		StoreID:           e.StoreID,
		ExchangeDate:      e.ExchangeDate,
		Remark:            e.Remark,
		ReturnItems:       returned,
		NewItems:          issued,
		TotalReturnAmount: diff.TotalReturn,
		TotalNewAmount:    diff.TotalNew,
		DifferenceToPay:   diff.Difference,
		Settlement:        string(diff.Settlement),
		Allocations:       ToAllocationResponses(e.Allocations()),
		LifecycleResponse: toLifecycleResponse(&e.Lifecycle, e.CreatedAt, e.UpdatedAt, e.Version),
	}
}

// ToAllocationResponses converts allocation rows to response DTOs
func ToAllocationResponses(rows []reconciliation.ExchangeAllocation) []AllocationResponse {
	if len(rows) == 0 {
		return nil
	}
	out := make([]AllocationResponse, len(rows))
	for i, r := range rows {
		out[i] = AllocationResponse{
			ReturnItemID:    r.ReturnItemID,
			NewItemID:       r.NewItemID,
			Share:           r.Share,
			ReturnAmount:    r.ReturnAmount,
			NewAmount:       r.NewAmount,
			DifferenceShare: r.DifferenceShare,
		}
	}
	return out
}

// ToDifferentialResponse converts a Differential to a response DTO
func ToDifferentialResponse(d reconciliation.Differential) DifferentialResponse {
	return DifferentialResponse{
		TotalReturn: d.TotalReturn,
		TotalNew:    d.TotalNew,
		Difference:  d.Difference,
		Settlement:  string(d.Settlement),
		AmountDue:   d.AmountDue(),
		RefundDue:   d.RefundDue(),
	}
}

// ToPostingResultResponse converts a posting record and its movements to a response DTO
func ToPostingResultResponse(rec *reconciliation.PostingRecord, movements []*inventory.StockMovement) *PostingResultResponse {
	out := make([]StockMovementResponse, len(movements))
	for i, m := range movements {
		out[i] = StockMovementResponse{
			BatchID:       m.BatchID,
			ProductID:     m.ProductID,
			LineID:        m.DocumentLine,
			Kind:          string(m.Kind),
			Delta:         m.Delta,
			QuantityAfter: m.QuantityAfter,
		}
	}
	return &PostingResultResponse{
		DocumentID:     rec.DocumentID,
		DocumentType:   string(rec.DocumentType),
		DocumentNumber: rec.DocumentNumber,
		PostedBy:       rec.PostedBy,
		PostedAt:       rec.PostedAt,
		Movements:      out,
	}
}

// ToGRNResponse converts a goods-received note to a response DTO
func ToGRNResponse(g *reconciliation.GoodsReceivedNote) GRNResponse {
	lines := make([]GRNLineResponse, len(g.Lines))
	for i, l := range g.Lines {
		lines[i] = GRNLineResponse{
			ID:               l.ID,
			ProductID:        l.ProductID,
			BatchID:          l.BatchID,
			BatchNumber:      l.BatchNumber,
			ReceivedQuantity: l.ReceivedQuantity,
			CostPrice:        l.CostPrice,
		}
	}
	return GRNResponse{
		ID:           g.ID,
		Number:       g.Number,
		StoreID:      g.StoreID,
		SupplierID:   g.SupplierID,
		ReceivedDate: g.ReceivedDate,
		Lines:        lines,
	}
}

// ToEligibleSaleLineResponse converts an eligible sale line to a response DTO
func ToEligibleSaleLineResponse(l reconciliation.EligibleSaleLine) EligibleSaleLineResponse {
	return EligibleSaleLineResponse{
		ID:                       l.ID,
		SaleID:                   l.SaleID,
		ProductID:                l.ProductID,
		BatchID:                  l.BatchID,
		OriginalQuantity:         l.OriginalQuantity,
		AlreadyExchangedQuantity: l.AlreadyExchangedQuantity,
		RemainingQuantity:        l.Remaining,
		UnitPrice:                l.UnitPrice,
	}
}

func newListResponse[T any](items []T, total int64, filter reconciliation.DocumentFilter) ListResponse[T] {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = len(items)
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return ListResponse[T]{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
