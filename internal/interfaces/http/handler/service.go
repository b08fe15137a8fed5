package handler

import (
	"context"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/google/uuid"
)

// ReconciliationService is the application service behind the document
// handlers. *appreconciliation.Service implements it.
type ReconciliationService interface {
	CreateReturn(ctx context.Context, req appreconciliation.ReturnRequest) (*appreconciliation.ReturnResponse, error)
	SaveReturn(ctx context.Context, id uuid.UUID, req appreconciliation.ReturnRequest) (*appreconciliation.ReturnResponse, error)
	GetReturn(ctx context.Context, id uuid.UUID) (*appreconciliation.ReturnResponse, error)
	ListReturns(ctx context.Context, filter appreconciliation.DocumentListFilter) (*appreconciliation.ListResponse[appreconciliation.ReturnResponse], error)
	GetPendingQuantity(ctx context.Context, returnLineID uuid.UUID) (*appreconciliation.PendingQuantityResponse, error)
	ListEligibleReturns(ctx context.Context, storeID, supplierID *uuid.UUID) ([]appreconciliation.ReturnResponse, error)
	ListEligibleGRNs(ctx context.Context, storeID, supplierID uuid.UUID) ([]appreconciliation.GRNResponse, error)

	CreateReplacement(ctx context.Context, req appreconciliation.ReplacementRequest) (*appreconciliation.ReplacementResponse, error)
	SaveReplacement(ctx context.Context, id uuid.UUID, req appreconciliation.ReplacementRequest) (*appreconciliation.ReplacementResponse, error)
	GetReplacement(ctx context.Context, id uuid.UUID) (*appreconciliation.ReplacementResponse, error)
	ListReplacements(ctx context.Context, filter appreconciliation.DocumentListFilter) (*appreconciliation.ListResponse[appreconciliation.ReplacementResponse], error)

	CreateExchange(ctx context.Context, req appreconciliation.ExchangeRequest) (*appreconciliation.ExchangeResponse, error)
	SaveExchange(ctx context.Context, id uuid.UUID, req appreconciliation.ExchangeRequest) (*appreconciliation.ExchangeResponse, error)
	GetExchange(ctx context.Context, id uuid.UUID) (*appreconciliation.ExchangeResponse, error)
	ListExchanges(ctx context.Context, filter appreconciliation.DocumentListFilter) (*appreconciliation.ListResponse[appreconciliation.ExchangeResponse], error)
	ListEligibleSaleLines(ctx context.Context, saleID uuid.UUID) ([]appreconciliation.EligibleSaleLineResponse, error)
	PreviewExchange(ctx context.Context, req appreconciliation.PreviewExchangeRequest) appreconciliation.DifferentialResponse

	Submit(ctx context.Context, ref reconciliation.DocumentRef) (*appreconciliation.DocumentResponse, error)
	Post(ctx context.Context, ref reconciliation.DocumentRef, req appreconciliation.PostRequest) (*appreconciliation.DocumentResponse, error)
	Cancel(ctx context.Context, ref reconciliation.DocumentRef, req appreconciliation.CancelRequest) (*appreconciliation.DocumentResponse, error)
	GetPostingResult(ctx context.Context, documentID uuid.UUID) (*appreconciliation.PostingResultResponse, error)
}

var _ ReconciliationService = (*appreconciliation.Service)(nil)
