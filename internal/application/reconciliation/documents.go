package reconciliation

import (
	"context"
	"errors"
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== Returns ====================

// CreateReturn creates a Draft supplier return
func (s *Service) CreateReturn(ctx context.Context, req ReturnRequest) (*ReturnResponse, error) {
	header := s.returnHeader(req)
	var doc *reconciliation.ReturnDocument
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.ReturnRepo().NextDocumentNumber(ctx, s.now())
		if err != nil {
			return err
		}
		lines, err := s.returnLines(ctx, req.Lines, false)
		if err != nil {
			return err
		}
		doc, err = reconciliation.NewReturnDocument(number, header, lines)
		if err != nil {
			return err
		}
		if err := s.validateReturn(ctx, doc); err != nil {
			return err
		}
		return repos.ReturnRepo().Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return created",
		zap.String("document_number", doc.DocumentNumber),
		zap.Int("lines", len(doc.Lines)),
	)
	resp := ToReturnResponse(doc)
	return &resp, nil
}

// SaveReturn replaces the header and lines of a Draft or Pending return.
// Lines carrying an existing ID keep their replaced quantity; a line with
// posted replacements cannot be removed or shrunk below what was replaced,
// nor below what in-flight replacements have claimed. Neither kind of line
// may move to another product or batch.
func (s *Service) SaveReturn(ctx context.Context, id uuid.UUID, req ReturnRequest) (*ReturnResponse, error) {
	var doc *reconciliation.ReturnDocument
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		doc, err = repos.ReturnRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := doc.EnsureEditable(); err != nil {
			return err
		}
		lines, err := s.returnLines(ctx, req.Lines, true)
		if err != nil {
			return err
		}
		previous := make(map[uuid.UUID]reconciliation.ReturnLineItem, len(doc.Lines))
		for _, l := range doc.Lines {
			previous[l.ID] = l
		}
		if err := doc.UpdateHeader(s.returnHeader(req)); err != nil {
			return err
		}
		if err := doc.ReplaceLines(lines); err != nil {
			return err
		}
		if err := s.validateReturn(ctx, doc); err != nil {
			return err
		}
		if err := s.checkReturnCommitments(ctx, repos, doc, previous); err != nil {
			return err
		}
		return repos.ReturnRepo().SaveWithLock(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return saved",
		zap.String("document_number", doc.DocumentNumber),
		zap.Int("version", doc.Version),
	)
	resp := ToReturnResponse(doc)
	return &resp, nil
}

// checkReturnCommitments keeps an edited return consistent with the
// replacements already claiming its lines. previous holds the lines as
// they were before the edit.
func (s *Service) checkReturnCommitments(
	ctx context.Context,
	repos TransactionalRepositories,
	doc *reconciliation.ReturnDocument,
	previous map[uuid.UUID]reconciliation.ReturnLineItem,
) error {
	inFlight, err := repos.ReplacementRepo().FindInFlightCommitments(ctx, doc.ID, uuid.Nil)
	if err != nil {
		return err
	}
	if len(inFlight) == 0 {
		return nil
	}
	var v reconciliation.Violations
	ledger := reconciliation.NewQuantityLedger()
	for _, c := range inFlight {
		line := doc.FindLine(c.ReturnLineID)
		if line == nil {
			v.Add(reconciliation.ErrConservationViolation.
				WithMessage("Return line %s is claimed by replacement %s and cannot be removed", c.ReturnLineID, c.DocumentNumber).
				WithDetail("return_line_id", c.ReturnLineID.String()).
				WithDetail("documents", []string{c.DocumentNumber}))
			continue
		}
		if before, ok := previous[c.ReturnLineID]; ok && !before.SameStock(*line) {
			v.Add(reconciliation.ErrLineStockChanged.
				WithMessage("Return line %s is claimed by replacement %s; its product and batch cannot change", c.ReturnLineID, c.DocumentNumber).
				WithDetail("return_line_id", c.ReturnLineID.String()).
				WithDetail("documents", []string{c.DocumentNumber}))
		}
	}
	for i := range doc.Lines {
		if _, err := ledger.AggregateAcrossReplacements(&doc.Lines[i], inFlight); err != nil {
			de, _ := shared.AsDomainError(err)
			v.AddLine(i+1, de)
		}
	}
	return v.Err()
}

func (s *Service) returnHeader(req ReturnRequest) reconciliation.ReturnHeader {
	return reconciliation.ReturnHeader{
		StoreID:     req.StoreID,
		SupplierID:  req.SupplierID,
		SourceGRNID: req.SourceGRNID,
		ReturnDate:  s.dateOrToday(req.ReturnDate),
		Remark:      req.Remark,
	}
}

// returnLines builds domain lines, filling product names from the catalog
// when the caller left them out.
func (s *Service) returnLines(ctx context.Context, in []ReturnLineRequest, keepIDs bool) ([]reconciliation.ReturnLineItem, error) {
	lines := make([]reconciliation.ReturnLineItem, 0, len(in))
	for _, l := range in {
		line := reconciliation.NewReturnLineItem(l.ProductID, l.BatchID, l.BatchNumber, l.ExpiryDate, l.ReturnQuantity, l.CostPrice)
		if keepIDs && l.ID != nil {
			line.ID = *l.ID
		}
		line.ProductName = l.ProductName
		line.SourceGRNLineID = l.SourceGRNLineID
		if line.ProductName == "" && line.ProductID != uuid.Nil {
			product, err := s.reference.GetProduct(ctx, line.ProductID)
			switch {
			case err == nil:
				line.ProductName = product.Name
			case !errors.Is(err, shared.ErrNotFound):
				return nil, err
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// GetReturn retrieves a return by ID
func (s *Service) GetReturn(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	doc, err := s.repos.ReturnRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToReturnResponse(doc)
	return &resp, nil
}

// ListReturns lists returns matching the filter
func (s *Service) ListReturns(ctx context.Context, filter DocumentListFilter) (*ListResponse[ReturnResponse], error) {
	f, err := toDocumentFilter(filter)
	if err != nil {
		return nil, err
	}
	docs, total, err := s.repos.ReturnRepo().FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ReturnResponse, len(docs))
	for i, d := range docs {
		items[i] = ToReturnResponse(d)
	}
	resp := newListResponse(items, total, f)
	return &resp, nil
}

// GetPendingQuantity returns how much of a return line is still awaiting replacement
func (s *Service) GetPendingQuantity(ctx context.Context, returnLineID uuid.UUID) (*PendingQuantityResponse, error) {
	line, err := s.repos.ReturnRepo().FindLine(ctx, returnLineID)
	if err != nil {
		return nil, err
	}
	return &PendingQuantityResponse{
		ReturnLineID:            line.ID,
		ReturnQuantity:          line.ReturnQuantity,
		AlreadyReplacedQuantity: line.AlreadyReplacedQuantity,
		PendingQuantity:         line.PendingQuantity(),
	}, nil
}

// ListEligibleReturns lists Pending and Posted returns that still have
// something pending, for seeding a replacement
func (s *Service) ListEligibleReturns(ctx context.Context, storeID, supplierID *uuid.UUID) ([]ReturnResponse, error) {
	docs, err := s.repos.ReturnRepo().FindByStatuses(ctx, storeID, supplierID,
		reconciliation.StatusPending, reconciliation.StatusPosted)
	if err != nil {
		return nil, err
	}
	eligible := s.eligibility.EligibleReturnsForReplacement(docs)
	out := make([]ReturnResponse, len(eligible))
	for i, d := range eligible {
		out[i] = ToReturnResponse(d)
	}
	return out, nil
}

// ListEligibleGRNs lists posted goods-received notes that can seed a return
func (s *Service) ListEligibleGRNs(ctx context.Context, storeID, supplierID uuid.UUID) ([]GRNResponse, error) {
	if storeID == uuid.Nil || supplierID == uuid.Nil {
		return nil, reconciliation.ErrMissingField.WithMessage("Store and supplier are required")
	}
	grns, err := s.reference.ListGRNs(ctx, storeID, supplierID)
	if err != nil {
		return nil, err
	}
	eligible := s.eligibility.EligibleGRNsForReturn(grns, storeID, supplierID)
	out := make([]GRNResponse, len(eligible))
	for i, g := range eligible {
		out[i] = ToGRNResponse(g)
	}
	return out, nil
}

// ==================== Replacements ====================

// CreateReplacement creates a Draft replacement against a Pending or Posted return
func (s *Service) CreateReplacement(ctx context.Context, req ReplacementRequest) (*ReplacementResponse, error) {
	var doc *reconciliation.ReplacementDocument
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ret, err := repos.ReturnRepo().FindByID(ctx, req.ReturnID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return reconciliation.ErrIneligibleSource.
					WithMessage("Return %s not found", req.ReturnID).
					WithDetail("return_id", req.ReturnID.String())
			}
			return err
		}
		if !s.eligibility.IsReturnEligibleForReplacement(ret) {
			return reconciliation.ErrIneligibleSource.
				WithMessage("Return %s is %s with %s pending and cannot be replaced", ret.DocumentNumber, ret.Status, ret.TotalPending().String()).
				WithDetail("return_id", ret.ID.String())
		}
		number, err := repos.ReplacementRepo().NextDocumentNumber(ctx, s.now())
		if err != nil {
			return err
		}
		lines, err := replacementLines(ret, req.Lines, false)
		if err != nil {
			return err
		}
		doc, err = reconciliation.NewReplacementDocument(number, ret, reconciliation.ReplacementHeader{
			ReplacementDate: s.dateOrToday(req.ReplacementDate),
			Remark:          req.Remark,
		}, lines)
		if err != nil {
			return err
		}
		if _, err := s.validateReplacement(ctx, repos, doc, reconciliation.PhaseSave, false); err != nil {
			return err
		}
		return repos.ReplacementRepo().Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("replacement created",
		zap.String("document_number", doc.DocumentNumber),
		zap.String("return_id", doc.ReturnID.String()),
	)
	resp := ToReplacementResponse(doc)
	return &resp, nil
}

// SaveReplacement replaces the header and lines of a Draft or Pending replacement
func (s *Service) SaveReplacement(ctx context.Context, id uuid.UUID, req ReplacementRequest) (*ReplacementResponse, error) {
	var doc *reconciliation.ReplacementDocument
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		doc, err = repos.ReplacementRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := doc.EnsureEditable(); err != nil {
			return err
		}
		ret, err := repos.ReturnRepo().FindByID(ctx, doc.ReturnID)
		if err != nil {
			return err
		}
		lines, err := replacementLines(ret, req.Lines, true)
		if err != nil {
			return err
		}
		if err := doc.UpdateHeader(reconciliation.ReplacementHeader{
			ReplacementDate: s.dateOrToday(req.ReplacementDate),
			Remark:          req.Remark,
		}); err != nil {
			return err
		}
		if err := doc.ReplaceLines(lines); err != nil {
			return err
		}
		if _, err := s.validateReplacement(ctx, repos, doc, reconciliation.PhaseSave, false); err != nil {
			return err
		}
		return repos.ReplacementRepo().SaveWithLock(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("replacement saved",
		zap.String("document_number", doc.DocumentNumber),
		zap.Int("version", doc.Version),
	)
	resp := ToReplacementResponse(doc)
	return &resp, nil
}

// replacementLines seeds replacement lines from the return lines they
// reference. An unknown return line is reported with its position.
func replacementLines(ret *reconciliation.ReturnDocument, in []ReplacementLineRequest, keepIDs bool) ([]reconciliation.ReplacementLineItem, error) {
	var v reconciliation.Violations
	lines := make([]reconciliation.ReplacementLineItem, 0, len(in))
	for i, l := range in {
		rl := ret.FindLine(l.ReturnLineID)
		if rl == nil {
			v.AddLine(i+1, reconciliation.ErrUnknownLine.
				WithMessage("Line %d references a line that is not on return %s", i+1, ret.DocumentNumber).
				WithDetail("return_line_id", l.ReturnLineID.String()))
			continue
		}
		batchID := uuid.Nil
		if l.BatchID != nil {
			batchID = *l.BatchID
		}
		line := reconciliation.NewReplacementLineItem(rl, batchID, l.Quantity, l.Rate)
		if keepIDs && l.ID != nil {
			line.ID = *l.ID
		}
		lines = append(lines, line)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// GetReplacement retrieves a replacement by ID
func (s *Service) GetReplacement(ctx context.Context, id uuid.UUID) (*ReplacementResponse, error) {
	doc, err := s.repos.ReplacementRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToReplacementResponse(doc)
	return &resp, nil
}

// ListReplacements lists replacements matching the filter
func (s *Service) ListReplacements(ctx context.Context, filter DocumentListFilter) (*ListResponse[ReplacementResponse], error) {
	f, err := toDocumentFilter(filter)
	if err != nil {
		return nil, err
	}
	docs, total, err := s.repos.ReplacementRepo().FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ReplacementResponse, len(docs))
	for i, d := range docs {
		items[i] = ToReplacementResponse(d)
	}
	resp := newListResponse(items, total, f)
	return &resp, nil
}

// ==================== Exchanges ====================

// CreateExchange creates a Draft exchange against a sale
func (s *Service) CreateExchange(ctx context.Context, req ExchangeRequest) (*ExchangeResponse, error) {
	var doc *reconciliation.ExchangeDocument
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.reference.GetSale(ctx, req.SaleID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return reconciliation.ErrIneligibleSource.
					WithMessage("Sale %s not found", req.SaleID).
					WithDetail("sale_id", req.SaleID.String())
			}
			return err
		}
		number, err := repos.ExchangeRepo().NextDocumentNumber(ctx, s.now())
		if err != nil {
			return err
		}
		returned, issued, err := exchangeItems(sale, req, false)
		if err != nil {
			return err
		}
		doc, err = reconciliation.NewExchangeDocument(number, sale, reconciliation.ExchangeHeader{
			ExchangeDate: s.dateOrToday(req.ExchangeDate),
			Remark:       req.Remark,
		}, returned, issued)
		if err != nil {
			return err
		}
		if err := reconciliation.ValidateExchange(doc, sale, reconciliation.PhaseSave, s.now()); err != nil {
			return err
		}
		return repos.ExchangeRepo().Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	diff := doc.Differential()
	s.logger.Info("exchange created",
		zap.String("document_number", doc.DocumentNumber),
		zap.String("difference", diff.Difference.String()),
		zap.String("settlement", string(diff.Settlement)),
	)
	resp := ToExchangeResponse(doc, s.policy)
	return &resp, nil
}

// SaveExchange replaces the header and items of a Draft or Pending exchange
func (s *Service) SaveExchange(ctx context.Context, id uuid.UUID, req ExchangeRequest) (*ExchangeResponse, error) {
	var doc *reconciliation.ExchangeDocument
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		doc, err = repos.ExchangeRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := doc.EnsureEditable(); err != nil {
			return err
		}
		sale, err := s.reference.GetSale(ctx, doc.SaleID)
		if err != nil {
			return err
		}
		returned, issued, err := exchangeItems(sale, req, true)
		if err != nil {
			return err
		}
		if err := doc.UpdateHeader(reconciliation.ExchangeHeader{
			ExchangeDate: s.dateOrToday(req.ExchangeDate),
			Remark:       req.Remark,
		}); err != nil {
			return err
		}
		if err := doc.ReplaceItems(returned, issued); err != nil {
			return err
		}
		if err := reconciliation.ValidateExchange(doc, sale, reconciliation.PhaseSave, s.now()); err != nil {
			return err
		}
		return repos.ExchangeRepo().SaveWithLock(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("exchange saved",
		zap.String("document_number", doc.DocumentNumber),
		zap.Int("version", doc.Version),
	)
	resp := ToExchangeResponse(doc, s.policy)
	return &resp, nil
}

// exchangeItems seeds returned items from the sale lines they reference
func exchangeItems(sale *reconciliation.SaleTransaction, req ExchangeRequest, keepIDs bool) ([]reconciliation.ExchangeReturnItem, []reconciliation.ExchangeNewItem, error) {
	var v reconciliation.Violations
	returned := make([]reconciliation.ExchangeReturnItem, 0, len(req.ReturnItems))
	for i, in := range req.ReturnItems {
		line := sale.FindLine(in.SaleLineID)
		if line == nil {
			v.AddLine(i+1, reconciliation.ErrUnknownLine.
				WithMessage("Returned item %d is not on sale %s", i+1, sale.Number).
				WithDetail("sale_line_id", in.SaleLineID.String()))
			continue
		}
		reason, err := reconciliation.ParseReturnReason(in.Reason)
		if err != nil {
			de, _ := shared.AsDomainError(err)
			v.AddLine(i+1, de)
			continue
		}
		item := reconciliation.NewExchangeReturnItem(line, in.ReturnQuantity, reason)
		if keepIDs && in.ID != nil {
			item.ID = *in.ID
		}
		returned = append(returned, item)
	}
	issued := make([]reconciliation.ExchangeNewItem, 0, len(req.NewItems))
	for _, in := range req.NewItems {
		item := reconciliation.NewExchangeNewItem(in.ProductID, in.BatchID, in.Quantity, in.UnitPrice)
		if keepIDs && in.ID != nil {
			item.ID = *in.ID
		}
		issued = append(issued, item)
	}
	if err := v.Err(); err != nil {
		return nil, nil, err
	}
	return returned, issued, nil
}

// GetExchange retrieves an exchange by ID. Posted exchanges carry the
// allocation rows stored when they were posted.
func (s *Service) GetExchange(ctx context.Context, id uuid.UUID) (*ExchangeResponse, error) {
	doc, err := s.repos.ExchangeRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToExchangeResponse(doc, s.policy)
	if doc.IsPosted() {
		rows, err := s.repos.ExchangeRepo().FindAllocations(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		resp.Allocations = ToAllocationResponses(rows)
	}
	return &resp, nil
}

// ListExchanges lists exchanges matching the filter
func (s *Service) ListExchanges(ctx context.Context, filter DocumentListFilter) (*ListResponse[ExchangeResponse], error) {
	f, err := toDocumentFilter(filter)
	if err != nil {
		return nil, err
	}
	docs, total, err := s.repos.ExchangeRepo().FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ExchangeResponse, len(docs))
	for i, d := range docs {
		items[i] = ToExchangeResponse(d, s.policy)
	}
	resp := newListResponse(items, total, f)
	return &resp, nil
}

// ListEligibleSaleLines lists the lines of a sale that can still be exchanged
func (s *Service) ListEligibleSaleLines(ctx context.Context, saleID uuid.UUID) ([]EligibleSaleLineResponse, error) {
	sale, err := s.reference.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	lines := s.eligibility.EligibleSaleLinesForExchange(sale)
	out := make([]EligibleSaleLineResponse, len(lines))
	for i, l := range lines {
		out[i] = ToEligibleSaleLineResponse(l)
	}
	return out, nil
}

// PreviewExchange prices returned and new items without saving anything
func (s *Service) PreviewExchange(_ context.Context, req PreviewExchangeRequest) DifferentialResponse {
	toPriced := func(in []PricedLineRequest) []reconciliation.PricedQuantity {
		out := make([]reconciliation.PricedQuantity, len(in))
		for i, l := range in {
			out[i] = reconciliation.PricedQuantity{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
		}
		return out
	}
	return ToDifferentialResponse(s.calculator.Compute(toPriced(req.ReturnItems), toPriced(req.NewItems)))
}

// ==================== Posting results ====================

// GetPostingResult returns what posting a document did
func (s *Service) GetPostingResult(ctx context.Context, documentID uuid.UUID) (*PostingResultResponse, error) {
	return s.postingResult(ctx, s.repos, documentID)
}

// ==================== Helpers ====================

// dateOrToday defaults a missing document date to the current day
func (s *Service) dateOrToday(d *time.Time) time.Time {
	if d != nil && !d.IsZero() {
		return *d
	}
	return s.now()
}

func toDocumentFilter(in DocumentListFilter) (reconciliation.DocumentFilter, error) {
	f := reconciliation.DefaultDocumentFilter()
	if in.Page > 0 {
		f.Page = in.Page
	}
	if in.PageSize > 0 {
		f.PageSize = in.PageSize
	}
	if in.OrderBy != "" {
		f.OrderBy = in.OrderBy
	}
	if in.OrderDir != "" {
		f.OrderDir = in.OrderDir
	}
	f.Search = in.Search
	if in.Status != "" {
		status, err := reconciliation.ParseDocumentStatus(in.Status)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}
	f.StoreID = in.StoreID
	f.SupplierID = in.SupplierID
	f.ReturnID = in.ReturnID
	f.SaleID = in.SaleID
	f.DateFrom = in.DateFrom
	f.DateTo = in.DateTo
	return f, nil
}
