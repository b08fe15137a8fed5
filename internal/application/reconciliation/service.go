package reconciliation

import (
	"context"
	"errors"
	"time"

	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/erp/reconciliation/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service orchestrates supplier returns, replacements and customer
// exchanges: creating and editing drafts, moving documents through their
// lifecycle and posting them against stock.
type Service struct {
	txScope     TransactionScope
	repos       TransactionalRepositories
	reference   reconciliation.ReferenceDataGateway
	trigger     *StockAdjustmentTrigger
	policy      reconciliation.RestockPolicy
	eligibility reconciliation.EligibilityFilter
	calculator  reconciliation.ExchangeDifferentialCalculator
	metrics     Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the business metrics sink
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRestockPolicy sets which exchange return reasons go back into stock
func WithRestockPolicy(p reconciliation.RestockPolicy) ServiceOption {
	return func(s *Service) {
		s.policy = p
	}
}

// WithClock sets the clock used for document dates and numbering
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service. repos is used for reads outside a
// transaction; writes always go through txScope.
func NewService(
	txScope TransactionScope,
	repos TransactionalRepositories,
	reference reconciliation.ReferenceDataGateway,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		txScope:     txScope,
		repos:       repos,
		reference:   reference,
		policy:      reconciliation.DefaultRestockPolicy(),
		eligibility: reconciliation.NewEligibilityFilter(),
		calculator:  reconciliation.NewExchangeDifferentialCalculator(),
		metrics:     noopMetrics{},
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.trigger = NewStockAdjustmentTrigger(s.policy, s.logger.Named("stock"))
	return s
}

// RestockPolicy returns the policy the service posts exchanges with
func (s *Service) RestockPolicy() reconciliation.RestockPolicy {
	return s.policy
}

// ==================== Lifecycle ====================

// Submit moves a Draft document to Pending after validating it
func (s *Service) Submit(ctx context.Context, ref reconciliation.DocumentRef) (*DocumentResponse, error) {
	return s.traced(ctx, telemetry.OperationSubmit, ref, func(ctx context.Context) (*DocumentResponse, error) {
		return s.submit(ctx, ref)
	})
}

func (s *Service) submit(ctx context.Context, ref reconciliation.DocumentRef) (*DocumentResponse, error) {
	var resp *DocumentResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		switch ref.Type {
		case reconciliation.DocumentTypeReturn:
			resp, err = s.submitReturn(ctx, repos, ref.ID)
		case reconciliation.DocumentTypeReplacement:
			resp, err = s.submitReplacement(ctx, repos, ref.ID)
		case reconciliation.DocumentTypeExchange:
			resp, err = s.submitExchange(ctx, repos, ref.ID)
		default:
			err = unknownDocumentType(ref.Type)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(ctx, string(ref.Type), string(reconciliation.StatusPending))
	s.logger.Info("document submitted", zap.String("document", ref.String()))
	return resp, nil
}

func (s *Service) submitReturn(ctx context.Context, repos TransactionalRepositories, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := repos.ReturnRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Status.Transition(reconciliation.StatusPending); err != nil {
		return nil, err
	}
	if err := s.validateReturn(ctx, doc); err != nil {
		return nil, err
	}
	if err := doc.Submit(); err != nil {
		return nil, err
	}
	if err := repos.ReturnRepo().SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, repos, doc); err != nil {
		return nil, err
	}
	return returnDocumentResponse(doc), nil
}

func (s *Service) submitReplacement(ctx context.Context, repos TransactionalRepositories, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := repos.ReplacementRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Status.Transition(reconciliation.StatusPending); err != nil {
		return nil, err
	}
	if _, err := s.validateReplacement(ctx, repos, doc, reconciliation.PhaseSave, false); err != nil {
		return nil, err
	}
	if err := doc.Submit(); err != nil {
		return nil, err
	}
	if err := repos.ReplacementRepo().SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, repos, doc); err != nil {
		return nil, err
	}
	return replacementDocumentResponse(doc), nil
}

func (s *Service) submitExchange(ctx context.Context, repos TransactionalRepositories, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := repos.ExchangeRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Status.Transition(reconciliation.StatusPending); err != nil {
		return nil, err
	}
	if _, err := s.validateExchange(ctx, repos, doc, reconciliation.PhaseSave, false); err != nil {
		return nil, err
	}
	if err := doc.Submit(); err != nil {
		return nil, err
	}
	if err := repos.ExchangeRepo().SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, repos, doc); err != nil {
		return nil, err
	}
	return s.exchangeDocumentResponse(doc), nil
}

// Post applies a document's effects. A Draft is submitted first and that
// submission is kept even if posting then fails. Posting an already
// Posted document returns the stored result without applying anything.
// Validation is re-run against live state inside the posting transaction,
// and every effect is applied in that transaction or none is.
func (s *Service) Post(ctx context.Context, ref reconciliation.DocumentRef, req PostRequest) (*DocumentResponse, error) {
	return s.traced(ctx, telemetry.OperationPost, ref, func(ctx context.Context) (*DocumentResponse, error) {
		return s.post(ctx, ref, req)
	})
}

func (s *Service) post(ctx context.Context, ref reconciliation.DocumentRef, req PostRequest) (*DocumentResponse, error) {
	started := s.now()

	status, err := s.currentStatus(ctx, ref)
	if err != nil {
		return nil, err
	}
	if status == reconciliation.StatusDraft {
		if _, err := s.submit(ctx, ref); err != nil {
			s.recordRejected(ctx, ref, err)
			return nil, err
		}
	}

	var resp *DocumentResponse
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		switch ref.Type {
		case reconciliation.DocumentTypeReturn:
			resp, err = s.postReturn(ctx, repos, ref.ID, req)
		case reconciliation.DocumentTypeReplacement:
			resp, err = s.postReplacement(ctx, repos, ref.ID, req)
		case reconciliation.DocumentTypeExchange:
			resp, err = s.postExchange(ctx, repos, ref.ID, req)
		default:
			err = unknownDocumentType(ref.Type)
		}
		return err
	})
	if err != nil {
		s.recordRejected(ctx, ref, err)
		return nil, err
	}

	if resp.AlreadyPosted {
		s.logger.Info("document already posted", zap.String("document", ref.String()))
		return resp, nil
	}
	s.metrics.RecordPosted(ctx, string(ref.Type), s.now().Sub(started))
	s.metrics.RecordTransition(ctx, string(ref.Type), string(reconciliation.StatusPosted))
	s.logger.Info("document posted",
		zap.String("document", ref.String()),
		zap.Int("movements", len(resp.Posting.Movements)),
	)
	return resp, nil
}

func (s *Service) postReturn(ctx context.Context, repos TransactionalRepositories, id uuid.UUID, req PostRequest) (*DocumentResponse, error) {
	doc, err := repos.ReturnRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsPosted() {
		resp := returnDocumentResponse(doc)
		return s.withStoredPosting(ctx, repos, resp, doc.ID)
	}
	if err := doc.Status.Transition(reconciliation.StatusPosted); err != nil {
		return nil, err
	}
	if err := s.validateReturn(ctx, doc); err != nil {
		return nil, err
	}

	rec, err := s.recordPosting(ctx, repos, doc.Info(), req.PostedBy, 0)
	if err != nil {
		return nil, err
	}
	if err := doc.MarkPosted(req.PostedBy); err != nil {
		return nil, err
	}
	if err := repos.ReturnRepo().SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, repos, doc); err != nil {
		return nil, err
	}

	resp := returnDocumentResponse(doc)
	resp.Posting = ToPostingResultResponse(rec, nil)
	return resp, nil
}

func (s *Service) postReplacement(ctx context.Context, repos TransactionalRepositories, id uuid.UUID, req PostRequest) (*DocumentResponse, error) {
	doc, err := repos.ReplacementRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsPosted() {
		resp := replacementDocumentResponse(doc)
		return s.withStoredPosting(ctx, repos, resp, doc.ID)
	}
	if err := doc.Status.Transition(reconciliation.StatusPosted); err != nil {
		return nil, err
	}

	ret, err := s.validateReplacement(ctx, repos, doc, reconciliation.PhasePost, true)
	if err != nil {
		return nil, err
	}

	movements, err := s.trigger.ApplyReplacement(ctx, repos, doc, ret)
	if err != nil {
		return nil, err
	}
	rec, err := s.recordPosting(ctx, repos, doc.Info(), req.PostedBy, len(movements))
	if err != nil {
		return nil, err
	}
	if err := doc.MarkPosted(req.PostedBy); err != nil {
		return nil, err
	}
	if err := repos.ReplacementRepo().SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	if ret.IsTotallyReplaced() {
		ret.AddDomainEvent(reconciliation.NewReturnTotallyReplacedEvent(ret, doc))
		s.logger.Info("return totally replaced",
			zap.String("return_number", ret.DocumentNumber),
			zap.String("replacement_number", doc.DocumentNumber),
		)
	}
	if err := s.publish(ctx, repos, doc); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, repos, ret); err != nil {
		return nil, err
	}

	resp := replacementDocumentResponse(doc)
	resp.Posting = ToPostingResultResponse(rec, movements)
	return resp, nil
}

func (s *Service) postExchange(ctx context.Context, repos TransactionalRepositories, id uuid.UUID, req PostRequest) (*DocumentResponse, error) {
	doc, err := repos.ExchangeRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsPosted() {
		resp := s.exchangeDocumentResponse(doc)
		if rows, err := repos.ExchangeRepo().FindAllocations(ctx, doc.ID); err == nil && len(rows) > 0 {
			resp.Exchange.Allocations = ToAllocationResponses(rows)
		}
		return s.withStoredPosting(ctx, repos, resp, doc.ID)
	}
	if err := doc.Status.Transition(reconciliation.StatusPosted); err != nil {
		return nil, err
	}

	sale, err := s.validateExchange(ctx, repos, doc, reconciliation.PhasePost, true)
	if err != nil {
		return nil, err
	}

	movements, err := s.trigger.ApplyExchange(ctx, repos, doc, sale)
	if err != nil {
		if shortfall, ok := inventory.ShortfallOf(err); ok {
			batchNumber := ""
			if de, ok := shared.AsDomainError(err); ok {
				if v, ok := de.Detail(inventory.DetailBatchNumber); ok {
					batchNumber, _ = v.(string)
				}
			}
			s.metrics.RecordShortfall(ctx, batchNumber, shortfall)
		}
		return nil, err
	}
	rec, err := s.recordPosting(ctx, repos, doc.Info(), req.PostedBy, len(movements))
	if err != nil {
		return nil, err
	}
	if err := doc.MarkPosted(req.PostedBy, s.policy); err != nil {
		return nil, err
	}
	if err := repos.ExchangeRepo().SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, repos, doc); err != nil {
		return nil, err
	}

	resp := s.exchangeDocumentResponse(doc)
	resp.Posting = ToPostingResultResponse(rec, movements)
	return resp, nil
}

// Cancel moves a Draft or Pending document to Cancelled. Cancelled
// documents commit nothing, so their quantities drop out of every
// in-flight sum.
func (s *Service) Cancel(ctx context.Context, ref reconciliation.DocumentRef, req CancelRequest) (*DocumentResponse, error) {
	var resp *DocumentResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		switch ref.Type {
		case reconciliation.DocumentTypeReturn:
			doc, err := repos.ReturnRepo().FindByIDForUpdate(ctx, ref.ID)
			if err != nil {
				return err
			}
			if err := doc.Cancel(req.Reason); err != nil {
				return err
			}
			if err := repos.ReturnRepo().SaveWithLock(ctx, doc); err != nil {
				return err
			}
			resp = returnDocumentResponse(doc)
			return s.publish(ctx, repos, doc)
		case reconciliation.DocumentTypeReplacement:
			doc, err := repos.ReplacementRepo().FindByIDForUpdate(ctx, ref.ID)
			if err != nil {
				return err
			}
			if err := doc.Cancel(req.Reason); err != nil {
				return err
			}
			if err := repos.ReplacementRepo().SaveWithLock(ctx, doc); err != nil {
				return err
			}
			resp = replacementDocumentResponse(doc)
			return s.publish(ctx, repos, doc)
		case reconciliation.DocumentTypeExchange:
			doc, err := repos.ExchangeRepo().FindByIDForUpdate(ctx, ref.ID)
			if err != nil {
				return err
			}
			if err := doc.Cancel(req.Reason); err != nil {
				return err
			}
			if err := repos.ExchangeRepo().SaveWithLock(ctx, doc); err != nil {
				return err
			}
			resp = s.exchangeDocumentResponse(doc)
			return s.publish(ctx, repos, doc)
		}
		return unknownDocumentType(ref.Type)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(ctx, string(ref.Type), string(reconciliation.StatusCancelled))
	s.logger.Info("document cancelled",
		zap.String("document", ref.String()),
		zap.String("reason", req.Reason),
	)
	return resp, nil
}

// ==================== Validation helpers ====================

func (s *Service) validateReturn(ctx context.Context, doc *reconciliation.ReturnDocument) error {
	var grn *reconciliation.GoodsReceivedNote
	if doc.SourceGRNID != nil {
		g, err := s.reference.GetGRN(ctx, *doc.SourceGRNID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		grn = g
	}
	if err := reconciliation.ValidateReturn(doc, grn, s.now()); err != nil {
		return err
	}
	if _, err := s.reference.GetStore(ctx, doc.StoreID); err != nil {
		return referenceError(err, "store_id", "Store", doc.StoreID)
	}
	if _, err := s.reference.GetSupplier(ctx, doc.SupplierID); err != nil {
		return referenceError(err, "supplier_id", "Supplier", doc.SupplierID)
	}
	return nil
}

// referenceError reports a missing referenced record as a validation failure
func referenceError(err error, field, what string, id uuid.UUID) error {
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return reconciliation.ErrIneligibleSource.
		WithMessage("%s %s not found", what, id).
		WithDetail("field", field)
}

// validateReplacement loads the live return and the other in-flight
// replacements against it and validates doc. With lock the return row is
// held until the transaction ends.
func (s *Service) validateReplacement(
	ctx context.Context,
	repos TransactionalRepositories,
	doc *reconciliation.ReplacementDocument,
	phase reconciliation.ValidationPhase,
	lock bool,
) (*reconciliation.ReturnDocument, error) {
	var ret *reconciliation.ReturnDocument
	var err error
	if lock {
		ret, err = repos.ReturnRepo().FindByIDForUpdate(ctx, doc.ReturnID)
	} else {
		ret, err = repos.ReturnRepo().FindByID(ctx, doc.ReturnID)
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	var inFlight []reconciliation.InFlightCommitment
	if ret != nil {
		inFlight, err = repos.ReplacementRepo().FindInFlightCommitments(ctx, ret.ID, doc.ID)
		if err != nil {
			return nil, err
		}
		doc.RefreshSnapshots(ret)
	}
	err = reconciliation.ValidateReplacement(doc, reconciliation.ReplacementCheck{
		Return:   ret,
		InFlight: inFlight,
		Phase:    phase,
		Now:      s.now(),
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) validateExchange(
	ctx context.Context,
	repos TransactionalRepositories,
	doc *reconciliation.ExchangeDocument,
	phase reconciliation.ValidationPhase,
	lock bool,
) (*reconciliation.SaleTransaction, error) {
	var sale *reconciliation.SaleTransaction
	var err error
	if lock {
		sale, err = repos.SaleLedgerRepo().FindSaleForUpdate(ctx, doc.SaleID)
	} else {
		sale, err = s.reference.GetSale(ctx, doc.SaleID)
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if sale != nil {
		doc.RefreshSnapshots(sale)
	}
	if err := reconciliation.ValidateExchange(doc, sale, phase, s.now()); err != nil {
		return nil, err
	}
	return sale, nil
}

// ==================== Internal helpers ====================

// traced runs fn inside a service span with profiling labels for the
// operation and document type.
func (s *Service) traced(
	ctx context.Context,
	operation string,
	ref reconciliation.DocumentRef,
	fn func(ctx context.Context) (*DocumentResponse, error),
) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", operation,
		telemetry.SpanAttrDocumentType, string(ref.Type),
		telemetry.SpanAttrDocumentID, ref.ID.String(),
	)
	defer span.End()

	var (
		resp *DocumentResponse
		err  error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.PostingLabels(operation, string(ref.Type)), func(ctx context.Context) {
		resp, err = fn(ctx)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAlreadyPosted, resp.AlreadyPosted)
	if resp.Posting != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrMovementCount, len(resp.Posting.Movements))
	}
	return resp, nil
}

func (s *Service) currentStatus(ctx context.Context, ref reconciliation.DocumentRef) (reconciliation.DocumentStatus, error) {
	switch ref.Type {
	case reconciliation.DocumentTypeReturn:
		doc, err := s.repos.ReturnRepo().FindByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return doc.Status, nil
	case reconciliation.DocumentTypeReplacement:
		doc, err := s.repos.ReplacementRepo().FindByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return doc.Status, nil
	case reconciliation.DocumentTypeExchange:
		doc, err := s.repos.ExchangeRepo().FindByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return doc.Status, nil
	}
	return "", unknownDocumentType(ref.Type)
}

// recordPosting writes the posting record. Its key is the document id, so
// a second concurrent post of the same document fails here.
func (s *Service) recordPosting(
	ctx context.Context,
	repos TransactionalRepositories,
	info reconciliation.DocumentInfo,
	postedBy *uuid.UUID,
	movementCount int,
) (*reconciliation.PostingRecord, error) {
	rec := &reconciliation.PostingRecord{
		DocumentID:     info.DocumentID,
		DocumentType:   info.DocumentType,
		DocumentNumber: info.DocumentNumber,
		PostedBy:       postedBy,
		PostedAt:       s.now(),
		MovementCount:  movementCount,
	}
	if err := repos.PostingRepo().Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) withStoredPosting(ctx context.Context, repos TransactionalRepositories, resp *DocumentResponse, documentID uuid.UUID) (*DocumentResponse, error) {
	posting, err := s.postingResult(ctx, repos, documentID)
	if err != nil {
		return nil, err
	}
	resp.Posting = posting
	resp.AlreadyPosted = true
	return resp, nil
}

func (s *Service) postingResult(ctx context.Context, repos TransactionalRepositories, documentID uuid.UUID) (*PostingResultResponse, error) {
	rec, err := repos.PostingRepo().FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	movements, err := repos.MovementRepo().FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return ToPostingResultResponse(rec, movements), nil
}

// publish hands the aggregate's pending events to the transactional outbox
func (s *Service) publish(ctx context.Context, repos TransactionalRepositories, agg shared.AggregateRoot) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if err := repos.Events().Publish(ctx, events...); err != nil {
		return err
	}
	agg.ClearDomainEvents()
	return nil
}

func (s *Service) recordRejected(ctx context.Context, ref reconciliation.DocumentRef, err error) {
	de, ok := shared.AsDomainError(err)
	if !ok {
		s.logger.Error("posting failed",
			zap.String("document", ref.String()),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordPostRejected(ctx, string(ref.Type), de.Code)
	s.logger.Warn("posting rejected",
		zap.String("document", ref.String()),
		zap.String("code", de.Code),
		zap.String("kind", string(de.Kind)),
		zap.String("message", de.Message),
	)
}

func unknownDocumentType(t reconciliation.DocumentType) error {
	return shared.ErrInvalidInput.
		WithMessage("Unknown document type %q", string(t)).
		WithDetail("document_type", string(t))
}

func returnDocumentResponse(doc *reconciliation.ReturnDocument) *DocumentResponse {
	r := ToReturnResponse(doc)
	return &DocumentResponse{DocumentType: string(reconciliation.DocumentTypeReturn), Return: &r}
}

func replacementDocumentResponse(doc *reconciliation.ReplacementDocument) *DocumentResponse {
	r := ToReplacementResponse(doc)
	return &DocumentResponse{DocumentType: string(reconciliation.DocumentTypeReplacement), Replacement: &r}
}

func (s *Service) exchangeDocumentResponse(doc *reconciliation.ExchangeDocument) *DocumentResponse {
	r := ToExchangeResponse(doc, s.policy)
	return &DocumentResponse{DocumentType: string(reconciliation.DocumentTypeExchange), Exchange: &r}
}
