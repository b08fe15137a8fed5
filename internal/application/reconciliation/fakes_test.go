package reconciliation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory backing store for the service tests. Reads
// return copies so a failed operation cannot leak changes into stored state.
type memStore struct {
	mu sync.Mutex

	returns      map[uuid.UUID]*reconciliation.ReturnDocument
	replacements map[uuid.UUID]*reconciliation.ReplacementDocument
	exchanges    map[uuid.UUID]*reconciliation.ExchangeDocument
	allocations  map[uuid.UUID][]reconciliation.ExchangeAllocation
	postings     map[uuid.UUID]*reconciliation.PostingRecord
	batches      map[uuid.UUID]*inventory.StockBatch
	movements    []*inventory.StockMovement
	events       []shared.DomainEvent
	sequences    map[string]int

	stores    map[uuid.UUID]*reconciliation.Store
	suppliers map[uuid.UUID]*reconciliation.Supplier
	products  map[uuid.UUID]*reconciliation.Product
	grns      map[uuid.UUID]*reconciliation.GoodsReceivedNote
	sales     map[uuid.UUID]*reconciliation.SaleTransaction
}

func newMemStore() *memStore {
	return &memStore{
		returns:      make(map[uuid.UUID]*reconciliation.ReturnDocument),
		replacements: make(map[uuid.UUID]*reconciliation.ReplacementDocument),
		exchanges:    make(map[uuid.UUID]*reconciliation.ExchangeDocument),
		allocations:  make(map[uuid.UUID][]reconciliation.ExchangeAllocation),
		postings:     make(map[uuid.UUID]*reconciliation.PostingRecord),
		batches:      make(map[uuid.UUID]*inventory.StockBatch),
		sequences:    make(map[string]int),
		stores:       make(map[uuid.UUID]*reconciliation.Store),
		suppliers:    make(map[uuid.UUID]*reconciliation.Supplier),
		products:     make(map[uuid.UUID]*reconciliation.Product),
		grns:         make(map[uuid.UUID]*reconciliation.GoodsReceivedNote),
		sales:        make(map[uuid.UUID]*reconciliation.SaleTransaction),
	}
}

func (s *memStore) repositories() *Repositories {
	return &Repositories{
		Returns:      &memReturnRepo{s},
		Replacements: &memReplacementRepo{s},
		Exchanges:    &memExchangeRepo{s},
		SaleLedger:   &memSaleLedgerRepo{s},
		Postings:     &memPostingRepo{s},
		Batches:      &memBatchRepo{s},
		Movements:    &memMovementRepo{s},
		Publisher:    s,
	}
}

func (s *memStore) Publish(_ context.Context, events ...shared.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *memStore) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.EventType()
	}
	return out
}

func (s *memStore) nextNumber(prefix string, at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s-%d", prefix, at.Year())
	s.sequences[key]++
	return fmt.Sprintf("%s-%05d", key, s.sequences[key])
}

func (s *memStore) batch(id uuid.UUID) *inventory.StockBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := *s.batches[id]
	return &b
}

func cloneReturn(r *reconciliation.ReturnDocument) *reconciliation.ReturnDocument {
	c := *r
	c.Lines = append([]reconciliation.ReturnLineItem(nil), r.Lines...)
	c.ClearDomainEvents()
	return &c
}

func cloneReplacement(r *reconciliation.ReplacementDocument) *reconciliation.ReplacementDocument {
	c := *r
	c.Lines = append([]reconciliation.ReplacementLineItem(nil), r.Lines...)
	c.ClearDomainEvents()
	return &c
}

func cloneExchange(e *reconciliation.ExchangeDocument) *reconciliation.ExchangeDocument {
	c := *e
	c.ReturnItems = append([]reconciliation.ExchangeReturnItem(nil), e.ReturnItems...)
	c.NewItems = append([]reconciliation.ExchangeNewItem(nil), e.NewItems...)
	c.ClearDomainEvents()
	return &c
}

func cloneSale(sale *reconciliation.SaleTransaction) *reconciliation.SaleTransaction {
	c := *sale
	c.Lines = append([]reconciliation.SaleLine(nil), sale.Lines...)
	return &c
}

func checkVersion(stored, current int) error {
	if stored != current {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ==================== returns ====================

type memReturnRepo struct{ s *memStore }

func (r *memReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*reconciliation.ReturnDocument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.returns[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneReturn(doc), nil
}

func (r *memReturnRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reconciliation.ReturnDocument, error) {
	return r.FindByID(ctx, id)
}

func (r *memReturnRepo) FindLine(_ context.Context, lineID uuid.UUID) (*reconciliation.ReturnLineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, doc := range r.s.returns {
		if l := doc.FindLine(lineID); l != nil {
			line := *l
			return &line, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memReturnRepo) FindAll(_ context.Context, filter reconciliation.DocumentFilter) ([]*reconciliation.ReturnDocument, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*reconciliation.ReturnDocument
	for _, doc := range r.s.returns {
		if filter.Status != nil && doc.Status != *filter.Status {
			continue
		}
		out = append(out, cloneReturn(doc))
	}
	return out, int64(len(out)), nil
}

func (r *memReturnRepo) FindByStatuses(_ context.Context, storeID, supplierID *uuid.UUID, statuses ...reconciliation.DocumentStatus) ([]*reconciliation.ReturnDocument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*reconciliation.ReturnDocument
	for _, doc := range r.s.returns {
		if storeID != nil && doc.StoreID != *storeID {
			continue
		}
		if supplierID != nil && doc.SupplierID != *supplierID {
			continue
		}
		for _, st := range statuses {
			if doc.Status == st {
				out = append(out, cloneReturn(doc))
				break
			}
		}
	}
	return out, nil
}

func (r *memReturnRepo) Create(_ context.Context, doc *reconciliation.ReturnDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.returns[doc.ID] = cloneReturn(doc)
	return nil
}

func (r *memReturnRepo) SaveWithLock(_ context.Context, doc *reconciliation.ReturnDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.returns[doc.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if err := checkVersion(stored.Version, doc.Version); err != nil {
		return err
	}
	doc.IncrementVersion()
	r.s.returns[doc.ID] = cloneReturn(doc)
	return nil
}

func (r *memReturnRepo) IncrementReplacedQuantity(_ context.Context, lineID uuid.UUID, qty decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, doc := range r.s.returns {
		if l := doc.FindLine(lineID); l != nil {
			next := l.AlreadyReplacedQuantity.Add(qty)
			if next.GreaterThan(l.ReturnQuantity) {
				return reconciliation.ErrConservationViolation
			}
			l.AlreadyReplacedQuantity = next
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memReturnRepo) NextDocumentNumber(_ context.Context, at time.Time) (string, error) {
	return r.s.nextNumber("RT", at), nil
}

// ==================== replacements ====================

type memReplacementRepo struct{ s *memStore }

func (r *memReplacementRepo) FindByID(_ context.Context, id uuid.UUID) (*reconciliation.ReplacementDocument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.replacements[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneReplacement(doc), nil
}

func (r *memReplacementRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reconciliation.ReplacementDocument, error) {
	return r.FindByID(ctx, id)
}

func (r *memReplacementRepo) FindAll(_ context.Context, filter reconciliation.DocumentFilter) ([]*reconciliation.ReplacementDocument, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*reconciliation.ReplacementDocument
	for _, doc := range r.s.replacements {
		if filter.ReturnID != nil && doc.ReturnID != *filter.ReturnID {
			continue
		}
		out = append(out, cloneReplacement(doc))
	}
	return out, int64(len(out)), nil
}

func (r *memReplacementRepo) FindInFlightCommitments(_ context.Context, returnID, excludeID uuid.UUID) ([]reconciliation.InFlightCommitment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []reconciliation.InFlightCommitment
	for _, doc := range r.s.replacements {
		if doc.ReturnID != returnID || doc.ID == excludeID {
			continue
		}
		if doc.IsDraft() || doc.IsPending() {
			out = append(out, doc.Commitments()...)
		}
	}
	return out, nil
}

func (r *memReplacementRepo) Create(_ context.Context, doc *reconciliation.ReplacementDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.replacements[doc.ID] = cloneReplacement(doc)
	return nil
}

func (r *memReplacementRepo) SaveWithLock(_ context.Context, doc *reconciliation.ReplacementDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.replacements[doc.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if err := checkVersion(stored.Version, doc.Version); err != nil {
		return err
	}
	doc.IncrementVersion()
	r.s.replacements[doc.ID] = cloneReplacement(doc)
	return nil
}

func (r *memReplacementRepo) NextDocumentNumber(_ context.Context, at time.Time) (string, error) {
	return r.s.nextNumber("RP", at), nil
}

// ==================== exchanges ====================

type memExchangeRepo struct{ s *memStore }

func (r *memExchangeRepo) FindByID(_ context.Context, id uuid.UUID) (*reconciliation.ExchangeDocument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.exchanges[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneExchange(doc), nil
}

func (r *memExchangeRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reconciliation.ExchangeDocument, error) {
	return r.FindByID(ctx, id)
}

func (r *memExchangeRepo) FindAll(_ context.Context, _ reconciliation.DocumentFilter) ([]*reconciliation.ExchangeDocument, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*reconciliation.ExchangeDocument
	for _, doc := range r.s.exchanges {
		out = append(out, cloneExchange(doc))
	}
	return out, int64(len(out)), nil
}

func (r *memExchangeRepo) Create(_ context.Context, doc *reconciliation.ExchangeDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.exchanges[doc.ID] = cloneExchange(doc)
	return nil
}

func (r *memExchangeRepo) SaveWithLock(_ context.Context, doc *reconciliation.ExchangeDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.exchanges[doc.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if err := checkVersion(stored.Version, doc.Version); err != nil {
		return err
	}
	doc.IncrementVersion()
	r.s.exchanges[doc.ID] = cloneExchange(doc)
	return nil
}

func (r *memExchangeRepo) SaveAllocations(_ context.Context, exchangeID uuid.UUID, rows []reconciliation.ExchangeAllocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.allocations[exchangeID] = append([]reconciliation.ExchangeAllocation(nil), rows...)
	return nil
}

func (r *memExchangeRepo) FindAllocations(_ context.Context, exchangeID uuid.UUID) ([]reconciliation.ExchangeAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]reconciliation.ExchangeAllocation(nil), r.s.allocations[exchangeID]...), nil
}

func (r *memExchangeRepo) NextDocumentNumber(_ context.Context, at time.Time) (string, error) {
	return r.s.nextNumber("EX", at), nil
}

// ==================== sale ledger ====================

type memSaleLedgerRepo struct{ s *memStore }

func (r *memSaleLedgerRepo) FindSaleForUpdate(_ context.Context, saleID uuid.UUID) (*reconciliation.SaleTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[saleID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneSale(sale), nil
}

func (r *memSaleLedgerRepo) IncrementExchangedQuantity(_ context.Context, saleLineID uuid.UUID, qty decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sale := range r.s.sales {
		if l := sale.FindLine(saleLineID); l != nil {
			next := l.AlreadyExchangedQuantity.Add(qty)
			if next.GreaterThan(l.OriginalQuantity) {
				return reconciliation.ErrConservationViolation
			}
			l.AlreadyExchangedQuantity = next
			return nil
		}
	}
	return shared.ErrNotFound
}

// ==================== postings ====================

type memPostingRepo struct{ s *memStore }

func (r *memPostingRepo) Create(_ context.Context, rec *reconciliation.PostingRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.postings[rec.DocumentID]; ok {
		return reconciliation.ErrAlreadyPosted
	}
	c := *rec
	r.s.postings[rec.DocumentID] = &c
	return nil
}

func (r *memPostingRepo) FindByDocument(_ context.Context, documentID uuid.UUID) (*reconciliation.PostingRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.postings[documentID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *rec
	return &c, nil
}

// ==================== stock ====================

type memBatchRepo struct{ s *memStore }

func (r *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, inventory.NewBatchNotFoundError(id)
	}
	c := *b
	return &c, nil
}

func (r *memBatchRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.StockBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uuid.UUID]*inventory.StockBatch, len(ids))
	for _, id := range ids {
		if b, ok := r.s.batches[id]; ok {
			c := *b
			out[id] = &c
		}
	}
	return out, nil
}

func (r *memBatchRepo) Increase(_ context.Context, id uuid.UUID, qty decimal.Decimal) (*inventory.StockBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, inventory.NewBatchNotFoundError(id)
	}
	if err := b.Receive(qty); err != nil {
		return nil, err
	}
	c := *b
	return &c, nil
}

func (r *memBatchRepo) Decrease(_ context.Context, id uuid.UUID, qty decimal.Decimal) (*inventory.StockBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, inventory.NewBatchNotFoundError(id)
	}
	if err := b.Issue(qty); err != nil {
		return nil, err
	}
	c := *b
	return &c, nil
}

func (r *memBatchRepo) Save(_ context.Context, batch *inventory.StockBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *batch
	r.s.batches[batch.ID] = &c
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Append(_ context.Context, movements ...*inventory.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, movements...)
	return nil
}

func (r *memMovementRepo) FindByDocument(_ context.Context, documentID uuid.UUID) ([]*inventory.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*inventory.StockMovement
	for _, m := range r.s.movements {
		if m.DocumentID == documentID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ==================== reference data ====================

type memReference struct{ s *memStore }

func (g *memReference) GetStore(_ context.Context, id uuid.UUID) (*reconciliation.Store, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if v, ok := g.s.stores[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (g *memReference) GetSupplier(_ context.Context, id uuid.UUID) (*reconciliation.Supplier, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if v, ok := g.s.suppliers[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (g *memReference) GetProduct(_ context.Context, id uuid.UUID) (*reconciliation.Product, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if v, ok := g.s.products[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (g *memReference) GetGRN(_ context.Context, id uuid.UUID) (*reconciliation.GoodsReceivedNote, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if v, ok := g.s.grns[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (g *memReference) ListGRNs(_ context.Context, storeID, supplierID uuid.UUID) ([]*reconciliation.GoodsReceivedNote, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	var out []*reconciliation.GoodsReceivedNote
	for _, grn := range g.s.grns {
		if grn.StoreID == storeID && grn.SupplierID == supplierID {
			out = append(out, grn)
		}
	}
	return out, nil
}

func (g *memReference) GetSale(_ context.Context, id uuid.UUID) (*reconciliation.SaleTransaction, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if v, ok := g.s.sales[id]; ok {
		return cloneSale(v), nil
	}
	return nil, shared.ErrNotFound
}
