package reconciliation

import (
	"context"

	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockAdjustmentTrigger applies the inventory side of posting. Every
// method checks all its preconditions before the first write, so a
// rejected posting leaves batches and ledgers exactly as they were even
// without a rollback.
type StockAdjustmentTrigger struct {
	ledger reconciliation.QuantityLedger
	policy reconciliation.RestockPolicy
	logger *zap.Logger
}

// NewStockAdjustmentTrigger creates a trigger with the given restock policy
func NewStockAdjustmentTrigger(policy reconciliation.RestockPolicy, logger *zap.Logger) *StockAdjustmentTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockAdjustmentTrigger{
		ledger: reconciliation.NewQuantityLedger(),
		policy: policy,
		logger: logger,
	}
}

// Policy returns the restock policy used for exchanges
func (t *StockAdjustmentTrigger) Policy() reconciliation.RestockPolicy {
	return t.policy
}

// ApplyReplacement receives the replacement goods into their batches and
// advances the replaced quantity of each referenced return line.
func (t *StockAdjustmentTrigger) ApplyReplacement(
	ctx context.Context,
	repos TransactionalRepositories,
	doc *reconciliation.ReplacementDocument,
	ret *reconciliation.ReturnDocument,
) ([]*inventory.StockMovement, error) {
	batchIDs := make([]uuid.UUID, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		batchIDs = append(batchIDs, line.BatchID)
	}
	batches, err := repos.BatchRepo().FindByIDs(ctx, batchIDs)
	if err != nil {
		return nil, err
	}

	// Preconditions: every batch exists and matches, every line fits in
	// what is still pending. The ledger is applied to the in-memory return
	// so several lines against one return line are summed.
	for _, line := range doc.Lines {
		batch, ok := batches[line.BatchID]
		if !ok {
			return nil, inventory.NewBatchNotFoundError(line.BatchID)
		}
		if !batch.Matches(line.ProductID, doc.StoreID) {
			return nil, inventory.NewBatchMismatchError(batch, line.ProductID, doc.StoreID)
		}
		returnLine := ret.FindLine(line.ReturnLineID)
		if returnLine == nil {
			return nil, reconciliation.ErrUnknownLine.
				WithMessage("Return line %s is not on return %s", line.ReturnLineID, ret.DocumentNumber)
		}
		if err := t.ledger.ApplyPostedReplacement(returnLine, line.Quantity); err != nil {
			return nil, err
		}
	}

	movements := make([]*inventory.StockMovement, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		if err := repos.ReturnRepo().IncrementReplacedQuantity(ctx, line.ReturnLineID, line.Quantity); err != nil {
			return nil, err
		}
		batch, err := repos.BatchRepo().Increase(ctx, line.BatchID, line.Quantity)
		if err != nil {
			return nil, err
		}
		movements = append(movements, inventory.NewStockMovement(
			doc.ID, string(reconciliation.DocumentTypeReplacement), line.ID,
			batch, inventory.MovementReplacementReceipt, line.Quantity,
		))
	}

	if err := repos.MovementRepo().Append(ctx, movements...); err != nil {
		return nil, err
	}

	t.logger.Debug("replacement received into stock",
		zap.String("document_number", doc.DocumentNumber),
		zap.String("return_number", ret.DocumentNumber),
		zap.Int("movements", len(movements)),
	)
	return movements, nil
}

// ApplyExchange issues the new items, restocks returned goods the policy
// allows and advances the exchanged quantity of each sale line. The issue
// check runs against every batch before any quantity moves, and the first
// short batch is reported with its exact shortfall.
func (t *StockAdjustmentTrigger) ApplyExchange(
	ctx context.Context,
	repos TransactionalRepositories,
	doc *reconciliation.ExchangeDocument,
	sale *reconciliation.SaleTransaction,
) ([]*inventory.StockMovement, error) {
	batchIDs := make([]uuid.UUID, 0, len(doc.NewItems)+len(doc.ReturnItems))
	for _, item := range doc.NewItems {
		batchIDs = append(batchIDs, item.BatchID)
	}
	for _, item := range doc.ReturnItems {
		if t.policy.Restocks(item.Reason) {
			batchIDs = append(batchIDs, item.BatchID)
		}
	}
	batches, err := repos.BatchRepo().FindByIDs(ctx, batchIDs)
	if err != nil {
		return nil, err
	}

	issue := doc.IssueByBatch()
	checked := make(map[uuid.UUID]bool, len(issue))
	for _, item := range doc.NewItems {
		batch, ok := batches[item.BatchID]
		if !ok {
			return nil, inventory.NewBatchNotFoundError(item.BatchID)
		}
		if !batch.Matches(item.ProductID, doc.StoreID) {
			return nil, inventory.NewBatchMismatchError(batch, item.ProductID, doc.StoreID)
		}
		if checked[batch.ID] {
			continue
		}
		checked[batch.ID] = true
		if requested := issue[batch.ID]; !batch.Covers(requested) {
			return nil, inventory.NewInsufficientBatchStockError(batch.ID, batch.BatchNumber, requested, batch.Quantity)
		}
	}
	for _, item := range doc.ReturnItems {
		if t.policy.Restocks(item.Reason) {
			batch, ok := batches[item.BatchID]
			if !ok {
				return nil, inventory.NewBatchNotFoundError(item.BatchID)
			}
			if !batch.Matches(item.ProductID, doc.StoreID) {
				return nil, inventory.NewBatchMismatchError(batch, item.ProductID, doc.StoreID)
			}
		}
		line := sale.FindLine(item.SaleLineID)
		if line == nil {
			return nil, reconciliation.ErrUnknownLine.
				WithMessage("Sale line %s is not on sale %s", item.SaleLineID, sale.Number)
		}
		if err := t.ledger.ApplyPostedExchange(line, item.ReturnQuantity); err != nil {
			return nil, err
		}
	}

	movements := make([]*inventory.StockMovement, 0, len(doc.NewItems)+len(doc.ReturnItems))
	docType := string(reconciliation.DocumentTypeExchange)
	for _, item := range doc.NewItems {
		batch, err := repos.BatchRepo().Decrease(ctx, item.BatchID, item.Quantity)
		if err != nil {
			return nil, err
		}
		movements = append(movements, inventory.NewStockMovement(
			doc.ID, docType, item.ID, batch, inventory.MovementExchangeIssue, item.Quantity.Neg(),
		))
	}
	for _, item := range doc.ReturnItems {
		if err := repos.SaleLedgerRepo().IncrementExchangedQuantity(ctx, item.SaleLineID, item.ReturnQuantity); err != nil {
			return nil, err
		}
		if !t.policy.Restocks(item.Reason) {
			t.logger.Debug("returned goods scrapped",
				zap.String("document_number", doc.DocumentNumber),
				zap.String("reason", string(item.Reason)),
				zap.String("quantity", item.ReturnQuantity.String()),
			)
			continue
		}
		batch, err := repos.BatchRepo().Increase(ctx, item.BatchID, item.ReturnQuantity)
		if err != nil {
			return nil, err
		}
		movements = append(movements, inventory.NewStockMovement(
			doc.ID, docType, item.ID, batch, inventory.MovementExchangeRestock, item.ReturnQuantity,
		))
	}

	if err := repos.MovementRepo().Append(ctx, movements...); err != nil {
		return nil, err
	}
	if err := repos.ExchangeRepo().SaveAllocations(ctx, doc.ID, doc.Allocations()); err != nil {
		return nil, err
	}

	t.logger.Debug("exchange applied to stock",
		zap.String("document_number", doc.DocumentNumber),
		zap.Int("movements", len(movements)),
	)
	return movements, nil
}

// IssueShortfalls lists every batch that cannot cover the exchange, without
// changing anything. Used to preview an exchange before posting.
func (t *StockAdjustmentTrigger) IssueShortfalls(
	ctx context.Context,
	batches inventory.StockBatchRepository,
	doc *reconciliation.ExchangeDocument,
) (map[uuid.UUID]decimal.Decimal, error) {
	issue := doc.IssueByBatch()
	ids := make([]uuid.UUID, 0, len(issue))
	for id := range issue {
		ids = append(ids, id)
	}
	found, err := batches.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]decimal.Decimal)
	for id, requested := range issue {
		batch, ok := found[id]
		if !ok {
			out[id] = requested
			continue
		}
		if s := batch.Shortfall(requested); s.IsPositive() {
			out[id] = s
		}
	}
	return out, nil
}
