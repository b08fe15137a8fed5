package persistence

import (
	"context"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxBinder returns an event publisher that writes into the given
// transaction. event.OutboxPublisher implements it.
type OutboxBinder interface {
	Bind(tx *gorm.DB) shared.EventPublisher
}

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db     *gorm.DB
	outbox OutboxBinder
}

// NewGormTransactionScope creates a new GormTransactionScope. Events
// published inside a transaction are stored through outbox; a nil outbox
// drops them.
func NewGormTransactionScope(db *gorm.DB, outbox OutboxBinder) *GormTransactionScope {
	return &GormTransactionScope{db: db, outbox: outbox}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appreconciliation.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, outbox: s.outbox}
		return fn(repos)
	})
}

// NewRepositories returns the repositories over db outside any transaction,
// for reads
func NewRepositories(db *gorm.DB) *appreconciliation.Repositories {
	return &appreconciliation.Repositories{
		Returns:      NewGormReturnRepository(db),
		Replacements: NewGormReplacementRepository(db),
		Exchanges:    NewGormExchangeRepository(db),
		SaleLedger:   NewGormSaleLedgerRepository(db),
		Postings:     NewGormPostingRecordRepository(db),
		Batches:      NewGormStockBatchRepository(db),
		Movements:    NewGormStockMovementRepository(db),
	}
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	outbox OutboxBinder
}

// ReturnRepo returns the return repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReturnRepo() reconciliation.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

// ReplacementRepo returns the replacement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReplacementRepo() reconciliation.ReplacementRepository {
	return NewGormReplacementRepository(r.tx)
}

// ExchangeRepo returns the exchange repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ExchangeRepo() reconciliation.ExchangeRepository {
	return NewGormExchangeRepository(r.tx)
}

// SaleLedgerRepo returns the sale ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SaleLedgerRepo() reconciliation.SaleLedgerRepository {
	return NewGormSaleLedgerRepository(r.tx)
}

// PostingRepo returns the posting record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PostingRepo() reconciliation.PostingRecordRepository {
	return NewGormPostingRecordRepository(r.tx)
}

// BatchRepo returns the stock batch repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BatchRepo() inventory.StockBatchRepository {
	return NewGormStockBatchRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Events returns a publisher writing to the outbox in the current transaction.
func (r *gormTransactionalRepositories) Events() shared.EventPublisher {
	if r.outbox == nil {
		return discardPublisher{}
	}
	return r.outbox.Bind(r.tx)
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

// Ensure GormTransactionScope implements TransactionScope
var _ appreconciliation.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appreconciliation.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
