package reconciliation

import (
	"context"

	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
)

// TransactionScope provides transactional access to the reconciliation repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Aggregate boundary notes:
//   - ReturnRepo owns return lines. AlreadyReplacedQuantity is only ever
//     written through IncrementReplacedQuantity while a replacement posts.
//   - SaleLedgerRepo writes the exchange progress of sale lines; the sale
//     itself belongs to the point-of-sale context and is never rewritten here.
//   - BatchRepo and MovementRepo are the inventory side of posting.
//   - Events stores domain events in the outbox inside the same transaction.
type TransactionalRepositories interface {
	ReturnRepo() reconciliation.ReturnRepository
	ReplacementRepo() reconciliation.ReplacementRepository
	ExchangeRepo() reconciliation.ExchangeRepository
	SaleLedgerRepo() reconciliation.SaleLedgerRepository
	PostingRepo() reconciliation.PostingRecordRepository
	BatchRepo() inventory.StockBatchRepository
	MovementRepo() inventory.StockMovementRepository
	Events() shared.EventPublisher
}

// Repositories is a plain set of repositories. It implements
// TransactionalRepositories and is used for reads outside a transaction
// and by NoOpTransactionScope.
type Repositories struct {
	Returns      reconciliation.ReturnRepository
	Replacements reconciliation.ReplacementRepository
	Exchanges    reconciliation.ExchangeRepository
	SaleLedger   reconciliation.SaleLedgerRepository
	Postings     reconciliation.PostingRecordRepository
	Batches      inventory.StockBatchRepository
	Movements    inventory.StockMovementRepository
	Publisher    shared.EventPublisher
}

// ReturnRepo returns the return repository
func (r *Repositories) ReturnRepo() reconciliation.ReturnRepository { return r.Returns }

// ReplacementRepo returns the replacement repository
func (r *Repositories) ReplacementRepo() reconciliation.ReplacementRepository { return r.Replacements }

// ExchangeRepo returns the exchange repository
func (r *Repositories) ExchangeRepo() reconciliation.ExchangeRepository { return r.Exchanges }

// SaleLedgerRepo returns the sale ledger repository
func (r *Repositories) SaleLedgerRepo() reconciliation.SaleLedgerRepository { return r.SaleLedger }

// PostingRepo returns the posting record repository
func (r *Repositories) PostingRepo() reconciliation.PostingRecordRepository { return r.Postings }

// BatchRepo returns the stock batch repository
func (r *Repositories) BatchRepo() inventory.StockBatchRepository { return r.Batches }

// MovementRepo returns the stock movement repository
func (r *Repositories) MovementRepo() inventory.StockMovementRepository { return r.Movements }

// Events returns the event publisher, or a publisher that drops events if none is set
func (r *Repositories) Events() shared.EventPublisher {
	if r.Publisher == nil {
		return discardPublisher{}
	}
	return r.Publisher
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	repos *Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(repos *Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var (
	_ TransactionalRepositories = (*Repositories)(nil)
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
)
