package event

import (
	"context"

	"github.com/erp/reconciliation/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher writes domain events to the outbox within a transaction
type OutboxPublisher struct {
	serializer *EventSerializer
	maxRetries int
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

// WithMaxRetries sets the delivery attempts recorded on new entries.
// Non-positive values keep shared.DefaultMaxRetries.
func (p *OutboxPublisher) WithMaxRetries(n int) *OutboxPublisher {
	if n > 0 {
		p.maxRetries = n
	}
	return p
}

// PublishWithTx stores events in the outbox using tx, so they commit or
// roll back together with the aggregate changes
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries, err := p.entries(events)
	if err != nil {
		return err
	}
	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

func (p *OutboxPublisher) entries(events []shared.DomainEvent) ([]*shared.OutboxEntry, error) {
	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return nil, err
		}
		entry := shared.NewOutboxEntry(event, payload)
		if p.maxRetries > 0 {
			entry.MaxRetries = p.maxRetries
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Bind returns an EventPublisher that writes to the outbox through tx
func (p *OutboxPublisher) Bind(tx *gorm.DB) shared.EventPublisher {
	return &txPublisher{outbox: p, tx: tx}
}

type txPublisher struct {
	outbox *OutboxPublisher
	tx     *gorm.DB
}

func (t *txPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return t.outbox.PublishWithTx(ctx, t.tx, events...)
}
