package event

import (
	"context"
	"sync"
	"time"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxProcessorConfig holds configuration for the outbox processor
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultOutboxProcessorConfig returns default configuration
func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// OutboxProcessor moves committed outbox entries onto the event bus.
//
// Each poll claims a batch of fresh entries and a batch of failed entries
// whose backoff has elapsed. A claim flips the rows to PROCESSING, so two
// replicas polling the same table never deliver the same entry twice.
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	eventBus   shared.EventPublisher
	serializer *EventSerializer
	config     OutboxProcessorConfig
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxProcessor(
	repo shared.OutboxRepository,
	eventBus shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxProcessor{
		repo:       repo,
		eventBus:   eventBus,
		serializer: serializer,
		config:     config,
		logger:     logger.Named("outbox"),
	}
}

// Start runs the poll loop, and the cleanup loop when enabled, until Stop
// is called or ctx is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.loop(ctx, p.config.PollInterval, func(ctx context.Context) { p.ProcessOnce(ctx) })
	if p.config.CleanupEnabled {
		p.loop(ctx, p.config.CleanupInterval, p.cleanup)
	}

	p.logger.Info("outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Bool("cleanup", p.config.CleanupEnabled),
	)
	return nil
}

// Stop cancels the loops and waits for the batch in flight, at most
// until ctx expires.
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()

	select {
	case <-done:
		p.logger.Info("outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) loop(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick(ctx)
			}
		}
	}()
}

// ProcessOnce runs a single poll and returns how many entries reached the
// bus successfully.
func (p *OutboxProcessor) ProcessOnce(ctx context.Context) int {
	sources := []struct {
		name  string
		fetch func() ([]*shared.OutboxEntry, error)
	}{
		{"pending", func() ([]*shared.OutboxEntry, error) {
			return p.repo.FindPending(ctx, p.config.BatchSize)
		}},
		{"retryable", func() ([]*shared.OutboxEntry, error) {
			return p.repo.FindRetryable(ctx, time.Now(), p.config.BatchSize)
		}},
	}

	delivered := 0
	for _, src := range sources {
		entries, err := src.fetch()
		if err != nil {
			p.logger.Error("failed to load outbox entries", zap.String("source", src.name), zap.Error(err))
			return delivered
		}
		delivered += p.deliverBatch(ctx, entries)
	}
	return delivered
}

func (p *OutboxProcessor) deliverBatch(ctx context.Context, entries []*shared.OutboxEntry) int {
	if len(entries) == 0 {
		return 0
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.logger.Error("failed to claim outbox entries", zap.Int("count", len(ids)), zap.Error(err))
		return 0
	}

	delivered := 0
	for _, entry := range claimed {
		if p.deliver(ctx, entry) {
			delivered++
		}
	}
	return delivered
}

func (p *OutboxProcessor) deliver(ctx context.Context, entry *shared.OutboxEntry) bool {
	err := p.publish(ctx, entry)
	if err != nil {
		entry.MarkFailed(err.Error())
	} else {
		entry.MarkSent()
	}

	log := p.logger.With(entryFields(entry)...)
	switch {
	case err == nil:
		log.Debug("event delivered")
	case entry.IsDead():
		log.Warn("event moved to dead letter queue", zap.Int("retry_count", entry.RetryCount), zap.Error(err))
	default:
		log.Error("failed to deliver event", zap.Timep("next_retry_at", entry.NextRetryAt), zap.Error(err))
	}

	if uerr := p.repo.Update(ctx, entry); uerr != nil {
		log.Error("failed to record delivery outcome", zap.String("status", string(entry.Status)), zap.Error(uerr))
		return false
	}
	return err == nil
}

func (p *OutboxProcessor) publish(ctx context.Context, entry *shared.OutboxEntry) error {
	event, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err != nil {
		return err
	}
	return p.eventBus.Publish(ctx, event)
}

func (p *OutboxProcessor) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	switch {
	case err != nil:
		p.logger.Error("outbox cleanup failed", zap.Error(err))
	case deleted > 0:
		p.logger.Info("outbox cleanup", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
}

func entryFields(entry *shared.OutboxEntry) []zap.Field {
	return []zap.Field{
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_type", entry.AggregateType),
		zap.String("aggregate_id", entry.AggregateID.String()),
	}
}
