package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditRecord is the audit-trail form of a document event
type AuditRecord struct {
	EventID        uuid.UUID       `json:"event_id"`
	EventType      string          `json:"event_type"`
	DocumentType   string          `json:"document_type"`
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentNumber string          `json:"document_number"`
	OccurredAt     time.Time       `json:"occurred_at"`
	Payload        json.RawMessage `json:"payload"`
}

// Key returns a stable object key for the record,
// e.g. "EXCHANGE/2026/03/EX-2026-00001/ExchangePosted-<event id>.json"
func (r AuditRecord) Key() string {
	return fmt.Sprintf("%s/%04d/%02d/%s/%s-%s.json",
		r.DocumentType,
		r.OccurredAt.Year(), int(r.OccurredAt.Month()),
		r.DocumentNumber,
		r.EventType, r.EventID)
}

// AuditSink receives audit records. Kafka and S3 implementations live in
// the infrastructure layer.
type AuditSink interface {
	Name() string
	Write(ctx context.Context, record AuditRecord) error
}

// NewAuditRecord converts a document event into an audit record
func NewAuditRecord(event reconciliation.DocumentEvent) (AuditRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return AuditRecord{}, fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}
	ref := event.Ref()
	return AuditRecord{
		EventID:        event.EventID(),
		EventType:      event.EventType(),
		DocumentType:   string(ref.Type),
		DocumentID:     ref.ID,
		DocumentNumber: event.Number(),
		OccurredAt:     event.OccurredAt(),
		Payload:        payload,
	}, nil
}

// AuditTrailHandler forwards every document lifecycle event to the
// configured audit sinks. A failing sink does not stop the others; the
// joined error makes the outbox retry the event.
type AuditTrailHandler struct {
	sinks  []AuditSink
	logger *zap.Logger
}

// NewAuditTrailHandler creates a handler writing to the given sinks
func NewAuditTrailHandler(logger *zap.Logger, sinks ...AuditSink) *AuditTrailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditTrailHandler{sinks: sinks, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *AuditTrailHandler) EventTypes() []string {
	return reconciliation.AllEventTypes()
}

// Handle writes the event to every sink
func (h *AuditTrailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	docEvent, ok := event.(reconciliation.DocumentEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return fmt.Errorf("unexpected event type: %s is not a document event", event.EventType())
	}

	record, err := NewAuditRecord(docEvent)
	if err != nil {
		return err
	}

	h.logger.Info("audit",
		zap.String("event_type", record.EventType),
		zap.String("document_type", record.DocumentType),
		zap.String("document_number", record.DocumentNumber),
		zap.String("event_id", record.EventID.String()),
	)

	var errs []error
	for _, sink := range h.sinks {
		if err := sink.Write(ctx, record); err != nil {
			h.logger.Warn("audit sink failed",
				zap.String("sink", sink.Name()),
				zap.String("event_id", record.EventID.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

var _ shared.EventHandler = (*AuditTrailHandler)(nil)
