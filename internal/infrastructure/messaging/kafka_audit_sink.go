package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/segmentio/kafka-go"
)

// Header keys set on every audit message
const (
	HeaderEventType    = "event-type"
	HeaderDocumentType = "document-type"
	HeaderEventID      = "event-id"
)

// Producer is the subset of a kafka writer the audit sink needs. Both
// *kafka.Writer-backed otel wrappers and test fakes satisfy it.
type Producer interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaAuditSink publishes audit records to a Kafka topic. Messages are
// keyed by document id so that events of one document stay ordered within
// a partition.
type KafkaAuditSink struct {
	producer Producer
}

// NewKafkaAuditSink creates a sink writing through producer
func NewKafkaAuditSink(producer Producer) *KafkaAuditSink {
	return &KafkaAuditSink{producer: producer}
}

// Name identifies the sink in logs and errors
func (s *KafkaAuditSink) Name() string {
	return "kafka"
}

// Write publishes the record
func (s *KafkaAuditSink) Write(ctx context.Context, record appreconciliation.AuditRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(record.DocumentID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(record.EventType)},
			{Key: HeaderDocumentType, Value: []byte(record.DocumentType)},
			{Key: HeaderEventID, Value: []byte(record.EventID.String())},
		},
	}
	if err := s.producer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("write audit message: %w", err)
	}
	return nil
}

// Close closes the producer
func (s *KafkaAuditSink) Close() error {
	return s.producer.Close()
}

var _ appreconciliation.AuditSink = (*KafkaAuditSink)(nil)
