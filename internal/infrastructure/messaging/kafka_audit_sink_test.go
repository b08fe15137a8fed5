package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProducer is a mock implementation of Producer
type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) WriteMessage(ctx context.Context, msg kafka.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockProducer) Close() error {
	return m.Called().Error(0)
}

func testRecord() appreconciliation.AuditRecord {
	return appreconciliation.AuditRecord{
		EventID:        uuid.New(),
		EventType:      "ReplacementPosted",
		DocumentType:   "REPLACEMENT",
		DocumentID:     uuid.New(),
		DocumentNumber: "RP-2026-00003",
		OccurredAt:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Payload:        json.RawMessage(`{"document_number":"RP-2026-00003"}`),
	}
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaAuditSink_Write(t *testing.T) {
	record := testRecord()
	producer := new(MockProducer)
	var sent kafka.Message
	producer.On("WriteMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(kafka.Message) }).
		Return(nil).Once()

	sink := NewKafkaAuditSink(producer)
	require.NoError(t, sink.Write(context.Background(), record))

	assert.Equal(t, record.DocumentID.String(), string(sent.Key))
	assert.Equal(t, "ReplacementPosted", header(sent, HeaderEventType))
	assert.Equal(t, "REPLACEMENT", header(sent, HeaderDocumentType))
	assert.Equal(t, record.EventID.String(), header(sent, HeaderEventID))

	var decoded appreconciliation.AuditRecord
	require.NoError(t, json.Unmarshal(sent.Value, &decoded))
	assert.Equal(t, record.DocumentNumber, decoded.DocumentNumber)
	assert.JSONEq(t, string(record.Payload), string(decoded.Payload))
}

func TestKafkaAuditSink_WriteError(t *testing.T) {
	producer := new(MockProducer)
	producer.On("WriteMessage", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()

	sink := NewKafkaAuditSink(producer)
	err := sink.Write(context.Background(), testRecord())
	assert.ErrorContains(t, err, "leader not available")
	assert.Equal(t, "kafka", sink.Name())
}
