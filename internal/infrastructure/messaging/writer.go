package messaging

import (
	"context"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

// WriterConfig configures the audit topic writer
type WriterConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	BatchSize    int
	BatchTimeout time.Duration
}

// NewTracedWriter builds a kafka writer whose messages carry the trace
// context of the publishing request
func NewTracedWriter(cfg WriterConfig) (Producer, error) {
	base := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	writer, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(otel.GetTracerProvider()),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes([]attribute.KeyValue{
			attribute.String("messaging.destination.name", cfg.Topic),
			attribute.String("messaging.kafka.client_id", cfg.ClientID),
		}),
	)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

// plainWriter adapts *kafka.Writer to Producer
type plainWriter struct {
	w *kafka.Writer
}

func (p plainWriter) WriteMessage(ctx context.Context, msg kafka.Message) error {
	return p.w.WriteMessages(ctx, msg)
}

func (p plainWriter) Close() error {
	return p.w.Close()
}

// NewWriter builds an untraced writer, used when telemetry is disabled
func NewWriter(cfg WriterConfig) Producer {
	return plainWriter{w: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}}
}
