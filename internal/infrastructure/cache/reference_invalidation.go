package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultCloseTimeout        = 5 * time.Second
	defaultInvalidationChannel = "reconciliation:reference:invalidate"
)

// InvalidationMessage tells other instances to drop local reference entries.
// An empty ID drops the whole kind; an empty Kind drops everything.
type InvalidationMessage struct {
	Kind      string `json:"kind,omitempty"`
	ID        string `json:"id,omitempty"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"timestamp"`
}

// RedisReferenceInvalidator broadcasts reference invalidations over Redis Pub/Sub
type RedisReferenceInvalidator struct {
	client    *redis.Client
	channel   string
	logger    *zap.Logger
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// RedisReferenceInvalidatorOption is a functional option for configuring the invalidator
type RedisReferenceInvalidatorOption func(*RedisReferenceInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name
func WithInvalidatorChannel(channel string) RedisReferenceInvalidatorOption {
	return func(i *RedisReferenceInvalidator) {
		if channel != "" {
			i.channel = channel
		}
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) RedisReferenceInvalidatorOption {
	return func(i *RedisReferenceInvalidator) {
		i.logger = logger
	}
}

// NewRedisReferenceInvalidatorWithClient creates an invalidator over an
// existing client. The caller keeps ownership of the client.
func NewRedisReferenceInvalidatorWithClient(client *redis.Client, opts ...RedisReferenceInvalidatorOption) *RedisReferenceInvalidator {
	i := &RedisReferenceInvalidator{
		client:  client,
		channel: defaultInvalidationChannel,
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Publish sends an invalidation to all subscribers
func (i *RedisReferenceInvalidator) Publish(ctx context.Context, msg InvalidationMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish reference invalidation",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Subscribe blocks delivering invalidations to callback until ctx is done
// or Close is called
func (i *RedisReferenceInvalidator) Subscribe(ctx context.Context, callback func(msg InvalidationMessage)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		i.markDone()
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	i.logger.Info("Subscribed to reference invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Reference invalidation channel closed")
				return nil
			}

			var inv InvalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
				i.logger.Error("Failed to unmarshal invalidation message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			i.deliver(callback, inv)
		}
	}
}

func (i *RedisReferenceInvalidator) deliver(callback func(InvalidationMessage), msg InvalidationMessage) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Panic in invalidation callback", zap.Any("panic", r))
		}
	}()
	callback(msg)
}

func (i *RedisReferenceInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close stops a running subscription. The client is left open.
func (i *RedisReferenceInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("Timeout waiting for invalidation subscription to stop")
		}
	}
	return nil
}
