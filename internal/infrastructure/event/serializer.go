package event

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
)

// EventSerializer encodes domain events for the outbox and decodes them
// back into their concrete types. A type must be registered before the
// outbox processor can decode it.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]func() shared.DomainEvent
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{factories: make(map[string]func() shared.DomainEvent)}
}

// NewReconciliationSerializer returns a serializer that knows every
// reconciliation event
func NewReconciliationSerializer() *EventSerializer {
	s := NewEventSerializer()
	Register[reconciliation.DocumentSubmittedEvent](s, reconciliation.EventTypeDocumentSubmitted)
	Register[reconciliation.DocumentCancelledEvent](s, reconciliation.EventTypeDocumentCancelled)
	Register[reconciliation.ReturnPostedEvent](s, reconciliation.EventTypeReturnPosted)
	Register[reconciliation.ReplacementPostedEvent](s, reconciliation.EventTypeReplacementPosted)
	Register[reconciliation.ExchangePostedEvent](s, reconciliation.EventTypeExchangePosted)
	Register[reconciliation.ReturnTotallyReplacedEvent](s, reconciliation.EventTypeReturnTotallyReplaced)
	return s
}

// Register maps eventType to the event struct E, decoded as *E
func Register[E any, P interface {
	*E
	shared.DomainEvent
}](s *EventSerializer, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[eventType] = func() shared.DomainEvent { return P(new(E)) }
}

func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}
	return data, nil
}

func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	factory, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}
	return event, nil
}

func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.factories[eventType]
	return ok
}

// RegisteredTypes returns the registered event types, sorted
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
