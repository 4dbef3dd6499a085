package event

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Envelope is the wire form of an event entering the process from outside.
// ID and OccurredAt are optional; a producer that wants redelivery to be
// deduplicated must send a stable ID.
type Envelope struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type" binding:"required"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload" binding:"required"`
}

// DecodeFunc builds a domain event from an envelope payload
type DecodeFunc func(payload json.RawMessage) (shared.DomainEvent, error)

type restampable interface {
	Restamp(id uuid.UUID, occurredAt time.Time)
}

// EventSerializer turns envelopes into typed domain events
type EventSerializer struct {
	mu       sync.RWMutex
	decoders map[string]DecodeFunc
}

// NewEventSerializer creates a serializer with no registered types
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		decoders: make(map[string]DecodeFunc),
	}
}

// Register sets the decoder for an event type
func (s *EventSerializer) Register(eventType string, decode DecodeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decoders[eventType] = decode
}

// Serialize serializes a domain event to JSON bytes
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Decode builds the domain event an envelope describes. Unknown types and
// malformed payloads are invalid input.
func (s *EventSerializer) Decode(env Envelope) (shared.DomainEvent, error) {
	s.mu.RLock()
	decode, ok := s.decoders[env.Type]
	s.mu.RUnlock()

	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown event type: %s", env.Type))
	}
	if len(env.Payload) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "event payload is required")
	}

	event, err := decode(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	if r, ok := event.(restampable); ok {
		r.Restamp(env.ID, env.OccurredAt)
	}
	return event, nil
}

// DecodeBytes unmarshals an envelope and decodes it
func (s *EventSerializer) DecodeBytes(data []byte) (shared.DomainEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "malformed event envelope: "+err.Error())
	}
	return s.Decode(env)
}

// IsRegistered checks if an event type is registered
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.decoders[eventType]
	return ok
}

// RegisteredTypes returns the sorted registered event types
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.decoders))
	for t := range s.decoders {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
