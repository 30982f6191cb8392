package events

import (
	"errors"
	"fmt"
	"time"
)

// Envelope wraps every event this service emits with its identity, causal
// context, and ordering metadata. The payload is generic so each event name
// keeps a strongly typed body.
type Envelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	CausationID   string    `json:"causationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      *int64    `json:"sequence,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       T         `json:"payload"`
}

// EnvelopeMetadata carries correlation/causation context for emitted events.
type EnvelopeMetadata struct {
	CorrelationID string
	CausationID   string
}

// Validate checks the envelope identity against the expected name and
// version. A partition key is mandatory: consumers order by it.
func (e Envelope[T]) Validate(name string, version int) error {
	switch {
	case e.EventName != name:
		return fmt.Errorf("eventName %q, want %q", e.EventName, name)
	case e.EventVersion != version:
		return fmt.Errorf("eventVersion %d, want %d", e.EventVersion, version)
	case e.PartitionKey == "":
		return errors.New("partitionKey is empty")
	}
	return nil
}
