package messaging

import (
	"encoding/json"
	"time"

	"github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

// Envelope is the wire form of a domain event.
type Envelope struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	SaleNumber  string    `json:"sale_number,omitempty"`
	ItemID      string    `json:"item_id,omitempty"`
}

// NewEnvelope copies the common fields and the event-specific ones.
func NewEnvelope(event shared.DomainEvent) Envelope {
	env := Envelope{
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().UTC(),
	}

	switch e := event.(type) {
	case *sale.SaleRegisteredEvent:
		env.SaleNumber = e.SaleNumber()
	case *sale.ItemCancelledEvent:
		env.ItemID = e.ItemID().String()
	}
	return env
}

// Encode marshals the envelope of event as JSON.
func Encode(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(NewEnvelope(event))
}

// fields flattens the envelope into logger key/value pairs.
func (e Envelope) fields() []interface{} {
	kv := []interface{}{
		"event_id", e.EventID,
		"event_type", e.EventType,
		"sale_id", e.AggregateID,
		"occurred_at", e.OccurredAt,
	}
	if e.SaleNumber != "" {
		kv = append(kv, "sale_number", e.SaleNumber)
	}
	if e.ItemID != "" {
		kv = append(kv, "item_id", e.ItemID)
	}
	return kv
}
