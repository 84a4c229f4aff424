package shared

import (
	"context"
	"time"
)

// DomainEvent is the common contract of every domain event.
type DomainEvent interface {
	EventID() string       // unique event identifier
	EventType() string     // dotted type name, e.g. "sale.registered"
	OccurredAt() time.Time // when the state change happened
	AggregateID() string   // identifier of the aggregate that raised it
}

// EventPublisher delivers domain events after the owning transaction commits.
//
// Publication is observational: a failure is reported to the caller but must
// never undo the persisted state change that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishBatch(ctx context.Context, events []DomainEvent) error
}
