package messaging

import (
	"context"

	"github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

// LoggingEventPublisher writes every event to the structured log.
type LoggingEventPublisher struct {
	log *logger.Logger
}

// NewLoggingEventPublisher writes events to log.
func NewLoggingEventPublisher(log *logger.Logger) *LoggingEventPublisher {
	return &LoggingEventPublisher{log: log.With("component", "LoggingEventPublisher")}
}

var _ shared.EventPublisher = (*LoggingEventPublisher)(nil)

var logMessages = map[string]string{
	sale.EventTypeSaleRegistered: "sale registered",
	sale.EventTypeSaleModified:   "sale modified",
	sale.EventTypeSaleCancelled:  "sale cancelled",
	sale.EventTypeItemCancelled:  "sale item cancelled",
}

// Publish logs one line for event.
func (p *LoggingEventPublisher) Publish(_ context.Context, event shared.DomainEvent) error {
	msg, ok := logMessages[event.EventType()]
	if !ok {
		msg = "domain event"
	}
	p.log.Info(msg, NewEnvelope(event).fields()...)
	return nil
}

// PublishBatch logs each event in order.
func (p *LoggingEventPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
