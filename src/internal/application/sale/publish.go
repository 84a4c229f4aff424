package sale

import (
	"context"

	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

// publishCommitted hands events to the publisher after the transaction has
// committed. Failures are logged and swallowed: the sale is already stored.
func publishCommitted(ctx context.Context, publisher shared.EventPublisher, log *logger.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.PublishBatch(ctx, events); err != nil {
		log.Warn("failed to publish sale events",
			"aggregate_id", events[0].AggregateID(),
			"event_count", len(events),
			"error", err,
		)
	}
}
