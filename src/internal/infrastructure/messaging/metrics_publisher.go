package messaging

import (
	"context"

	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/metrics"
)

// MetricsEventPublisher counts publish outcomes per event type and
// delegates delivery to next.
type MetricsEventPublisher struct {
	next    shared.EventPublisher
	metrics *metrics.Metrics
}

// NewMetricsEventPublisher wraps next with per-type outcome counters.
func NewMetricsEventPublisher(next shared.EventPublisher, m *metrics.Metrics) *MetricsEventPublisher {
	return &MetricsEventPublisher{next: next, metrics: m}
}

var _ shared.EventPublisher = (*MetricsEventPublisher)(nil)

// Publish forwards event and records the outcome.
func (p *MetricsEventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	err := p.next.Publish(ctx, event)
	p.metrics.ObserveEvent(event.EventType(), err)
	return err
}

// PublishBatch forwards the batch and records its outcome once per event.
func (p *MetricsEventPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	err := p.next.PublishBatch(ctx, events)
	for _, event := range events {
		p.metrics.ObserveEvent(event.EventType(), err)
	}
	return err
}
