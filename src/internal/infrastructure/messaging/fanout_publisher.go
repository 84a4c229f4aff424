package messaging

import (
	"context"
	"errors"

	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

// FanoutPublisher hands every event to each target in turn. A failing
// target does not stop the others; their errors are joined.
type FanoutPublisher struct {
	targets []shared.EventPublisher
}

// NewFanoutPublisher drops nil targets and keeps the rest in order.
func NewFanoutPublisher(targets ...shared.EventPublisher) *FanoutPublisher {
	kept := make([]shared.EventPublisher, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			kept = append(kept, t)
		}
	}
	return &FanoutPublisher{targets: kept}
}

var _ shared.EventPublisher = (*FanoutPublisher)(nil)

// Publish sends event to every target.
func (p *FanoutPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	var errs []error
	for _, t := range p.targets {
		if err := t.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishBatch sends events to every target as one batch each.
func (p *FanoutPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	var errs []error
	for _, t := range p.targets {
		if err := t.PublishBatch(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
