package messaging

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

var eventTime = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func sampleEvents() (sale.SaleID, sale.SaleItemID, []shared.DomainEvent) {
	saleID := sale.NewSaleID()
	itemID := sale.NewSaleItemID()
	return saleID, itemID, []shared.DomainEvent{
		sale.NewSaleRegisteredEvent(saleID, "SALE-20240315-ABCDEF12", eventTime),
		sale.NewSaleModifiedEvent(saleID, eventTime),
		sale.NewItemCancelledEvent(saleID, itemID, eventTime),
		sale.NewSaleCancelledEvent(saleID, eventTime),
	}
}

var errTargetDown = errors.New("target down")

// recordingPublisher keeps what it was given and can be told to fail.
type recordingPublisher struct {
	mu        sync.Mutex
	Published []shared.DomainEvent
	Err       error
	CallCount int
}

func (p *recordingPublisher) Publish(_ context.Context, event shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CallCount++
	if p.Err != nil {
		return p.Err
	}
	p.Published = append(p.Published, event)
	return nil
}

func (p *recordingPublisher) PublishBatch(_ context.Context, events []shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CallCount++
	if p.Err != nil {
		return p.Err
	}
	p.Published = append(p.Published, events...)
	return nil
}
