package sale

import (
	"time"

	"github.com/google/uuid"
)

// Event type names.
const (
	EventTypeSaleRegistered = "sale.registered"
	EventTypeSaleModified   = "sale.modified"
	EventTypeSaleCancelled  = "sale.cancelled"
	EventTypeItemCancelled  = "sale.item_cancelled"
)

// ===========================
// Common event fields
// ===========================

type saleEvent struct {
	eventID    string
	saleID     SaleID
	occurredAt time.Time
}

func newSaleEvent(saleID SaleID, at time.Time) saleEvent {
	return saleEvent{
		eventID:    uuid.New().String(),
		saleID:     saleID,
		occurredAt: at,
	}
}

// EventID implements shared.DomainEvent.
func (e saleEvent) EventID() string { return e.eventID }

// OccurredAt implements shared.DomainEvent.
func (e saleEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateID implements shared.DomainEvent.
func (e saleEvent) AggregateID() string { return e.saleID.String() }

// SaleID returns the sale that raised the event.
func (e saleEvent) SaleID() SaleID { return e.saleID }

// ===========================
// Events
// ===========================

// SaleRegisteredEvent is raised when a sale is created.
type SaleRegisteredEvent struct {
	saleEvent
	saleNumber string
}

// NewSaleRegisteredEvent builds a SaleRegisteredEvent.
func NewSaleRegisteredEvent(saleID SaleID, saleNumber string, at time.Time) *SaleRegisteredEvent {
	return &SaleRegisteredEvent{saleEvent: newSaleEvent(saleID, at), saleNumber: saleNumber}
}

// EventType implements shared.DomainEvent.
func (e *SaleRegisteredEvent) EventType() string { return EventTypeSaleRegistered }

// SaleNumber returns the generated sale number.
func (e *SaleRegisteredEvent) SaleNumber() string { return e.saleNumber }

// SaleModifiedEvent is raised when items are added or re-quantified.
type SaleModifiedEvent struct {
	saleEvent
}

// NewSaleModifiedEvent builds a SaleModifiedEvent.
func NewSaleModifiedEvent(saleID SaleID, at time.Time) *SaleModifiedEvent {
	return &SaleModifiedEvent{saleEvent: newSaleEvent(saleID, at)}
}

// EventType implements shared.DomainEvent.
func (e *SaleModifiedEvent) EventType() string { return EventTypeSaleModified }

// SaleCancelledEvent is raised when the whole sale is cancelled.
type SaleCancelledEvent struct {
	saleEvent
}

// NewSaleCancelledEvent builds a SaleCancelledEvent.
func NewSaleCancelledEvent(saleID SaleID, at time.Time) *SaleCancelledEvent {
	return &SaleCancelledEvent{saleEvent: newSaleEvent(saleID, at)}
}

// EventType implements shared.DomainEvent.
func (e *SaleCancelledEvent) EventType() string { return EventTypeSaleCancelled }

// ItemCancelledEvent is raised when a single line is cancelled.
type ItemCancelledEvent struct {
	saleEvent
	itemID SaleItemID
}

// NewItemCancelledEvent builds an ItemCancelledEvent.
func NewItemCancelledEvent(saleID SaleID, itemID SaleItemID, at time.Time) *ItemCancelledEvent {
	return &ItemCancelledEvent{saleEvent: newSaleEvent(saleID, at), itemID: itemID}
}

// EventType implements shared.DomainEvent.
func (e *ItemCancelledEvent) EventType() string { return EventTypeItemCancelled }

// ItemID returns the cancelled line.
func (e *ItemCancelledEvent) ItemID() SaleItemID { return e.itemID }
