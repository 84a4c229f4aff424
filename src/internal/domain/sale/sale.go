package sale

import (
	"time"

	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ===========================
// Sale aggregate root
// ===========================

// Sale is the unit of consistency for one customer transaction.
//
// Invariants:
//   - totalAmount == sum of totalAmount over active items (0 once cancelled)
//   - once cancelled, no item can be added, re-quantified or cancelled
//   - a product appears at most once among active items
//   - items are only appended, never removed
//
// A Sale is not safe for concurrent use. Two requests that load the same
// sale are serialised by the repository's version check.
type Sale struct {
	id         SaleID
	saleNumber string
	saleDate   time.Time

	customerID   CustomerID
	customerName string
	branchID     BranchID
	branchName   string

	totalAmount decimal.Decimal
	cancelled   bool
	items       []*SaleItem

	createdAt time.Time
	updatedAt *time.Time
	version   int

	clock  shared.Clock
	events []shared.DomainEvent
}

// ===========================
// Construction
// ===========================

// Factory builds new sales with an injected clock and number generator.
type Factory struct {
	clock   shared.Clock
	numbers SaleNumberGenerator
}

// NewFactory returns a Factory. Nil collaborators fall back to the system
// clock and UUIDSaleNumberGenerator.
func NewFactory(clock shared.Clock, numbers SaleNumberGenerator) *Factory {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if numbers == nil {
		numbers = UUIDSaleNumberGenerator{}
	}
	return &Factory{clock: clock, numbers: numbers}
}

// NewSale opens an empty, active sale and records SaleRegistered.
//
// No argument validation happens here; ValidateSale is the gate before
// persistence.
func (f *Factory) NewSale(customerID CustomerID, customerName string, branchID BranchID, branchName string) *Sale {
	now := f.clock.Now()

	s := &Sale{
		id:           NewSaleID(),
		saleNumber:   f.numbers.Next(now),
		saleDate:     now,
		customerID:   customerID,
		customerName: customerName,
		branchID:     branchID,
		branchName:   branchName,
		totalAmount:  decimal.Zero,
		items:        make([]*SaleItem, 0),
		createdAt:    now,
		version:      1,
		clock:        f.clock,
		events:       make([]shared.DomainEvent, 0),
	}
	s.addEvent(NewSaleRegisteredEvent(s.id, s.saleNumber, now))

	return s
}

// NewSale opens a sale using the system clock and random sale numbers.
func NewSale(customerID CustomerID, customerName string, branchID BranchID, branchName string) *Sale {
	return NewFactory(nil, nil).NewSale(customerID, customerName, branchID, branchName)
}

// ===========================
// Getters
// ===========================

// ID returns the sale identifier.
func (s *Sale) ID() SaleID { return s.id }

// SaleNumber returns the human-facing number.
func (s *Sale) SaleNumber() string { return s.saleNumber }

// SaleDate returns when the sale was opened.
func (s *Sale) SaleDate() time.Time { return s.saleDate }

// CustomerID returns the customer reference.
func (s *Sale) CustomerID() CustomerID { return s.customerID }

// CustomerName returns the denormalised customer name.
func (s *Sale) CustomerName() string { return s.customerName }

// BranchID returns the branch reference.
func (s *Sale) BranchID() BranchID { return s.branchID }

// BranchName returns the denormalised branch name.
func (s *Sale) BranchName() string { return s.branchName }

// TotalAmount returns the sum of active item totals.
func (s *Sale) TotalAmount() decimal.Decimal { return s.totalAmount }

// IsCancelled reports whether the sale has been cancelled.
func (s *Sale) IsCancelled() bool { return s.cancelled }

// CreatedAt returns the construction time.
func (s *Sale) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the time of the last mutation, nil if never mutated.
func (s *Sale) UpdatedAt() *time.Time {
	if s.updatedAt == nil {
		return nil
	}
	t := *s.updatedAt
	return &t
}

// Version returns the optimistic-concurrency token.
func (s *Sale) Version() int { return s.version }

// Items returns detached copies of the items in insertion order.
func (s *Sale) Items() []SaleItem {
	out := make([]SaleItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out
}

// Item returns a copy of the item with the given id.
func (s *Sale) Item(itemID SaleItemID) (SaleItem, bool) {
	item := s.findItem(itemID)
	if item == nil {
		return SaleItem{}, false
	}
	return *item, true
}

// ActiveItemCount returns the number of items not cancelled.
func (s *Sale) ActiveItemCount() int {
	n := 0
	for _, item := range s.items {
		if !item.cancelled {
			n++
		}
	}
	return n
}

// ===========================
// Commands
// ===========================

// AddItem adds a product line or merges into the active line for the same
// product, then recomputes the total.
//
// Errors:
//   - ErrSaleCancelled (INVALID_STATE) when the sale is cancelled
//   - ErrQuantityNotPositive (INVALID_ARGUMENT) when quantity <= 0
//   - merge path: ErrQuantityAboveLimit (INVALID_ARGUMENT) when the combined
//     quantity exceeds MaxItemQuantity
//   - new line: ErrItemLimitExceeded (INVALID_STATE) when quantity exceeds
//     MaxItemQuantity, ErrUnitPriceNotPositive (INVALID_ARGUMENT)
//
// The returned SaleItem is a copy of the affected line.
func (s *Sale) AddItem(productID ProductID, productName string, quantity int, unitPrice decimal.Decimal) (SaleItem, error) {
	if s.cancelled {
		return SaleItem{}, ErrSaleCancelled.WithContext("sale_id", s.id.String())
	}
	if quantity < MinItemQuantity {
		return SaleItem{}, ErrQuantityNotPositive.WithContext("quantity", quantity)
	}

	if existing := s.findActiveItemByProduct(productID); existing != nil {
		if err := existing.UpdateQuantity(existing.quantity + quantity); err != nil {
			return SaleItem{}, err
		}
		s.afterItemChange()
		s.recordModified()
		return *existing, nil
	}

	if quantity > MaxItemQuantity {
		return SaleItem{}, ErrItemLimitExceeded.WithContext(
			"product_id", productID.String(),
			"quantity", quantity,
		)
	}

	item, err := newSaleItem(productID, productName, quantity, unitPrice)
	if err != nil {
		return SaleItem{}, err
	}
	s.items = append(s.items, item)
	s.afterItemChange()
	s.recordModified()

	return *item, nil
}

// UpdateItemQuantity sets the quantity of an existing line.
//
// Errors:
//   - ErrSaleCancelled (INVALID_STATE) when the sale is cancelled
//   - ErrItemNotFound (NOT_FOUND) when no item has that id
//   - ErrItemCancelled (INVALID_STATE) when the item is cancelled
//   - ErrQuantityNotPositive / ErrQuantityAboveLimit (INVALID_ARGUMENT)
func (s *Sale) UpdateItemQuantity(itemID SaleItemID, quantity int) error {
	if s.cancelled {
		return ErrSaleCancelled.WithContext("sale_id", s.id.String())
	}
	item := s.findItem(itemID)
	if item == nil {
		return ErrItemNotFound.WithContext(
			"sale_id", s.id.String(),
			"item_id", itemID.String(),
		)
	}
	if err := item.UpdateQuantity(quantity); err != nil {
		return err
	}

	s.afterItemChange()
	s.recordModified()
	return nil
}

// CancelItem cancels one line. The sale stays active even when no active
// line remains.
//
// Errors:
//   - ErrSaleCancelled (INVALID_STATE) when the sale is cancelled
//   - ErrItemNotFound (NOT_FOUND) when no item has that id
func (s *Sale) CancelItem(itemID SaleItemID) error {
	if s.cancelled {
		return ErrSaleCancelled.WithContext("sale_id", s.id.String())
	}
	item := s.findItem(itemID)
	if item == nil {
		return ErrItemNotFound.WithContext(
			"sale_id", s.id.String(),
			"item_id", itemID.String(),
		)
	}

	item.Cancel()
	s.afterItemChange()
	s.addEvent(NewItemCancelledEvent(s.id, item.id, s.now()))
	return nil
}

// Cancel cancels the sale and all its items. Cancelling a cancelled sale is
// a no-op.
func (s *Sale) Cancel() {
	if s.cancelled {
		return
	}

	s.cancelled = true
	for _, item := range s.items {
		item.Cancel()
	}
	s.totalAmount = decimal.Zero
	s.touch()
	s.addEvent(NewSaleCancelledEvent(s.id, s.now()))
}

// Validate runs the structural validator over the current state.
func (s *Sale) Validate() ValidationResult {
	return ValidateSale(s)
}

// ===========================
// Events
// ===========================

// PullEvents returns pending events and clears the list.
func (s *Sale) PullEvents() []shared.DomainEvent {
	events := s.events
	s.events = make([]shared.DomainEvent, 0)
	return events
}

func (s *Sale) addEvent(event shared.DomainEvent) {
	s.events = append(s.events, event)
}

// recordModified adds a single SaleModified per pending batch. A pending
// SaleRegistered already describes the new state.
func (s *Sale) recordModified() {
	for _, e := range s.events {
		switch e.EventType() {
		case EventTypeSaleRegistered, EventTypeSaleModified:
			return
		}
	}
	s.addEvent(NewSaleModifiedEvent(s.id, s.now()))
}

// ===========================
// Internals
// ===========================

func (s *Sale) afterItemChange() {
	s.recalculateTotal()
	s.touch()
}

func (s *Sale) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.items {
		if !item.cancelled {
			total = total.Add(item.totalAmount)
		}
	}
	s.totalAmount = total
}

func (s *Sale) touch() {
	now := s.now()
	s.updatedAt = &now
}

func (s *Sale) now() time.Time {
	if s.clock == nil {
		return shared.SystemClock{}.Now()
	}
	return s.clock.Now()
}

func (s *Sale) findItem(itemID SaleItemID) *SaleItem {
	for _, item := range s.items {
		if item.id.Equals(itemID) {
			return item
		}
	}
	return nil
}

func (s *Sale) findActiveItemByProduct(productID ProductID) *SaleItem {
	for _, item := range s.items {
		if !item.cancelled && item.productID.Equals(productID) {
			return item
		}
	}
	return nil
}

// ===========================
// Reconstruction (repositories only)
// ===========================

// SaleSnapshot is the persisted form of a Sale.
type SaleSnapshot struct {
	ID           SaleID
	SaleNumber   string
	SaleDate     time.Time
	CustomerID   CustomerID
	CustomerName string
	BranchID     BranchID
	BranchName   string
	TotalAmount  decimal.Decimal
	IsCancelled  bool
	Items        []SaleItemSnapshot
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	Version      int
}

// Snapshot exports the current state for persistence.
func (s *Sale) Snapshot() SaleSnapshot {
	items := make([]SaleItemSnapshot, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, SaleItemSnapshot{
			ID:                 item.id,
			ProductID:          item.productID,
			ProductName:        item.productName,
			Quantity:           item.quantity,
			UnitPrice:          item.unitPrice,
			DiscountPercentage: item.discountPercentage,
			DiscountAmount:     item.discountAmount,
			TotalAmount:        item.totalAmount,
			IsCancelled:        item.cancelled,
		})
	}

	return SaleSnapshot{
		ID:           s.id,
		SaleNumber:   s.saleNumber,
		SaleDate:     s.saleDate,
		CustomerID:   s.customerID,
		CustomerName: s.customerName,
		BranchID:     s.branchID,
		BranchName:   s.branchName,
		TotalAmount:  s.totalAmount,
		IsCancelled:  s.cancelled,
		Items:        items,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.UpdatedAt(),
		Version:      s.version,
	}
}

// ReconstructSale rebuilds a sale loaded from storage. No events are
// recorded. Data that breaks the aggregate invariants yields
// ErrSaleCorrupted.
func ReconstructSale(snap SaleSnapshot, clock shared.Clock) (*Sale, error) {
	if snap.ID.IsEmpty() {
		return nil, ErrSaleCorrupted.WithContext("reason", "empty sale id")
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}

	items := make([]*SaleItem, 0, len(snap.Items))
	activeProducts := make(map[string]struct{}, len(snap.Items))
	for _, itemSnap := range snap.Items {
		item, err := ReconstructSaleItem(itemSnap)
		if err != nil {
			return nil, err
		}
		if snap.IsCancelled && !item.cancelled {
			return nil, ErrSaleCorrupted.WithContext(
				"sale_id", snap.ID.String(),
				"item_id", item.id.String(),
				"reason", "active item in cancelled sale",
			)
		}
		if !item.cancelled {
			key := item.productID.String()
			if _, dup := activeProducts[key]; dup {
				return nil, ErrSaleCorrupted.WithContext(
					"sale_id", snap.ID.String(),
					"product_id", key,
					"reason", "duplicate active product",
				)
			}
			activeProducts[key] = struct{}{}
		}
		items = append(items, item)
	}

	var updatedAt *time.Time
	if snap.UpdatedAt != nil {
		t := *snap.UpdatedAt
		updatedAt = &t
	}

	s := &Sale{
		id:           snap.ID,
		saleNumber:   snap.SaleNumber,
		saleDate:     snap.SaleDate,
		customerID:   snap.CustomerID,
		customerName: snap.CustomerName,
		branchID:     snap.BranchID,
		branchName:   snap.BranchName,
		cancelled:    snap.IsCancelled,
		items:        items,
		createdAt:    snap.CreatedAt,
		updatedAt:    updatedAt,
		version:      snap.Version,
		clock:        clock,
		events:       make([]shared.DomainEvent, 0),
	}
	s.recalculateTotal()

	if !s.totalAmount.Equal(snap.TotalAmount) {
		return nil, ErrSaleCorrupted.WithContext(
			"sale_id", snap.ID.String(),
			"stored_total", snap.TotalAmount.String(),
			"computed_total", s.totalAmount.String(),
		)
	}

	return s, nil
}
