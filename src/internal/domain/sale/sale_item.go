package sale

import (
	"github.com/shopspring/decimal"
)

// ===========================
// SaleItem entity
// ===========================

// SaleItem is one product line of a Sale.
//
// A SaleItem is owned by exactly one Sale and only changes through the Sale's
// operations. Values handed out by Sale.Items() and Sale.AddItem() are
// detached copies: mutating them has no effect on the aggregate.
//
// Invariants:
//   - MinItemQuantity <= quantity <= MaxItemQuantity
//   - unitPrice > 0
//   - discountPercentage == DiscountFor(quantity)
//   - discountAmount == unitPrice * quantity * discountPercentage (0 once cancelled)
//   - totalAmount == unitPrice * quantity - discountAmount (0 once cancelled)
//   - cancelled never reverts to false
type SaleItem struct {
	id          SaleItemID
	productID   ProductID
	productName string

	quantity  int
	unitPrice decimal.Decimal

	discountPercentage decimal.Decimal
	discountAmount     decimal.Decimal
	totalAmount        decimal.Decimal

	cancelled bool
}

// newSaleItem creates an item and prices it.
//
// Errors (all INVALID_ARGUMENT):
//   - ErrQuantityNotPositive when quantity <= 0
//   - ErrQuantityAboveLimit when quantity > MaxItemQuantity
//   - ErrUnitPriceNotPositive when unitPrice <= 0
func newSaleItem(productID ProductID, productName string, quantity int, unitPrice decimal.Decimal) (*SaleItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if !unitPrice.IsPositive() {
		return nil, ErrUnitPriceNotPositive.WithContext(
			"unit_price", unitPrice.String(),
		)
	}

	item := &SaleItem{
		id:          NewSaleItemID(),
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}
	item.reprice()

	return item, nil
}

// ===========================
// Getters
// ===========================

// ID returns the item identifier.
func (i SaleItem) ID() SaleItemID { return i.id }

// ProductID returns the product reference.
func (i SaleItem) ProductID() ProductID { return i.productID }

// ProductName returns the denormalised product name.
func (i SaleItem) ProductName() string { return i.productName }

// Quantity returns the number of units.
func (i SaleItem) Quantity() int { return i.quantity }

// UnitPrice returns the price of one unit.
func (i SaleItem) UnitPrice() decimal.Decimal { return i.unitPrice }

// DiscountPercentage returns the tier applied to this line (0.00, 0.10 or 0.20).
func (i SaleItem) DiscountPercentage() decimal.Decimal { return i.discountPercentage }

// DiscountAmount returns the money taken off this line.
func (i SaleItem) DiscountAmount() decimal.Decimal { return i.discountAmount }

// TotalAmount returns the line total after discount.
func (i SaleItem) TotalAmount() decimal.Decimal { return i.totalAmount }

// IsCancelled reports whether the line has been cancelled.
func (i SaleItem) IsCancelled() bool { return i.cancelled }

// ===========================
// State transitions
// ===========================

// UpdateQuantity sets a new quantity and reprices the line.
//
// Errors:
//   - ErrItemCancelled (INVALID_STATE) when the item is cancelled
//   - ErrQuantityNotPositive / ErrQuantityAboveLimit (INVALID_ARGUMENT)
//
// On error the item is left untouched.
func (i *SaleItem) UpdateQuantity(newQuantity int) error {
	if i.cancelled {
		return ErrItemCancelled.WithContext("item_id", i.id.String())
	}
	if err := checkQuantity(newQuantity); err != nil {
		return err
	}

	i.quantity = newQuantity
	i.reprice()
	return nil
}

// Cancel marks the line cancelled and zeroes its money amounts.
// Calling it on an already-cancelled item is harmless.
func (i *SaleItem) Cancel() {
	i.cancelled = true
	i.totalAmount = decimal.Zero
	i.discountAmount = decimal.Zero
}

// reprice applies the discount policy and recomputes the derived amounts.
func (i *SaleItem) reprice() {
	subtotal := i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))

	i.discountPercentage = DiscountFor(i.quantity)
	i.discountAmount = subtotal.Mul(i.discountPercentage)
	i.totalAmount = subtotal.Sub(i.discountAmount)
}

func checkQuantity(quantity int) error {
	if quantity < MinItemQuantity {
		return ErrQuantityNotPositive.WithContext("quantity", quantity)
	}
	if quantity > MaxItemQuantity {
		return ErrQuantityAboveLimit.WithContext(
			"quantity", quantity,
			"max", MaxItemQuantity,
		)
	}
	return nil
}

// ===========================
// Reconstruction (repositories only)
// ===========================

// SaleItemSnapshot is the persisted form of a SaleItem.
type SaleItemSnapshot struct {
	ID                 SaleItemID
	ProductID          ProductID
	ProductName        string
	Quantity           int
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	TotalAmount        decimal.Decimal
	IsCancelled        bool
}

// ReconstructSaleItem rebuilds an item loaded from storage.
//
// Active items are repriced from quantity and unit price, and the stored
// amounts must agree with the result. Cancelled items keep their stored
// quantity and discount tier with zero amounts. Anything else is reported as
// ErrSaleCorrupted so damaged rows never reach the domain.
func ReconstructSaleItem(s SaleItemSnapshot) (*SaleItem, error) {
	if s.ID.IsEmpty() {
		return nil, ErrSaleCorrupted.WithContext("reason", "empty item id")
	}
	if !s.UnitPrice.IsPositive() {
		return nil, ErrSaleCorrupted.WithContext(
			"item_id", s.ID.String(),
			"unit_price", s.UnitPrice.String(),
		)
	}

	item := &SaleItem{
		id:                 s.ID,
		productID:          s.ProductID,
		productName:        s.ProductName,
		quantity:           s.Quantity,
		unitPrice:          s.UnitPrice,
		discountPercentage: s.DiscountPercentage,
		cancelled:          s.IsCancelled,
	}

	if s.IsCancelled {
		item.discountAmount = decimal.Zero
		item.totalAmount = decimal.Zero
		return item, nil
	}

	if err := checkQuantity(s.Quantity); err != nil {
		return nil, ErrSaleCorrupted.WithContext(
			"item_id", s.ID.String(),
			"quantity", s.Quantity,
		)
	}
	item.reprice()
	if !item.totalAmount.Equal(s.TotalAmount) {
		return nil, ErrSaleCorrupted.WithContext(
			"item_id", s.ID.String(),
			"stored_total", s.TotalAmount.String(),
			"computed_total", item.totalAmount.String(),
		)
	}

	return item, nil
}
