package sale

import (
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

// ===========================
// Entity identifiers
// ===========================

// Marker types keep the identifiers below distinct at compile time.
type (
	SaleMarker     struct{}
	SaleItemMarker struct{}
	ProductMarker  struct{}
	CustomerMarker struct{}
	BranchMarker   struct{}
)

// SaleID identifies a Sale aggregate.
type SaleID = shared.EntityID[SaleMarker]

// SaleItemID identifies a line item inside one sale.
type SaleItemID = shared.EntityID[SaleItemMarker]

// ProductID, CustomerID and BranchID are denormalised references to other
// bounded contexts. The sale never resolves them; it only stores them.
type (
	ProductID  = shared.EntityID[ProductMarker]
	CustomerID = shared.EntityID[CustomerMarker]
	BranchID   = shared.EntityID[BranchMarker]
)

// NewSaleID generates a new sale identifier.
func NewSaleID() SaleID {
	return shared.NewEntityID[SaleMarker]()
}

// NewSaleItemID generates a new item identifier.
func NewSaleItemID() SaleItemID {
	return shared.NewEntityID[SaleItemMarker]()
}

// SaleIDFromString parses a sale identifier (ErrInvalidSaleID on failure).
func SaleIDFromString(s string) (SaleID, error) {
	return shared.EntityIDFromString[SaleMarker](s, ErrInvalidSaleID)
}

// SaleItemIDFromString parses an item identifier (ErrInvalidItemID on failure).
func SaleItemIDFromString(s string) (SaleItemID, error) {
	return shared.EntityIDFromString[SaleItemMarker](s, ErrInvalidItemID)
}

// ProductIDFromString parses a product reference.
func ProductIDFromString(s string) (ProductID, error) {
	return shared.EntityIDFromString[ProductMarker](s, ErrInvalidReferenceID)
}

// CustomerIDFromString parses a customer reference.
func CustomerIDFromString(s string) (CustomerID, error) {
	return shared.EntityIDFromString[CustomerMarker](s, ErrInvalidReferenceID)
}

// BranchIDFromString parses a branch reference.
func BranchIDFromString(s string) (BranchID, error) {
	return shared.EntityIDFromString[BranchMarker](s, ErrInvalidReferenceID)
}
