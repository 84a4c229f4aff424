package shared

import (
	"github.com/google/uuid"
)

// ===========================
// EntityID[T] generic entity identifier
// ===========================

// EntityID is a typed UUID value object.
//
// The type parameter T is a marker that keeps identifiers of different
// entities apart at compile time: a SaleID can never be passed where a
// SaleItemID is expected, even though both wrap a uuid.UUID.
//
// Usage:
//
//	type SaleMarker struct{}
//	type SaleID = shared.EntityID[SaleMarker]
//
//	id := shared.NewEntityID[SaleMarker]()
//	parsed, err := shared.EntityIDFromString[SaleMarker](s, ErrInvalidSaleID)
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID generates a new random (v4) identifier.
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromUUID wraps an existing uuid.UUID.
// uuid.Nil yields an empty identifier.
func EntityIDFromUUID[T any](id uuid.UUID) EntityID[T] {
	return EntityID[T]{value: id}
}

// EntityIDFromString parses a canonical UUID string.
//
// errTemplate is returned on failure. When it supports WithContext (as the
// domain errors do) the input and parse error are attached as context, so
// the shared package never depends on a specific bounded context's errors.
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) error
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"parse_error", err.Error(),
			)
		}
		return EntityID[T]{}, errTemplate
	}
	return EntityID[T]{value: id}, nil
}

// String returns the lowercase canonical form.
func (e EntityID[T]) String() string {
	return e.value.String()
}

// UUID exposes the underlying value for infrastructure mapping.
func (e EntityID[T]) UUID() uuid.UUID {
	return e.value
}

// Equals compares two identifiers of the same entity type.
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty reports whether the identifier is the zero value.
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}
