package sale

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ===========================
// Error taxonomy
// ===========================

// ErrorKind classifies a failure for callers (and HTTP status mapping).
type ErrorKind string

const (
	// KindInvalidArgument: a single value violates a local constraint.
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	// KindInvalidState: the current state of the sale or item forbids the operation.
	KindInvalidState ErrorKind = "INVALID_STATE"
	// KindNotFound: a referenced sale or item does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindValidationFailed: the structural validator reported one or more problems.
	KindValidationFailed ErrorKind = "VALIDATION_FAILED"
	// KindConflict: a concurrent writer changed the sale first.
	KindConflict ErrorKind = "CONFLICT"
)

// ErrorCode identifies the concrete rule that was broken.
type ErrorCode string

const (
	ErrCodeQuantityNotPositive  ErrorCode = "SALE_ITEM_QUANTITY_NOT_POSITIVE"
	ErrCodeQuantityAboveLimit   ErrorCode = "SALE_ITEM_QUANTITY_ABOVE_LIMIT"
	ErrCodeUnitPriceNotPositive ErrorCode = "SALE_ITEM_UNIT_PRICE_NOT_POSITIVE"
	ErrCodeItemCancelled        ErrorCode = "SALE_ITEM_CANCELLED"
	ErrCodeItemLimitExceeded    ErrorCode = "SALE_ITEM_LIMIT_EXCEEDED"
	ErrCodeSaleCancelled        ErrorCode = "SALE_CANCELLED"
	ErrCodeItemNotFound         ErrorCode = "SALE_ITEM_NOT_FOUND"
	ErrCodeSaleNotFound         ErrorCode = "SALE_NOT_FOUND"
	ErrCodeSaleCorrupted        ErrorCode = "SALE_CORRUPTED"
	ErrCodeInvalidSaleID        ErrorCode = "SALE_ID_INVALID"
	ErrCodeInvalidItemID        ErrorCode = "SALE_ITEM_ID_INVALID"
	ErrCodeInvalidReferenceID   ErrorCode = "SALE_REFERENCE_ID_INVALID"
	ErrCodeSaleAlreadyExists    ErrorCode = "SALE_ALREADY_EXISTS"
	ErrCodeConcurrentUpdate     ErrorCode = "SALE_CONCURRENT_MODIFICATION"
	ErrCodeValidationFailed     ErrorCode = "SALE_VALIDATION_FAILED"
)

// ===========================
// DomainError
// ===========================

// DomainError is an immutable, structured domain failure.
//
// errors.Is matches on Code. A kind sentinel (Code left empty, e.g.
// ErrInvalidState) matches every error of that Kind, so callers can test
// either the precise rule or the broad category.
type DomainError struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// Error implements error.
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %s)", e.Code, e.Message, formatContext(e.Context))
}

// WithContext returns a copy of the error carrying additional key/value pairs.
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is implements errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == "" {
		return e.Kind == t.Kind
	}
	return e.Code == t.Code
}

// formatContext renders context keys in sorted order so messages are stable.
func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, ", ")
}

// KindOf extracts the ErrorKind of err, or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	var validationErr *ValidationFailedError
	if errors.As(err, &validationErr) {
		return KindValidationFailed
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

// ===========================
// Kind sentinels
// ===========================

var (
	ErrInvalidArgument  = &DomainError{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrInvalidState     = &DomainError{Kind: KindInvalidState, Message: "invalid state"}
	ErrNotFound         = &DomainError{Kind: KindNotFound, Message: "not found"}
	ErrValidationFailed = &DomainError{Kind: KindValidationFailed, Message: "validation failed"}
	ErrConflict         = &DomainError{Kind: KindConflict, Message: "conflict"}
)

// ===========================
// Predefined errors
// ===========================

// Sale item arguments
var (
	ErrQuantityNotPositive = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    ErrCodeQuantityNotPositive,
		Message: "quantity must be greater than zero",
	}

	ErrQuantityAboveLimit = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    ErrCodeQuantityAboveLimit,
		Message: "cannot sell more than 20 identical items",
	}

	ErrUnitPriceNotPositive = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    ErrCodeUnitPriceNotPositive,
		Message: "unit price must be greater than zero",
	}
)

// State transitions
var (
	ErrItemCancelled = &DomainError{
		Kind:    KindInvalidState,
		Code:    ErrCodeItemCancelled,
		Message: "cannot update a cancelled item",
	}

	// ErrItemLimitExceeded guards the new-item path of AddItem. It is a state
	// error, unlike ErrQuantityAboveLimit raised by the item itself.
	ErrItemLimitExceeded = &DomainError{
		Kind:    KindInvalidState,
		Code:    ErrCodeItemLimitExceeded,
		Message: "cannot sell more than 20 identical items",
	}

	ErrSaleCancelled = &DomainError{
		Kind:    KindInvalidState,
		Code:    ErrCodeSaleCancelled,
		Message: "sale is cancelled",
	}

	ErrSaleCorrupted = &DomainError{
		Kind:    KindInvalidState,
		Code:    ErrCodeSaleCorrupted,
		Message: "stored sale violates its invariants",
	}
)

// Lookups and identifiers
var (
	ErrItemNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    ErrCodeItemNotFound,
		Message: "item not found in this sale",
	}

	ErrSaleNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    ErrCodeSaleNotFound,
		Message: "sale not found",
	}

	ErrInvalidSaleID = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    ErrCodeInvalidSaleID,
		Message: "invalid sale id",
	}

	ErrInvalidItemID = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    ErrCodeInvalidItemID,
		Message: "invalid sale item id",
	}

	// ErrInvalidReferenceID covers customer, branch and product identifiers.
	ErrInvalidReferenceID = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    ErrCodeInvalidReferenceID,
		Message: "invalid reference id",
	}
)

// Persistence
var (
	ErrSaleAlreadyExists = &DomainError{
		Kind:    KindConflict,
		Code:    ErrCodeSaleAlreadyExists,
		Message: "sale already exists",
	}

	ErrConcurrentModification = &DomainError{
		Kind:    KindConflict,
		Code:    ErrCodeConcurrentUpdate,
		Message: "sale was modified by another request",
	}
)
