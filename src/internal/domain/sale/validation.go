package sale

import (
	"fmt"
	"strings"
)

// ===========================
// Structural validation
// ===========================

// ValidationError is one field-level problem.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult collects every problem found by a validator.
// An empty result means the entity passed.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid reports whether no problems were found.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Err converts a failing result into a *ValidationFailedError, or nil.
func (r ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	errs := make([]ValidationError, len(r.Errors))
	copy(errs, r.Errors)
	return &ValidationFailedError{Errors: errs}
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// ValidationFailedError carries the full list of violations.
// errors.Is(err, ErrValidationFailed) holds for it.
type ValidationFailedError struct {
	Errors []ValidationError
}

// Error implements error.
func (e *ValidationFailedError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, v := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return fmt.Sprintf("[%s] sale validation failed: %s", ErrCodeValidationFailed, strings.Join(parts, "; "))
}

// Is implements errors.Is.
func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValidateSaleItem checks one line item.
//
// Rules:
//   - product id and product name present
//   - MinItemQuantity <= quantity <= MaxItemQuantity
//   - unit price > 0
//   - quantity below the first discount tier carries no discount
func ValidateSaleItem(item SaleItem) ValidationResult {
	var r ValidationResult
	validateItemInto(&r, "", item)
	return r
}

// ValidateSale checks the header fields and every item. Problems are
// collected, not reported fail-fast.
func ValidateSale(s *Sale) ValidationResult {
	var r ValidationResult

	if strings.TrimSpace(s.saleNumber) == "" {
		r.add("SaleNumber", "sale number is required")
	}
	if s.customerID.IsEmpty() {
		r.add("CustomerId", "customer id is required")
	}
	if strings.TrimSpace(s.customerName) == "" {
		r.add("CustomerName", "customer name is required")
	}
	if s.branchID.IsEmpty() {
		r.add("BranchId", "branch id is required")
	}
	if strings.TrimSpace(s.branchName) == "" {
		r.add("BranchName", "branch name is required")
	}
	if len(s.items) == 0 {
		r.add("Items", "sale must have at least one item")
	}
	for idx, item := range s.items {
		validateItemInto(&r, fmt.Sprintf("Items[%d].", idx), *item)
	}

	return r
}

func validateItemInto(r *ValidationResult, prefix string, item SaleItem) {
	if item.productID.IsEmpty() {
		r.add(prefix+"ProductId", "product id is required")
	}
	if strings.TrimSpace(item.productName) == "" {
		r.add(prefix+"ProductName", "product name is required")
	}
	if item.quantity < MinItemQuantity || item.quantity > MaxItemQuantity {
		r.add(prefix+"Quantity", fmt.Sprintf("quantity must be between %d and %d", MinItemQuantity, MaxItemQuantity))
	}
	if !item.unitPrice.IsPositive() {
		r.add(prefix+"UnitPrice", "unit price must be greater than zero")
	}
	if item.quantity < tenPercentFrom && !item.discountPercentage.IsZero() {
		r.add(prefix+"DiscountPercentage", fmt.Sprintf("no discount allowed below %d items", tenPercentFrom))
	}
}
