package sale

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
)

// ===========================
// Commands
// ===========================

// SaleItemInput is one requested line of a create or update.
// ItemID is only used by updates: when set the line's quantity is changed,
// otherwise the product is added.
type SaleItemInput struct {
	ItemID      string          `validate:"omitempty,uuid_rfc4122"`
	ProductID   string          `validate:"required,uuid_rfc4122"`
	ProductName string          `validate:"required"`
	Quantity    int             `validate:"gt=0,lte=20"`
	UnitPrice   decimal.Decimal `validate:"gt=0"`
}

// CreateSaleCommand opens a sale with its first lines.
type CreateSaleCommand struct {
	CustomerID   string          `validate:"required,uuid_rfc4122"`
	CustomerName string          `validate:"required"`
	BranchID     string          `validate:"required,uuid_rfc4122"`
	BranchName   string          `validate:"required"`
	Items        []SaleItemInput `validate:"required,min=1,dive"`
}

// UpdateSaleCommand adds lines or changes quantities of an existing sale.
type UpdateSaleCommand struct {
	SaleID string          `validate:"required,uuid_rfc4122"`
	Items  []SaleItemInput `validate:"required,min=1,dive"`
}

// CancelSaleCommand cancels a whole sale.
type CancelSaleCommand struct {
	SaleID string `validate:"required,uuid_rfc4122"`
}

// CancelSaleItemCommand cancels one line.
type CancelSaleItemCommand struct {
	SaleID string `validate:"required,uuid_rfc4122"`
	ItemID string `validate:"required,uuid_rfc4122"`
}

// GetSaleCommand looks a sale up by id.
type GetSaleCommand struct {
	SaleID string `validate:"required,uuid_rfc4122"`
}

// ===========================
// Command validation
// ===========================

// CommandValidator checks request shape before any aggregate is loaded.
type CommandValidator struct {
	validate *validator.Validate
}

// NewCommandValidator returns a validator that understands decimal amounts.
func NewCommandValidator() *CommandValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &CommandValidator{validate: v}
}

// Validate returns a *domain.ValidationFailedError listing every broken
// rule, or nil.
func (cv *CommandValidator) Validate(cmd interface{}) error {
	err := cv.validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate command: %w", err)
	}

	out := make([]domain.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, domain.ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: messageFor(fe),
		})
	}
	return &domain.ValidationFailedError{Errors: out}
}

// fieldPath strips the command struct name: "CreateSaleCommand.Items[0].Quantity"
// becomes "Items[0].Quantity".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return "at least one item is required"
		}
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return "at least one item is required"
	case "uuid_rfc4122":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than zero", fe.Field())
	case "lte":
		return fmt.Sprintf("cannot sell more than %s identical items", fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
