package sale

import (
	"github.com/shopspring/decimal"
)

// ===========================
// Discount policy
// ===========================

const (
	// MinItemQuantity and MaxItemQuantity bound the quantity of one line item.
	MinItemQuantity = 1
	MaxItemQuantity = 20

	// Quantity thresholds at which a discount tier starts.
	tenPercentFrom    = 4
	twentyPercentFrom = 10
)

var (
	noDiscount            = decimal.Zero
	tenPercentDiscount    = decimal.RequireFromString("0.10")
	twentyPercentDiscount = decimal.RequireFromString("0.20")
)

// DiscountFor maps a line-item quantity to its discount percentage.
//
// Tiers:
//   - 10..20 items → 0.20
//   - 4..9 items   → 0.10
//   - 1..3 items   → 0.00
//
// Callers reject quantities outside [MinItemQuantity, MaxItemQuantity]
// before asking; the policy itself never fails.
func DiscountFor(quantity int) decimal.Decimal {
	switch {
	case quantity >= twentyPercentFrom:
		return twentyPercentDiscount
	case quantity >= tenPercentFrom:
		return tenPercentDiscount
	default:
		return noDiscount
	}
}
