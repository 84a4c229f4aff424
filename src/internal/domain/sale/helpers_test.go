package sale_test

import (
	"testing"
	"time"

	"github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

// newTestSale opens a sale on a fixed clock and drops the registration event.
func newTestSale(t *testing.T) (*sale.Sale, *shared.FixedClock) {
	t.Helper()
	clock := &shared.FixedClock{At: fixedNow}
	factory := sale.NewFactory(clock, sale.FixedSaleNumberGenerator{Number: "SALE-20240315-ABCDEF12"})
	s := factory.NewSale(
		shared.NewEntityID[sale.CustomerMarker](), "Alice",
		shared.NewEntityID[sale.BranchMarker](), "Downtown",
	)
	return s, clock
}

func newProductID() sale.ProductID {
	return shared.NewEntityID[sale.ProductMarker]()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDecimal compares by value so "45" and "45.00" are equal.
func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func eventTypes(events []shared.DomainEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.EventType())
	}
	return out
}
