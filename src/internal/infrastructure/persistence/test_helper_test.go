package persistence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/config"
)

// ===========================
// Test helpers
// ===========================

var testNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

// setupTestDB opens a migrated in-memory SQLite database that lives for the
// duration of the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file::memory:",
	}, gormlogger.Silent)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		_ = Close(db)
	})
	return db
}

// newTestFactory builds sales with unique numbers on a fixed clock.
func newTestFactory() (*sale.Factory, *shared.FixedClock) {
	clock := &shared.FixedClock{At: testNow}
	return sale.NewFactory(clock, sale.UUIDSaleNumberGenerator{}), clock
}

// newSaleWithItems returns an unsaved sale holding one line per quantity.
func newSaleWithItems(t *testing.T, factory *sale.Factory, quantities ...int) *sale.Sale {
	t.Helper()

	s := factory.NewSale(
		shared.NewEntityID[sale.CustomerMarker](), "Alice",
		shared.NewEntityID[sale.BranchMarker](), "Downtown",
	)
	for _, q := range quantities {
		_, err := s.AddItem(shared.NewEntityID[sale.ProductMarker](), "Beer", q, decimal.RequireFromString("10.00"))
		require.NoError(t, err)
	}
	s.PullEvents()
	return s
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
