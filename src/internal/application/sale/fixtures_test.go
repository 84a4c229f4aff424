package sale

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

type fixture struct {
	repo      *MockSaleRepository
	txManager *MockTransactionManager
	publisher *MockEventPublisher
	factory   *domain.Factory
}

func newFixture() *fixture {
	clock := &shared.FixedClock{At: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		repo:      NewMockSaleRepository(),
		txManager: NewMockTransactionManager(),
		publisher: NewMockEventPublisher(),
		factory:   domain.NewFactory(clock, domain.FixedSaleNumberGenerator{Number: "SALE-20240315-0000BEEF"}),
	}
}

func itemInput(quantity int, price string) SaleItemInput {
	return SaleItemInput{
		ProductID:   uuid.NewString(),
		ProductName: "Beer",
		Quantity:    quantity,
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func createCommand(items ...SaleItemInput) CreateSaleCommand {
	return CreateSaleCommand{
		CustomerID:   uuid.NewString(),
		CustomerName: "Alice",
		BranchID:     uuid.NewString(),
		BranchName:   "Downtown",
		Items:        items,
	}
}

// seedSale stores a sale through CreateSale and resets the counters.
func (f *fixture) seedSale(t *testing.T, items ...SaleItemInput) *SaleResult {
	t.Helper()
	uc := NewCreateSaleUseCase(f.repo, f.txManager, nil, f.factory, nil)
	res, err := uc.Execute(context.Background(), createCommand(items...))
	require.NoError(t, err)
	f.repo.CreateCallCount = 0
	f.txManager.InTransactionCallCount = 0
	return res
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
