package sale

import (
	"context"
	"fmt"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
)

// ===========================
// Query Use Cases
// ===========================

// GetSaleUseCase loads one sale with its items.
type GetSaleUseCase struct {
	saleRepo domain.SaleRepository
}

// NewGetSaleUseCase wires the use case.
func NewGetSaleUseCase(repo domain.SaleRepository) *GetSaleUseCase {
	return &GetSaleUseCase{saleRepo: repo}
}

// Execute returns ErrSaleNotFound when the id is unknown.
func (uc *GetSaleUseCase) Execute(ctx context.Context, cmd GetSaleCommand) (*SaleResult, error) {
	if err := commandValidator.Validate(cmd); err != nil {
		return nil, err
	}
	saleID, err := domain.SaleIDFromString(cmd.SaleID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sale ID: %w", err)
	}

	// Read-only lookup: no transaction.
	s, err := uc.saleRepo.GetByID(nil, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	return toSaleResult(s), nil
}

// ListSalesUseCase returns every sale as a summary row.
type ListSalesUseCase struct {
	saleRepo domain.SaleRepository
}

// NewListSalesUseCase wires the use case.
func NewListSalesUseCase(repo domain.SaleRepository) *ListSalesUseCase {
	return &ListSalesUseCase{saleRepo: repo}
}

// Execute runs the query.
func (uc *ListSalesUseCase) Execute(ctx context.Context) ([]SaleSummary, error) {
	sales, err := uc.saleRepo.GetAll(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	out := make([]SaleSummary, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleSummary(s))
	}
	return out, nil
}
