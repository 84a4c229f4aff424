package sale

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
)

// ===========================
// Results
// ===========================

// SaleItemResult is the read model of one line.
type SaleItemResult struct {
	ID                 string
	ProductID          string
	ProductName        string
	Quantity           int
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	TotalAmount        decimal.Decimal
	IsCancelled        bool
}

// SaleResult is the full read model of a sale, items included.
type SaleResult struct {
	ID           string
	SaleNumber   string
	SaleDate     time.Time
	CustomerID   string
	CustomerName string
	BranchID     string
	BranchName   string
	TotalAmount  decimal.Decimal
	IsCancelled  bool
	Items        []SaleItemResult
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	Version      int
}

// SaleSummary is the list-view row of a sale.
type SaleSummary struct {
	ID              string
	SaleNumber      string
	SaleDate        time.Time
	CustomerID      string
	CustomerName    string
	BranchID        string
	BranchName      string
	TotalAmount     decimal.Decimal
	IsCancelled     bool
	ItemCount       int
	ActiveItemCount int
}

// CancelSaleResult reports a whole-sale cancellation.
type CancelSaleResult struct {
	Success    bool
	SaleID     string
	SaleNumber string
}

// CancelSaleItemResult reports a line cancellation and the new sale total.
type CancelSaleItemResult struct {
	Success          bool
	SaleID           string
	ItemID           string
	UpdatedSaleTotal decimal.Decimal
}

func toSaleResult(s *domain.Sale) *SaleResult {
	items := s.Items()
	out := make([]SaleItemResult, 0, len(items))
	for _, item := range items {
		out = append(out, SaleItemResult{
			ID:                 item.ID().String(),
			ProductID:          item.ProductID().String(),
			ProductName:        item.ProductName(),
			Quantity:           item.Quantity(),
			UnitPrice:          item.UnitPrice(),
			DiscountPercentage: item.DiscountPercentage(),
			DiscountAmount:     item.DiscountAmount(),
			TotalAmount:        item.TotalAmount(),
			IsCancelled:        item.IsCancelled(),
		})
	}

	return &SaleResult{
		ID:           s.ID().String(),
		SaleNumber:   s.SaleNumber(),
		SaleDate:     s.SaleDate(),
		CustomerID:   s.CustomerID().String(),
		CustomerName: s.CustomerName(),
		BranchID:     s.BranchID().String(),
		BranchName:   s.BranchName(),
		TotalAmount:  s.TotalAmount(),
		IsCancelled:  s.IsCancelled(),
		Items:        out,
		CreatedAt:    s.CreatedAt(),
		UpdatedAt:    s.UpdatedAt(),
		Version:      s.Version(),
	}
}

func toSaleSummary(s *domain.Sale) SaleSummary {
	return SaleSummary{
		ID:              s.ID().String(),
		SaleNumber:      s.SaleNumber(),
		SaleDate:        s.SaleDate(),
		CustomerID:      s.CustomerID().String(),
		CustomerName:    s.CustomerName(),
		BranchID:        s.BranchID().String(),
		BranchName:      s.BranchName(),
		TotalAmount:     s.TotalAmount(),
		IsCancelled:     s.IsCancelled(),
		ItemCount:       len(s.Items()),
		ActiveItemCount: s.ActiveItemCount(),
	}
}
