package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	app "github.com/jackyeh168/sales_engine/src/internal/application/sale"
)

// ===========================
// Requests
// ===========================

// Money fields accept a JSON string or number and are always written back
// as strings.

type saleItemRequest struct {
	ItemID      string          `json:"itemId,omitempty"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type createSaleRequest struct {
	CustomerID   string            `json:"customerId"`
	CustomerName string            `json:"customerName"`
	BranchID     string            `json:"branchId"`
	BranchName   string            `json:"branchName"`
	Items        []saleItemRequest `json:"items"`
}

type updateSaleRequest struct {
	Items []saleItemRequest `json:"items"`
}

func toItemInputs(items []saleItemRequest) []app.SaleItemInput {
	if items == nil {
		return nil
	}
	out := make([]app.SaleItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, app.SaleItemInput{
			ItemID:      item.ItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return out
}

// ===========================
// Responses
// ===========================

type saleItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	IsCancelled        bool            `json:"isCancelled"`
}

type saleResponse struct {
	ID           string             `json:"id"`
	SaleNumber   string             `json:"saleNumber"`
	SaleDate     time.Time          `json:"saleDate"`
	CustomerID   string             `json:"customerId"`
	CustomerName string             `json:"customerName"`
	BranchID     string             `json:"branchId"`
	BranchName   string             `json:"branchName"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	IsCancelled  bool               `json:"isCancelled"`
	Items        []saleItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    *time.Time         `json:"updatedAt,omitempty"`
	Version      int                `json:"version"`
}

type saleSummaryResponse struct {
	ID              string          `json:"id"`
	SaleNumber      string          `json:"saleNumber"`
	SaleDate        time.Time       `json:"saleDate"`
	CustomerID      string          `json:"customerId"`
	CustomerName    string          `json:"customerName"`
	BranchID        string          `json:"branchId"`
	BranchName      string          `json:"branchName"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	IsCancelled     bool            `json:"isCancelled"`
	ItemCount       int             `json:"itemCount"`
	ActiveItemCount int             `json:"activeItemCount"`
}

type cancelSaleResponse struct {
	Success    bool   `json:"success"`
	SaleID     string `json:"saleId"`
	SaleNumber string `json:"saleNumber"`
}

type cancelSaleItemResponse struct {
	Success          bool            `json:"success"`
	SaleID           string          `json:"saleId"`
	ItemID           string          `json:"itemId"`
	UpdatedSaleTotal decimal.Decimal `json:"updatedSaleTotal"`
}

func newSaleResponse(r *app.SaleResult) saleResponse {
	items := make([]saleItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, saleItemResponse{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			DiscountPercentage: item.DiscountPercentage,
			DiscountAmount:     item.DiscountAmount,
			TotalAmount:        item.TotalAmount,
			IsCancelled:        item.IsCancelled,
		})
	}
	return saleResponse{
		ID:           r.ID,
		SaleNumber:   r.SaleNumber,
		SaleDate:     r.SaleDate,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		BranchID:     r.BranchID,
		BranchName:   r.BranchName,
		TotalAmount:  r.TotalAmount,
		IsCancelled:  r.IsCancelled,
		Items:        items,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

func newSaleSummaryResponses(rows []app.SaleSummary) []saleSummaryResponse {
	out := make([]saleSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, saleSummaryResponse{
			ID:              r.ID,
			SaleNumber:      r.SaleNumber,
			SaleDate:        r.SaleDate,
			CustomerID:      r.CustomerID,
			CustomerName:    r.CustomerName,
			BranchID:        r.BranchID,
			BranchName:      r.BranchName,
			TotalAmount:     r.TotalAmount,
			IsCancelled:     r.IsCancelled,
			ItemCount:       r.ItemCount,
			ActiveItemCount: r.ActiveItemCount,
		})
	}
	return out
}
