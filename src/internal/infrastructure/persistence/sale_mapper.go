package persistence

import (
	"github.com/google/uuid"

	"github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

// ===========================
// Domain <-> GORM model mapping
// ===========================

// toSaleDomain rebuilds the aggregate. Rows that break the aggregate
// invariants come back as sale.ErrSaleCorrupted.
func toSaleDomain(model *SaleModel, clock shared.Clock) (*sale.Sale, error) {
	saleID, err := parseStoredID[sale.SaleMarker](model.ID, "id")
	if err != nil {
		return nil, err
	}
	customerID, err := parseStoredID[sale.CustomerMarker](model.CustomerID, "customer_id")
	if err != nil {
		return nil, err
	}
	branchID, err := parseStoredID[sale.BranchMarker](model.BranchID, "branch_id")
	if err != nil {
		return nil, err
	}

	items := make([]sale.SaleItemSnapshot, 0, len(model.Items))
	for i := range model.Items {
		row := &model.Items[i]
		itemID, err := parseStoredID[sale.SaleItemMarker](row.ID, "item_id")
		if err != nil {
			return nil, err
		}
		productID, err := parseStoredID[sale.ProductMarker](row.ProductID, "product_id")
		if err != nil {
			return nil, err
		}
		items = append(items, sale.SaleItemSnapshot{
			ID:                 itemID,
			ProductID:          productID,
			ProductName:        row.ProductName,
			Quantity:           row.Quantity,
			UnitPrice:          row.UnitPrice,
			DiscountPercentage: row.DiscountPercentage,
			DiscountAmount:     row.DiscountAmount,
			TotalAmount:        row.TotalAmount,
			IsCancelled:        row.IsCancelled,
		})
	}

	return sale.ReconstructSale(sale.SaleSnapshot{
		ID:           saleID,
		SaleNumber:   model.SaleNumber,
		SaleDate:     model.SaleDate,
		CustomerID:   customerID,
		CustomerName: model.CustomerName,
		BranchID:     branchID,
		BranchName:   model.BranchName,
		TotalAmount:  model.TotalAmount,
		IsCancelled:  model.IsCancelled,
		Items:        items,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		Version:      model.Version,
	}, clock)
}

// toSaleModel flattens the aggregate into rows.
func toSaleModel(s *sale.Sale) *SaleModel {
	snap := s.Snapshot()

	items := make([]SaleItemModel, 0, len(snap.Items))
	for i, item := range snap.Items {
		items = append(items, SaleItemModel{
			ID:                 item.ID.String(),
			SaleID:             snap.ID.String(),
			Position:           i,
			ProductID:          item.ProductID.String(),
			ProductName:        item.ProductName,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			DiscountPercentage: item.DiscountPercentage,
			DiscountAmount:     item.DiscountAmount,
			TotalAmount:        item.TotalAmount,
			IsCancelled:        item.IsCancelled,
		})
	}

	return &SaleModel{
		ID:           snap.ID.String(),
		SaleNumber:   snap.SaleNumber,
		SaleDate:     snap.SaleDate,
		CustomerID:   snap.CustomerID.String(),
		CustomerName: snap.CustomerName,
		BranchID:     snap.BranchID.String(),
		BranchName:   snap.BranchName,
		TotalAmount:  snap.TotalAmount,
		IsCancelled:  snap.IsCancelled,
		CreatedAt:    snap.CreatedAt,
		UpdatedAt:    snap.UpdatedAt,
		Version:      snap.Version,
		Items:        items,
	}
}

func parseStoredID[T any](raw, column string) (shared.EntityID[T], error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return shared.EntityID[T]{}, sale.ErrSaleCorrupted.WithContext(
			"column", column,
			"value", raw,
			"reason", "invalid UUID format in database",
		)
	}
	return shared.EntityIDFromUUID[T](id), nil
}
