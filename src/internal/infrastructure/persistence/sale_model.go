package persistence

import (
	"time"

	"github.com/shopspring/decimal"
)

// ===========================
// GORM models
// ===========================

// Money columns are stored as decimal strings so SQLite and PostgreSQL round
// trip the exact value.

// SaleModel is the sales table row.
type SaleModel struct {
	ID           string          `gorm:"type:varchar(36);primaryKey"`
	SaleNumber   string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	SaleDate     time.Time       `gorm:"not null"`
	CustomerID   string          `gorm:"type:varchar(36);index;not null"`
	CustomerName string          `gorm:"type:varchar(255);not null"`
	BranchID     string          `gorm:"type:varchar(36);index;not null"`
	BranchName   string          `gorm:"type:varchar(255);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:varchar(40);not null"`
	IsCancelled  bool            `gorm:"not null;default:false"`
	CreatedAt    time.Time       `gorm:"not null;index"`
	UpdatedAt    *time.Time      `gorm:"autoUpdateTime:false"`
	Version      int             `gorm:"not null;default:1"`

	Items []SaleItemModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name.
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the sale_items table row. Position keeps insertion order.
type SaleItemModel struct {
	ID                 string          `gorm:"type:varchar(36);primaryKey"`
	SaleID             string          `gorm:"type:varchar(36);index;not null"`
	Position           int             `gorm:"not null"`
	ProductID          string          `gorm:"type:varchar(36);not null"`
	ProductName        string          `gorm:"type:varchar(255);not null"`
	Quantity           int             `gorm:"not null"`
	UnitPrice          decimal.Decimal `gorm:"type:varchar(40);not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:varchar(40);not null"`
	DiscountAmount     decimal.Decimal `gorm:"type:varchar(40);not null"`
	TotalAmount        decimal.Decimal `gorm:"type:varchar(40);not null"`
	IsCancelled        bool            `gorm:"not null;default:false"`
}

// TableName pins the table name.
func (SaleItemModel) TableName() string {
	return "sale_items"
}
