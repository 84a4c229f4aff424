package persistence

import (
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionContext
// ===========================

// gormTransactionContext carries the *gorm.DB of an open transaction.
// Only this package can unwrap it, so the driver never leaks upward.
type gormTransactionContext struct {
	db *gorm.DB
}

// NewGORMTransactionContext wraps db as a shared.TransactionContext.
func NewGORMTransactionContext(db *gorm.DB) shared.TransactionContext {
	return &gormTransactionContext{db: db}
}

// GetDB returns the transaction handle.
func (ctx *gormTransactionContext) GetDB() *gorm.DB {
	return ctx.db
}
