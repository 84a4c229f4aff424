package persistence

import (
	"context"

	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionManager
// ===========================

// GORMTransactionManager implements shared.TransactionManager on gorm.DB.Transaction.
//
// Guarantees:
//   - fn returns nil: commit
//   - fn returns an error: rollback, the error is returned unchanged
//   - fn panics: rollback, then the panic propagates
type GORMTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager returns a manager bound to db.
func NewGORMTransactionManager(db *gorm.DB) *GORMTransactionManager {
	return &GORMTransactionManager{db: db}
}

// InTransaction implements shared.TransactionManager.
func (m *GORMTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMTransactionContext(tx))
	})
}
