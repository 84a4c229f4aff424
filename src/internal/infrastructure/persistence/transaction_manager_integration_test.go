package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
)

// ===========================
// TransactionManager integration tests
// ===========================

// Test 1: an error from fn rolls the write back
func TestInTransaction_RollbackOnError(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := NewGORMSaleRepository(db, nil)
	factory, _ := newTestFactory()
	s := newSaleWithItems(t, factory, 2)

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		_, err := repo.Create(tx, s)
		require.NoError(t, err, "create should succeed inside the transaction")
		return errors.New("simulated failure")
	})

	// Assert
	require.EqualError(t, err, "simulated failure")
	_, err = repo.GetByID(nil, s.ID())
	assert.ErrorIs(t, err, sale.ErrSaleNotFound, "sale should not exist after rollback")
}

// Test 2: a nil return commits
func TestInTransaction_CommitOnSuccess(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := NewGORMSaleRepository(db, nil)
	factory, _ := newTestFactory()
	s := newSaleWithItems(t, factory, 5)

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		_, err := repo.Create(tx, s)
		return err
	})

	// Assert
	require.NoError(t, err)
	loaded, err := repo.GetByID(nil, s.ID())
	require.NoError(t, err)
	requireDecimal(t, "45.00", loaded.TotalAmount())
}

// Test 3: a panic rolls back and propagates
func TestInTransaction_RollbackOnPanic(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := NewGORMSaleRepository(db, nil)
	factory, _ := newTestFactory()
	s := newSaleWithItems(t, factory, 1)

	// Act & Assert
	assert.PanicsWithValue(t, "boom", func() {
		_ = txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
			if _, err := repo.Create(tx, s); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, err := repo.GetByID(nil, s.ID())
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
}

// Test 4: several writes in one transaction land together
func TestInTransaction_MultipleWritesAreAtomic(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := NewGORMSaleRepository(db, nil)
	factory, _ := newTestFactory()
	first := newSaleWithItems(t, factory, 1)
	second := newSaleWithItems(t, factory, 4)

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		if _, err := repo.Create(tx, first); err != nil {
			return err
		}
		// Same ID: the second insert must fail and take the first with it.
		if _, err := repo.Create(tx, first); err != nil {
			return err
		}
		_, err := repo.Create(tx, second)
		return err
	})

	// Assert
	require.ErrorIs(t, err, sale.ErrSaleAlreadyExists)
	all, err := repo.GetAll(nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}
