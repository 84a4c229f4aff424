package sale

import "github.com/jackyeh168/sales_engine/src/internal/domain/shared"

// ===========================
// Sale repository port
// ===========================

// SaleRepository persists whole sales, items included. Partial loads are not
// supported.
//
// Transaction usage:
//
//	txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
//	    s, err := repo.GetByID(tx, id)
//	    if err != nil {
//	        return err
//	    }
//	    if err := s.CancelItem(itemID); err != nil {
//	        return err
//	    }
//	    _, err = repo.Update(tx, s)
//	    return err
//	})
type SaleRepository interface {
	// GetByID loads a sale with all its items.
	// Errors: ErrSaleNotFound.
	GetByID(tx shared.TransactionContext, id SaleID) (*Sale, error)

	// Create stores a new sale.
	// Errors: ErrSaleAlreadyExists.
	Create(tx shared.TransactionContext, s *Sale) (*Sale, error)

	// Update stores the sale when its version matches the stored one and
	// returns the reloaded sale with the bumped version.
	// Errors: ErrSaleNotFound, ErrConcurrentModification.
	Update(tx shared.TransactionContext, s *Sale) (*Sale, error)

	// GetAll returns every sale, newest first.
	GetAll(tx shared.TransactionContext) ([]*Sale, error)
}
