package shared

import "context"

// TransactionContext is an opaque handle to an open unit of work.
//
// Contract:
// - ctx != nil: the repository call joins the caller's transaction
// - ctx == nil: the repository uses auto-commit (read-only lookups only)
//
// Writes (Create, Update) must always run inside TransactionManager.InTransaction.
//
// This is a marker interface. Infrastructure supplies the concrete type (a
// GORM handle) so the domain and application layers never see the driver.
type TransactionContext interface{}

// TransactionManager runs fn inside a transaction.
//
// fn returning an error, or panicking, rolls the transaction back; the panic
// is re-raised after rollback. Returning nil commits. ctx bounds the whole
// unit of work (request cancellation, deadlines).
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(tx TransactionContext) error) error
}
