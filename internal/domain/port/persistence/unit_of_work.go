package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency.
//
// Repositories obtained with a transactional context take part in that
// transaction; with a plain context they run each call on their own.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context.
	// A lost serialization race is reported as ErrConcurrencyConflict.
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the current transaction
	GetUserRepository(ctx context.Context) UserRepository

	// GetTransactionRepository returns a ledger repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetAppointmentRepository returns an appointment repository bound to the current transaction
	GetAppointmentRepository(ctx context.Context) AppointmentRepository

	// GetServiceRepository returns a service repository bound to the current transaction
	GetServiceRepository(ctx context.Context) ServiceRepository

	// GetVendorRepository returns a vendor repository bound to the current transaction
	GetVendorRepository(ctx context.Context) VendorRepository

	// GetCategoryRepository returns a category repository bound to the current transaction
	GetCategoryRepository(ctx context.Context) CategoryRepository
}
