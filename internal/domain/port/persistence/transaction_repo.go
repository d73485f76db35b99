package persistence

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// TransactionRepository stores append-only ledger entries
type TransactionRepository interface {
	// Create appends a ledger entry
	//
	// Possible errors:
	// - ErrUserNotFound: If referenced user does not exist
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// ListByUser returns a user's entries in insertion order
	ListByUser(ctx context.Context, userID string) ([]entity.Transaction, error)
}
