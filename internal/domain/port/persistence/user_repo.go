package persistence

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// UserRepository defines essential methods to interact with user data.
// Returned users carry the wallet balance but not the ledger entries;
// those are read through TransactionRepository.
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetForUpdate retrieves a user and locks the row until the surrounding
	// transaction ends. Balance checks must be made against this read.
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrConcurrencyConflict: If the lock could not be taken
	GetForUpdate(ctx context.Context, id string) (*entity.User, error)

	// GetByReferralCode retrieves the owner of a referral code
	//
	// Possible errors:
	// - ErrUserNotFound: If no user owns the code
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)

	// ReferralCodeExists checks whether a referral code is already taken
	ReferralCodeExists(ctx context.Context, code string) (bool, error)

	// Create creates a new user
	//
	// Possible errors:
	// - ErrDuplicateUser: If user with same ID already exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// Update persists balance, referral and profile fields of an existing user
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, user *entity.User) error
}
