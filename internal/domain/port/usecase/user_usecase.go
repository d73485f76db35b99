package usecase

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// CreateUserRequest carries the data of a signup
type CreateUserRequest struct {
	ID           string // From the identity provider
	Email        string
	Role         entity.Role
	FirstName    string
	LastName     string
	Phone        string
	LicensePlate string
	BusinessName string // Vendors only
}

// UserUseCase defines methods for account lifecycle
type UserUseCase interface {
	// CreateUser creates the account and bootstraps its wallet.
	// Non-vendors receive the welcome bonus, vendors start empty with a vendor profile.
	CreateUser(ctx context.Context, req CreateUserRequest) (*entity.User, error)

	// GetUser returns a user by ID
	GetUser(ctx context.Context, userID string) (*entity.User, error)

	// SetUserBanned bans or unbans a user
	SetUserBanned(ctx context.Context, userID string, banned bool) (*entity.User, error)
}
