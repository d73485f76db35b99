package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
)

// AdminAccount identifies an administrator by identity-provider ID
type AdminAccount struct {
	ID    string
	Email string
}

// EnsureAdmins creates the configured admin accounts that don't exist yet.
// Existing accounts are left untouched, so running it on every start is safe.
func (u *UserUseCase) EnsureAdmins(ctx context.Context, admins []AdminAccount) error {
	created := 0
	for _, admin := range admins {
		_, err := u.CreateUser(ctx, usecase.CreateUserRequest{
			ID:    admin.ID,
			Email: admin.Email,
			Role:  entity.RoleAdmin,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, errs.ErrDuplicateUser):
			existing, getErr := u.GetUser(ctx, admin.ID)
			if getErr != nil {
				return getErr
			}
			if !existing.IsAdmin() {
				u.logger.Warn("Configured admin exists with another role", map[string]any{
					"user_id": admin.ID,
					"role":    string(existing.Role),
				})
			}
		default:
			return fmt.Errorf("create admin %s: %w", admin.ID, err)
		}
	}

	u.logger.Info("Admin accounts ensured", map[string]any{
		"configured": len(admins),
		"created":    created,
	})
	return nil
}
