package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/persistence"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/ledger"
)

// CreateUser creates the account and its wallet in one transaction.
// Customers and admins start with the welcome bonus; vendors start with
// an empty wallet, a vendor profile and the default categories.
func (u *UserUseCase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*entity.User, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, errs.ErrInvalidUserID
	}
	if req.Role == "" {
		req.Role = entity.RoleCustomer
	}

	var created *entity.User
	err := u.ledger.Atomically(ctx, func(txCtx context.Context) error {
		users := u.ledger.UnitOfWork().GetUserRepository(txCtx)

		_, err := users.GetByID(txCtx, req.ID)
		if err == nil {
			return errs.ErrDuplicateUser
		}
		if !errors.Is(err, errs.ErrUserNotFound) {
			return err
		}

		code, err := u.uniqueReferralCode(txCtx, users)
		if err != nil {
			return err
		}

		user, err := entity.NewUser(req.ID, req.Email, req.Role, code, u.timeProvider)
		if err != nil {
			return err
		}
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Phone = req.Phone
		user.LicensePlate = req.LicensePlate

		if err := users.Create(txCtx, user); err != nil {
			return err
		}

		if user.IsVendor() {
			if _, err := u.vendors.Bootstrap(txCtx, user, req.BusinessName); err != nil {
				return fmt.Errorf("bootstrap vendor profile: %w", err)
			}
		} else if u.rewards.WelcomeBonus > 0 {
			entry, err := u.ledger.ApplyTo(txCtx, user, u.rewards.WelcomeBonus, ledger.DescriptionWelcomeBonus)
			if err != nil {
				return fmt.Errorf("grant welcome bonus: %w", err)
			}
			user.Wallet.Transactions = append(user.Wallet.Transactions, *entry)
		}

		created = user
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateUser) {
			u.logger.Warn("User already exists", map[string]any{"user_id": req.ID})
		} else {
			u.logger.Error("Failed to create user", map[string]any{
				"user_id": req.ID,
				"error":   err.Error(),
			})
		}
		return nil, err
	}

	u.logger.Info("User created", map[string]any{
		"user_id": created.ID,
		"role":    string(created.Role),
		"coins":   created.Balance(),
	})
	return created, nil
}

func (u *UserUseCase) uniqueReferralCode(txCtx context.Context, users persistence.UserRepository) (string, error) {
	for i := 0; i < maxReferralCodeAttempts; i++ {
		code := u.idGen.NewReferralCode()
		taken, err := users.ReferralCodeExists(txCtx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no unused referral code after %d attempts", errs.ErrInternalServer, maxReferralCodeAttempts)
}
