package user

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/ledger"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/vendor"
)

// maxReferralCodeAttempts bounds the search for an unused referral code
const maxReferralCodeAttempts = 5

var _ usecase.UserUseCase = (*UserUseCase)(nil)

// UserUseCase handles user-related business logic
type UserUseCase struct {
	ledger       *ledger.Ledger
	vendors      *vendor.Service
	rewards      ledger.Rewards
	idGen        coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	l *ledger.Ledger,
	vendors *vendor.Service,
	rewards ledger.Rewards,
	idGen coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UserUseCase {
	return &UserUseCase{
		ledger:       l,
		vendors:      vendors,
		rewards:      rewards,
		idGen:        idGen,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetUser returns a user's profile and balance
func (u *UserUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	return u.ledger.UnitOfWork().GetUserRepository(ctx).GetByID(ctx, userID)
}

// SetUserBanned bans or unbans a user. A vendor's profile follows the
// account so banned vendors can't be booked.
func (u *UserUseCase) SetUserBanned(ctx context.Context, userID string, banned bool) (*entity.User, error) {
	var user *entity.User
	err := u.ledger.Atomically(ctx, func(txCtx context.Context) error {
		uow := u.ledger.UnitOfWork()
		users := uow.GetUserRepository(txCtx)

		usr, err := users.GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		usr.Banned = banned
		usr.UpdatedAt = u.timeProvider.Now()
		if err := users.Update(txCtx, usr); err != nil {
			return err
		}

		if usr.IsVendor() {
			vendors := uow.GetVendorRepository(txCtx)
			v, err := vendors.GetByUserID(txCtx, usr.ID)
			if err != nil {
				return err
			}
			v.Banned = banned
			v.UpdatedAt = usr.UpdatedAt
			if err := vendors.Update(txCtx, v); err != nil {
				return err
			}
		}

		user = usr
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("User ban status changed", map[string]any{
		"user_id": userID,
		"banned":  banned,
	})
	return user, nil
}
