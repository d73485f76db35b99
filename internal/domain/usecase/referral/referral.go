package referral

import (
	"context"
	"errors"
	"strings"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/ledger"
)

var _ usecase.ReferralUseCase = (*Service)(nil)

// Service redeems referral codes against the ledger
type Service struct {
	ledger       *ledger.Ledger
	rewards      ledger.Rewards
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new referral service
func NewService(
	l *ledger.Ledger,
	rewards ledger.Rewards,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		ledger:       l,
		rewards:      rewards,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// NormalizeCode canonicalizes user input into the stored code format
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ApplyReferralCode redeems code for userID. All four effects (both credits,
// the referrer's count and the referred user's used code) commit together.
// The used-code check is made on the locked row, so replays and races are
// rejected with ErrCodeAlreadyUsed.
func (s *Service) ApplyReferralCode(ctx context.Context, userID, code string) (*usecase.ReferralResult, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	code = NormalizeCode(code)
	if len(code) != entity.ReferralCodeLength {
		return nil, errs.ErrInvalidReferralCode
	}

	var result *usecase.ReferralResult
	err := s.ledger.Atomically(ctx, func(txCtx context.Context) error {
		users := s.ledger.UnitOfWork().GetUserRepository(txCtx)

		owner, err := users.GetByReferralCode(txCtx, code)
		if errors.Is(err, errs.ErrUserNotFound) {
			return errs.ErrInvalidReferralCode
		}
		if err != nil {
			return err
		}
		if owner.ID == userID {
			return errs.ErrSelfReferral
		}

		referrer, referred, err := lockPair(txCtx, users, owner.ID, userID)
		if err != nil {
			return err
		}
		if referred.HasUsedReferralCode() {
			return errs.ErrCodeAlreadyUsed
		}
		if referred.Banned {
			return errs.ErrUserBanned
		}

		if err := referred.MarkReferralUsed(code, s.timeProvider); err != nil {
			return err
		}
		referrer.IncrementReferralCount(s.timeProvider)

		if err := s.reward(txCtx, referrer, s.rewards.ReferrerReward, ledger.DescriptionReferralReward); err != nil {
			return err
		}
		if err := s.reward(txCtx, referred, s.rewards.ReferredReward, ledger.DescriptionReferralSignup); err != nil {
			return err
		}

		result = &usecase.ReferralResult{
			ReferrerID:      referrer.ID,
			ReferrerBalance: referrer.Balance(),
			ReferredID:      referred.ID,
			ReferredBalance: referred.Balance(),
		}
		return nil
	})
	if err != nil {
		fields := map[string]any{
			"user_id": userID,
			"code":    code,
			"error":   err.Error(),
		}
		if errs.IsBusinessRuleError(err) || errs.IsNotFoundError(err) {
			s.logger.Warn("Referral code rejected", fields)
		} else {
			s.logger.Error("Referral redemption failed", fields)
		}
		return nil, err
	}

	s.logger.Info("Referral code redeemed", map[string]any{
		"referrer_id":      result.ReferrerID,
		"referred_id":      result.ReferredID,
		"referrer_balance": result.ReferrerBalance,
		"referred_balance": result.ReferredBalance,
	})
	return result, nil
}

// reward credits a referral bonus. A bonus configured as zero writes no
// entry, but the user's referral state is still saved.
func (s *Service) reward(txCtx context.Context, user *entity.User, amount int64, description string) error {
	if amount == 0 {
		return s.ledger.UnitOfWork().GetUserRepository(txCtx).Update(txCtx, user)
	}
	_, err := s.ledger.ApplyTo(txCtx, user, amount, description)
	return err
}

type userLocker interface {
	GetForUpdate(ctx context.Context, id string) (*entity.User, error)
}

// lockPair locks both users in ascending ID order so two opposite
// redemptions can't deadlock each other
func lockPair(ctx context.Context, users userLocker, referrerID, referredID string) (*entity.User, *entity.User, error) {
	firstID, secondID := referrerID, referredID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := users.GetForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := users.GetForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == referrerID {
		return first, second, nil
	}
	return second, first, nil
}
