package ledger

import (
	"time"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/persistence"
)

// Ledger descriptions written by the wallet flows
const (
	DescriptionWelcomeBonus    = "Welcome bonus for new member"
	DescriptionReferralReward  = "Referral reward"
	DescriptionReferralSignup  = "Referral signup bonus"
	DescriptionBookingDiscount = "Coins used for booking discount"
	descriptionServicePrefix   = "Coins earned from service: "
)

// ServiceRewardDescription describes the completion reward for a service
func ServiceRewardDescription(serviceName string) string {
	return descriptionServicePrefix + serviceName
}

// RetryConfig holds the retry budget for conflicting store transactions
type RetryConfig struct {
	MaxRetries    int
	RetryInterval time.Duration
	MaxInterval   time.Duration
	JitterFactor  float64 // Factor to add randomness to retry intervals (0.0-1.0)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		RetryInterval: 20 * time.Millisecond,
		MaxInterval:   500 * time.Millisecond,
		JitterFactor:  0.2,
	}
}

// Rewards holds the coin amounts granted by the bonus flows
type Rewards struct {
	WelcomeBonus   int64
	ReferrerReward int64
	ReferredReward int64
}

// DefaultRewards returns the standard marketplace bonuses
func DefaultRewards() Rewards {
	return Rewards{
		WelcomeBonus:   10,
		ReferrerReward: 20,
		ReferredReward: 15,
	}
}

// Ledger owns every change to a wallet. All balance updates in the system
// are made through Apply inside a transaction opened by Atomically.
type Ledger struct {
	uow          persistence.UnitOfWork
	idGen        coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	retry        RetryConfig
}

// NewLedger creates a new Ledger
func NewLedger(
	uow persistence.UnitOfWork,
	idGen coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	retry RetryConfig,
) *Ledger {
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	return &Ledger{
		uow:          uow,
		idGen:        idGen,
		timeProvider: timeProvider,
		logger:       logger,
		retry:        retry,
	}
}

// UnitOfWork exposes the store the ledger runs against
func (l *Ledger) UnitOfWork() persistence.UnitOfWork {
	return l.uow
}
