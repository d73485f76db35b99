package usecase

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// ReferralResult reports the balances after a successful referral
type ReferralResult struct {
	ReferrerID      string
	ReferrerBalance int64
	ReferredID      string
	ReferredBalance int64
}

// LedgerUseCase defines the wallet operations
type LedgerUseCase interface {
	// Credit adds a positive amount to the user's wallet
	Credit(ctx context.Context, userID string, amount int64, description string) (*entity.Transaction, error)

	// Debit removes a positive amount from the user's wallet.
	// Fails with ErrInsufficientFunds when the balance can't cover it.
	Debit(ctx context.Context, userID string, amount int64, description string) (*entity.Transaction, error)

	// ApplyEntry writes one signed entry; every wallet change goes through it
	ApplyEntry(ctx context.Context, userID string, signedAmount int64, description string) (*entity.Transaction, error)

	// GetWallet returns the balance together with the full ledger
	GetWallet(ctx context.Context, userID string) (*entity.Wallet, error)
}

// ReferralUseCase redeems referral codes
type ReferralUseCase interface {
	// ApplyReferralCode credits both parties once.
	// Fails with ErrInvalidReferralCode, ErrSelfReferral or ErrCodeAlreadyUsed.
	ApplyReferralCode(ctx context.Context, userID, code string) (*ReferralResult, error)
}
