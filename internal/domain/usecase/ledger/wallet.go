package ledger

import (
	"context"
	"errors"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
)

var _ usecase.LedgerUseCase = (*Ledger)(nil)

// Credit adds amount coins to the user's wallet
func (l *Ledger) Credit(ctx context.Context, userID string, amount int64, description string) (*entity.Transaction, error) {
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	return l.ApplyEntry(ctx, userID, amount, description)
}

// Debit removes amount coins from the user's wallet
func (l *Ledger) Debit(ctx context.Context, userID string, amount int64, description string) (*entity.Transaction, error) {
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	return l.ApplyEntry(ctx, userID, -amount, description)
}

// ApplyEntry writes one signed entry in its own transaction
func (l *Ledger) ApplyEntry(ctx context.Context, userID string, signedAmount int64, description string) (*entity.Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	var entry *entity.Transaction
	var balance int64
	err := l.Atomically(ctx, func(txCtx context.Context) error {
		e, user, err := l.Apply(txCtx, userID, signedAmount, description)
		if err != nil {
			return err
		}
		entry, balance = e, user.Balance()
		return nil
	})
	if err != nil {
		operation := "credit"
		amount := signedAmount
		if signedAmount < 0 {
			operation, amount = "debit", -signedAmount
		}
		ledgerErr := errs.NewLedgerError(operation, userID, amount, description, err)
		l.logFailure(ledgerErr.(*errs.LedgerError))
		return nil, ledgerErr
	}

	l.logger.Info("Ledger entry applied", map[string]any{
		"user_id":        userID,
		"transaction_id": entry.ID,
		"type":           string(entry.Type),
		"amount":         entry.Amount,
		"balance":        balance,
	})
	return entry, nil
}

// GetWallet reads the balance and the full ledger from one consistent snapshot
func (l *Ledger) GetWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	var wallet *entity.Wallet
	err := l.Atomically(ctx, func(txCtx context.Context) error {
		user, err := l.uow.GetUserRepository(txCtx).GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		entries, err := l.uow.GetTransactionRepository(txCtx).ListByUser(txCtx, userID)
		if err != nil {
			return err
		}
		wallet = &entity.Wallet{Coins: user.Balance(), Transactions: entries}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (l *Ledger) logFailure(err *errs.LedgerError) {
	var insufficient *errs.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		l.logger.Warn("Debit rejected", insufficient.LogFields())
	case errs.IsNotFoundError(err) || errs.IsBusinessRuleError(err):
		l.logger.Warn("Ledger entry rejected", err.LogFields())
	default:
		l.logger.Error("Ledger entry failed", err.LogFields())
	}
}
