package ledger

import (
	"context"
	"fmt"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// Apply writes one signed entry to a user's wallet inside the transaction
// carried by txCtx. The user row is locked first so the balance check sees
// the authoritative value. Returns the entry and the updated user.
func (l *Ledger) Apply(
	txCtx context.Context,
	userID string,
	signedAmount int64,
	description string,
) (*entity.Transaction, *entity.User, error) {
	user, err := l.uow.GetUserRepository(txCtx).GetForUpdate(txCtx, userID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := l.ApplyTo(txCtx, user, signedAmount, description)
	if err != nil {
		return nil, nil, err
	}
	return entry, user, nil
}

// ApplyTo is Apply for a user the caller has already locked in txCtx.
// The entry is appended and the balance persisted in the same transaction;
// a rejected debit writes nothing.
func (l *Ledger) ApplyTo(
	txCtx context.Context,
	user *entity.User,
	signedAmount int64,
	description string,
) (*entity.Transaction, error) {
	entry, err := entity.NewTransaction(l.idGen.NewID(), user.ID, signedAmount, description, l.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := user.ApplyEntry(entry, l.timeProvider); err != nil {
		return nil, err
	}

	if err := l.uow.GetTransactionRepository(txCtx).Create(txCtx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}
	if err := l.uow.GetUserRepository(txCtx).Update(txCtx, user); err != nil {
		return nil, fmt.Errorf("update wallet balance: %w", err)
	}
	return entry, nil
}
