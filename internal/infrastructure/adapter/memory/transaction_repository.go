package memory

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
)

type transactionRepository struct {
	store *Store
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.store.run(ctx, func(d *dataset) error {
		if !d.users.has(transaction.UserID) {
			return errs.ErrUserNotFound
		}
		d.transactions.set(transaction.ID, *transaction)
		return nil
	})
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]entity.Transaction, error) {
	var entries []entity.Transaction
	err := r.store.run(ctx, func(d *dataset) error {
		entries = d.transactions.filter(func(t entity.Transaction) bool {
			return t.UserID == userID
		})
		return nil
	})
	return entries, err
}
