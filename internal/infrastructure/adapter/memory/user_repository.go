package memory

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
)

type userRepository struct {
	store *Store
}

// stored users never carry ledger entries; those live in the transactions table
func storedUser(user *entity.User) entity.User {
	u := *user
	u.Wallet.Transactions = nil
	return u
}

func loadedUser(u entity.User) *entity.User {
	u.Wallet.Transactions = []entity.Transaction{}
	return &u
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user *entity.User
	err := r.store.run(ctx, func(d *dataset) error {
		u, ok := d.users.get(id)
		if !ok {
			return errs.ErrUserNotFound
		}
		user = loadedUser(u)
		return nil
	})
	return user, err
}

// GetForUpdate is GetByID; a memory transaction already holds the whole store
func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	var user *entity.User
	err := r.store.run(ctx, func(d *dataset) error {
		id, ok := d.referrals[code]
		if !ok {
			return errs.ErrUserNotFound
		}
		u, ok := d.users.get(id)
		if !ok {
			return errs.ErrUserNotFound
		}
		user = loadedUser(u)
		return nil
	})
	return user, err
}

func (r *userRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.store.run(ctx, func(d *dataset) error {
		_, exists = d.referrals[code]
		return nil
	})
	return exists, err
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.store.run(ctx, func(d *dataset) error {
		if d.users.has(user.ID) {
			return errs.ErrDuplicateUser
		}
		if _, taken := d.referrals[user.ReferralCode]; taken {
			return errs.ErrDuplicateUser
		}
		d.users.set(user.ID, storedUser(user))
		d.referrals[user.ReferralCode] = user.ID
		return nil
	})
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.store.run(ctx, func(d *dataset) error {
		existing, ok := d.users.get(user.ID)
		if !ok {
			return errs.ErrUserNotFound
		}
		updated := storedUser(user)
		// identity fields are immutable
		updated.ReferralCode = existing.ReferralCode
		updated.CreatedAt = existing.CreatedAt
		d.users.set(user.ID, updated)
		return nil
	})
}
