// Package memory provides an in-process implementation of the persistence
// ports. Transactions are fully serialized: Begin takes the store lock and
// works on a private copy of the data, which Commit publishes and Rollback
// discards.
package memory

import (
	"context"
	"errors"
	"maps"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/persistence"
)

// txKey is the context key for the in-flight transaction
type txKey struct{}

var errNoTransaction = errors.New("no transaction in context")

type dataset struct {
	users        *table[entity.User]
	referrals    map[string]string // referral code -> user ID
	transactions *table[entity.Transaction]
	appointments *table[entity.Appointment]
	services     *table[entity.Service]
	vendors      *table[entity.Vendor]
	categories   *table[entity.ServiceCategory]
}

func newDataset() *dataset {
	return &dataset{
		users:        newTable[entity.User](),
		referrals:    make(map[string]string),
		transactions: newTable[entity.Transaction](),
		appointments: newTable[entity.Appointment](),
		services:     newTable[entity.Service](),
		vendors:      newTable[entity.Vendor](),
		categories:   newTable[entity.ServiceCategory](),
	}
}

func (d *dataset) clone() *dataset {
	return &dataset{
		users:        d.users.clone(),
		referrals:    maps.Clone(d.referrals),
		transactions: d.transactions.clone(),
		appointments: d.appointments.clone(),
		services:     d.services.clone(),
		vendors:      d.vendors.clone(),
		categories:   d.categories.clone(),
	}
}

type txState struct {
	data *dataset
	done bool
}

// Store is an in-memory UnitOfWork
type Store struct {
	sem       chan struct{} // capacity 1; held by a transaction or a single call
	data      *dataset
	conflicts int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sem:  make(chan struct{}, 1),
		data: newDataset(),
	}
}

var _ persistence.UnitOfWork = (*Store)(nil)

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

// InjectConflicts makes the next n commits fail with ErrConcurrencyConflict
// after discarding their writes, the way a lost serialization race would.
func (s *Store) InjectConflicts(n int) {
	s.sem <- struct{}{}
	s.conflicts = n
	s.release()
}

// Begin starts a new transaction and returns a transactional context
func (s *Store) Begin(ctx context.Context) (context.Context, error) {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return nil, errors.New("nested transactions are not supported")
	}
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return context.WithValue(ctx, txKey{}, &txState{data: s.data.clone()}), nil
}

// Commit publishes the transaction's writes
func (s *Store) Commit(ctx context.Context) error {
	tx, err := activeTx(ctx)
	if err != nil {
		return err
	}
	tx.done = true
	defer s.release()

	if s.conflicts > 0 {
		s.conflicts--
		return errs.ErrConcurrencyConflict
	}
	s.data = tx.data
	return nil
}

// Rollback discards the transaction's writes
func (s *Store) Rollback(ctx context.Context) error {
	tx, err := activeTx(ctx)
	if err != nil {
		return err
	}
	tx.done = true
	s.release()
	return nil
}

func activeTx(ctx context.Context) (*txState, error) {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok || tx.done {
		return nil, errNoTransaction
	}
	return tx, nil
}

// run executes fn against the transaction's data when ctx carries one,
// otherwise against the live data under the store lock
func (s *Store) run(ctx context.Context, fn func(d *dataset) error) error {
	if tx, ok := ctx.Value(txKey{}).(*txState); ok {
		if tx.done {
			return errNoTransaction
		}
		return fn(tx.data)
	}

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return fn(s.data)
}

// GetUserRepository returns a user repository bound to the current transaction
func (s *Store) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return &userRepository{store: s}
}

// GetTransactionRepository returns a ledger repository bound to the current transaction
func (s *Store) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return &transactionRepository{store: s}
}

// GetAppointmentRepository returns an appointment repository bound to the current transaction
func (s *Store) GetAppointmentRepository(ctx context.Context) persistence.AppointmentRepository {
	return &appointmentRepository{store: s}
}

// GetServiceRepository returns a service repository bound to the current transaction
func (s *Store) GetServiceRepository(ctx context.Context) persistence.ServiceRepository {
	return &serviceRepository{store: s}
}

// GetVendorRepository returns a vendor repository bound to the current transaction
func (s *Store) GetVendorRepository(ctx context.Context) persistence.VendorRepository {
	return &vendorRepository{store: s}
}

// GetCategoryRepository returns a category repository bound to the current transaction
func (s *Store) GetCategoryRepository(ctx context.Context) persistence.CategoryRepository {
	return &categoryRepository{store: s}
}
