package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/persistence"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/repository"
)

// txKey is the context key for the in-flight *gorm.DB transaction
type txKey struct{}

// UnitOfWork implements the unit of work pattern for database transactions
type UnitOfWork struct {
	db     *gorm.DB
	logger coreport.Logger
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger) *UnitOfWork {
	return &UnitOfWork{
		db:     db,
		logger: logger,
	}
}

// Begin starts a SERIALIZABLE transaction. Together with row locks this
// makes lost updates surface as serialization failures, which the ledger
// retries.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return nil, errors.New("nested transactions are not supported")
	}

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return nil, repository.MapError(tx.Error, repository.EntityTransaction)
	}

	return context.WithValue(ctx, txKey{}, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	if err := tx.Commit().Error; err != nil {
		mapped := repository.MapError(err, repository.EntityTransaction)
		u.logger.Warn("Failed to commit transaction", map[string]any{
			"error":    err.Error(),
			"conflict": repository.Classify(err) == repository.ConflictError,
		})
		return mapped
	}
	return nil
}

// Rollback rolls back the current transaction. Rolling back a transaction
// that already ended is not an error.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	err := tx.Rollback().Error
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}

	u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
	return fmt.Errorf("failed to rollback transaction: %w", err)
}

// GetUserRepository returns a user repository in the current transaction
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return repository.NewUserRepository(u.dbFromContext(ctx), u.logger)
}

// GetTransactionRepository returns a ledger repository in the current transaction
func (u *UnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return repository.NewTransactionRepository(u.dbFromContext(ctx), u.logger)
}

// GetAppointmentRepository returns an appointment repository in the current transaction
func (u *UnitOfWork) GetAppointmentRepository(ctx context.Context) persistence.AppointmentRepository {
	return repository.NewAppointmentRepository(u.dbFromContext(ctx), u.logger)
}

// GetServiceRepository returns a service repository in the current transaction
func (u *UnitOfWork) GetServiceRepository(ctx context.Context) persistence.ServiceRepository {
	return repository.NewServiceRepository(u.dbFromContext(ctx))
}

// GetVendorRepository returns a vendor repository in the current transaction
func (u *UnitOfWork) GetVendorRepository(ctx context.Context) persistence.VendorRepository {
	return repository.NewVendorRepository(u.dbFromContext(ctx), u.logger)
}

// GetCategoryRepository returns a category repository in the current transaction
func (u *UnitOfWork) GetCategoryRepository(ctx context.Context) persistence.CategoryRepository {
	return repository.NewCategoryRepository(u.dbFromContext(ctx))
}

func (u *UnitOfWork) dbFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
