package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
)

// ErrorType represents the class of a database error
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	ConflictError     ErrorType = "conflict"
	CheckError        ErrorType = "check"
	ConnectionError   ErrorType = "connection"
)

// PostgreSQL SQLSTATE codes the ledger reacts to
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
)

// EntityType names the table an error came from
type EntityType string

const (
	EntityUser        EntityType = "user"
	EntityTransaction EntityType = "transaction"
	EntityAppointment EntityType = "appointment"
	EntityService     EntityType = "service"
	EntityVendor      EntityType = "vendor"
	EntityCategory    EntityType = "category"
)

// Classify returns the class of err, or "" for anything unrecognized.
// SQLSTATE codes are used when the driver exposes them; the message
// patterns cover wrapped errors that lost the typed value.
func Classify(err error) ErrorType {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgSerializationFailure, pgErr.Code == pgDeadlockDetected, pgErr.Code == pgLockNotAvailable:
			return ConflictError
		case pgErr.Code == pgUniqueViolation:
			return DuplicateKeyError
		case pgErr.Code == pgCheckViolation:
			return CheckError
		case strings.HasPrefix(pgErr.Code, "08"):
			return ConnectionError
		}
		return ""
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return DuplicateKeyError
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "could not serialize access"),
		strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "lock timeout"),
		strings.Contains(msg, "could not obtain lock"):
		return ConflictError
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"):
		return DuplicateKeyError
	case strings.Contains(msg, "violates check constraint"):
		return CheckError
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "server closed"):
		return ConnectionError
	}
	return ""
}

// MapError maps a database error from an operation on entity to a domain error
func MapError(err error, entity EntityType) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity)
	}

	switch Classify(err) {
	case ConflictError:
		return fmt.Errorf("%w: %s", errs.ErrConcurrencyConflict, err.Error())
	case DuplicateKeyError:
		return duplicate(entity)
	case CheckError:
		if entity == EntityUser {
			// the non-negative balance check backs the ledger's own guard
			return errs.ErrInsufficientFunds
		}
		return fmt.Errorf("%w: %s", errs.ErrValidation, err.Error())
	case ConnectionError:
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return fmt.Errorf("%w: %s %s", errs.ErrInternalServer, entity, err.Error())
}

func notFound(entity EntityType) error {
	switch entity {
	case EntityUser:
		return errs.ErrUserNotFound
	case EntityAppointment:
		return errs.ErrAppointmentNotFound
	case EntityService:
		return errs.ErrServiceNotFound
	case EntityVendor:
		return errs.ErrVendorNotFound
	default:
		return errs.ErrNotFound
	}
}

func duplicate(entity EntityType) error {
	switch entity {
	case EntityUser:
		return errs.ErrDuplicateUser
	case EntityVendor:
		return errs.ErrDuplicateVendor
	case EntityCategory:
		return errs.ErrDuplicateCategory
	default:
		// generated IDs only collide when two writers raced on the same row
		return errs.ErrConcurrencyConflict
	}
}
