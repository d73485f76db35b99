package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ""},
		{name: "serialization", err: &pgconn.PgError{Code: "40001"}, want: ConflictError},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: ConflictError},
		{name: "lock not available", err: &pgconn.PgError{Code: "55P03"}, want: ConflictError},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: DuplicateKeyError},
		{name: "check", err: &pgconn.PgError{Code: "23514"}, want: CheckError},
		{name: "connection", err: &pgconn.PgError{Code: "08006"}, want: ConnectionError},
		{name: "wrapped pg error", err: fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), want: ConflictError},
		{name: "gorm duplicate", err: gorm.ErrDuplicatedKey, want: DuplicateKeyError},
		{name: "message deadlock", err: errors.New("ERROR: deadlock detected"), want: ConflictError},
		{name: "message duplicate", err: errors.New("duplicate key value violates unique constraint"), want: DuplicateKeyError},
		{name: "message refused", err: errors.New("dial tcp: connection refused"), want: ConnectionError},
		{name: "other", err: errors.New("syntax error"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		entity EntityType
		want   error
	}{
		{name: "user not found", err: gorm.ErrRecordNotFound, entity: EntityUser, want: errs.ErrUserNotFound},
		{name: "vendor not found", err: gorm.ErrRecordNotFound, entity: EntityVendor, want: errs.ErrVendorNotFound},
		{name: "appointment not found", err: gorm.ErrRecordNotFound, entity: EntityAppointment, want: errs.ErrAppointmentNotFound},
		{name: "service not found", err: gorm.ErrRecordNotFound, entity: EntityService, want: errs.ErrServiceNotFound},
		{name: "duplicate user", err: &pgconn.PgError{Code: "23505"}, entity: EntityUser, want: errs.ErrDuplicateUser},
		{name: "duplicate vendor", err: &pgconn.PgError{Code: "23505"}, entity: EntityVendor, want: errs.ErrDuplicateVendor},
		{name: "duplicate category", err: &pgconn.PgError{Code: "23505"}, entity: EntityCategory, want: errs.ErrDuplicateCategory},
		{name: "duplicate entry", err: &pgconn.PgError{Code: "23505"}, entity: EntityTransaction, want: errs.ErrConcurrencyConflict},
		{name: "serialization", err: &pgconn.PgError{Code: "40001"}, entity: EntityUser, want: errs.ErrConcurrencyConflict},
		{name: "negative balance", err: &pgconn.PgError{Code: "23514"}, entity: EntityUser, want: errs.ErrInsufficientFunds},
		{name: "connection", err: &pgconn.PgError{Code: "08006"}, entity: EntityUser, want: errs.ErrDatabaseConnection},
		{name: "unknown", err: errors.New("boom"), entity: EntityService, want: errs.ErrInternalServer},
		{name: "canceled", err: context.Canceled, entity: EntityUser, want: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tt.err, tt.entity), tt.want)
		})
	}

	assert.NoError(t, MapError(nil, EntityUser))
	assert.True(t, errs.IsConcurrencyConflict(MapError(&pgconn.PgError{Code: "40P01"}, EntityVendor)))
}
