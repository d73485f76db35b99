package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientFunds       = 4001
	CodeInvalidAmount           = 4002
	CodeInvalidUserID           = 4003
	CodeInvalidReferralCode     = 4004
	CodeSelfReferral            = 4005
	CodeCodeAlreadyUsed         = 4006
	CodeInvalidStatusTransition = 4007
	CodeValidation              = 4008
	CodeDuplicateUser           = 4009
	CodeFeedbackNotAllowed      = 4010
	CodeDuplicateCategory       = 4011
	CodeDuplicateVendor         = 4012
	CodeUnauthorized            = 4013
	CodeForbidden               = 4030
	CodeUserBanned              = 4031
	CodeNotFound                = 4040
	CodeUserNotFound            = 4041
	CodeServiceNotFound         = 4042
	CodeAppointmentNotFound     = 4043
	CodeVendorNotFound          = 4044
	CodeConcurrencyConflict     = 4090

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeDatabaseConnection = 5030
)

// Base error types
var (
	// ErrInsufficientFunds is returned when a debit would drive a wallet negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned when a ledger amount is not a positive integer
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrInvalidDescription is returned when a ledger entry has no description
	ErrInvalidDescription = errors.New("description cannot be empty")

	// ErrInvalidUserID is returned when the user ID is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidReferralCode is returned when no user owns the given referral code
	ErrInvalidReferralCode = errors.New("invalid referral code")

	// ErrSelfReferral is returned when a user tries to redeem their own code
	ErrSelfReferral = errors.New("cannot use your own referral code")

	// ErrCodeAlreadyUsed is returned when a user has already redeemed a referral code
	ErrCodeAlreadyUsed = errors.New("a referral code has already been used")

	// ErrConcurrencyConflict is returned when a store transaction lost a race
	// and the retry budget was exhausted
	ErrConcurrencyConflict = errors.New("concurrent modification, please retry")

	// ErrInvalidStatusTransition is returned for an appointment status change the state machine forbids
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")

	// ErrValidation is returned when request data fails validation
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateCategory is returned when a vendor already has a category with the same name
	ErrDuplicateCategory = errors.New("category already exists for vendor")

	// ErrDuplicateVendor is returned when a user already owns a vendor profile
	ErrDuplicateVendor = errors.New("vendor profile already exists for user")

	// ErrFeedbackNotAllowed is returned when feedback is given twice or before completion
	ErrFeedbackNotAllowed = errors.New("feedback not allowed for this appointment")

	// ErrUnauthorized is returned when the caller presented no valid identity token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the actor may not perform the operation
	ErrForbidden = errors.New("operation not permitted")

	// ErrUserBanned is returned when a banned user tries to use the marketplace
	ErrUserBanned = errors.New("user is banned")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrServiceNotFound is returned when the requested service doesn't exist
	ErrServiceNotFound = fmt.Errorf("service %w", ErrNotFound)

	// ErrAppointmentNotFound is returned when the requested appointment doesn't exist
	ErrAppointmentNotFound = fmt.Errorf("appointment %w", ErrNotFound)

	// ErrVendorNotFound is returned when the requested vendor doesn't exist
	ErrVendorNotFound = fmt.Errorf("vendor %w", ErrNotFound)

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidDescription):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidReferralCode):
		return CodeInvalidReferralCode
	case errors.Is(err, ErrSelfReferral):
		return CodeSelfReferral
	case errors.Is(err, ErrCodeAlreadyUsed):
		return CodeCodeAlreadyUsed
	case errors.Is(err, ErrInvalidStatusTransition):
		return CodeInvalidStatusTransition
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRequest):
		return CodeValidation
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrFeedbackNotAllowed):
		return CodeFeedbackNotAllowed
	case errors.Is(err, ErrDuplicateCategory):
		return CodeDuplicateCategory
	case errors.Is(err, ErrDuplicateVendor):
		return CodeDuplicateVendor
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrUserBanned):
		return CodeUserBanned
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrServiceNotFound):
		return CodeServiceNotFound
	case errors.Is(err, ErrAppointmentNotFound):
		return CodeAppointmentNotFound
	case errors.Is(err, ErrVendorNotFound):
		return CodeVendorNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConcurrencyConflict):
		return CodeConcurrencyConflict
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseConnection
	default:
		return CodeInternalServer
	}
}

// IsBusinessRuleError reports whether err is a terminal business-rule violation.
// These are surfaced to the caller as-is and never retried.
func IsBusinessRuleError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidReferralCode) ||
		errors.Is(err, ErrSelfReferral) ||
		errors.Is(err, ErrCodeAlreadyUsed) ||
		errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrFeedbackNotAllowed) ||
		errors.Is(err, ErrUserBanned)
}

// IsConcurrencyConflict checks if the error is a retryable store conflict
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	UserID    string
	Requested int64
	Balance   int64
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: requested %d coins, available %d",
		e.UserID, e.Requested, e.Balance)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"requested":  e.Requested,
		"balance":    e.Balance,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID string, requested, balance int64) error {
	return &InsufficientFundsError{
		UserID:    userID,
		Requested: requested,
		Balance:   balance,
	}
}

// LedgerError describes a failed ledger operation against one wallet
type LedgerError struct {
	Operation   string
	UserID      string
	Amount      int64
	Description string
	Err         error
}

// Error implements the error interface for LedgerError
func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger %s failed for user %s (amount: %d): %v",
		e.Operation, e.UserID, e.Amount, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "ledger_error",
		"operation":   e.Operation,
		"user_id":     e.UserID,
		"amount":      e.Amount,
		"description": e.Description,
		"error":       e.Err.Error(),
		"error_code":  ErrorCode(e.Err),
	}
}

// NewLedgerError wraps err with the details of the ledger operation
func NewLedgerError(operation, userID string, amount int64, description string, err error) error {
	return &LedgerError{
		Operation:   operation,
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Err:         err,
	}
}
