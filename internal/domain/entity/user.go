package entity

import (
	"strings"
	"time"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

// Role is the marketplace role of an account
type Role string

// Roles
const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// ReferralCodeLength is the length of every generated referral code
const ReferralCodeLength = 8

// IsValidRole reports whether s names a known role
func IsValidRole(s string) bool {
	switch Role(s) {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// Wallet holds the coin balance and its ledger.
// Coins is a materialized view of Transactions and must always equal LogSum.
type Wallet struct {
	Coins        int64
	Transactions []Transaction
}

// LogSum recomputes the balance from the ledger
func (w *Wallet) LogSum() int64 {
	var sum int64
	for i := range w.Transactions {
		sum += w.Transactions[i].SignedAmount()
	}
	return sum
}

// User represents a marketplace account with exactly one wallet
type User struct {
	ID               string // Supplied by the identity provider
	Email            string
	Role             Role
	FirstName        string
	LastName         string
	Phone            string
	LicensePlate     string
	Banned           bool
	Wallet           Wallet
	ReferralCode     string
	ReferralCount    int64
	UsedReferralCode string // Empty until a code has been redeemed
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUser creates a user with an empty wallet
func NewUser(id, email string, role Role, referralCode string, timeProvider coreport.TimeProvider) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.ErrInvalidUserID
	}
	if strings.TrimSpace(email) == "" {
		return nil, errs.ErrValidation
	}
	if !IsValidRole(string(role)) {
		return nil, errs.ErrValidation
	}
	if len(referralCode) != ReferralCodeLength {
		return nil, errs.ErrValidation
	}

	now := timeProvider.Now()
	return &User{
		ID:           id,
		Email:        email,
		Role:         role,
		ReferralCode: referralCode,
		Wallet:       Wallet{Transactions: []Transaction{}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Balance returns the current coin balance
func (u *User) Balance() int64 {
	return u.Wallet.Coins
}

// IsVendor reports whether the account belongs to a vendor
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// IsAdmin reports whether the account has admin rights
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasUsedReferralCode reports whether the user already redeemed a code
func (u *User) HasUsedReferralCode() bool {
	return u.UsedReferralCode != ""
}

// CanDebit checks if the wallet can cover the given amount
func (u *User) CanDebit(amount int64) bool {
	return u.Wallet.Coins >= amount
}

// ApplyEntry adjusts the balance by the entry's signed amount.
// A debit that would drive the balance negative is rejected and leaves the wallet untouched,
// as is a credit that would overflow the balance.
// Only the balance is changed; the entry itself is persisted by the ledger repository.
func (u *User) ApplyEntry(entry *Transaction, timeProvider coreport.TimeProvider) error {
	next := u.Wallet.Coins + entry.SignedAmount()
	if entry.IsCredit() && next < u.Wallet.Coins {
		return errs.ErrInvalidAmount
	}
	if next < 0 {
		return errs.NewInsufficientFundsError(u.ID, entry.Amount, u.Wallet.Coins)
	}

	u.Wallet.Coins = next
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// MarkReferralUsed records the permanently consumed referral code
func (u *User) MarkReferralUsed(code string, timeProvider coreport.TimeProvider) error {
	if u.HasUsedReferralCode() {
		return errs.ErrCodeAlreadyUsed
	}
	u.UsedReferralCode = code
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// IncrementReferralCount bumps the number of successful referrals
func (u *User) IncrementReferralCount(timeProvider coreport.TimeProvider) {
	u.ReferralCount++
	u.UpdatedAt = timeProvider.Now()
}
