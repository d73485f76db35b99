package entity

import (
	"math"
	"strings"
	"time"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	tport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

// TransactionType tells whether a ledger entry adds or removes coins
type TransactionType string

// Transaction types
const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// Transaction is one append-only ledger entry in a user's wallet
type Transaction struct {
	ID          string          // Unique identifier for the entry
	UserID      string          // Owner of the wallet
	Amount      int64           // Always positive; the sign comes from Type
	Type        TransactionType // credit or debit
	Description string          // Human readable reason
	Timestamp   time.Time       // When the entry was written
}

// NewTransaction builds a ledger entry from a signed amount.
// Positive amounts become credits, negative amounts become debits.
func NewTransaction(
	id string,
	userID string,
	signedAmount int64,
	description string,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if signedAmount == 0 || signedAmount == math.MinInt64 {
		return nil, errs.ErrInvalidAmount
	}
	if strings.TrimSpace(description) == "" {
		return nil, errs.ErrInvalidDescription
	}

	txType := TypeCredit
	amount := signedAmount
	if signedAmount < 0 {
		txType = TypeDebit
		amount = -signedAmount
	}

	return &Transaction{
		ID:          id,
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Description: description,
		Timestamp:   timeProvider.Now(),
	}, nil
}

// SignedAmount returns the amount with the sign implied by the type
func (t *Transaction) SignedAmount() int64 {
	if t.Type == TypeDebit {
		return -t.Amount
	}
	return t.Amount
}

// IsCredit returns true if this entry increases the balance
func (t *Transaction) IsCredit() bool {
	return t.Type == TypeCredit
}

// IsDebit returns true if this entry decreases the balance
func (t *Transaction) IsDebit() bool {
	return t.Type == TypeDebit
}

// IsValidTransactionType reports whether s names a known transaction type
func IsValidTransactionType(s string) bool {
	return s == string(TypeCredit) || s == string(TypeDebit)
}
