package entity

import (
	"testing"
	"time"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coremocks "github.com/carwash-market/coin-ledger/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()

	t.Run("Positive amount becomes a credit", func(t *testing.T) {
		tx, err := NewTransaction("tx-1", "uid-1", 20, "Referral reward", mockTime)

		require.NoError(t, err)
		assert.Equal(t, "tx-1", tx.ID)
		assert.Equal(t, "uid-1", tx.UserID)
		assert.Equal(t, int64(20), tx.Amount)
		assert.Equal(t, TypeCredit, tx.Type)
		assert.True(t, tx.IsCredit())
		assert.Equal(t, int64(20), tx.SignedAmount())
		assert.Equal(t, fixedTime, tx.Timestamp)
	})

	t.Run("Negative amount becomes a debit", func(t *testing.T) {
		tx, err := NewTransaction("tx-2", "uid-1", -8, "Coins used for booking discount", mockTime)

		require.NoError(t, err)
		assert.Equal(t, int64(8), tx.Amount)
		assert.Equal(t, TypeDebit, tx.Type)
		assert.True(t, tx.IsDebit())
		assert.Equal(t, int64(-8), tx.SignedAmount())
	})

	t.Run("Validation errors", func(t *testing.T) {
		testCases := []struct {
			name        string
			userID      string
			amount      int64
			description string
			expected    error
		}{
			{"empty user", "", 5, "x", errs.ErrInvalidUserID},
			{"zero amount", "uid-1", 0, "x", errs.ErrInvalidAmount},
			{"blank description", "uid-1", 5, "   ", errs.ErrInvalidDescription},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				tx, err := NewTransaction("tx", tc.userID, tc.amount, tc.description, mockTime)
				assert.ErrorIs(t, err, tc.expected)
				assert.Nil(t, tx)
			})
		}
	})
}

func TestIsValidTransactionType(t *testing.T) {
	assert.True(t, IsValidTransactionType("credit"))
	assert.True(t, IsValidTransactionType("debit"))
	assert.False(t, IsValidTransactionType("win"))
}
