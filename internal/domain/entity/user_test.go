package entity

import (
	"math"
	"testing"
	"time"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coremocks "github.com/carwash-market/coin-ledger/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()

	t.Run("Valid user creation", func(t *testing.T) {
		user, err := NewUser("uid-1", "anna@example.com", RoleCustomer, "ABC12345", mockTime)

		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.ID)
		assert.Equal(t, int64(0), user.Balance())
		assert.Empty(t, user.Wallet.Transactions)
		assert.Equal(t, "ABC12345", user.ReferralCode)
		assert.False(t, user.HasUsedReferralCode())
		assert.Equal(t, fixedTime, user.CreatedAt)
		assert.Equal(t, fixedTime, user.UpdatedAt)
	})

	t.Run("Empty ID should return error", func(t *testing.T) {
		user, err := NewUser("", "anna@example.com", RoleCustomer, "ABC12345", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		assert.Nil(t, user)
	})

	t.Run("Invalid input", func(t *testing.T) {
		testCases := map[string]struct {
			email string
			role  Role
			code  string
		}{
			"missing email": {"", RoleCustomer, "ABC12345"},
			"unknown role":  {"a@b.c", Role("owner"), "ABC12345"},
			"short code":    {"a@b.c", RoleCustomer, "ABC"},
		}

		for name, tc := range testCases {
			t.Run(name, func(t *testing.T) {
				user, err := NewUser("uid-1", tc.email, tc.role, tc.code, mockTime)
				assert.ErrorIs(t, err, errs.ErrValidation)
				assert.Nil(t, user)
			})
		}
	})
}

func TestUserApplyEntry(t *testing.T) {
	initialTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	updateTime := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)

	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(initialTime).Once()
	user, err := NewUser("uid-1", "anna@example.com", RoleCustomer, "ABC12345", mockTime)
	require.NoError(t, err)

	t.Run("Credit increases balance", func(t *testing.T) {
		mockTime.EXPECT().Now().Return(updateTime).Twice()
		entry, err := NewTransaction("tx-1", user.ID, 10, "Welcome bonus for new member", mockTime)
		require.NoError(t, err)

		require.NoError(t, user.ApplyEntry(entry, mockTime))
		assert.Equal(t, int64(10), user.Balance())
		assert.Equal(t, updateTime, user.UpdatedAt)
	})

	t.Run("Exact debit empties the wallet", func(t *testing.T) {
		mockTime.EXPECT().Now().Return(updateTime).Twice()
		entry, err := NewTransaction("tx-2", user.ID, -10, "Coins used for booking discount", mockTime)
		require.NoError(t, err)

		require.NoError(t, user.ApplyEntry(entry, mockTime))
		assert.Equal(t, int64(0), user.Balance())
	})

	t.Run("Overdraw is rejected without change", func(t *testing.T) {
		mockTime.EXPECT().Now().Return(updateTime).Once()
		entry, err := NewTransaction("tx-3", user.ID, -1, "Coins used for booking discount", mockTime)
		require.NoError(t, err)

		err = user.ApplyEntry(entry, mockTime)
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, int64(0), user.Balance())

		var detailed *errs.InsufficientFundsError
		require.ErrorAs(t, err, &detailed)
		assert.Equal(t, int64(1), detailed.Requested)
		assert.Equal(t, int64(0), detailed.Balance)
	})

	t.Run("Overflowing credit is rejected without change", func(t *testing.T) {
		mockTime.EXPECT().Now().Return(updateTime).Times(3)
		seed, err := NewTransaction("tx-4", user.ID, 10, "Welcome bonus for new member", mockTime)
		require.NoError(t, err)
		require.NoError(t, user.ApplyEntry(seed, mockTime))

		entry, err := NewTransaction("tx-5", user.ID, math.MaxInt64, "Admin adjustment", mockTime)
		require.NoError(t, err)

		err = user.ApplyEntry(entry, mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.NotErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, int64(10), user.Balance())
	})

	t.Run("Most negative amount is not a valid entry", func(t *testing.T) {
		_, err := NewTransaction("tx-6", user.ID, math.MinInt64, "Admin adjustment", mockTime)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestUserReferralState(t *testing.T) {
	mockTime := coremocks.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(time.Now()).Maybe()

	user, err := NewUser("uid-2", "ben@example.com", RoleCustomer, "ZXCV0987", mockTime)
	require.NoError(t, err)

	require.NoError(t, user.MarkReferralUsed("ABC12345", mockTime))
	assert.True(t, user.HasUsedReferralCode())
	assert.Equal(t, "ABC12345", user.UsedReferralCode)

	err = user.MarkReferralUsed("QWER1234", mockTime)
	assert.ErrorIs(t, err, errs.ErrCodeAlreadyUsed)
	assert.Equal(t, "ABC12345", user.UsedReferralCode)

	user.IncrementReferralCount(mockTime)
	user.IncrementReferralCount(mockTime)
	assert.Equal(t, int64(2), user.ReferralCount)
}

func TestWalletLogSum(t *testing.T) {
	wallet := Wallet{
		Coins: 25,
		Transactions: []Transaction{
			{Amount: 10, Type: TypeCredit},
			{Amount: 15, Type: TypeCredit},
			{Amount: 8, Type: TypeDebit},
			{Amount: 8, Type: TypeCredit},
		},
	}

	assert.Equal(t, wallet.Coins, wallet.LogSum())
}
