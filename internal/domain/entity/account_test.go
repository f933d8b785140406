package entity

import (
	"testing"
	"time"

	errs "github.com/codecraftmss/game/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTimeProvider struct {
	now time.Time
}

func (p stubTimeProvider) Now() time.Time                  { return p.now }
func (p stubTimeProvider) Since(t time.Time) time.Duration { return p.now.Sub(t) }

func fixedClock() stubTimeProvider {
	return stubTimeProvider{now: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)}
}

func TestNewAccount(t *testing.T) {
	clock := fixedClock()

	t.Run("Valid account creation", func(t *testing.T) {
		account, err := NewAccount("player-1", 5000, clock)

		require.NoError(t, err)
		assert.Equal(t, "player-1", account.ID)
		assert.Equal(t, int64(5000), account.Balance())
		assert.Equal(t, StatusPending, account.Status)
		assert.Equal(t, clock.now, account.CreatedAt)
		assert.Equal(t, clock.now, account.UpdatedAt)
	})

	t.Run("Empty ID is rejected", func(t *testing.T) {
		account, err := NewAccount("", 5000, clock)
		assert.Error(t, err)
		assert.Nil(t, account)
	})

	t.Run("Negative initial balance is rejected", func(t *testing.T) {
		account, err := NewAccount("player-1", -1, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.Nil(t, account)
	})
}

func TestAccountBalanceGuards(t *testing.T) {
	clock := fixedClock()

	t.Run("CanDeduct respects the balance", func(t *testing.T) {
		account, err := NewAccount("player-1", 1000, clock)
		require.NoError(t, err)

		assert.True(t, account.CanDeduct(1000))
		assert.True(t, account.CanDeduct(0))
		assert.False(t, account.CanDeduct(1001))
		assert.False(t, account.CanDeduct(-1))
	})

	t.Run("Credit and debit round trip", func(t *testing.T) {
		account, err := NewAccount("player-1", 1000, clock)
		require.NoError(t, err)

		require.NoError(t, account.ApplyCredit(500, clock))
		assert.Equal(t, int64(1500), account.Balance())

		require.NoError(t, account.ApplyDebit(1500, clock))
		assert.Equal(t, int64(0), account.Balance())
	})

	t.Run("Overdraw is rejected and balance untouched", func(t *testing.T) {
		account, err := NewAccount("player-1", 1000, clock)
		require.NoError(t, err)

		err = account.ApplyDebit(1001, clock)
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, int64(1000), account.Balance())
	})

	t.Run("Negative amounts are rejected", func(t *testing.T) {
		account, err := NewAccount("player-1", 1000, clock)
		require.NoError(t, err)

		assert.ErrorIs(t, account.ApplyCredit(-1, clock), errs.ErrInvalidAmount)
		assert.ErrorIs(t, account.ApplyDebit(-1, clock), errs.ErrInvalidAmount)
		assert.Equal(t, int64(1000), account.Balance())
	})
}

func TestAccountApproval(t *testing.T) {
	clock := fixedClock()

	account, err := NewAccount("player-1", 0, clock)
	require.NoError(t, err)
	assert.False(t, account.IsApproved())

	account.Status = StatusApproved
	assert.True(t, account.IsApproved())

	account.Status = StatusSuspended
	assert.False(t, account.IsApproved())
}

func TestIsValidAccountStatus(t *testing.T) {
	assert.True(t, IsValidAccountStatus("PENDING"))
	assert.True(t, IsValidAccountStatus("APPROVED"))
	assert.True(t, IsValidAccountStatus("SUSPENDED"))
	assert.False(t, IsValidAccountStatus("BANNED"))
	assert.False(t, IsValidAccountStatus(""))
}
