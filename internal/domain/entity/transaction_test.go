package entity

import (
	"testing"

	errs "github.com/codecraftmss/game/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	clock := fixedClock()

	t.Run("Valid debit entry", func(t *testing.T) {
		txn, err := NewTransaction("player-1", "bet:room-1:3:player-1:x", TypeBetDebit, 1500, 10000, clock)

		require.NoError(t, err)
		assert.Equal(t, int64(10000), txn.BalanceBefore)
		assert.Equal(t, int64(8500), txn.BalanceAfter)
		assert.Equal(t, clock.now, txn.CreatedAt)
	})

	t.Run("Valid credit entry", func(t *testing.T) {
		txn, err := NewTransaction("player-1", "settle:room-1:3:player-1", TypeBetWin, 2000, 8500, clock)

		require.NoError(t, err)
		assert.Equal(t, int64(10500), txn.BalanceAfter)
	})

	t.Run("Zero amount only allowed for loss markers", func(t *testing.T) {
		txn, err := NewTransaction("player-1", "settle:room-1:3:player-1", TypeBetLoss, 0, 8500, clock)
		require.NoError(t, err)
		assert.Equal(t, int64(8500), txn.BalanceAfter)

		_, err = NewTransaction("player-1", "t-1", TypeAdminAdd, 0, 8500, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("Invalid inputs are rejected", func(t *testing.T) {
		_, err := NewTransaction("", "t-1", TypeAdminAdd, 100, 0, clock)
		assert.Error(t, err)

		_, err = NewTransaction("player-1", "", TypeAdminAdd, 100, 0, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)

		_, err = NewTransaction("player-1", "t-1", "REFUND", 100, 0, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)

		_, err = NewTransaction("player-1", "t-1", TypeAdminAdd, -100, 0, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		txType   TransactionType
		amount   int64
		signed   int64
		isCredit bool
		isDebit  bool
	}{
		{TypeAdminAdd, 1000, 1000, true, false},
		{TypeBetWin, 2000, 2000, true, false},
		{TypeAdminWithdraw, 500, -500, false, true},
		{TypeBetDebit, 1500, -1500, false, true},
		{TypeBetLoss, 0, 0, false, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.txType), func(t *testing.T) {
			txn := &Transaction{Type: tc.txType, Amount: tc.amount}
			assert.Equal(t, tc.signed, txn.SignedAmount())
			assert.Equal(t, tc.isCredit, txn.IsCredit())
			assert.Equal(t, tc.isDebit, txn.IsDebit())
		})
	}
}

func TestWithRound(t *testing.T) {
	clock := fixedClock()

	txn, err := NewTransaction("player-1", "t-1", TypeBetDebit, 500, 1000, clock)
	require.NoError(t, err)

	txn.WithRound("room-1", 7)
	assert.Equal(t, "room-1", txn.RoomID)
	assert.Equal(t, int64(7), txn.RoundNumber)
}

func TestIsValidTransactionType(t *testing.T) {
	assert.True(t, IsValidTransactionType("BET_DEBIT"))
	assert.True(t, IsValidTransactionType("BET_WIN"))
	assert.True(t, IsValidTransactionType("BET_LOSS"))
	assert.True(t, IsValidTransactionType("ADMIN_ADD"))
	assert.True(t, IsValidTransactionType("ADMIN_WITHDRAW"))
	assert.False(t, IsValidTransactionType("REFUND"))
	assert.False(t, IsValidTransactionType(""))
}
