package entity

import (
	"fmt"
	"time"

	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
)

// TransactionType tags each ledger entry with the operation that produced it
type TransactionType string

// Transaction types
const (
	TypeBetDebit      TransactionType = "BET_DEBIT"      // Stake debited at placement
	TypeBetWin        TransactionType = "BET_WIN"        // Even-money payout credit
	TypeBetLoss       TransactionType = "BET_LOSS"       // Zero-amount loss marker, audit only
	TypeAdminAdd      TransactionType = "ADMIN_ADD"      // Manual credit by an admin
	TypeAdminWithdraw TransactionType = "ADMIN_WITHDRAW" // Manual debit by an admin
)

// Transaction is an immutable, append-only ledger entry. Replaying the
// signed deltas of an account's transactions from zero reconstructs its
// current balance exactly.
type Transaction struct {
	ID            uint64          // Internal identifier
	AccountID     string          // Account this entry belongs to
	TransactionID string          // Unique external identifier, idempotency key
	Type          TransactionType // Operation that produced the entry
	Amount        int64           // Non-negative; zero only for loss markers
	BalanceBefore int64
	BalanceAfter  int64
	RoomID        string // Optional round reference
	RoundNumber   int64  // Zero when the entry has no round reference
	Reference     string // Free-form note, e.g. admin action description
	CreatedAt     time.Time
}

// NewTransaction creates a new ledger entry with basic validation
func NewTransaction(
	accountID string,
	transactionID string,
	txType TransactionType,
	amount int64,
	balanceBefore int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if accountID == "" {
		return nil, errs.ErrAccountNotFound
	}
	if transactionID == "" {
		return nil, errs.ErrInvalidRequest
	}
	if !IsValidTransactionType(string(txType)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidRequest, txType)
	}
	if amount < 0 {
		return nil, errs.ErrInvalidAmount
	}
	if amount == 0 && txType != TypeBetLoss {
		return nil, errs.ErrInvalidAmount
	}

	txn := &Transaction{
		AccountID:     accountID,
		TransactionID: transactionID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		CreatedAt:     timeProvider.Now(),
	}
	txn.BalanceAfter = balanceBefore + txn.SignedAmount()
	return txn, nil
}

// WithRound attaches the round reference that produced this entry
func (t *Transaction) WithRound(roomID string, roundNumber int64) *Transaction {
	t.RoomID = roomID
	t.RoundNumber = roundNumber
	return t
}

// SignedAmount returns the balance delta this entry applies: positive for
// credits, negative for debits, zero for loss markers.
func (t *Transaction) SignedAmount() int64 {
	switch t.Type {
	case TypeBetWin, TypeAdminAdd:
		return t.Amount
	case TypeBetDebit, TypeAdminWithdraw:
		return -t.Amount
	default:
		return 0
	}
}

// IsCredit returns true if this entry increases the account's balance
func (t *Transaction) IsCredit() bool {
	return t.SignedAmount() > 0
}

// IsDebit returns true if this entry decreases the account's balance
func (t *Transaction) IsDebit() bool {
	return t.SignedAmount() < 0
}

// IsValidTransactionType validates if the type is one of the allowed values
func IsValidTransactionType(txType string) bool {
	switch TransactionType(txType) {
	case TypeBetDebit, TypeBetWin, TypeBetLoss, TypeAdminAdd, TypeAdminWithdraw:
		return true
	}
	return false
}
