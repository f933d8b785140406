package entity

import (
	"time"

	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
)

// AccountStatus tracks the lifecycle of a player account
type AccountStatus string

// Account statuses
const (
	StatusPending   AccountStatus = "PENDING"
	StatusApproved  AccountStatus = "APPROVED"
	StatusSuspended AccountStatus = "SUSPENDED"
)

// Account represents a player account holding a token balance. The balance is
// a cached projection of the transaction log and is only ever mutated through
// transaction application; the lifetime aggregates are informational and never
// feed back into balance derivation.
type Account struct {
	ID            string // Opaque account identifier (UUID)
	tokenBalance  int64  // Whole tokens, smallest currency unit (private)
	TotalDeposit  int64  // Lifetime credited by admins
	TotalWithdraw int64  // Lifetime debited by admins
	TotalWin      int64  // Lifetime net winnings from settlements
	TotalLoss     int64  // Lifetime stakes lost to settlements
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAccount creates a new pending account with the given ID and initial balance
func NewAccount(id string, initialBalance int64, timeProvider coreport.TimeProvider) (*Account, error) {
	if id == "" {
		return nil, errs.ErrAccountNotFound
	}
	if initialBalance < 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &Account{
		ID:           id,
		tokenBalance: initialBalance,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Balance returns the current token balance
func (a *Account) Balance() int64 {
	return a.tokenBalance
}

// SetBalance updates the balance directly (for internal use, like repositories)
func (a *Account) SetBalance(balance int64, timeProvider coreport.TimeProvider) {
	a.tokenBalance = balance
	a.UpdatedAt = timeProvider.Now()
}

// IsApproved reports whether the account may place bets
func (a *Account) IsApproved() bool {
	return a.Status == StatusApproved
}

// CanDeduct checks if the account has enough balance for a deduction
func (a *Account) CanDeduct(amount int64) bool {
	return amount >= 0 && a.tokenBalance >= amount
}

// ApplyCredit adds the amount to the balance
func (a *Account) ApplyCredit(amount int64, timeProvider coreport.TimeProvider) error {
	if amount < 0 {
		return errs.ErrInvalidAmount
	}
	a.tokenBalance += amount
	a.UpdatedAt = timeProvider.Now()
	return nil
}

// ApplyDebit subtracts the amount from balance if sufficient balance exists.
// Returns error if insufficient balance.
func (a *Account) ApplyDebit(amount int64, timeProvider coreport.TimeProvider) error {
	if amount < 0 {
		return errs.ErrInvalidAmount
	}
	if a.tokenBalance < amount {
		return errs.NewInsufficientBalanceError(a.ID, amount, a.tokenBalance)
	}
	a.tokenBalance -= amount
	a.UpdatedAt = timeProvider.Now()
	return nil
}

// IsValidAccountStatus validates if the status is one of the allowed values
func IsValidAccountStatus(status string) bool {
	return status == string(StatusPending) ||
		status == string(StatusApproved) ||
		status == string(StatusSuspended)
}
