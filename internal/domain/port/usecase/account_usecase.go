package usecase

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// BalanceResponse represents the standardized balance response
type BalanceResponse struct {
	AccountID string `json:"accountId"`
	Balance   int64  `json:"balance"`
}

// TokenTransactionResult reports a processed manual token transaction
type TokenTransactionResult struct {
	TransactionID string `json:"transactionId"`
	AccountID     string `json:"accountId"`
	BeforeBalance int64  `json:"beforeBalance"`
	AfterBalance  int64  `json:"afterBalance"`
}

// AccountUseCase defines account and ledger-store operations
type AccountUseCase interface {
	// GetBalance retrieves an account's current token balance
	GetBalance(ctx context.Context, accountID string) (*BalanceResponse, error)

	// GetAccount retrieves the full account record
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)

	// CreateAccount provisions a new account with an initial balance
	CreateAccount(ctx context.Context, accountID string, initialBalance int64) (*entity.Account, error)

	// SetAccountStatus moves an account through its lifecycle
	SetAccountStatus(ctx context.Context, accountID string, status entity.AccountStatus) error

	// ProcessTokenTransaction applies a manual admin credit or debit to an
	// account, appending the matching ledger entry in the same atomic unit.
	// transactionID makes retries idempotent: a replayed ID returns the
	// stored outcome without moving money again.
	//
	// Possible errors:
	// - ErrInsufficientBalance: Withdraw exceeds the balance
	// - ErrAccountNotFound: Unknown account
	// - ErrInvalidAmount: Amount is not positive
	ProcessTokenTransaction(ctx context.Context, accountID, adminID string, txType entity.TransactionType, amount int64, transactionID, reference string) (*TokenTransactionResult, error)

	// ListTransactions returns the account's most recent ledger entries,
	// newest first
	ListTransactions(ctx context.Context, accountID string, limit int) ([]*entity.Transaction, error)
}
