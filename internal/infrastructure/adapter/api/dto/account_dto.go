package dto

import (
	"time"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// BalanceResponse reports an account's current token balance
type BalanceResponse struct {
	AccountID string `json:"accountId"`
	Balance   int64  `json:"balance"`
}

// CreateAccountRequest provisions a new player account
type CreateAccountRequest struct {
	AccountID      string `json:"accountId" binding:"required"`
	InitialBalance int64  `json:"initialBalance"`
}

// AccountResponse is the full account record for admin views
type AccountResponse struct {
	ID            string `json:"id"`
	Balance       int64  `json:"balance"`
	Status        string `json:"status"`
	TotalDeposit  int64  `json:"totalDeposit"`
	TotalWithdraw int64  `json:"totalWithdraw"`
	TotalWin      int64  `json:"totalWin"`
	TotalLoss     int64  `json:"totalLoss"`
	CreatedAt     string `json:"createdAt"`
}

// FromAccount maps a domain account to an API response
func FromAccount(account *entity.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		Balance:       account.Balance(),
		Status:        string(account.Status),
		TotalDeposit:  account.TotalDeposit,
		TotalWithdraw: account.TotalWithdraw,
		TotalWin:      account.TotalWin,
		TotalLoss:     account.TotalLoss,
		CreatedAt:     account.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// TokenTransactionRequest is a manual admin credit or debit. TransactionID
// is the caller-supplied idempotency key: replaying it returns the stored
// outcome without moving money again.
type TokenTransactionRequest struct {
	Type          string `json:"type" binding:"required"`
	Amount        int64  `json:"amount" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
	Reference     string `json:"reference"`
}

// TokenTransactionResponse reports a processed manual token transaction
type TokenTransactionResponse struct {
	TransactionID string `json:"transactionId"`
	AccountID     string `json:"accountId"`
	BeforeBalance int64  `json:"beforeBalance"`
	AfterBalance  int64  `json:"afterBalance"`
}

// TransactionResponse is one immutable ledger entry
type TransactionResponse struct {
	TransactionID string `json:"transactionId"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
	BalanceBefore int64  `json:"balanceBefore"`
	BalanceAfter  int64  `json:"balanceAfter"`
	RoomID        string `json:"roomId,omitempty"`
	RoundNumber   int64  `json:"roundNumber,omitempty"`
	Reference     string `json:"reference,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// FromTransactions maps ledger entries to API responses
func FromTransactions(entries []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(entries))
	for _, txn := range entries {
		out = append(out, TransactionResponse{
			TransactionID: txn.TransactionID,
			Type:          string(txn.Type),
			Amount:        txn.Amount,
			BalanceBefore: txn.BalanceBefore,
			BalanceAfter:  txn.BalanceAfter,
			RoomID:        txn.RoomID,
			RoundNumber:   txn.RoundNumber,
			Reference:     txn.Reference,
			CreatedAt:     txn.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
