package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating writes across multiple
// repositories inside one database transaction, so that money-moving
// operations commit both-or-neither.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetAccountRepository returns an account repository bound to the current transaction
	GetAccountRepository(ctx context.Context) AccountRepository

	// GetTransactionRepository returns a ledger repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetBetRepository returns a bet repository bound to the current transaction
	GetBetRepository(ctx context.Context) BetRepository

	// GetRoundRepository returns a round repository bound to the current transaction
	GetRoundRepository(ctx context.Context) RoundRepository

	// GetRoundHistoryRepository returns a history repository bound to the current transaction
	GetRoundHistoryRepository(ctx context.Context) RoundHistoryRepository
}
