package persistence

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// TransactionRepository defines essential methods to interact with the
// append-only ledger of transactions
type TransactionRepository interface {
	// Create appends a new ledger entry. Entries are immutable once written.
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If an entry with the same transaction ID exists
	// - ErrTransientStore: If the store is unavailable
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByTransactionID retrieves an entry by its external transaction ID.
	// Used for idempotency checking.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no entry with the given ID exists
	// - ErrTransientStore: If the store is unavailable
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.Transaction, error)

	// TransactionExists checks if an entry with the given ID already exists
	//
	// Possible errors:
	// - ErrTransientStore: If the store is unavailable
	TransactionExists(ctx context.Context, transactionID string) (bool, error)

	// ListByAccount returns the most recent entries for an account, newest
	// first, up to limit
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*entity.Transaction, error)
}
