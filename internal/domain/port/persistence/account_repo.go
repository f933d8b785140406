package persistence

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// AccountRepository defines essential methods to interact with account data
type AccountRepository interface {
	// GetByID retrieves an account by ID
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account exists with the given ID
	// - ErrTransientStore: If the store is unavailable
	GetByID(ctx context.Context, id string) (*entity.Account, error)

	// Create creates a new account
	//
	// Possible errors:
	// - ErrConstraintViolation: If an account with the same ID already exists
	// - ErrTransientStore: If the store is unavailable
	Create(ctx context.Context, account *entity.Account) error

	// UpdateStatus moves an account through its lifecycle (approve, suspend)
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrTransientStore: If the store is unavailable
	UpdateStatus(ctx context.Context, id string, status entity.AccountStatus) error

	// ApplyBalanceDelta atomically adjusts the token balance by delta,
	// failing the adjustment when it would drive the balance negative.
	// The adjustment is a conditional increment, never a blind overwrite,
	// so concurrent writers to the same account cannot lose updates and
	// writers to different accounts never serialize against each other.
	// Returns the balance before and after the adjustment.
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrInsufficientBalance: If delta is negative and unaffordable
	// - ErrTransientStore: If the store is unavailable
	ApplyBalanceDelta(ctx context.Context, id string, delta int64) (before int64, after int64, err error)

	// AddAggregates bumps the lifetime informational counters. Aggregates are
	// monotonically non-decreasing and never feed balance derivation.
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrTransientStore: If the store is unavailable
	AddAggregates(ctx context.Context, id string, deposit, withdraw, win, loss int64) error
}
