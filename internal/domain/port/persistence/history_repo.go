package persistence

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// RoundHistoryRepository stores the per-round audit records
type RoundHistoryRepository interface {
	// Create writes the settlement record for a round. The (room, round)
	// pair is unique; a second write for the same round fails.
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If the round was already settled
	// - ErrTransientStore: If the store is unavailable
	Create(ctx context.Context, entry *entity.RoundHistory) error

	// GetByRound returns the settlement record for one round, if any
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the round has not settled
	GetByRound(ctx context.Context, roomID string, roundNumber int64) (*entity.RoundHistory, error)

	// ListByRoom returns up to limit settled rounds, most recent first
	ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.RoundHistory, error)
}
