package persistence

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// BetRepository defines methods to record and read aggregated stakes
type BetRepository interface {
	// AddStake accumulates amount onto the (account, room, round, side)
	// aggregate, creating the record on first stake. The write is an atomic
	// upsert so concurrent submissions from the same account cannot clobber
	// each other.
	//
	// Possible errors:
	// - ErrTransientStore: If the store is unavailable
	AddStake(ctx context.Context, accountID, roomID string, roundNumber int64, side entity.Side, amount int64) error

	// ListByRound returns every stake for a round. Settlement calls this
	// after betting closed, so the snapshot it observes is final.
	ListByRound(ctx context.Context, roomID string, roundNumber int64) ([]*entity.Bet, error)

	// ListByAccountRound returns one account's stakes for a round, for
	// client resynchronization
	ListByAccountRound(ctx context.Context, accountID, roomID string, roundNumber int64) ([]*entity.Bet, error)
}
