package usecase

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// PlaceBetResult reports the outcome of a committed bet submission
type PlaceBetResult struct {
	RoundNumber int64 `json:"roundNumber"`
	TotalStaked int64 `json:"totalStaked"`
	NewBalance  int64 `json:"newBalance"`
}

// BetUseCase defines the bet ledger operations available to players
type BetUseCase interface {
	// PlaceBet converts a batch of locally queued stakes into durable,
	// debited bets against the room's current open round. The round check,
	// the balance debit, the ledger entry and the stake record commit as
	// one atomic unit.
	//
	// Possible errors:
	// - ErrRoundClosed: Betting closed before the submission landed (normal
	//   under concurrency; the client refreshes state and informs the user)
	// - ErrInsufficientBalance: The account cannot cover the total stake
	// - ErrBetOutOfRange: Total stake violates the room limits
	// - ErrAccountNotApproved: The account may not bet
	PlaceBet(ctx context.Context, accountID, roomID string, stakes []entity.Stake) (*PlaceBetResult, error)

	// ListRoundBets returns the account's own stakes for a round so a
	// reconnecting client can resynchronize
	ListRoundBets(ctx context.Context, accountID, roomID string, roundNumber int64) ([]*entity.Bet, error)
}
