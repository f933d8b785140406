package persistence

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// RoundRepository manages the single current round state row per room.
// Every mutation is a conditional update keyed on the expected current round
// (and where relevant the betting status and result), so a stale writer
// changes nothing and learns about it; blind overwrites are not offered.
type RoundRepository interface {
	// Get retrieves the current round state for a room
	//
	// Possible errors:
	// - ErrRoomNotFound: If the room has no round state row
	// - ErrTransientStore: If the store is unavailable
	Get(ctx context.Context, roomID string) (*entity.RoundState, error)

	// Create provisions the initial round state for a room
	Create(ctx context.Context, state *entity.RoundState) error

	// OpenBetting forces the room open: status OPEN, result cleared.
	// Legal from any state (admin may force-reopen).
	OpenBetting(ctx context.Context, roomID string) error

	// CloseBetting transitions OPEN -> CLOSED for the given round number.
	// Returns false when the round was not open at that number anymore.
	CloseBetting(ctx context.Context, roomID string, roundNumber int64) (bool, error)

	// ConfirmOpen re-verifies inside the caller's transaction that the round
	// is still open at the given number, taking a row-level write on the
	// state so a concurrent close cannot commit between the check and the
	// caller's commit. Returns false when the round is no longer open.
	ConfirmOpen(ctx context.Context, roomID string, roundNumber int64) (bool, error)

	// SetPhase updates the informational phase field, last write wins
	SetPhase(ctx context.Context, roomID string, phase entity.BettingPhase) error

	// SetTargetCard updates the marker card field, last write wins
	SetTargetCard(ctx context.Context, roomID string, card string) error

	// SetResult records the winner for a closed, result-less round.
	// Returns false when the precondition (CLOSED, no result, same round
	// number) no longer holds; the caller must treat that as a lost race.
	SetResult(ctx context.Context, roomID string, roundNumber int64, side entity.Side) (bool, error)

	// AdvanceRound moves a settled round to the next sequence number:
	// current_round += 1, status OPEN, result and target card cleared,
	// phase reset. Conditional on the current round number.
	AdvanceRound(ctx context.Context, roomID string, settledRound int64) (bool, error)
}
