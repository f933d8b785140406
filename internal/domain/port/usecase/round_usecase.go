package usecase

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// SettlementResult reports what a completed settlement did
type SettlementResult struct {
	RoomID       string      `json:"roomId"`
	RoundNumber  int64       `json:"roundNumber"`
	Winner       entity.Side `json:"winner"`
	AccountsPaid int         `json:"accountsPaid"`
	TotalPayout  int64       `json:"totalPayout"`
	AlreadyDone  bool        `json:"alreadyDone"` // True when a retry found the round settled
}

// RoundUseCase is the admin-facing round controller. All transitions are
// explicit admin actions; the system runs no authoritative timers.
type RoundUseCase interface {
	// GetRoundState returns the authoritative current state for a room
	GetRoundState(ctx context.Context, roomID string) (*entity.RoundState, error)

	// OpenBetting forces the room open for the current round, clearing any
	// declared result. Legal from any state.
	OpenBetting(ctx context.Context, roomID string) (*entity.RoundState, error)

	// CloseBetting transitions the current round OPEN -> CLOSED. After it
	// returns, no bet for this round number can commit.
	//
	// Possible errors:
	// - ErrInvalidTransition: The round was not open
	CloseBetting(ctx context.Context, roomID string) (*entity.RoundState, error)

	// SetPhase updates the informational wagering window label
	SetPhase(ctx context.Context, roomID string, phase entity.BettingPhase) (*entity.RoundState, error)

	// SetTargetCard updates the marker card shown to players
	SetTargetCard(ctx context.Context, roomID string, card string) (*entity.RoundState, error)

	// DeclareWinner records the outcome of a closed round, settles every bet
	// all-or-nothing and, only on settlement success, advances the room to
	// the next round.
	//
	// Possible errors:
	// - ErrInvalidTransition: Round not closed, or winner already set (e.g.
	//   a second admin session or a double-click)
	// - ErrSettlementIncomplete: Settlement failed; the round stays CLOSED
	//   with the winner recorded and must be retried before any progression
	DeclareWinner(ctx context.Context, roomID string, side entity.Side) (*SettlementResult, error)

	// RetrySettlement re-runs settlement for a round stuck closed with a
	// declared winner after an ErrSettlementIncomplete
	RetrySettlement(ctx context.Context, roomID string) (*SettlementResult, error)

	// ListRoundHistory returns settled rounds, most recent first
	ListRoundHistory(ctx context.Context, roomID string, limit int) ([]*entity.RoundHistory, error)
}
