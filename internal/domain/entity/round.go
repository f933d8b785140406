package entity

import "time"

// Side is one of the two mutually exclusive outcomes a bet can target
type Side string

// Betting sides
const (
	SideAndar Side = "ANDAR"
	SideBahar Side = "BAHAR"
)

// BettingPhase labels the wagering window within one open period. The phase
// is informational metadata: bet acceptance only looks at the betting status.
type BettingPhase string

// Betting phases
const (
	PhaseFirstBet  BettingPhase = "FIRST_BET"
	PhaseSecondBet BettingPhase = "SECOND_BET"
)

// BettingStatus is the gate that controls bet acceptance for the current round
type BettingStatus string

// Betting statuses
const (
	BettingOpen   BettingStatus = "OPEN"
	BettingClosed BettingStatus = "CLOSED"
)

// RoundState describes the current betting round for a room. There is exactly
// one current instance per room; the record is superseded in place as the
// round counter advances, never deleted. All transitions are driven by the
// round controller through conditional writes keyed on CurrentRound.
type RoundState struct {
	RoomID        string
	CurrentRound  int64 // Monotonic sequence number, starts at 1
	Phase         BettingPhase
	BettingStatus BettingStatus
	Result        Side   // Empty until a winner is declared on a closed round
	TargetCard    string // Admin-chosen marker card label, e.g. "A♥"; informational
	UpdatedAt     time.Time
}

// NewRoundState returns the state a freshly provisioned room starts in
func NewRoundState(roomID string) *RoundState {
	return &RoundState{
		RoomID:        roomID,
		CurrentRound:  1,
		Phase:         PhaseFirstBet,
		BettingStatus: BettingOpen,
	}
}

// IsOpen reports whether bets may be accepted for the current round
func (r *RoundState) IsOpen() bool {
	return r.BettingStatus == BettingOpen
}

// HasResult reports whether a winner has been declared for the current round
func (r *RoundState) HasResult() bool {
	return r.Result != ""
}

// Opposite returns the other side of the table
func (s Side) Opposite() Side {
	if s == SideAndar {
		return SideBahar
	}
	return SideAndar
}

// IsValidSide validates if the side is one of the allowed values
func IsValidSide(side string) bool {
	return side == string(SideAndar) || side == string(SideBahar)
}

// IsValidPhase validates if the phase is one of the allowed values
func IsValidPhase(phase string) bool {
	return phase == string(PhaseFirstBet) || phase == string(PhaseSecondBet)
}
