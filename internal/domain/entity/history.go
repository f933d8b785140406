package entity

import "time"

// RoundHistory is the audit record written exactly once per settled round.
// Its existence for a (room, round) pair is the settlement idempotency
// marker: a round with a history row is final.
type RoundHistory struct {
	ID           uint64
	RoomID       string
	RoundNumber  int64
	Result       Side
	TargetCard   string
	TotalPayout  int64 // Sum of win credits paid for this round
	AccountsPaid int   // Distinct accounts that received a payout
	CreatedAt    time.Time
}
