package entity

import (
	"time"

	errs "github.com/codecraftmss/game/internal/domain/error"
)

// Bet is the aggregated stake one account holds on one side of one round.
// Repeated stakes accumulate into the same record; the amount is immutable
// once the round settles and the record is never deleted.
type Bet struct {
	ID          uint64
	AccountID   string
	RoomID      string
	RoundNumber int64
	Side        Side
	Amount      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stake is one side/amount pair of a bet submission. A submission carries the
// player's locally queued chip placements, converted into durable stakes in
// one atomic batch.
type Stake struct {
	Side   Side
	Amount int64
}

// ValidateStakes checks a bet submission against the room limits. Stakes on
// both sides are allowed in the same round; each side's amount must be
// positive and the total must respect the room's configured minimum and
// maximum.
func ValidateStakes(stakes []Stake, minBet, maxBet int64) error {
	if len(stakes) == 0 {
		return errs.ErrInvalidRequest
	}

	var total int64
	seen := make(map[Side]bool, 2)
	for _, s := range stakes {
		if !IsValidSide(string(s.Side)) {
			return errs.ErrInvalidSide
		}
		if s.Amount <= 0 {
			return errs.ErrInvalidAmount
		}
		if seen[s.Side] {
			return errs.ErrInvalidRequest
		}
		seen[s.Side] = true
		total += s.Amount
	}

	if minBet > 0 && total < minBet {
		return errs.ErrBetOutOfRange
	}
	if maxBet > 0 && total > maxBet {
		return errs.ErrBetOutOfRange
	}
	return nil
}

// TotalStaked sums the amounts of a submission
func TotalStaked(stakes []Stake) int64 {
	var total int64
	for _, s := range stakes {
		total += s.Amount
	}
	return total
}
