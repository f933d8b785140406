package dto

import (
	"github.com/codecraftmss/game/internal/domain/entity"
)

// StakeRequest is one side/amount pair of a bet submission
type StakeRequest struct {
	Side   string `json:"side" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
}

// PlaceBetRequest carries the player's locally queued chip placements,
// submitted as one atomic batch
type PlaceBetRequest struct {
	Stakes []StakeRequest `json:"stakes" binding:"required"`
}

// ToStakes converts the request into domain stakes
func (r *PlaceBetRequest) ToStakes() []entity.Stake {
	stakes := make([]entity.Stake, 0, len(r.Stakes))
	for _, s := range r.Stakes {
		stakes = append(stakes, entity.Stake{
			Side:   entity.Side(s.Side),
			Amount: s.Amount,
		})
	}
	return stakes
}

// PlaceBetResponse reports a committed bet submission
type PlaceBetResponse struct {
	RoundNumber int64 `json:"roundNumber"`
	TotalStaked int64 `json:"totalStaked"`
	NewBalance  int64 `json:"newBalance"`
}

// BetResponse is one aggregated per-side stake of an account in a round
type BetResponse struct {
	Side        string `json:"side"`
	Amount      int64  `json:"amount"`
	RoundNumber int64  `json:"roundNumber"`
}

// FromBets maps domain bets to API responses
func FromBets(bets []*entity.Bet) []BetResponse {
	out := make([]BetResponse, 0, len(bets))
	for _, b := range bets {
		out = append(out, BetResponse{
			Side:        string(b.Side),
			Amount:      b.Amount,
			RoundNumber: b.RoundNumber,
		})
	}
	return out
}
