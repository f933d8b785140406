package dto

import (
	"time"

	"github.com/codecraftmss/game/internal/domain/entity"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
)

// RoundStateResponse is the authoritative round snapshot returned to clients
type RoundStateResponse struct {
	RoomID       string `json:"roomId"`
	RoundNumber  int64  `json:"roundNumber"`
	Phase        string `json:"phase"`
	Status       string `json:"status"`
	Result       string `json:"result,omitempty"`
	TargetCard   string `json:"targetCard,omitempty"`
	TimerSeconds int    `json:"timerSeconds,omitempty"`
}

// FromRoundState maps a domain round state to an API response. timerSeconds
// is an advisory countdown hint for open rounds, cosmetic only.
func FromRoundState(state *entity.RoundState, timerSeconds int) RoundStateResponse {
	resp := RoundStateResponse{
		RoomID:      state.RoomID,
		RoundNumber: state.CurrentRound,
		Phase:       string(state.Phase),
		Status:      string(state.BettingStatus),
		Result:      string(state.Result),
		TargetCard:  state.TargetCard,
	}
	if state.IsOpen() {
		resp.TimerSeconds = timerSeconds
	}
	return resp
}

// SetPhaseRequest names the wagering window label to show
type SetPhaseRequest struct {
	Phase string `json:"phase" binding:"required"`
}

// SetTargetCardRequest names the marker card to show
type SetTargetCardRequest struct {
	Card string `json:"card" binding:"required"`
}

// DeclareResultRequest names the winning side of a closed round
type DeclareResultRequest struct {
	Winner string `json:"winner" binding:"required"`
}

// SettlementResponse reports what a completed settlement did
type SettlementResponse struct {
	RoomID       string `json:"roomId"`
	RoundNumber  int64  `json:"roundNumber"`
	Winner       string `json:"winner"`
	AccountsPaid int    `json:"accountsPaid"`
	TotalPayout  int64  `json:"totalPayout"`
	AlreadyDone  bool   `json:"alreadyDone"`
}

// FromSettlementResult maps a settlement outcome to an API response
func FromSettlementResult(result *usecaseport.SettlementResult) SettlementResponse {
	return SettlementResponse{
		RoomID:       result.RoomID,
		RoundNumber:  result.RoundNumber,
		Winner:       string(result.Winner),
		AccountsPaid: result.AccountsPaid,
		TotalPayout:  result.TotalPayout,
		AlreadyDone:  result.AlreadyDone,
	}
}

// RoundHistoryResponse is one settled round in the audit list
type RoundHistoryResponse struct {
	RoundNumber  int64  `json:"roundNumber"`
	Result       string `json:"result"`
	TargetCard   string `json:"targetCard,omitempty"`
	TotalPayout  int64  `json:"totalPayout"`
	AccountsPaid int    `json:"accountsPaid"`
	SettledAt    string `json:"settledAt"`
}

// FromRoundHistory maps settled rounds to API responses
func FromRoundHistory(entries []*entity.RoundHistory) []RoundHistoryResponse {
	out := make([]RoundHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, RoundHistoryResponse{
			RoundNumber:  e.RoundNumber,
			Result:       string(e.Result),
			TargetCard:   e.TargetCard,
			TotalPayout:  e.TotalPayout,
			AccountsPaid: e.AccountsPaid,
			SettledAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// RoomResponse is the boundary metadata of one table
type RoomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label,omitempty"`
	MinBet    int64  `json:"minBet"`
	MaxBet    int64  `json:"maxBet"`
	Status    string `json:"status"`
	StreamURL string `json:"streamUrl,omitempty"`
}

// FromRooms maps domain rooms to API responses
func FromRooms(rooms []*entity.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomResponse{
			ID:        r.ID,
			Name:      r.Name,
			Label:     r.Label,
			MinBet:    r.MinBet,
			MaxBet:    r.MaxBet,
			Status:    string(r.Status),
			StreamURL: r.StreamURL,
		})
	}
	return out
}
