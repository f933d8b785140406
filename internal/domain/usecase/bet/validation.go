package bet

import (
	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
)

// Validator checks bet submissions against account and room boundary rules
type Validator struct{}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSubmission validates a bet submission before any money moves
func (v *Validator) ValidateSubmission(account *entity.Account, room *entity.Room, stakes []entity.Stake) error {
	if !account.IsApproved() {
		return errs.ErrAccountNotApproved
	}

	if !room.IsPlayable() {
		return errs.ErrRoomNotFound
	}

	return entity.ValidateStakes(stakes, room.MinBet, room.MaxBet)
}
