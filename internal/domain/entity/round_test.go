package entity

import (
	"testing"

	errs "github.com/codecraftmss/game/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, SideBahar, SideAndar.Opposite())
	assert.Equal(t, SideAndar, SideBahar.Opposite())
}

func TestSideAndPhaseValidation(t *testing.T) {
	assert.True(t, IsValidSide("ANDAR"))
	assert.True(t, IsValidSide("BAHAR"))
	assert.False(t, IsValidSide("NEITHER"))
	assert.False(t, IsValidSide(""))

	assert.True(t, IsValidPhase("FIRST_BET"))
	assert.True(t, IsValidPhase("SECOND_BET"))
	assert.False(t, IsValidPhase("THIRD_BET"))
}

func TestNewRoundState(t *testing.T) {
	state := NewRoundState("room-1")

	assert.Equal(t, int64(1), state.CurrentRound)
	assert.Equal(t, PhaseFirstBet, state.Phase)
	assert.True(t, state.IsOpen())
	assert.False(t, state.HasResult())

	state.BettingStatus = BettingClosed
	assert.False(t, state.IsOpen())

	state.Result = SideAndar
	assert.True(t, state.HasResult())
}

func TestValidateStakes(t *testing.T) {
	tests := []struct {
		name    string
		stakes  []Stake
		wantErr error
	}{
		{"single side within limits", []Stake{{SideAndar, 1000}}, nil},
		{"both sides allowed", []Stake{{SideAndar, 1000}, {SideBahar, 500}}, nil},
		{"empty submission", nil, errs.ErrInvalidRequest},
		{"duplicate side", []Stake{{SideAndar, 500}, {SideAndar, 500}}, errs.ErrInvalidRequest},
		{"unknown side", []Stake{{"MIDDLE", 500}}, errs.ErrInvalidSide},
		{"non-positive amount", []Stake{{SideAndar, 0}}, errs.ErrInvalidAmount},
		{"total below minimum", []Stake{{SideAndar, 100}}, errs.ErrBetOutOfRange},
		{"total above maximum", []Stake{{SideAndar, 200000}}, errs.ErrBetOutOfRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStakes(tc.stakes, 500, 100000)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestTotalStaked(t *testing.T) {
	assert.Equal(t, int64(0), TotalStaked(nil))
	assert.Equal(t, int64(1500), TotalStaked([]Stake{{SideAndar, 1000}, {SideBahar, 500}}))
}
