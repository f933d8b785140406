package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// RoundRepository implements the round state persistence port using GORM.
// Every transition is a conditional update keyed on the expected current
// round number, so a stale writer affects zero rows instead of clobbering
// a newer state.
type RoundRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewRoundRepository creates a new RoundRepository instance
func NewRoundRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *RoundRepository {
	return &RoundRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// modelToEntity converts a game state model to an entity
func (r *RoundRepository) modelToEntity(stateModel *model.GameState) *entity.RoundState {
	return &entity.RoundState{
		RoomID:        stateModel.RoomID,
		CurrentRound:  stateModel.CurrentRound,
		Phase:         entity.BettingPhase(stateModel.BettingPhase),
		BettingStatus: entity.BettingStatus(stateModel.BettingStatus),
		Result:        entity.Side(stateModel.Result),
		TargetCard:    stateModel.TargetCard,
		UpdatedAt:     stateModel.UpdatedAt,
	}
}

func (r *RoundRepository) storeError(operation, roomID string, err error) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"room_id": roomID,
		"error":   err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrTransientStore, err.Error())
}

// Get retrieves the current round state for a room
func (r *RoundRepository) Get(ctx context.Context, roomID string) (*entity.RoundState, error) {
	var stateModel model.GameState
	result := r.db.WithContext(ctx).First(&stateModel, "room_id = ?", roomID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRoomNotFound
		}
		return nil, r.storeError("getting round state", roomID, result.Error)
	}

	return r.modelToEntity(&stateModel), nil
}

// Create provisions the initial round state for a room
func (r *RoundRepository) Create(ctx context.Context, state *entity.RoundState) error {
	stateModel := model.GameState{
		RoomID:        state.RoomID,
		CurrentRound:  state.CurrentRound,
		BettingPhase:  string(state.Phase),
		BettingStatus: string(state.BettingStatus),
		Result:        string(state.Result),
		TargetCard:    state.TargetCard,
		UpdatedAt:     r.timeProvider.Now(),
	}

	result := r.db.WithContext(ctx).Create(&stateModel)
	if result.Error != nil {
		return r.storeError("creating round state", state.RoomID, result.Error)
	}
	return nil
}

// OpenBetting forces the room open: status OPEN, result cleared. Legal from
// any state so an admin can recover a wedged table.
func (r *RoundRepository) OpenBetting(ctx context.Context, roomID string) error {
	result := r.db.WithContext(ctx).Model(&model.GameState{}).
		Where("room_id = ?", roomID).
		Updates(map[string]any{
			"betting_status": string(entity.BettingOpen),
			"result":         "",
			"updated_at":     r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.storeError("opening betting", roomID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrRoomNotFound
	}

	r.logger.Info("Betting opened", map[string]any{
		"room_id": roomID,
	})
	return nil
}

// CloseBetting transitions OPEN -> CLOSED for the given round number.
// Returns false when the round was not open at that number anymore.
func (r *RoundRepository) CloseBetting(ctx context.Context, roomID string, roundNumber int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.GameState{}).
		Where("room_id = ? AND current_round = ? AND betting_status = ?",
			roomID, roundNumber, string(entity.BettingOpen)).
		Updates(map[string]any{
			"betting_status": string(entity.BettingClosed),
			"updated_at":     r.timeProvider.Now(),
		})

	if result.Error != nil {
		return false, r.storeError("closing betting", roomID, result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Betting closed", map[string]any{
			"room_id":      roomID,
			"round_number": roundNumber,
		})
	}
	return result.RowsAffected > 0, nil
}

// ConfirmOpen re-verifies that the round is still open at the given number.
// The write touches the state row, so inside a transaction it takes the row
// lock and serializes against a concurrent close: either this commit lands
// before the close, or the close already won and zero rows match.
func (r *RoundRepository) ConfirmOpen(ctx context.Context, roomID string, roundNumber int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.GameState{}).
		Where("room_id = ? AND current_round = ? AND betting_status = ?",
			roomID, roundNumber, string(entity.BettingOpen)).
		Update("updated_at", r.timeProvider.Now())

	if result.Error != nil {
		return false, r.storeError("confirming round open", roomID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetPhase updates the informational phase field, last write wins
func (r *RoundRepository) SetPhase(ctx context.Context, roomID string, phase entity.BettingPhase) error {
	result := r.db.WithContext(ctx).Model(&model.GameState{}).
		Where("room_id = ?", roomID).
		Updates(map[string]any{
			"betting_phase": string(phase),
			"updated_at":    r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.storeError("setting phase", roomID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrRoomNotFound
	}
	return nil
}

// SetTargetCard updates the marker card field, last write wins
func (r *RoundRepository) SetTargetCard(ctx context.Context, roomID string, card string) error {
	result := r.db.WithContext(ctx).Model(&model.GameState{}).
		Where("room_id = ?", roomID).
		Updates(map[string]any{
			"target_card": card,
			"updated_at":  r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.storeError("setting target card", roomID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrRoomNotFound
	}
	return nil
}

// SetResult records the winner for a closed, result-less round. Returns
// false when the precondition no longer holds, which the caller must treat
// as a lost race.
func (r *RoundRepository) SetResult(ctx context.Context, roomID string, roundNumber int64, side entity.Side) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.GameState{}).
		Where("room_id = ? AND current_round = ? AND betting_status = ? AND (result = '' OR result IS NULL)",
			roomID, roundNumber, string(entity.BettingClosed)).
		Updates(map[string]any{
			"result":     string(side),
			"updated_at": r.timeProvider.Now(),
		})

	if result.Error != nil {
		return false, r.storeError("setting result", roomID, result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Round result recorded", map[string]any{
			"room_id":      roomID,
			"round_number": roundNumber,
			"result":       side,
		})
	}
	return result.RowsAffected > 0, nil
}

// AdvanceRound moves a settled round to the next sequence number. Conditional
// on the current round number so a duplicate advance is a no-op.
func (r *RoundRepository) AdvanceRound(ctx context.Context, roomID string, settledRound int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.GameState{}).
		Where("room_id = ? AND current_round = ?", roomID, settledRound).
		Updates(map[string]any{
			"current_round":  gorm.Expr("current_round + 1"),
			"betting_status": string(entity.BettingOpen),
			"betting_phase":  string(entity.PhaseFirstBet),
			"result":         "",
			"target_card":    "",
			"updated_at":     r.timeProvider.Now(),
		})

	if result.Error != nil {
		return false, r.storeError("advancing round", roomID, result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Round advanced", map[string]any{
			"room_id":       roomID,
			"settled_round": settledRound,
			"next_round":    settledRound + 1,
		})
	}
	return result.RowsAffected > 0, nil
}
