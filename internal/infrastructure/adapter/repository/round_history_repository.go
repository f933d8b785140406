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

// RoundHistoryRepository implements the settlement audit persistence port
// using GORM
type RoundHistoryRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewRoundHistoryRepository creates a new RoundHistoryRepository instance
func NewRoundHistoryRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *RoundHistoryRepository {
	return &RoundHistoryRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a history model to an entity
func (r *RoundHistoryRepository) modelToEntity(historyModel *model.RoundHistory) *entity.RoundHistory {
	return &entity.RoundHistory{
		ID:           historyModel.ID,
		RoomID:       historyModel.RoomID,
		RoundNumber:  historyModel.RoundNumber,
		Result:       entity.Side(historyModel.Result),
		TargetCard:   historyModel.TargetCard,
		TotalPayout:  historyModel.TotalPayout,
		AccountsPaid: historyModel.AccountsPaid,
		CreatedAt:    historyModel.CreatedAt,
	}
}

// Create writes the settlement record for a round. The unique (room, round)
// index makes a second write for the same round fail with
// ErrDuplicateTransaction, which is how settlement stays exactly-once.
func (r *RoundHistoryRepository) Create(ctx context.Context, entry *entity.RoundHistory) error {
	historyModel := model.RoundHistory{
		RoomID:       entry.RoomID,
		RoundNumber:  entry.RoundNumber,
		Result:       string(entry.Result),
		TargetCard:   entry.TargetCard,
		TotalPayout:  entry.TotalPayout,
		AccountsPaid: entry.AccountsPaid,
		CreatedAt:    entry.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&historyModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Round already settled", map[string]any{
				"room_id":      entry.RoomID,
				"round_number": entry.RoundNumber,
			})
			return errs.ErrDuplicateTransaction
		}
		r.logger.Error("Database error when writing settlement record", map[string]any{
			"room_id":      entry.RoomID,
			"round_number": entry.RoundNumber,
			"error":        result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	entry.ID = historyModel.ID
	return nil
}

// GetByRound returns the settlement record for one round, if any
func (r *RoundHistoryRepository) GetByRound(ctx context.Context, roomID string, roundNumber int64) (*entity.RoundHistory, error) {
	var historyModel model.RoundHistory
	result := r.db.WithContext(ctx).
		First(&historyModel, "room_id = ? AND round_number = ?", roomID, roundNumber)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Database error when getting settlement record", map[string]any{
			"room_id":      roomID,
			"round_number": roundNumber,
			"error":        result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	return r.modelToEntity(&historyModel), nil
}

// ListByRoom returns up to limit settled rounds, most recent first
func (r *RoundHistoryRepository) ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.RoundHistory, error) {
	if limit <= 0 {
		limit = 50
	}

	var historyModels []model.RoundHistory
	result := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("round_number DESC").
		Limit(limit).
		Find(&historyModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing settlement records", map[string]any{
			"room_id": roomID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	entries := make([]*entity.RoundHistory, 0, len(historyModels))
	for i := range historyModels {
		entries = append(entries, r.modelToEntity(&historyModels[i]))
	}
	return entries, nil
}
