package repository

import (
	"context"
	"fmt"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BetRepository implements the bet persistence port using GORM
type BetRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewBetRepository creates a new BetRepository instance
func NewBetRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *BetRepository {
	return &BetRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// modelToEntity converts a bet model to an entity
func (r *BetRepository) modelToEntity(betModel *model.Bet) *entity.Bet {
	return &entity.Bet{
		ID:          betModel.ID,
		AccountID:   betModel.AccountID,
		RoomID:      betModel.RoomID,
		RoundNumber: betModel.RoundNumber,
		Side:        entity.Side(betModel.Side),
		Amount:      betModel.Amount,
		CreatedAt:   betModel.CreatedAt,
		UpdatedAt:   betModel.UpdatedAt,
	}
}

// AddStake accumulates amount onto the (account, room, round, side) aggregate.
// The write is a single upsert against the composite unique index, so two
// concurrent submissions from the same account both land.
func (r *BetRepository) AddStake(ctx context.Context, accountID, roomID string, roundNumber int64, side entity.Side, amount int64) error {
	now := r.timeProvider.Now()
	betModel := model.Bet{
		AccountID:   accountID,
		RoomID:      roomID,
		RoundNumber: roundNumber,
		Side:        string(side),
		Amount:      amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "account_id"},
			{Name: "room_id"},
			{Name: "round_number"},
			{Name: "side"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"amount":     gorm.Expr("amount + ?", amount),
			"updated_at": now,
		}),
	}).Create(&betModel)

	if result.Error != nil {
		r.logger.Error("Database error when recording stake", map[string]any{
			"account_id":   accountID,
			"room_id":      roomID,
			"round_number": roundNumber,
			"side":         side,
			"error":        result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	r.logger.Debug("Stake recorded", map[string]any{
		"account_id":   accountID,
		"room_id":      roomID,
		"round_number": roundNumber,
		"side":         side,
		"amount":       amount,
	})
	return nil
}

// ListByRound returns every stake for a round
func (r *BetRepository) ListByRound(ctx context.Context, roomID string, roundNumber int64) ([]*entity.Bet, error) {
	var betModels []model.Bet
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND round_number = ?", roomID, roundNumber).
		Order("id ASC").
		Find(&betModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing round stakes", map[string]any{
			"room_id":      roomID,
			"round_number": roundNumber,
			"error":        result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	bets := make([]*entity.Bet, 0, len(betModels))
	for i := range betModels {
		bets = append(bets, r.modelToEntity(&betModels[i]))
	}
	return bets, nil
}

// ListByAccountRound returns one account's stakes for a round
func (r *BetRepository) ListByAccountRound(ctx context.Context, accountID, roomID string, roundNumber int64) ([]*entity.Bet, error) {
	var betModels []model.Bet
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND room_id = ? AND round_number = ?", accountID, roomID, roundNumber).
		Order("id ASC").
		Find(&betModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing account stakes", map[string]any{
			"account_id":   accountID,
			"room_id":      roomID,
			"round_number": roundNumber,
			"error":        result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	bets := make([]*entity.Bet, 0, len(betModels))
	for i := range betModels {
		bets = append(bets, r.modelToEntity(&betModels[i]))
	}
	return bets, nil
}
