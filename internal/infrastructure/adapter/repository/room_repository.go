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

// RoomRepository implements the room persistence port using GORM
type RoomRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewRoomRepository creates a new RoomRepository instance
func NewRoomRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *RoomRepository {
	return &RoomRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// modelToEntity converts a room model to an entity
func (r *RoomRepository) modelToEntity(roomModel *model.Room) *entity.Room {
	return &entity.Room{
		ID:        roomModel.ID,
		Name:      roomModel.Name,
		Label:     roomModel.Label,
		MinBet:    roomModel.MinBet,
		MaxBet:    roomModel.MaxBet,
		Status:    entity.RoomStatus(roomModel.Status),
		StreamURL: roomModel.StreamURL,
		CreatedAt: roomModel.CreatedAt,
	}
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	var roomModel model.Room
	result := r.db.WithContext(ctx).First(&roomModel, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRoomNotFound
		}
		r.logger.Error("Database error when getting room", map[string]any{
			"room_id": id,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	return r.modelToEntity(&roomModel), nil
}

// List returns all rooms ordered by creation time
func (r *RoomRepository) List(ctx context.Context) ([]*entity.Room, error) {
	var roomModels []model.Room
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&roomModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing rooms", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	rooms := make([]*entity.Room, 0, len(roomModels))
	for i := range roomModels {
		rooms = append(rooms, r.modelToEntity(&roomModels[i]))
	}
	return rooms, nil
}

// Create provisions a new room
func (r *RoomRepository) Create(ctx context.Context, room *entity.Room) error {
	roomModel := model.Room{
		ID:        room.ID,
		Name:      room.Name,
		Label:     room.Label,
		MinBet:    room.MinBet,
		MaxBet:    room.MaxBet,
		Status:    string(room.Status),
		StreamURL: room.StreamURL,
		CreatedAt: room.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&roomModel)
	if result.Error != nil {
		r.logger.Error("Database error when creating room", map[string]any{
			"room_id": room.ID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	r.logger.Info("Room created", map[string]any{
		"room_id": room.ID,
		"name":    room.Name,
	})
	return nil
}

// UpdateStatus flips a room online/live/offline
func (r *RoomRepository) UpdateStatus(ctx context.Context, id string, status entity.RoomStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		r.logger.Error("Database error when updating room status", map[string]any{
			"room_id": id,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errs.ErrRoomNotFound
	}

	r.logger.Info("Room status updated", map[string]any{
		"room_id": id,
		"status":  status,
	})
	return nil
}
