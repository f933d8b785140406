package persistence

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// RoomRepository reads table metadata. The core treats rooms as boundary
// configuration: betting limits and the online flag.
type RoomRepository interface {
	// GetByID retrieves a room by ID
	//
	// Possible errors:
	// - ErrRoomNotFound: If no room exists with the given ID
	GetByID(ctx context.Context, id string) (*entity.Room, error)

	// List returns all rooms ordered by creation time
	List(ctx context.Context) ([]*entity.Room, error)

	// Create provisions a new room
	Create(ctx context.Context, room *entity.Room) error

	// UpdateStatus flips a room online/live/offline
	UpdateStatus(ctx context.Context, id string, status entity.RoomStatus) error
}
