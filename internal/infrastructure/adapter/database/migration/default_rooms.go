package migration

import (
	"context"
	"errors"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/domain/port/persistence"
)

// Default tables provisioned on first startup
var defaultRooms = []entity.Room{
	{ID: "andar-bahar-1", Name: "andar-bahar-1", Label: "Andar Bahar 1", MinBet: 500, MaxBet: 100000, Status: entity.RoomOnline},
	{ID: "andar-bahar-2", Name: "andar-bahar-2", Label: "Andar Bahar 2", MinBet: 1000, MaxBet: 200000, Status: entity.RoomOffline},
}

// CreateDefaultRooms provisions the default rooms and their initial round
// states. Rooms that already exist are left untouched.
func CreateDefaultRooms(
	ctx context.Context,
	roomRepo persistence.RoomRepository,
	roundRepo persistence.RoundRepository,
	timeProvider coreport.TimeProvider,
) error {
	for _, room := range defaultRooms {
		_, err := roomRepo.GetByID(ctx, room.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, errs.ErrRoomNotFound) {
			return err
		}

		room.CreatedAt = timeProvider.Now()
		if err := roomRepo.Create(ctx, &room); err != nil {
			return err
		}

		state := entity.NewRoundState(room.ID)
		if err := roundRepo.Create(ctx, state); err != nil {
			return err
		}
	}

	return nil
}
