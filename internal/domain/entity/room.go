package entity

import "time"

// RoomStatus reflects whether a table is visible and accepting players
type RoomStatus string

// Room statuses
const (
	RoomOnline  RoomStatus = "ONLINE"
	RoomLive    RoomStatus = "LIVE"
	RoomOffline RoomStatus = "OFFLINE"
)

// Room is an independent game table with its own round state and bet pool.
// Room metadata is a boundary concern: the core only reads the betting
// limits and the online flag.
type Room struct {
	ID        string
	Name      string
	Label     string
	MinBet    int64
	MaxBet    int64
	Status    RoomStatus
	StreamURL string // Opaque to the core; video transport is out of scope
	CreatedAt time.Time
}

// IsPlayable reports whether players may join and bet in this room
func (r *Room) IsPlayable() bool {
	return r.Status == RoomOnline || r.Status == RoomLive
}

// IsValidRoomStatus validates if the status is one of the allowed values
func IsValidRoomStatus(status string) bool {
	return status == string(RoomOnline) ||
		status == string(RoomLive) ||
		status == string(RoomOffline)
}
