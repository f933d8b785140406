package model

import (
	"time"
)

// RoundHistory represents the database model for settled round records.
// The unique (room, round) index doubles as the settlement idempotency
// marker.
type RoundHistory struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	RoomID       string    `gorm:"not null;size:64;uniqueIndex:idx_history_room_round"`
	RoundNumber  int64     `gorm:"not null;uniqueIndex:idx_history_room_round"`
	Result       string    `gorm:"not null;size:10"`
	TargetCard   string    `gorm:"size:10"`
	TotalPayout  int64     `gorm:"not null;default:0"`
	AccountsPaid int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for RoundHistory
func (RoundHistory) TableName() string {
	return "game_history"
}
