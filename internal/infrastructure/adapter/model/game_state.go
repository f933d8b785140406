package model

import (
	"time"
)

// GameState represents the database model for the single current round
// state row per room. The row is superseded in place as rounds advance.
type GameState struct {
	RoomID        string    `gorm:"primaryKey;size:64"`
	CurrentRound  int64     `gorm:"not null;default:1"`
	BettingPhase  string    `gorm:"not null;size:20;default:FIRST_BET"`
	BettingStatus string    `gorm:"not null;size:10;default:OPEN"`
	Result        string    `gorm:"size:10"`
	TargetCard    string    `gorm:"size:10"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for GameState
func (GameState) TableName() string {
	return "game_states"
}
