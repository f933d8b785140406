package model

import (
	"time"
)

// Bet represents the database model for aggregated per-side stakes.
// The composite unique index enforces one aggregate row per
// (room, round, account, side); repeat stakes accumulate into it.
type Bet struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	AccountID   string    `gorm:"not null;size:64;uniqueIndex:idx_bets_round_account_side"`
	RoomID      string    `gorm:"not null;size:64;uniqueIndex:idx_bets_round_account_side;index:idx_bets_room_round"`
	RoundNumber int64     `gorm:"not null;uniqueIndex:idx_bets_round_account_side;index:idx_bets_room_round"`
	Side        string    `gorm:"not null;size:10;uniqueIndex:idx_bets_round_account_side"`
	Amount      int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for Bet
func (Bet) TableName() string {
	return "bets"
}
