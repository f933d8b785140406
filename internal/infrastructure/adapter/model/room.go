package model

import (
	"time"
)

// Room represents the database model for game tables
type Room struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"not null;size:100"`
	Label     string    `gorm:"size:100"`
	MinBet    int64     `gorm:"not null;default:0"`
	MaxBet    int64     `gorm:"not null;default:0"`
	Status    string    `gorm:"not null;size:10;default:OFFLINE"`
	StreamURL string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Room
func (Room) TableName() string {
	return "rooms"
}
