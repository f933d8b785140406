package model

import (
	"time"
)

// Transaction represents the database model for the append-only ledger
type Transaction struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	AccountID     string    `gorm:"not null;size:64;index"`
	TransactionID string    `gorm:"uniqueIndex;not null;size:255"`
	Type          string    `gorm:"not null;size:30"`
	Amount        int64     `gorm:"not null"`
	BalanceBefore int64     `gorm:"not null"`
	BalanceAfter  int64     `gorm:"not null"`
	RoomID        string    `gorm:"size:64;index"`
	RoundNumber   int64     `gorm:"index"`
	Reference     string    `gorm:"size:255"`
	CreatedAt     time.Time `gorm:"not null;index"`

	// Define relationships
	Account Account `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
