package model

import (
	"time"
)

// Account represents the database model for player accounts
type Account struct {
	ID            string    `gorm:"primaryKey;size:64"`
	TokenBalance  int64     `gorm:"not null;default:0"`
	TotalDeposit  int64     `gorm:"not null;default:0"`
	TotalWithdraw int64     `gorm:"not null;default:0"`
	TotalWin      int64     `gorm:"not null;default:0"`
	TotalLoss     int64     `gorm:"not null;default:0"`
	Status        string    `gorm:"not null;size:20;default:PENDING;index"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
