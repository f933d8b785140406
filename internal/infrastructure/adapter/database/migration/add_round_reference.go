package migration

import (
	"context"

	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"gorm.io/gorm"
)

// AddRoundReferenceToTransactions is a migration to add room_id and
// round_number columns to the transactions table for ledgers created before
// settlement entries carried a round reference
type AddRoundReferenceToTransactions struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAddRoundReferenceToTransactions creates a new migration instance
func NewAddRoundReferenceToTransactions(db *gorm.DB, logger coreport.Logger) *AddRoundReferenceToTransactions {
	return &AddRoundReferenceToTransactions{
		db:     db,
		logger: logger,
	}
}

// Run executes the migration
func (m *AddRoundReferenceToTransactions) Run(ctx context.Context) error {
	m.logger.Info("Adding round reference columns to transactions table", nil)

	var hasRoomID, hasRoundNumber bool
	if err := m.checkColumnExists(&hasRoomID, &hasRoundNumber); err != nil {
		return err
	}

	if !hasRoomID {
		if err := m.db.Exec(`ALTER TABLE transactions ADD COLUMN room_id VARCHAR(64) NOT NULL DEFAULT ''`).Error; err != nil {
			m.logger.Error("Failed to add room_id column", map[string]any{"error": err.Error()})
			return err
		}
	}

	if !hasRoundNumber {
		if err := m.db.Exec(`ALTER TABLE transactions ADD COLUMN round_number BIGINT NOT NULL DEFAULT 0`).Error; err != nil {
			m.logger.Error("Failed to add round_number column", map[string]any{"error": err.Error()})
			return err
		}
	}

	m.logger.Info("Successfully added round reference columns to transactions table", nil)
	return nil
}

// checkColumnExists checks if the columns already exist in the table
func (m *AddRoundReferenceToTransactions) checkColumnExists(hasRoomID, hasRoundNumber *bool) error {
	// For PostgreSQL
	var columns []struct {
		ColumnName string `gorm:"column:column_name"`
	}

	err := m.db.Raw(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = 'transactions' AND column_name IN ('room_id', 'round_number')
	`).Scan(&columns).Error

	if err != nil {
		m.logger.Error("Failed to check columns existence", map[string]any{"error": err.Error()})
		return err
	}

	for _, column := range columns {
		if column.ColumnName == "room_id" {
			*hasRoomID = true
		}
		if column.ColumnName == "round_number" {
			*hasRoundNumber = true
		}
	}

	return nil
}
