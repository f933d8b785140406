package migration

import (
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific advanced indexes
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateAdvancedIndexes creates advanced PostgreSQL indexes for better
// performance. Skipped on sqlite, where the syntax is not supported and the
// basic indexes suffice.
func (m *AdvancedIndexManager) CreateAdvancedIndexes() error {
	if m.db.Dialector.Name() != "postgres" {
		m.logger.Info("Skipping advanced indexes for non-postgres database", map[string]any{
			"dialect": m.db.Dialector.Name(),
		})
		return nil
	}

	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	// One aggregated stake row per (account, room, round, side)
	if err := m.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bets_round_account_side
		ON bets (account_id, room_id, round_number, side)
	`).Error; err != nil {
		m.logger.Error("Failed to create unique index on bets", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Composite index for round-scoped ledger queries during settlement audits
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_room_round
		ON transactions (room_id, round_number)
		WHERE room_id <> ''
	`).Error; err != nil {
		m.logger.Error("Failed to create room_round partial index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Composite index for per-account transaction pages
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_account_created
		ON transactions (account_id, created_at DESC)
	`).Error; err != nil {
		m.logger.Error("Failed to create account_created composite index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// BRIN index for created_at (more efficient for temporal data)
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
		ON transactions USING BRIN (created_at)
		WITH (pages_per_range = 32)
	`).Error; err != nil {
		m.logger.Error("Failed to create BRIN index on created_at", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// History listings read the newest rounds of one room
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_history_room_recent
		ON game_history (room_id, round_number DESC)
	`).Error; err != nil {
		m.logger.Error("Failed to create history listing index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}
