package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/codecraftmss/game/internal/domain/entity"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/model"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with the full schema
// migrated. Each call gets its own database, so parallel tests never share
// state. The shared cache keeps the database alive across the pooled
// connections of a single test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database handle: %v", err)
	}
	// A single connection avoids sqlite shared-cache lock contention in tests
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Account{},
		&model.Transaction{},
		&model.Bet{},
		&model.GameState{},
		&model.Room{},
		&model.RoundHistory{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateTestAccount inserts an approved account with the given balance
func CreateTestAccount(t *testing.T, db *gorm.DB, id string, balance int64) {
	t.Helper()

	now := time.Now().UTC()
	account := model.Account{
		ID:           id,
		TokenBalance: balance,
		Status:       string(entity.StatusApproved),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
}

// CreateTestRoom inserts an online room with its initial round state
func CreateTestRoom(t *testing.T, db *gorm.DB, id string, minBet, maxBet int64) {
	t.Helper()

	now := time.Now().UTC()
	room := model.Room{
		ID:        id,
		Name:      id,
		Label:     "Test Table",
		MinBet:    minBet,
		MaxBet:    maxBet,
		Status:    string(entity.RoomOnline),
		CreatedAt: now,
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to create test room: %v", err)
	}

	state := model.GameState{
		RoomID:        id,
		CurrentRound:  1,
		BettingPhase:  string(entity.PhaseFirstBet),
		BettingStatus: string(entity.BettingOpen),
		UpdatedAt:     now,
	}
	if err := db.Create(&state).Error; err != nil {
		t.Fatalf("failed to create test round state: %v", err)
	}
}
