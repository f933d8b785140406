package database

import (
	"errors"
	"fmt"
	"strings"

	domainErr "github.com/codecraftmss/game/internal/domain/error"
	"gorm.io/gorm"
)

// EntityType represents the type of entity for errors mapping
type EntityType string

const (
	// EntityTypeAccount represents the account entity
	EntityTypeAccount EntityType = "account"
	// EntityTypeTransaction represents the ledger entry entity
	EntityTypeTransaction EntityType = "transaction"
	// EntityTypeRoom represents the room entity
	EntityTypeRoom EntityType = "room"
	// EntityTypeRound represents the round state entity
	EntityTypeRound EntityType = "round"
)

// ErrorMapper maps database errors to domain errors
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps a database error to a domain error
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr.ErrAccountNotFound
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	// Transaction and locking errors resolve on retry
	case strings.Contains(errMsg, "deadlock") ||
		strings.Contains(errMsg, "serialization") ||
		strings.Contains(errMsg, "lock timeout") ||
		strings.Contains(errMsg, "database is locked"):
		return domainErr.ErrTransientStore

	// Duplicate key errors
	case strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint"):
		return domainErr.ErrDuplicateTransaction

	// Constraint violations
	case strings.Contains(errMsg, "check constraint") ||
		strings.Contains(errMsg, "foreign key constraint"):
		return domainErr.ErrConstraintViolation

	// Connection issues
	case strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no connection") ||
		strings.Contains(errMsg, "connection reset"):
		return domainErr.ErrTransientStore

	// Timeout errors
	case strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded"):
		return fmt.Errorf("%w: %s operation timed out", domainErr.ErrTransientStore, operation)

	default:
		return domainErr.ErrInternalServer
	}
}

// MapEntityNotFoundError maps database errors to specific entity not found errors
func (m *ErrorMapper) MapEntityNotFoundError(err error, entityType EntityType) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		switch entityType {
		case EntityTypeAccount:
			return domainErr.ErrAccountNotFound
		case EntityTypeTransaction:
			return domainErr.ErrTransactionNotFound
		case EntityTypeRoom, EntityTypeRound:
			return domainErr.ErrRoomNotFound
		default:
			return domainErr.ErrAccountNotFound
		}
	}

	return m.MapError(err, string(entityType))
}

// MapAccountNotFoundError maps database errors to account not found errors
func (m *ErrorMapper) MapAccountNotFoundError(err error) error {
	return m.MapEntityNotFoundError(err, EntityTypeAccount)
}

// MapRoomNotFoundError maps database errors to room not found errors
func (m *ErrorMapper) MapRoomNotFoundError(err error) error {
	return m.MapEntityNotFoundError(err, EntityTypeRoom)
}
