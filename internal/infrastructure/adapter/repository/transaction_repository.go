package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TransactionRepository implements the ledger persistence port using GORM
type TransactionRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(txnModel *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:            txnModel.ID,
		AccountID:     txnModel.AccountID,
		TransactionID: txnModel.TransactionID,
		Type:          entity.TransactionType(txnModel.Type),
		Amount:        txnModel.Amount,
		BalanceBefore: txnModel.BalanceBefore,
		BalanceAfter:  txnModel.BalanceAfter,
		RoomID:        txnModel.RoomID,
		RoundNumber:   txnModel.RoundNumber,
		Reference:     txnModel.Reference,
		CreatedAt:     txnModel.CreatedAt,
	}
}

// Create appends a new ledger entry. Entries are immutable once written;
// the unique transaction ID index turns replays into ErrDuplicateTransaction.
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	txnModel := model.Transaction{
		AccountID:     transaction.AccountID,
		TransactionID: transaction.TransactionID,
		Type:          string(transaction.Type),
		Amount:        transaction.Amount,
		BalanceBefore: transaction.BalanceBefore,
		BalanceAfter:  transaction.BalanceAfter,
		RoomID:        transaction.RoomID,
		RoundNumber:   transaction.RoundNumber,
		Reference:     transaction.Reference,
		CreatedAt:     transaction.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&txnModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate ledger entry rejected", map[string]any{
				"transaction_id": transaction.TransactionID,
				"account_id":     transaction.AccountID,
			})
			return errs.ErrDuplicateTransaction
		}
		r.logger.Error("Database error when creating ledger entry", map[string]any{
			"transaction_id": transaction.TransactionID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	transaction.ID = txnModel.ID

	r.logger.Debug("Ledger entry created", map[string]any{
		"transaction_id": transaction.TransactionID,
		"account_id":     transaction.AccountID,
		"type":           transaction.Type,
		"amount":         transaction.Amount,
	})
	return nil
}

// GetByTransactionID retrieves an entry by its external transaction ID
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	var txnModel model.Transaction
	result := r.db.WithContext(ctx).First(&txnModel, "transaction_id = ?", transactionID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Database error when getting ledger entry", map[string]any{
			"transaction_id": transactionID,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	return r.modelToEntity(&txnModel), nil
}

// TransactionExists checks if an entry with the given ID already exists
func (r *TransactionRepository) TransactionExists(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("transaction_id = ?", transactionID).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("Database error when checking ledger entry existence", map[string]any{
			"transaction_id": transactionID,
			"error":          result.Error.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	return count > 0, nil
}

// ListByAccount returns the most recent entries for an account, newest first
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*entity.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var txnModels []model.Transaction
	result := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id DESC").
		Limit(limit).
		Find(&txnModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing ledger entries", map[string]any{
			"account_id": accountID,
			"error":      result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrTransientStore, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(txnModels))
	for i := range txnModels {
		transactions = append(transactions, r.modelToEntity(&txnModels[i]))
	}
	return transactions, nil
}
