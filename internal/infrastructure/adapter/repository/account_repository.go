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

// AccountRepository implements the account persistence port using GORM
type AccountRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts an account model to an entity
func (r *AccountRepository) modelToEntity(accountModel *model.Account) *entity.Account {
	account := &entity.Account{
		ID:            accountModel.ID,
		TotalDeposit:  accountModel.TotalDeposit,
		TotalWithdraw: accountModel.TotalWithdraw,
		TotalWin:      accountModel.TotalWin,
		TotalLoss:     accountModel.TotalLoss,
		Status:        entity.AccountStatus(accountModel.Status),
		CreatedAt:     accountModel.CreatedAt,
		UpdatedAt:     accountModel.UpdatedAt,
	}
	account.SetBalance(accountModel.TokenBalance, r.timeProvider)
	account.UpdatedAt = accountModel.UpdatedAt
	return account
}

// handleDatabaseError standardizes database error handling
func (r *AccountRepository) handleDatabaseError(operation string, err error, accountID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Account not found", map[string]any{
			"account_id": accountID,
		})
		return errs.ErrAccountNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"account_id": accountID,
		"error":      err.Error(),
	})

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrConstraintViolation
	}

	return fmt.Errorf("%w: %s", errs.ErrTransientStore, err.Error())
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	var accountModel model.Account
	result := r.db.WithContext(ctx).First(&accountModel, "id = ?", id)

	if result.Error != nil {
		return nil, r.handleDatabaseError("getting account", result.Error, id)
	}

	return r.modelToEntity(&accountModel), nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	r.logger.Debug("Creating new account", map[string]any{
		"account_id": account.ID,
		"balance":    account.Balance(),
	})

	accountModel := model.Account{
		ID:            account.ID,
		TokenBalance:  account.Balance(),
		TotalDeposit:  account.TotalDeposit,
		TotalWithdraw: account.TotalWithdraw,
		TotalWin:      account.TotalWin,
		TotalLoss:     account.TotalLoss,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&accountModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating account", result.Error, account.ID)
	}

	r.logger.Info("Account created", map[string]any{
		"account_id": account.ID,
		"balance":    account.Balance(),
	})
	return nil
}

// UpdateStatus moves an account through its lifecycle
func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status entity.AccountStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating account status", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}

	r.logger.Info("Account status updated", map[string]any{
		"account_id": id,
		"status":     status,
	})
	return nil
}

// ApplyBalanceDelta atomically adjusts the token balance by delta. The update
// is conditional on the balance staying non-negative, so a lost race or an
// unaffordable debit changes nothing. Concurrent writers to different
// accounts touch different rows and never serialize against each other.
func (r *AccountRepository) ApplyBalanceDelta(ctx context.Context, id string, delta int64) (int64, int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ? AND token_balance + ? >= 0", id, delta).
		Updates(map[string]any{
			"token_balance": gorm.Expr("token_balance + ?", delta),
			"updated_at":    r.timeProvider.Now(),
		})

	if result.Error != nil {
		return 0, 0, r.handleDatabaseError("adjusting balance", result.Error, id)
	}

	if result.RowsAffected == 0 {
		// Either the account is missing or the debit was unaffordable.
		var accountModel model.Account
		lookup := r.db.WithContext(ctx).First(&accountModel, "id = ?", id)
		if lookup.Error != nil {
			return 0, 0, r.handleDatabaseError("adjusting balance", lookup.Error, id)
		}
		r.logger.Debug("Balance adjustment rejected", map[string]any{
			"account_id": id,
			"delta":      delta,
			"balance":    accountModel.TokenBalance,
		})
		return 0, 0, errs.NewInsufficientBalanceError(id, -delta, accountModel.TokenBalance)
	}

	var accountModel model.Account
	if err := r.db.WithContext(ctx).First(&accountModel, "id = ?", id).Error; err != nil {
		return 0, 0, r.handleDatabaseError("reading balance after adjustment", err, id)
	}

	after := accountModel.TokenBalance
	return after - delta, after, nil
}

// AddAggregates bumps the lifetime informational counters
func (r *AccountRepository) AddAggregates(ctx context.Context, id string, deposit, withdraw, win, loss int64) error {
	updates := map[string]any{
		"updated_at": r.timeProvider.Now(),
	}
	if deposit != 0 {
		updates["total_deposit"] = gorm.Expr("total_deposit + ?", deposit)
	}
	if withdraw != 0 {
		updates["total_withdraw"] = gorm.Expr("total_withdraw + ?", withdraw)
	}
	if win != 0 {
		updates["total_win"] = gorm.Expr("total_win + ?", win)
	}
	if loss != 0 {
		updates["total_loss"] = gorm.Expr("total_loss + ?", loss)
	}

	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return r.handleDatabaseError("updating aggregates", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}
