package account

import (
	"context"
	"fmt"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/domain/port/persistence"
	realtimeport "github.com/codecraftmss/game/internal/domain/port/realtime"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
)

// Service implements account lifecycle and ledger-store operations
type Service struct {
	uow                persistence.UnitOfWork
	accountRepo        persistence.AccountRepository
	transactionRepo    persistence.TransactionRepository
	idempotencyHandler *IdempotencyHandler
	notifier           realtimeport.Notifier
	timeProvider       coreport.TimeProvider
	logger             coreport.Logger
}

// NewService creates a new account service
func NewService(
	uow persistence.UnitOfWork,
	accountRepo persistence.AccountRepository,
	transactionRepo persistence.TransactionRepository,
	notifier realtimeport.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:                uow,
		accountRepo:        accountRepo,
		transactionRepo:    transactionRepo,
		idempotencyHandler: NewIdempotencyHandler(transactionRepo),
		notifier:           notifier,
		timeProvider:       timeProvider,
		logger:             logger,
	}
}

// GetBalance retrieves an account's current token balance
func (s *Service) GetBalance(ctx context.Context, accountID string) (*usecaseport.BalanceResponse, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &usecaseport.BalanceResponse{
		AccountID: account.ID,
		Balance:   account.Balance(),
	}, nil
}

// GetAccount retrieves the full account record
func (s *Service) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	return s.accountRepo.GetByID(ctx, accountID)
}

// CreateAccount provisions a new pending account with an initial balance
func (s *Service) CreateAccount(ctx context.Context, accountID string, initialBalance int64) (*entity.Account, error) {
	account, err := entity.NewAccount(accountID, initialBalance, s.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Account provisioned", map[string]any{
		"account_id": accountID,
		"balance":    initialBalance,
	})
	return account, nil
}

// SetAccountStatus moves an account through its lifecycle
func (s *Service) SetAccountStatus(ctx context.Context, accountID string, status entity.AccountStatus) error {
	if !entity.IsValidAccountStatus(string(status)) {
		return fmt.Errorf("%w: invalid account status %s", errs.ErrInvalidRequest, status)
	}

	return s.accountRepo.UpdateStatus(ctx, accountID, status)
}

// ListTransactions returns the account's most recent ledger entries, newest first
func (s *Service) ListTransactions(ctx context.Context, accountID string, limit int) ([]*entity.Transaction, error) {
	// Surface unknown accounts instead of an empty page
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return s.transactionRepo.ListByAccount(ctx, accountID, limit)
}
