package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	realtimeport "github.com/codecraftmss/game/internal/domain/port/realtime"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
)

// ProcessTokenTransaction applies a manual admin credit or debit. The balance
// adjustment, the ledger append and the aggregate bump commit as one atomic
// unit; the unique transaction ID turns a replay into a read of the stored
// outcome.
func (s *Service) ProcessTokenTransaction(
	ctx context.Context,
	accountID, adminID string,
	txType entity.TransactionType,
	amount int64,
	transactionID, reference string,
) (*usecaseport.TokenTransactionResult, error) {
	if txType != entity.TypeAdminAdd && txType != entity.TypeAdminWithdraw {
		return nil, fmt.Errorf("%w: transaction type %s is not a manual token operation", errs.ErrInvalidRequest, txType)
	}
	if amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction ID is required", errs.ErrInvalidRequest)
	}

	// Fast path for replays: no write, just the stored outcome
	existing, found, err := s.idempotencyHandler.CheckIdempotency(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if found {
		s.logger.Info("Token transaction replayed, returning stored outcome", map[string]any{
			"transaction_id": transactionID,
			"account_id":     accountID,
		})
		return tokenResultFromTransaction(existing), nil
	}

	if reference == "" {
		reference = fmt.Sprintf("admin:%s", adminID)
	}

	delta := amount
	if txType == entity.TypeAdminWithdraw {
		delta = -amount
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.uow.Rollback(txCtx) }()

	txAccountRepo := s.uow.GetAccountRepository(txCtx)
	txTransactionRepo := s.uow.GetTransactionRepository(txCtx)

	before, after, err := txAccountRepo.ApplyBalanceDelta(txCtx, accountID, delta)
	if err != nil {
		return nil, err
	}

	txn, err := entity.NewTransaction(accountID, transactionID, txType, amount, before, s.timeProvider)
	if err != nil {
		return nil, err
	}
	txn.Reference = reference

	if err := txTransactionRepo.Create(txCtx, txn); err != nil {
		if errors.Is(err, errs.ErrDuplicateTransaction) {
			// Lost a race against a concurrent replay; the committed
			// entry is the outcome
			_ = s.uow.Rollback(txCtx)
			stored, getErr := s.transactionRepo.GetByTransactionID(ctx, transactionID)
			if getErr != nil {
				return nil, getErr
			}
			return tokenResultFromTransaction(stored), nil
		}
		return nil, err
	}

	var deposit, withdraw int64
	if txType == entity.TypeAdminAdd {
		deposit = amount
	} else {
		withdraw = amount
	}
	if err := txAccountRepo.AddAggregates(txCtx, accountID, deposit, withdraw, 0, 0); err != nil {
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Token transaction processed", map[string]any{
		"transaction_id": transactionID,
		"account_id":     accountID,
		"admin_id":       adminID,
		"type":           txType,
		"amount":         amount,
		"after_balance":  after,
	})

	// Fan-out after commit; delivery failures never affect the ledger
	if err := s.notifier.PublishBalance(ctx, realtimeport.BalanceEvent{
		AccountID: accountID,
		Balance:   after,
	}); err != nil {
		s.logger.Warn("Failed to publish balance event", map[string]any{
			"account_id": accountID,
			"error":      err.Error(),
		})
	}

	return &usecaseport.TokenTransactionResult{
		TransactionID: transactionID,
		AccountID:     accountID,
		BeforeBalance: before,
		AfterBalance:  after,
	}, nil
}

// tokenResultFromTransaction rebuilds the idempotent response from a stored
// ledger entry
func tokenResultFromTransaction(txn *entity.Transaction) *usecaseport.TokenTransactionResult {
	return &usecaseport.TokenTransactionResult{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		BeforeBalance: txn.BalanceBefore,
		AfterBalance:  txn.BalanceAfter,
	}
}
