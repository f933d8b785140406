package account

import (
	"context"
	"testing"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/database"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/logger"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/realtime"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/repository"
	timeadapter "github.com/codecraftmss/game/internal/infrastructure/adapter/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAccountService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := database.NewTestDB(t)
	log := logger.NewNoopLogger()
	timeProvider := timeadapter.NewRealTimeProvider()

	accountRepo := repository.NewAccountRepository(db, timeProvider, log)
	transactionRepo := repository.NewTransactionRepository(db, timeProvider, log)
	uow := database.NewUnitOfWork(db, log, timeProvider)

	svc := NewService(uow, accountRepo, transactionRepo, realtime.NewNoopNotifier(), timeProvider, log)
	return svc, db
}

func TestCreateAccountAndLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t)

	account, err := svc.CreateAccount(ctx, "player-1", 5000)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, account.Status)
	assert.Equal(t, int64(5000), account.Balance())

	// Duplicate provisioning is rejected
	_, err = svc.CreateAccount(ctx, "player-1", 0)
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)

	require.NoError(t, svc.SetAccountStatus(ctx, "player-1", entity.StatusApproved))
	account, err = svc.GetAccount(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, account.Status)

	err = svc.SetAccountStatus(ctx, "player-1", "BANNED")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	err = svc.SetAccountStatus(ctx, "ghost", entity.StatusApproved)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()
	svc, db := newAccountService(t)
	database.CreateTestAccount(t, db, "player-1", 7500)

	balance, err := svc.GetBalance(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, "player-1", balance.AccountID)
	assert.Equal(t, int64(7500), balance.Balance)

	_, err = svc.GetBalance(ctx, "ghost")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestProcessTokenTransactionAdd(t *testing.T) {
	ctx := context.Background()
	svc, db := newAccountService(t)
	database.CreateTestAccount(t, db, "player-1", 1000)

	result, err := svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminAdd, 4000, "topup-1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.BeforeBalance)
	assert.Equal(t, int64(5000), result.AfterBalance)

	account, err := svc.GetAccount(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), account.Balance())
	assert.Equal(t, int64(4000), account.TotalDeposit)

	entries, err := svc.ListTransactions(ctx, "player-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.TypeAdminAdd, entries[0].Type)
	assert.Equal(t, "admin:admin-1", entries[0].Reference)
}

func TestProcessTokenTransactionWithdraw(t *testing.T) {
	ctx := context.Background()
	svc, db := newAccountService(t)
	database.CreateTestAccount(t, db, "player-1", 1000)

	result, err := svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminWithdraw, 600, "wd-1", "cashout")
	require.NoError(t, err)
	assert.Equal(t, int64(400), result.AfterBalance)

	// A withdrawal may never overdraw
	_, err = svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminWithdraw, 600, "wd-2", "")
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

	account, err := svc.GetAccount(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(400), account.Balance())
	assert.Equal(t, int64(600), account.TotalWithdraw)

	// The failed attempt left no ledger entry
	entries, err := svc.ListTransactions(ctx, "player-1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProcessTokenTransactionIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, db := newAccountService(t)
	database.CreateTestAccount(t, db, "player-1", 1000)

	first, err := svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminAdd, 500, "topup-1", "")
	require.NoError(t, err)

	// Replaying the same transaction ID returns the stored outcome without
	// moving money again
	second, err := svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminAdd, 500, "topup-1", "")
	require.NoError(t, err)
	assert.Equal(t, first.BeforeBalance, second.BeforeBalance)
	assert.Equal(t, first.AfterBalance, second.AfterBalance)

	account, err := svc.GetAccount(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), account.Balance())
	assert.Equal(t, int64(500), account.TotalDeposit)

	entries, err := svc.ListTransactions(ctx, "player-1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProcessTokenTransactionValidation(t *testing.T) {
	ctx := context.Background()
	svc, db := newAccountService(t)
	database.CreateTestAccount(t, db, "player-1", 1000)

	_, err := svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeBetWin, 500, "tx-1", "")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminAdd, 0, "tx-1", "")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)

	_, err = svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminAdd, -5, "tx-1", "")
	assert.ErrorIs(t, err, errs.ErrInvalidAmount)

	_, err = svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminAdd, 500, "", "")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = svc.ProcessTokenTransaction(ctx, "ghost", "admin-1", entity.TypeAdminAdd, 500, "tx-2", "")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestListTransactionsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	svc, db := newAccountService(t)
	database.CreateTestAccount(t, db, "player-1", 0)

	for i, txnID := range []string{"t-1", "t-2", "t-3"} {
		_, err := svc.ProcessTokenTransaction(ctx, "player-1", "admin-1", entity.TypeAdminAdd, int64(100*(i+1)), txnID, "")
		require.NoError(t, err)
	}

	entries, err := svc.ListTransactions(ctx, "player-1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first
	assert.Equal(t, "t-3", entries[0].TransactionID)
	assert.Equal(t, "t-2", entries[1].TransactionID)

	_, err = svc.ListTransactions(ctx, "ghost", 10)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}
