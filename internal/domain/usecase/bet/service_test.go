package bet

import (
	"context"
	"sync"
	"testing"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	"github.com/codecraftmss/game/internal/domain/port/persistence"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/database"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/logger"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/realtime"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/repository"
	timeadapter "github.com/codecraftmss/game/internal/infrastructure/adapter/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type betFixture struct {
	svc             *Service
	db              *gorm.DB
	accountRepo     *repository.AccountRepository
	roundRepo       *repository.RoundRepository
	transactionRepo *repository.TransactionRepository
}

func newBetFixture(t *testing.T) *betFixture {
	t.Helper()

	db := database.NewTestDB(t)
	log := logger.NewNoopLogger()
	timeProvider := timeadapter.NewRealTimeProvider()

	accountRepo := repository.NewAccountRepository(db, timeProvider, log)
	roomRepo := repository.NewRoomRepository(db, timeProvider, log)
	betRepo := repository.NewBetRepository(db, timeProvider, log)
	roundRepo := repository.NewRoundRepository(db, timeProvider, log)
	uow := database.NewUnitOfWork(db, log, timeProvider)

	svc := NewService(
		uow,
		accountRepo,
		roomRepo,
		betRepo,
		roundRepo,
		realtime.NewNoopNotifier(),
		timeProvider,
		log,
	)

	return &betFixture{
		svc:             svc,
		db:              db,
		accountRepo:     accountRepo,
		roundRepo:       roundRepo,
		transactionRepo: repository.NewTransactionRepository(db, timeProvider, log),
	}
}

func TestPlaceBetDebitsAndRecordsStakes(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestAccount(t, f.db, "player-1", 10000)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	result, err := f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 1000},
		{Side: entity.SideBahar, Amount: 500},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RoundNumber)
	assert.Equal(t, int64(1500), result.TotalStaked)
	assert.Equal(t, int64(8500), result.NewBalance)

	bets, err := f.svc.ListRoundBets(ctx, "player-1", "room-1", 1)
	require.NoError(t, err)
	require.Len(t, bets, 2)

	account, err := f.accountRepo.GetByID(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(8500), account.Balance())

	// Exactly one debit ledger entry for the whole submission
	entries, err := f.transactionRepo.ListByAccount(ctx, "player-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.TypeBetDebit, entries[0].Type)
	assert.Equal(t, int64(1500), entries[0].Amount)
	assert.Equal(t, "room-1", entries[0].RoomID)
	assert.Equal(t, int64(1), entries[0].RoundNumber)
}

func TestPlaceBetAccumulatesRepeatSubmissions(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestAccount(t, f.db, "player-1", 10000)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	_, err := f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 1000},
	})
	require.NoError(t, err)

	result, err := f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 700},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8300), result.NewBalance)

	// Same side accumulates into one record
	bets, err := f.svc.ListRoundBets(ctx, "player-1", "room-1", 1)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, entity.SideAndar, bets[0].Side)
	assert.Equal(t, int64(1700), bets[0].Amount)

	// Each submission keeps its own ledger entry
	entries, err := f.transactionRepo.ListByAccount(ctx, "player-1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestPlaceBetInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestAccount(t, f.db, "player-1", 600)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	_, err := f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideBahar, Amount: 1000},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

	// Nothing moved
	account, err := f.accountRepo.GetByID(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(600), account.Balance())

	bets, err := f.svc.ListRoundBets(ctx, "player-1", "room-1", 1)
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestPlaceBetClosedRound(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestAccount(t, f.db, "player-1", 10000)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	closed, err := f.roundRepo.CloseBetting(ctx, "room-1", 1)
	require.NoError(t, err)
	require.True(t, closed)

	_, err = f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 1000},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRoundClosed)

	account, err := f.accountRepo.GetByID(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), account.Balance())
}

func TestPlaceBetRoomLimits(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestAccount(t, f.db, "player-1", 1000000)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	_, err := f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 100},
	})
	assert.ErrorIs(t, err, errs.ErrBetOutOfRange)

	// Limit applies to the submission total, not per side
	_, err = f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 90000},
		{Side: entity.SideBahar, Amount: 20000},
	})
	assert.ErrorIs(t, err, errs.ErrBetOutOfRange)

	_, err = f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 500},
	})
	assert.NoError(t, err)
}

func TestPlaceBetInvalidSubmissions(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestAccount(t, f.db, "player-1", 10000)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	_, err := f.svc.PlaceBet(ctx, "player-1", "room-1", nil)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	_, err = f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: "MIDDLE", Amount: 1000},
	})
	assert.ErrorIs(t, err, errs.ErrInvalidSide)

	_, err = f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 500},
		{Side: entity.SideAndar, Amount: 500},
	})
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestPlaceBetUnapprovedAccount(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestAccount(t, f.db, "player-1", 10000)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	require.NoError(t, f.accountRepo.UpdateStatus(ctx, "player-1", entity.StatusSuspended))

	_, err := f.svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 1000},
	})
	assert.ErrorIs(t, err, errs.ErrAccountNotApproved)
}

func TestPlaceBetUnknownAccountOrRoom(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestAccount(t, f.db, "player-1", 10000)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	_, err := f.svc.PlaceBet(ctx, "ghost", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 1000},
	})
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	_, err = f.svc.PlaceBet(ctx, "player-1", "no-such-room", []entity.Stake{
		{Side: entity.SideAndar, Amount: 1000},
	})
	assert.ErrorIs(t, err, errs.ErrRoomNotFound)
}

// closeMidFlightUnitOfWork hands out a round repository whose
// in-transaction state read is immediately followed by the round closing,
// reproducing an admin close that lands while a submission is in flight.
type closeMidFlightUnitOfWork struct {
	persistence.UnitOfWork
}

func (u *closeMidFlightUnitOfWork) GetRoundRepository(ctx context.Context) persistence.RoundRepository {
	return &closeMidFlightRoundRepo{RoundRepository: u.UnitOfWork.GetRoundRepository(ctx)}
}

type closeMidFlightRoundRepo struct {
	persistence.RoundRepository
}

func (r *closeMidFlightRoundRepo) Get(ctx context.Context, roomID string) (*entity.RoundState, error) {
	state, err := r.RoundRepository.Get(ctx, roomID)
	if err != nil || !state.IsOpen() {
		return state, err
	}
	if _, err := r.RoundRepository.CloseBetting(ctx, roomID, state.CurrentRound); err != nil {
		return nil, err
	}
	return state, nil
}

func TestPlaceBetLosesRaceAgainstClose(t *testing.T) {
	ctx := context.Background()

	db := database.NewTestDB(t)
	log := logger.NewNoopLogger()
	timeProvider := timeadapter.NewRealTimeProvider()
	accountRepo := repository.NewAccountRepository(db, timeProvider, log)
	roomRepo := repository.NewRoomRepository(db, timeProvider, log)
	betRepo := repository.NewBetRepository(db, timeProvider, log)
	roundRepo := repository.NewRoundRepository(db, timeProvider, log)
	uow := &closeMidFlightUnitOfWork{UnitOfWork: database.NewUnitOfWork(db, log, timeProvider)}

	svc := NewService(uow, accountRepo, roomRepo, betRepo, roundRepo, realtime.NewNoopNotifier(), timeProvider, log)

	database.CreateTestAccount(t, db, "player-1", 10000)
	database.CreateTestRoom(t, db, "room-1", 500, 100000)

	// The submission passes the open check, then the close commits before
	// the bet does. The final re-verification must roll everything back.
	_, err := svc.PlaceBet(ctx, "player-1", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 1000},
	})
	assert.ErrorIs(t, err, errs.ErrRoundClosed)

	// Nothing half-committed: no debit, no ledger entry, no bet row
	account, err := accountRepo.GetByID(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), account.Balance())

	transactionRepo := repository.NewTransactionRepository(db, timeProvider, log)
	entries, err := transactionRepo.ListByAccount(ctx, "player-1", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	bets, err := betRepo.ListByRound(ctx, "room-1", 1)
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestPlaceBetConcurrentAccountsIsolated(t *testing.T) {
	ctx := context.Background()
	f := newBetFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)
	database.CreateTestAccount(t, f.db, "player-1", 10000)
	database.CreateTestAccount(t, f.db, "player-2", 10000)

	const betsPerAccount = 5

	var wg sync.WaitGroup
	errCh := make(chan error, 2*betsPerAccount)
	for _, accountID := range []string{"player-1", "player-2"} {
		wg.Add(1)
		go func(accountID string) {
			defer wg.Done()
			for i := 0; i < betsPerAccount; i++ {
				_, err := f.svc.PlaceBet(ctx, accountID, "room-1", []entity.Stake{
					{Side: entity.SideAndar, Amount: 600},
				})
				errCh <- err
			}
		}(accountID)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	// Each account's balance reflects exactly its own debits
	for _, accountID := range []string{"player-1", "player-2"} {
		account, err := f.accountRepo.GetByID(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, int64(10000-betsPerAccount*600), account.Balance())

		entries, err := f.transactionRepo.ListByAccount(ctx, accountID, 20)
		require.NoError(t, err)
		assert.Len(t, entries, betsPerAccount)
	}
}
