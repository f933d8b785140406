package round

import (
	"context"
	"sync"
	"testing"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	"github.com/codecraftmss/game/internal/domain/usecase/account"
	"github.com/codecraftmss/game/internal/domain/usecase/bet"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/database"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/logger"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/realtime"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/repository"
	timeadapter "github.com/codecraftmss/game/internal/infrastructure/adapter/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type roundFixture struct {
	svc             *Service
	betSvc          *bet.Service
	db              *gorm.DB
	accountRepo     *repository.AccountRepository
	roundRepo       *repository.RoundRepository
	transactionRepo *repository.TransactionRepository
	historyRepo     *repository.RoundHistoryRepository
}

func newRoundFixture(t *testing.T) *roundFixture {
	t.Helper()

	db := database.NewTestDB(t)
	log := logger.NewNoopLogger()
	timeProvider := timeadapter.NewRealTimeProvider()
	notifier := realtime.NewNoopNotifier()

	accountRepo := repository.NewAccountRepository(db, timeProvider, log)
	roomRepo := repository.NewRoomRepository(db, timeProvider, log)
	betRepo := repository.NewBetRepository(db, timeProvider, log)
	roundRepo := repository.NewRoundRepository(db, timeProvider, log)
	historyRepo := repository.NewRoundHistoryRepository(db, timeProvider, log)
	uow := database.NewUnitOfWork(db, log, timeProvider)

	svc := NewService(uow, roundRepo, roomRepo, betRepo, historyRepo, notifier, timeProvider, log, 30)
	betSvc := bet.NewService(uow, accountRepo, roomRepo, betRepo, roundRepo, notifier, timeProvider, log)

	return &roundFixture{
		svc:             svc,
		betSvc:          betSvc,
		db:              db,
		accountRepo:     accountRepo,
		roundRepo:       roundRepo,
		transactionRepo: repository.NewTransactionRepository(db, timeProvider, log),
		historyRepo:     historyRepo,
	}
}

func (f *roundFixture) placeBet(t *testing.T, accountID, roomID string, side entity.Side, amount int64) {
	t.Helper()
	_, err := f.betSvc.PlaceBet(context.Background(), accountID, roomID, []entity.Stake{{Side: side, Amount: amount}})
	require.NoError(t, err)
}

func (f *roundFixture) balance(t *testing.T, accountID string) int64 {
	t.Helper()
	account, err := f.accountRepo.GetByID(context.Background(), accountID)
	require.NoError(t, err)
	return account.Balance()
}

func TestFullRoundLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)
	database.CreateTestAccount(t, f.db, "winner", 10000)
	database.CreateTestAccount(t, f.db, "loser", 10000)

	f.placeBet(t, "winner", "room-1", entity.SideAndar, 1000)
	f.placeBet(t, "loser", "room-1", entity.SideBahar, 1000)

	state, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, entity.BettingClosed, state.BettingStatus)

	result, err := f.svc.DeclareWinner(ctx, "room-1", entity.SideAndar)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RoundNumber)
	assert.Equal(t, entity.SideAndar, result.Winner)
	assert.Equal(t, 1, result.AccountsPaid)
	assert.Equal(t, int64(2000), result.TotalPayout)
	assert.False(t, result.AlreadyDone)

	// Even-money payout: stake back plus equal winnings
	assert.Equal(t, int64(11000), f.balance(t, "winner"))
	assert.Equal(t, int64(9000), f.balance(t, "loser"))
	// Money is conserved between the two players
	assert.Equal(t, int64(20000), f.balance(t, "winner")+f.balance(t, "loser"))

	// Ledger carries the payout and the loss marker
	winnerEntries, err := f.transactionRepo.ListByAccount(ctx, "winner", 10)
	require.NoError(t, err)
	require.Len(t, winnerEntries, 2)
	assert.Equal(t, entity.TypeBetWin, winnerEntries[0].Type)
	assert.Equal(t, int64(2000), winnerEntries[0].Amount)

	loserEntries, err := f.transactionRepo.ListByAccount(ctx, "loser", 10)
	require.NoError(t, err)
	require.Len(t, loserEntries, 2)
	assert.Equal(t, entity.TypeBetLoss, loserEntries[0].Type)
	assert.Equal(t, int64(0), loserEntries[0].Amount)

	// Net aggregates: the winner's stake returned is not a win
	winnerAccount, err := f.accountRepo.GetByID(ctx, "winner")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), winnerAccount.TotalWin)
	assert.Equal(t, int64(0), winnerAccount.TotalLoss)
	loserAccount, err := f.accountRepo.GetByID(ctx, "loser")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), loserAccount.TotalLoss)

	// History recorded, round advanced and reopened
	entry, err := f.historyRepo.GetByRound(ctx, "room-1", 1)
	require.NoError(t, err)
	assert.Equal(t, entity.SideAndar, entry.Result)
	assert.Equal(t, int64(2000), entry.TotalPayout)

	state, err = f.svc.GetRoundState(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.CurrentRound)
	assert.True(t, state.IsOpen())
	assert.Equal(t, entity.PhaseFirstBet, state.Phase)
	assert.False(t, state.HasResult())
}

func TestSettlementBothSidesBreakEven(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)
	database.CreateTestAccount(t, f.db, "hedger", 10000)

	_, err := f.betSvc.PlaceBet(ctx, "hedger", "room-1", []entity.Stake{
		{Side: entity.SideAndar, Amount: 1000},
		{Side: entity.SideBahar, Amount: 1000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8000), f.balance(t, "hedger"))

	_, err = f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	result, err := f.svc.DeclareWinner(ctx, "room-1", entity.SideBahar)
	require.NoError(t, err)

	// The winning side pays 2x its stake; the losing stake is gone
	assert.Equal(t, int64(2000), result.TotalPayout)
	assert.Equal(t, int64(10000), f.balance(t, "hedger"))

	account, err := f.accountRepo.GetByID(ctx, "hedger")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.TotalWin)
	assert.Equal(t, int64(1000), account.TotalLoss)
}

func TestDeclareWinnerWithNoBets(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	_, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)

	result, err := f.svc.DeclareWinner(ctx, "room-1", entity.SideAndar)
	require.NoError(t, err)
	assert.Equal(t, 0, result.AccountsPaid)
	assert.Equal(t, int64(0), result.TotalPayout)

	// Even an empty round is recorded and advances
	_, err = f.historyRepo.GetByRound(ctx, "room-1", 1)
	require.NoError(t, err)
	state, err := f.svc.GetRoundState(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.CurrentRound)
}

func TestDeclareWinnerGuards(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	// Betting still open
	_, err := f.svc.DeclareWinner(ctx, "room-1", entity.SideAndar)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	// Invalid side
	_, err = f.svc.DeclareWinner(ctx, "room-1", "NEITHER")
	assert.ErrorIs(t, err, errs.ErrInvalidSide)

	// Winner already declared
	_, err = f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	recorded, err := f.roundRepo.SetResult(ctx, "room-1", 1, entity.SideBahar)
	require.NoError(t, err)
	require.True(t, recorded)
	_, err = f.svc.DeclareWinner(ctx, "room-1", entity.SideAndar)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestCloseBettingAlreadyClosed(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	_, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	_, err = f.svc.CloseBetting(ctx, "room-1")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestOpenBettingClearsStaleResult(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	_, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	recorded, err := f.roundRepo.SetResult(ctx, "room-1", 1, entity.SideAndar)
	require.NoError(t, err)
	require.True(t, recorded)

	state, err := f.svc.OpenBetting(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, state.IsOpen())
	assert.False(t, state.HasResult())
}

func TestSetPhaseAndTargetCard(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	state, err := f.svc.SetPhase(ctx, "room-1", entity.PhaseSecondBet)
	require.NoError(t, err)
	assert.Equal(t, entity.PhaseSecondBet, state.Phase)

	_, err = f.svc.SetPhase(ctx, "room-1", "THIRD_BET")
	assert.ErrorIs(t, err, errs.ErrInvalidPhase)

	state, err = f.svc.SetTargetCard(ctx, "room-1", "A♥")
	require.NoError(t, err)
	assert.Equal(t, "A♥", state.TargetCard)
}

func TestRetrySettlementRecoversStuckRound(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)
	database.CreateTestAccount(t, f.db, "player-1", 10000)

	f.placeBet(t, "player-1", "room-1", entity.SideAndar, 1000)
	_, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)

	// Winner recorded but nothing settled: the shape a crash mid-declare
	// leaves behind
	recorded, err := f.roundRepo.SetResult(ctx, "room-1", 1, entity.SideAndar)
	require.NoError(t, err)
	require.True(t, recorded)

	result, err := f.svc.RetrySettlement(ctx, "room-1")
	require.NoError(t, err)
	assert.False(t, result.AlreadyDone)
	assert.Equal(t, int64(2000), result.TotalPayout)
	assert.Equal(t, int64(11000), f.balance(t, "player-1"))

	state, err := f.svc.GetRoundState(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.CurrentRound)
	assert.True(t, state.IsOpen())
}

func TestRetrySettlementAfterSettledButNotAdvanced(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)
	database.CreateTestAccount(t, f.db, "player-1", 10000)

	f.placeBet(t, "player-1", "room-1", entity.SideAndar, 1000)
	_, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	recorded, err := f.roundRepo.SetResult(ctx, "room-1", 1, entity.SideAndar)
	require.NoError(t, err)
	require.True(t, recorded)

	// Settle without advancing: a crash between the settlement commit and
	// the round advance
	first, err := f.svc.settle(ctx, "room-1", 1, entity.SideAndar, "")
	require.NoError(t, err)
	require.False(t, first.AlreadyDone)

	result, err := f.svc.RetrySettlement(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, result.AlreadyDone)
	assert.Equal(t, int64(2000), result.TotalPayout)

	// No double payout
	assert.Equal(t, int64(11000), f.balance(t, "player-1"))

	// The retry still completed the advance
	state, err := f.svc.GetRoundState(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.CurrentRound)
}

func TestOpenBettingAdvancesSettledRound(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)
	database.CreateTestAccount(t, f.db, "player-1", 10000)

	f.placeBet(t, "player-1", "room-1", entity.SideAndar, 1000)
	_, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	recorded, err := f.roundRepo.SetResult(ctx, "room-1", 1, entity.SideAndar)
	require.NoError(t, err)
	require.True(t, recorded)

	// Settle without advancing: a crash between the settlement commit and
	// the round advance
	first, err := f.svc.settle(ctx, "room-1", 1, entity.SideAndar, "")
	require.NoError(t, err)
	require.False(t, first.AlreadyDone)
	assert.Equal(t, int64(11000), f.balance(t, "player-1"))

	// The admin presses Open instead of Retry. Reopening round 1 in place
	// would take fresh stakes under a round that already settled, so the
	// round must advance instead.
	state, err := f.svc.OpenBetting(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.CurrentRound)
	assert.True(t, state.IsOpen())
	assert.False(t, state.HasResult())

	// Stakes placed after the recovery land on round 2 and settle normally
	f.placeBet(t, "player-1", "room-1", entity.SideAndar, 2000)
	_, err = f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	result, err := f.svc.DeclareWinner(ctx, "room-1", entity.SideAndar)
	require.NoError(t, err)
	assert.False(t, result.AlreadyDone)
	assert.Equal(t, int64(2), result.RoundNumber)
	assert.Equal(t, int64(4000), result.TotalPayout)
	assert.Equal(t, int64(13000), f.balance(t, "player-1"))
}

func TestRetrySettlementWithoutPendingRound(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	// Open round, no result
	_, err := f.svc.RetrySettlement(ctx, "room-1")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	// Closed but no result
	_, err = f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	_, err = f.svc.RetrySettlement(ctx, "room-1")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestSettleIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)
	database.CreateTestAccount(t, f.db, "player-1", 10000)

	f.placeBet(t, "player-1", "room-1", entity.SideBahar, 2000)
	_, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)

	first, err := f.svc.settle(ctx, "room-1", 1, entity.SideBahar, "")
	require.NoError(t, err)
	require.False(t, first.AlreadyDone)
	assert.Equal(t, int64(12000), f.balance(t, "player-1"))

	second, err := f.svc.settle(ctx, "room-1", 1, entity.SideBahar, "")
	require.NoError(t, err)
	assert.True(t, second.AlreadyDone)
	assert.Equal(t, first.TotalPayout, second.TotalPayout)
	assert.Equal(t, first.AccountsPaid, second.AccountsPaid)
	assert.Equal(t, int64(12000), f.balance(t, "player-1"))
}

func TestRoundsAreIndependentAcrossRooms(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)
	database.CreateTestRoom(t, f.db, "room-2", 500, 100000)
	database.CreateTestAccount(t, f.db, "player-1", 10000)

	f.placeBet(t, "player-1", "room-2", entity.SideAndar, 1000)

	_, err := f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	_, err = f.svc.DeclareWinner(ctx, "room-1", entity.SideBahar)
	require.NoError(t, err)

	// Room 2 is untouched: still open on round 1 with the bet pending
	state, err := f.svc.GetRoundState(ctx, "room-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.CurrentRound)
	assert.True(t, state.IsOpen())
	assert.Equal(t, int64(9000), f.balance(t, "player-1"))
}

func TestListRoundHistory(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	for _, side := range []entity.Side{entity.SideAndar, entity.SideBahar, entity.SideAndar} {
		_, err := f.svc.CloseBetting(ctx, "room-1")
		require.NoError(t, err)
		_, err = f.svc.DeclareWinner(ctx, "room-1", side)
		require.NoError(t, err)
	}

	entries, err := f.svc.ListRoundHistory(ctx, "room-1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Most recent first
	assert.Equal(t, int64(3), entries[0].RoundNumber)
	assert.Equal(t, entity.SideAndar, entries[0].Result)
	assert.Equal(t, int64(2), entries[1].RoundNumber)
	assert.Equal(t, entity.SideBahar, entries[1].Result)

	_, err = f.svc.ListRoundHistory(ctx, "no-such-room", 10)
	assert.ErrorIs(t, err, errs.ErrRoomNotFound)
}

func TestLedgerReplayReconstructsBalance(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	log := logger.NewNoopLogger()
	timeProvider := timeadapter.NewRealTimeProvider()
	uow := database.NewUnitOfWork(f.db, log, timeProvider)
	accountSvc := account.NewService(uow, f.accountRepo, f.transactionRepo, realtime.NewNoopNotifier(), timeProvider, log)

	// Build a history that touches every entry type, starting from zero
	_, err := accountSvc.CreateAccount(ctx, "replayer", 0)
	require.NoError(t, err)
	require.NoError(t, accountSvc.SetAccountStatus(ctx, "replayer", entity.StatusApproved))

	_, err = accountSvc.ProcessTokenTransaction(ctx, "replayer", "admin-1", entity.TypeAdminAdd, 10000, "dep-1", "")
	require.NoError(t, err)

	f.placeBet(t, "replayer", "room-1", entity.SideAndar, 1000)
	f.placeBet(t, "replayer", "room-1", entity.SideBahar, 500)
	_, err = f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	_, err = f.svc.DeclareWinner(ctx, "room-1", entity.SideAndar)
	require.NoError(t, err)

	_, err = accountSvc.ProcessTokenTransaction(ctx, "replayer", "admin-1", entity.TypeAdminWithdraw, 2500, "wd-1", "")
	require.NoError(t, err)

	f.placeBet(t, "replayer", "room-1", entity.SideBahar, 1000)
	_, err = f.svc.CloseBetting(ctx, "room-1")
	require.NoError(t, err)
	_, err = f.svc.DeclareWinner(ctx, "room-1", entity.SideAndar)
	require.NoError(t, err)

	// 0 +10000 -1500 +2000 -2500 -1000 = 7000
	assert.Equal(t, int64(7000), f.balance(t, "replayer"))

	entries, err := f.transactionRepo.ListByAccount(ctx, "replayer", 50)
	require.NoError(t, err)
	require.Len(t, entries, 7)

	// Replaying the signed deltas from zero, oldest first, reconstructs the
	// stored balance exactly, and every entry chains on its predecessor
	var replayed int64
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		assert.Equal(t, replayed, entry.BalanceBefore, "entry %s must start at the replayed balance", entry.TransactionID)
		replayed += entry.SignedAmount()
		assert.Equal(t, replayed, entry.BalanceAfter, "entry %s must chain", entry.TransactionID)
	}
	assert.Equal(t, f.balance(t, "replayer"), replayed)
}

func TestConcurrentBetsRacingClose(t *testing.T) {
	ctx := context.Background()
	f := newRoundFixture(t)
	database.CreateTestRoom(t, f.db, "room-1", 500, 100000)

	accountIDs := []string{"p1", "p2", "p3", "p4"}
	for _, id := range accountIDs {
		database.CreateTestAccount(t, f.db, id, 10000)
	}

	log := logger.NewNoopLogger()
	timeProvider := timeadapter.NewRealTimeProvider()
	betRepo := repository.NewBetRepository(f.db, timeProvider, log)

	var wg sync.WaitGroup
	betErrs := make([]error, len(accountIDs))
	for i, id := range accountIDs {
		wg.Add(1)
		go func(i int, accountID string) {
			defer wg.Done()
			_, err := f.betSvc.PlaceBet(ctx, accountID, "room-1", []entity.Stake{
				{Side: entity.SideAndar, Amount: 1000},
			})
			betErrs[i] = err
		}(i, id)
	}

	var closeErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, closeErr = f.svc.CloseBetting(ctx, "room-1")
	}()
	wg.Wait()
	require.NoError(t, closeErr)

	// Every submission either fully committed before the close or was
	// rejected outright: a committed bet has its debit, a rejected one
	// left nothing behind
	committed := 0
	for i, id := range accountIDs {
		entries, err := f.transactionRepo.ListByAccount(ctx, id, 10)
		require.NoError(t, err)

		if betErrs[i] == nil {
			committed++
			assert.Equal(t, int64(9000), f.balance(t, id))
			require.Len(t, entries, 1)
			assert.Equal(t, entity.TypeBetDebit, entries[0].Type)
		} else {
			assert.ErrorIs(t, betErrs[i], errs.ErrRoundClosed)
			assert.Equal(t, int64(10000), f.balance(t, id))
			assert.Empty(t, entries)
		}
	}

	bets, err := betRepo.ListByRound(ctx, "room-1", 1)
	require.NoError(t, err)
	assert.Len(t, bets, committed)

	// Settlement sees exactly the committed snapshot
	result, err := f.svc.DeclareWinner(ctx, "room-1", entity.SideAndar)
	require.NoError(t, err)
	assert.Equal(t, committed, result.AccountsPaid)
	assert.Equal(t, int64(2000*committed), result.TotalPayout)
	for i, id := range accountIDs {
		if betErrs[i] == nil {
			assert.Equal(t, int64(11000), f.balance(t, id))
		} else {
			assert.Equal(t, int64(10000), f.balance(t, id))
		}
	}
}
