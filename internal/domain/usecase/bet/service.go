package bet

import (
	"context"
	"fmt"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/domain/port/persistence"
	realtimeport "github.com/codecraftmss/game/internal/domain/port/realtime"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
	"github.com/google/uuid"
)

// Service implements the bet ledger operations. A submission debits the
// stake, appends the ledger entry and records the aggregated bets as one
// atomic unit against the room's current open round.
type Service struct {
	uow          persistence.UnitOfWork
	accountRepo  persistence.AccountRepository
	roomRepo     persistence.RoomRepository
	betRepo      persistence.BetRepository
	roundRepo    persistence.RoundRepository
	validator    *Validator
	notifier     realtimeport.Notifier
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new bet service
func NewService(
	uow persistence.UnitOfWork,
	accountRepo persistence.AccountRepository,
	roomRepo persistence.RoomRepository,
	betRepo persistence.BetRepository,
	roundRepo persistence.RoundRepository,
	notifier realtimeport.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		accountRepo:  accountRepo,
		roomRepo:     roomRepo,
		betRepo:      betRepo,
		roundRepo:    roundRepo,
		validator:    NewValidator(),
		notifier:     notifier,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// PlaceBet converts a batch of locally queued stakes into durable, debited
// bets. Repeat submissions in the same round accumulate onto the existing
// per-side aggregates; each submission debits only its own delta.
func (s *Service) PlaceBet(ctx context.Context, accountID, roomID string, stakes []entity.Stake) (*usecaseport.PlaceBetResult, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateSubmission(account, room, stakes); err != nil {
		return nil, err
	}

	total := entity.TotalStaked(stakes)

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.uow.Rollback(txCtx) }()

	txRoundRepo := s.uow.GetRoundRepository(txCtx)
	txAccountRepo := s.uow.GetAccountRepository(txCtx)
	txTransactionRepo := s.uow.GetTransactionRepository(txCtx)
	txBetRepo := s.uow.GetBetRepository(txCtx)

	state, err := txRoundRepo.Get(txCtx, roomID)
	if err != nil {
		return nil, err
	}
	if !state.IsOpen() {
		return nil, errs.NewBetError(accountID, roomID, state.CurrentRound, "", total, errs.ErrRoundClosed)
	}

	before, after, err := txAccountRepo.ApplyBalanceDelta(txCtx, accountID, -total)
	if err != nil {
		return nil, err
	}

	txnID := fmt.Sprintf("bet:%s:%d:%s:%s", roomID, state.CurrentRound, accountID, uuid.NewString())
	txn, err := entity.NewTransaction(accountID, txnID, entity.TypeBetDebit, total, before, s.timeProvider)
	if err != nil {
		return nil, err
	}
	txn.WithRound(roomID, state.CurrentRound)

	if err := txTransactionRepo.Create(txCtx, txn); err != nil {
		return nil, err
	}

	for _, stake := range stakes {
		if err := txBetRepo.AddStake(txCtx, accountID, roomID, state.CurrentRound, stake.Side, stake.Amount); err != nil {
			return nil, err
		}
	}

	// Re-verify at commit ordering: if the round closed while this
	// submission was in flight, everything above rolls back
	stillOpen, err := txRoundRepo.ConfirmOpen(txCtx, roomID, state.CurrentRound)
	if err != nil {
		return nil, err
	}
	if !stillOpen {
		s.logger.Info("Bet submission lost the race against round close", map[string]any{
			"account_id":   accountID,
			"room_id":      roomID,
			"round_number": state.CurrentRound,
		})
		return nil, errs.NewBetError(accountID, roomID, state.CurrentRound, "", total, errs.ErrRoundClosed)
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Bet placed", map[string]any{
		"account_id":   accountID,
		"room_id":      roomID,
		"round_number": state.CurrentRound,
		"total_staked": total,
		"new_balance":  after,
	})

	if err := s.notifier.PublishBalance(ctx, realtimeport.BalanceEvent{
		AccountID: accountID,
		Balance:   after,
	}); err != nil {
		s.logger.Warn("Failed to publish balance event", map[string]any{
			"account_id": accountID,
			"error":      err.Error(),
		})
	}

	return &usecaseport.PlaceBetResult{
		RoundNumber: state.CurrentRound,
		TotalStaked: total,
		NewBalance:  after,
	}, nil
}

// ListRoundBets returns the account's stakes for a round so a reconnecting
// client can resynchronize its display
func (s *Service) ListRoundBets(ctx context.Context, accountID, roomID string, roundNumber int64) ([]*entity.Bet, error) {
	return s.betRepo.ListByAccountRound(ctx, accountID, roomID, roundNumber)
}
