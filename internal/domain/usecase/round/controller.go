package round

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/domain/port/persistence"
	realtimeport "github.com/codecraftmss/game/internal/domain/port/realtime"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
)

// Service is the round controller: the only writer of round state
// transitions. Transitions are conditional writes keyed on the expected
// round number, so a stale or duplicated admin action changes nothing.
// Winner declaration is additionally serialized per room in-process, which
// keeps settlement single-flight without a distributed lock.
type Service struct {
	uow             persistence.UnitOfWork
	roundRepo       persistence.RoundRepository
	roomRepo        persistence.RoomRepository
	betRepo         persistence.BetRepository
	historyRepo     persistence.RoundHistoryRepository
	notifier        realtimeport.Notifier
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	betTimerSeconds int

	roomLocks sync.Map // map[string]*sync.Mutex
}

// NewService creates a new round controller service
func NewService(
	uow persistence.UnitOfWork,
	roundRepo persistence.RoundRepository,
	roomRepo persistence.RoomRepository,
	betRepo persistence.BetRepository,
	historyRepo persistence.RoundHistoryRepository,
	notifier realtimeport.Notifier,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	betTimerSeconds int,
) *Service {
	return &Service{
		uow:             uow,
		roundRepo:       roundRepo,
		roomRepo:        roomRepo,
		betRepo:         betRepo,
		historyRepo:     historyRepo,
		notifier:        notifier,
		timeProvider:    timeProvider,
		logger:          logger,
		betTimerSeconds: betTimerSeconds,
	}
}

// roomLock returns the per-room mutex, creating it on first use
func (s *Service) roomLock(roomID string) *sync.Mutex {
	lockIface, _ := s.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return lockIface.(*sync.Mutex)
}

// GetRoundState returns the authoritative current state for a room
func (s *Service) GetRoundState(ctx context.Context, roomID string) (*entity.RoundState, error) {
	return s.roundRepo.Get(ctx, roomID)
}

// OpenBetting forces the room open, clearing any declared result. Legal
// from any state so an admin can recover a wedged table. A round that
// already settled but never advanced is advanced first: reopening it in
// place would take fresh stakes under a round number whose settlement
// record already exists, and those stakes would never pay out.
func (s *Service) OpenBetting(ctx context.Context, roomID string) (*entity.RoundState, error) {
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	_, err = s.historyRepo.GetByRound(ctx, roomID, state.CurrentRound)
	if err == nil {
		s.logger.Warn("Reopen requested on a settled round, advancing instead", map[string]any{
			"room_id":       roomID,
			"settled_round": state.CurrentRound,
		})
		if err := s.advanceAndPublish(ctx, roomID, state.CurrentRound); err != nil {
			return nil, err
		}
		return s.roundRepo.Get(ctx, roomID)
	}
	if !errors.Is(err, errs.ErrTransactionNotFound) {
		return nil, err
	}

	if err := s.roundRepo.OpenBetting(ctx, roomID); err != nil {
		return nil, err
	}

	state, err = s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	s.publishState(ctx, state)
	return state, nil
}

// CloseBetting transitions the current round OPEN -> CLOSED. Once the
// underlying conditional write commits, no bet for this round number can
// land.
func (s *Service) CloseBetting(ctx context.Context, roomID string) (*entity.RoundState, error) {
	state, err := s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !state.IsOpen() {
		return nil, errs.NewInvalidTransitionError(roomID, state.CurrentRound, "close_betting", "betting is already closed")
	}

	closed, err := s.roundRepo.CloseBetting(ctx, roomID, state.CurrentRound)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, errs.NewInvalidTransitionError(roomID, state.CurrentRound, "close_betting", "round state changed concurrently")
	}

	state, err = s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	s.publishState(ctx, state)
	return state, nil
}

// SetPhase updates the informational wagering window label
func (s *Service) SetPhase(ctx context.Context, roomID string, phase entity.BettingPhase) (*entity.RoundState, error) {
	if !entity.IsValidPhase(string(phase)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidPhase, phase)
	}

	if err := s.roundRepo.SetPhase(ctx, roomID, phase); err != nil {
		return nil, err
	}

	state, err := s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	s.publishState(ctx, state)
	return state, nil
}

// SetTargetCard updates the marker card shown to players
func (s *Service) SetTargetCard(ctx context.Context, roomID string, card string) (*entity.RoundState, error) {
	if err := s.roundRepo.SetTargetCard(ctx, roomID, card); err != nil {
		return nil, err
	}

	state, err := s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	s.publishState(ctx, state)
	return state, nil
}

// DeclareWinner records the outcome of a closed round, settles every bet
// all-or-nothing and, only on settlement success, advances the room to the
// next round
func (s *Service) DeclareWinner(ctx context.Context, roomID string, side entity.Side) (*usecaseport.SettlementResult, error) {
	if !entity.IsValidSide(string(side)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidSide, side)
	}

	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if state.IsOpen() {
		return nil, errs.NewInvalidTransitionError(roomID, state.CurrentRound, "declare_winner", "betting is still open")
	}
	if state.HasResult() {
		return nil, errs.NewInvalidTransitionError(roomID, state.CurrentRound, "declare_winner", "winner already declared")
	}

	recorded, err := s.roundRepo.SetResult(ctx, roomID, state.CurrentRound, side)
	if err != nil {
		return nil, err
	}
	if !recorded {
		return nil, errs.NewInvalidTransitionError(roomID, state.CurrentRound, "declare_winner", "round state changed concurrently")
	}

	result, err := s.settle(ctx, roomID, state.CurrentRound, side, state.TargetCard)
	if err != nil {
		// Winner stays recorded and the round stays closed; the admin
		// must retry settlement before any progression
		return nil, errs.NewSettlementError(roomID, state.CurrentRound, string(side), err)
	}

	if err := s.advanceAndPublish(ctx, roomID, state.CurrentRound); err != nil {
		return nil, errs.NewSettlementError(roomID, state.CurrentRound, string(side), err)
	}

	return result, nil
}

// RetrySettlement re-runs settlement for a round stuck closed with a
// declared winner. Settlement that already completed is acknowledged, and
// the round is advanced if the previous attempt died between settling and
// advancing.
func (s *Service) RetrySettlement(ctx context.Context, roomID string) (*usecaseport.SettlementResult, error) {
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if state.IsOpen() || !state.HasResult() {
		return nil, errs.NewInvalidTransitionError(roomID, state.CurrentRound, "retry_settlement", "round has no pending settlement")
	}

	result, err := s.settle(ctx, roomID, state.CurrentRound, state.Result, state.TargetCard)
	if err != nil {
		return nil, errs.NewSettlementError(roomID, state.CurrentRound, string(state.Result), err)
	}

	if err := s.advanceAndPublish(ctx, roomID, state.CurrentRound); err != nil {
		return nil, errs.NewSettlementError(roomID, state.CurrentRound, string(state.Result), err)
	}

	return result, nil
}

// ListRoundHistory returns settled rounds, most recent first
func (s *Service) ListRoundHistory(ctx context.Context, roomID string, limit int) ([]*entity.RoundHistory, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByRoom(ctx, roomID, limit)
}

// advanceAndPublish moves a settled round forward and fans out the fresh
// state. A duplicate advance affects zero rows and is fine.
func (s *Service) advanceAndPublish(ctx context.Context, roomID string, settledRound int64) error {
	if _, err := s.roundRepo.AdvanceRound(ctx, roomID, settledRound); err != nil {
		return err
	}

	state, err := s.roundRepo.Get(ctx, roomID)
	if err != nil {
		return err
	}

	s.publishState(ctx, state)
	return nil
}

// publishState fans out a committed round state change. Delivery failures
// are logged and swallowed: the store is the source of truth and clients
// resynchronize on reconnect.
func (s *Service) publishState(ctx context.Context, state *entity.RoundState) {
	event := realtimeport.RoundStateEvent{
		RoomID:      state.RoomID,
		RoundNumber: state.CurrentRound,
		Phase:       state.Phase,
		Status:      state.BettingStatus,
		Result:      state.Result,
		TargetCard:  state.TargetCard,
	}
	if state.IsOpen() {
		event.TimerSeconds = s.betTimerSeconds
	}

	if err := s.notifier.PublishRoundState(ctx, event); err != nil {
		s.logger.Warn("Failed to publish round state event", map[string]any{
			"room_id":      state.RoomID,
			"round_number": state.CurrentRound,
			"error":        err.Error(),
		})
	}
}
