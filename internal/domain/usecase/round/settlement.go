package round

import (
	"context"
	"errors"
	"fmt"

	"github.com/codecraftmss/game/internal/domain/entity"
	errs "github.com/codecraftmss/game/internal/domain/error"
	realtimeport "github.com/codecraftmss/game/internal/domain/port/realtime"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
)

// roundPosition is one account's aggregated exposure in a round
type roundPosition struct {
	winStake  int64
	loseStake int64
}

// settlementTransactionID is the deterministic ledger entry ID for one
// account's settlement in one round. Determinism plus the unique ledger
// index make a replayed settlement unable to pay anyone twice.
func settlementTransactionID(roomID string, roundNumber int64, accountID string) string {
	return fmt.Sprintf("settle:%s:%d:%s", roomID, roundNumber, accountID)
}

// settle pays out a declared round. Every payout, loss marker, aggregate
// bump and the settlement audit record commit in one database transaction:
// either every winner is paid or the whole round remains unsettled. The
// audit record's unique (room, round) index is the idempotency marker, so a
// concurrent or repeated attempt rolls back and reports the stored outcome.
func (s *Service) settle(ctx context.Context, roomID string, roundNumber int64, winner entity.Side, targetCard string) (*usecaseport.SettlementResult, error) {
	// Fast path for retries of an already settled round
	if existing, err := s.historyRepo.GetByRound(ctx, roomID, roundNumber); err == nil {
		return settlementResultFromHistory(existing), nil
	} else if !errors.Is(err, errs.ErrTransactionNotFound) {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.uow.Rollback(txCtx) }()

	txBetRepo := s.uow.GetBetRepository(txCtx)
	txAccountRepo := s.uow.GetAccountRepository(txCtx)
	txTransactionRepo := s.uow.GetTransactionRepository(txCtx)
	txHistoryRepo := s.uow.GetRoundHistoryRepository(txCtx)

	bets, err := txBetRepo.ListByRound(txCtx, roomID, roundNumber)
	if err != nil {
		return nil, err
	}

	// Aggregate per account, preserving first-seen order for deterministic
	// ledger writes
	positions := make(map[string]*roundPosition, len(bets))
	accountOrder := make([]string, 0, len(bets))
	for _, bet := range bets {
		position, ok := positions[bet.AccountID]
		if !ok {
			position = &roundPosition{}
			positions[bet.AccountID] = position
			accountOrder = append(accountOrder, bet.AccountID)
		}
		if bet.Side == winner {
			position.winStake += bet.Amount
		} else {
			position.loseStake += bet.Amount
		}
	}

	var totalPayout int64
	var accountsPaid int
	balanceEvents := make([]realtimeport.BalanceEvent, 0, len(accountOrder))

	for _, accountID := range accountOrder {
		position := positions[accountID]
		txnID := settlementTransactionID(roomID, roundNumber, accountID)

		// Even-money: a winning stake returns itself plus equal winnings
		payout := 2 * position.winStake

		if payout > 0 {
			before, after, err := txAccountRepo.ApplyBalanceDelta(txCtx, accountID, payout)
			if err != nil {
				return nil, err
			}

			txn, err := entity.NewTransaction(accountID, txnID, entity.TypeBetWin, payout, before, s.timeProvider)
			if err != nil {
				return nil, err
			}
			txn.WithRound(roomID, roundNumber)
			if err := txTransactionRepo.Create(txCtx, txn); err != nil {
				return nil, err
			}

			totalPayout += payout
			accountsPaid++
			balanceEvents = append(balanceEvents, realtimeport.BalanceEvent{AccountID: accountID, Balance: after})
		} else {
			// Zero-amount audit marker: the stake was debited at placement
			account, err := txAccountRepo.GetByID(txCtx, accountID)
			if err != nil {
				return nil, err
			}

			txn, err := entity.NewTransaction(accountID, txnID, entity.TypeBetLoss, 0, account.Balance(), s.timeProvider)
			if err != nil {
				return nil, err
			}
			txn.WithRound(roomID, roundNumber)
			txn.Reference = fmt.Sprintf("lost_stake:%d", position.loseStake)
			if err := txTransactionRepo.Create(txCtx, txn); err != nil {
				return nil, err
			}
		}

		if err := txAccountRepo.AddAggregates(txCtx, accountID, 0, 0, position.winStake, position.loseStake); err != nil {
			return nil, err
		}
	}

	entry := &entity.RoundHistory{
		RoomID:       roomID,
		RoundNumber:  roundNumber,
		Result:       winner,
		TargetCard:   targetCard,
		TotalPayout:  totalPayout,
		AccountsPaid: accountsPaid,
		CreatedAt:    s.timeProvider.Now(),
	}
	if err := txHistoryRepo.Create(txCtx, entry); err != nil {
		if errors.Is(err, errs.ErrDuplicateTransaction) {
			// A concurrent attempt settled the round first; its commit
			// is the outcome
			_ = s.uow.Rollback(txCtx)
			existing, getErr := s.historyRepo.GetByRound(ctx, roomID, roundNumber)
			if getErr != nil {
				return nil, getErr
			}
			return settlementResultFromHistory(existing), nil
		}
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Round settled", map[string]any{
		"room_id":       roomID,
		"round_number":  roundNumber,
		"winner":        winner,
		"accounts_paid": accountsPaid,
		"total_payout":  totalPayout,
		"bets":          len(bets),
	})

	for _, event := range balanceEvents {
		if err := s.notifier.PublishBalance(ctx, event); err != nil {
			s.logger.Warn("Failed to publish balance event", map[string]any{
				"account_id": event.AccountID,
				"error":      err.Error(),
			})
		}
	}

	return &usecaseport.SettlementResult{
		RoomID:       roomID,
		RoundNumber:  roundNumber,
		Winner:       winner,
		AccountsPaid: accountsPaid,
		TotalPayout:  totalPayout,
	}, nil
}

// settlementResultFromHistory rebuilds the idempotent settlement response
// from the stored audit record
func settlementResultFromHistory(entry *entity.RoundHistory) *usecaseport.SettlementResult {
	return &usecaseport.SettlementResult{
		RoomID:       entry.RoomID,
		RoundNumber:  entry.RoundNumber,
		Winner:       entry.Result,
		AccountsPaid: entry.AccountsPaid,
		TotalPayout:  entry.TotalPayout,
		AlreadyDone:  true,
	}
}
