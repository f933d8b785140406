package realtime

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/entity"
)

// RoundStateEvent is the payload fanned out to subscribers on every committed
// round state change. Subscribers observe round numbers monotonically
// non-decreasing per room; the push channel is a liveness optimization and
// clients resynchronize from the store on (re)connect.
type RoundStateEvent struct {
	RoomID       string               `json:"roomId"`
	RoundNumber  int64                `json:"roundNumber"`
	Phase        entity.BettingPhase  `json:"phase"`
	Status       entity.BettingStatus `json:"status"`
	Result       entity.Side          `json:"result,omitempty"`
	TargetCard   string               `json:"targetCard,omitempty"`
	TimerSeconds int                  `json:"timerSeconds,omitempty"` // Advisory countdown, cosmetic only
}

// BalanceEvent is the payload fanned out when an account's balance commits.
// Per-account events are delivered in commit order; there is no cross-account
// ordering guarantee.
type BalanceEvent struct {
	AccountID string `json:"accountId"`
	Balance   int64  `json:"balance"`
}

// Notifier is the delivery contract of the realtime fan-out layer:
// at-least-once, dumb pipe, never a source of truth.
type Notifier interface {
	// PublishRoundState fans out a committed round state change
	PublishRoundState(ctx context.Context, event RoundStateEvent) error

	// PublishBalance fans out a committed balance change
	PublishBalance(ctx context.Context, event BalanceEvent) error
}

// Subscriber is the client side of the fan-out, consumed by streaming
// handlers. Close the returned cancel function to release the subscription.
type Subscriber interface {
	// SubscribeRoundState delivers round state events for one room
	SubscribeRoundState(ctx context.Context, roomID string) (<-chan RoundStateEvent, error)

	// SubscribeBalance delivers balance events for one account
	SubscribeBalance(ctx context.Context, accountID string) (<-chan BalanceEvent, error)
}
