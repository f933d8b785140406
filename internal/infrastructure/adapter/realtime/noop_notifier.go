package realtime

import (
	"context"

	"github.com/codecraftmss/game/internal/domain/port/realtime"
)

// NoopNotifier implements the Notifier interface but doesn't do anything.
// Useful for tests and for running without a Redis broker.
type NoopNotifier struct{}

// NewNoopNotifier creates a new no-op notifier
func NewNoopNotifier() realtime.Notifier {
	return &NoopNotifier{}
}

// PublishRoundState discards the event
func (n *NoopNotifier) PublishRoundState(ctx context.Context, event realtime.RoundStateEvent) error {
	return nil
}

// PublishBalance discards the event
func (n *NoopNotifier) PublishBalance(ctx context.Context, event realtime.BalanceEvent) error {
	return nil
}

// NoopSubscriber implements the Subscriber interface with streams that never
// deliver. Clients fall back to polling the store.
type NoopSubscriber struct{}

// NewNoopSubscriber creates a new no-op subscriber
func NewNoopSubscriber() realtime.Subscriber {
	return &NoopSubscriber{}
}

// SubscribeRoundState returns a stream that closes when ctx does
func (s *NoopSubscriber) SubscribeRoundState(ctx context.Context, roomID string) (<-chan realtime.RoundStateEvent, error) {
	out := make(chan realtime.RoundStateEvent)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

// SubscribeBalance returns a stream that closes when ctx does
func (s *NoopSubscriber) SubscribeBalance(ctx context.Context, accountID string) (<-chan realtime.BalanceEvent, error) {
	out := make(chan realtime.BalanceEvent)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}
