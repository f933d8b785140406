package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/domain/port/realtime"
	"github.com/redis/go-redis/v9"
)

const (
	roomStateChannelFormat = "ab:room:%s:state"
	balanceChannelFormat   = "ab:account:%s:balance"
)

// RedisNotifier fans out committed state changes over Redis pub/sub. Delivery
// is at-least-once and lossy under disconnect; the store remains the source
// of truth and streaming clients resynchronize on reconnect.
type RedisNotifier struct {
	client *redis.Client
	logger coreport.Logger
}

// NewRedisNotifier creates a notifier backed by the given Redis client
func NewRedisNotifier(client *redis.Client, logger coreport.Logger) *RedisNotifier {
	return &RedisNotifier{
		client: client,
		logger: logger,
	}
}

// PublishRoundState fans out a committed round state change
func (n *RedisNotifier) PublishRoundState(ctx context.Context, event realtime.RoundStateEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode round state event: %w", err)
	}

	channel := fmt.Sprintf(roomStateChannelFormat, event.RoomID)
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Error("Failed to publish round state event", map[string]any{
			"channel":      channel,
			"round_number": event.RoundNumber,
			"error":        err.Error(),
		})
		return err
	}

	n.logger.Debug("Round state event published", map[string]any{
		"channel":      channel,
		"round_number": event.RoundNumber,
		"status":       event.Status,
	})
	return nil
}

// PublishBalance fans out a committed balance change
func (n *RedisNotifier) PublishBalance(ctx context.Context, event realtime.BalanceEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode balance event: %w", err)
	}

	channel := fmt.Sprintf(balanceChannelFormat, event.AccountID)
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Error("Failed to publish balance event", map[string]any{
			"channel": channel,
			"error":   err.Error(),
		})
		return err
	}

	return nil
}

// SubscribeRoundState delivers round state events for one room until the
// context is canceled
func (n *RedisNotifier) SubscribeRoundState(ctx context.Context, roomID string) (<-chan realtime.RoundStateEvent, error) {
	channel := fmt.Sprintf(roomStateChannelFormat, roomID)
	sub := n.client.Subscribe(ctx, channel)

	// Force the subscription to establish before returning
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	events := make(chan realtime.RoundStateEvent, 16)
	go func() {
		defer close(events)
		defer func() { _ = sub.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event realtime.RoundStateEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					n.logger.Warn("Dropping malformed round state event", map[string]any{
						"channel": channel,
						"error":   err.Error(),
					})
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// SubscribeBalance delivers balance events for one account until the context
// is canceled
func (n *RedisNotifier) SubscribeBalance(ctx context.Context, accountID string) (<-chan realtime.BalanceEvent, error) {
	channel := fmt.Sprintf(balanceChannelFormat, accountID)
	sub := n.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	events := make(chan realtime.BalanceEvent, 16)
	go func() {
		defer close(events)
		defer func() { _ = sub.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event realtime.BalanceEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					n.logger.Warn("Dropping malformed balance event", map[string]any{
						"channel": channel,
						"error":   err.Error(),
					})
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
