package handler

import (
	"io"
	"time"

	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	realtimeport "github.com/codecraftmss/game/internal/domain/port/realtime"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/dto"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// heartbeatInterval keeps intermediaries from closing quiet SSE connections
const heartbeatInterval = 15 * time.Second

// StreamHandler exposes the realtime fan-out as SSE streams. The streams are
// a liveness optimization: the first event is always a snapshot read from the
// store, and a client that loses the stream reconnects and resynchronizes.
type StreamHandler struct {
	subscriber      realtimeport.Subscriber
	roundService    usecaseport.RoundUseCase
	accountService  usecaseport.AccountUseCase
	logger          coreport.Logger
	betTimerSeconds int
}

// NewStreamHandler creates a new stream handler instance
func NewStreamHandler(
	subscriber realtimeport.Subscriber,
	roundService usecaseport.RoundUseCase,
	accountService usecaseport.AccountUseCase,
	logger coreport.Logger,
	betTimerSeconds int,
) *StreamHandler {
	return &StreamHandler{
		subscriber:      subscriber,
		roundService:    roundService,
		accountService:  accountService,
		logger:          logger,
		betTimerSeconds: betTimerSeconds,
	}
}

// StreamRoundState handles GET /rooms/:roomId/state/stream
func (h *StreamHandler) StreamRoundState(c *gin.Context) {
	roomID := c.Param("roomId")
	ctx := c.Request.Context()

	// Subscribe before the snapshot so no committed change can fall between
	// the two
	events, err := h.subscriber.SubscribeRoundState(ctx, roomID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	state, err := h.roundService.GetRoundState(ctx, roomID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setStreamHeaders(c)
	c.SSEvent("state", dto.FromRoundState(state, h.betTimerSeconds))
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("state", event)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// StreamBalance handles GET /account/balance/stream
func (h *StreamHandler) StreamBalance(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	ctx := c.Request.Context()

	events, err := h.subscriber.SubscribeBalance(ctx, accountID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	balance, err := h.accountService.GetBalance(ctx, accountID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setStreamHeaders(c)
	c.SSEvent("balance", dto.BalanceResponse{AccountID: balance.AccountID, Balance: balance.Balance})
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("balance", event)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (h *StreamHandler) setStreamHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
}
