package handler

import (
	"net/http"
	"strconv"

	domainerr "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/dto"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// BetHandler handles the player-facing bet endpoints
type BetHandler struct {
	betService   usecaseport.BetUseCase
	roundService usecaseport.RoundUseCase
	logger       coreport.Logger
}

// NewBetHandler creates a new bet handler instance
func NewBetHandler(betService usecaseport.BetUseCase, roundService usecaseport.RoundUseCase, logger coreport.Logger) *BetHandler {
	return &BetHandler{
		betService:   betService,
		roundService: roundService,
		logger:       logger,
	}
}

// PlaceBet handles POST /rooms/:roomId/bets
func (h *BetHandler) PlaceBet(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	roomID := c.Param("roomId")

	var req dto.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.betService.PlaceBet(c.Request.Context(), accountID, roomID, req.ToStakes())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.PlaceBetResponse{
		RoundNumber: result.RoundNumber,
		TotalStaked: result.TotalStaked,
		NewBalance:  result.NewBalance,
	})
}

// ListRoundBets handles GET /rooms/:roomId/bets. Without an explicit round
// query parameter it returns the caller's stakes for the current round, which
// is what a reconnecting client needs.
func (h *BetHandler) ListRoundBets(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	roomID := c.Param("roomId")

	var roundNumber int64
	if raw := c.Query("round"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid round number",
			})
			return
		}
		roundNumber = parsed
	} else {
		state, err := h.roundService.GetRoundState(c.Request.Context(), roomID)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		roundNumber = state.CurrentRound
	}

	bets, err := h.betService.ListRoundBets(c.Request.Context(), accountID, roomID, roundNumber)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roomId":      roomID,
		"roundNumber": roundNumber,
		"bets":        dto.FromBets(bets),
	})
}
