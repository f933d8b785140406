package handler

import (
	"net/http"
	"strconv"

	"github.com/codecraftmss/game/internal/domain/entity"
	domainerr "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/domain/port/persistence"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// RoundHandler handles room metadata, round state reads and the admin-driven
// round transitions
type RoundHandler struct {
	roundService    usecaseport.RoundUseCase
	roomRepo        persistence.RoomRepository
	logger          coreport.Logger
	betTimerSeconds int
	historyLimit    int
}

// NewRoundHandler creates a new round handler instance
func NewRoundHandler(
	roundService usecaseport.RoundUseCase,
	roomRepo persistence.RoomRepository,
	logger coreport.Logger,
	betTimerSeconds int,
	historyLimit int,
) *RoundHandler {
	return &RoundHandler{
		roundService:    roundService,
		roomRepo:        roomRepo,
		logger:          logger,
		betTimerSeconds: betTimerSeconds,
		historyLimit:    historyLimit,
	}
}

// ListRooms handles GET /rooms, returning the tables players may join
func (h *RoundHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	playable := rooms[:0]
	for _, room := range rooms {
		if room.IsPlayable() {
			playable = append(playable, room)
		}
	}

	c.JSON(http.StatusOK, gin.H{"rooms": dto.FromRooms(playable)})
}

// GetState handles GET /rooms/:roomId/state
func (h *RoundHandler) GetState(c *gin.Context) {
	state, err := h.roundService.GetRoundState(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoundState(state, h.betTimerSeconds))
}

// GetHistory handles GET /rooms/:roomId/history
func (h *RoundHandler) GetHistory(c *gin.Context) {
	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid limit",
			})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	entries, err := h.roundService.ListRoundHistory(c.Request.Context(), c.Param("roomId"), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roomId":  c.Param("roomId"),
		"history": dto.FromRoundHistory(entries),
	})
}

// OpenBetting handles POST /admin/rooms/:roomId/open
func (h *RoundHandler) OpenBetting(c *gin.Context) {
	state, err := h.roundService.OpenBetting(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoundState(state, h.betTimerSeconds))
}

// CloseBetting handles POST /admin/rooms/:roomId/close
func (h *RoundHandler) CloseBetting(c *gin.Context) {
	state, err := h.roundService.CloseBetting(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoundState(state, h.betTimerSeconds))
}

// SetPhase handles POST /admin/rooms/:roomId/phase
func (h *RoundHandler) SetPhase(c *gin.Context) {
	var req dto.SetPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	state, err := h.roundService.SetPhase(c.Request.Context(), c.Param("roomId"), entity.BettingPhase(req.Phase))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoundState(state, h.betTimerSeconds))
}

// SetTargetCard handles POST /admin/rooms/:roomId/target-card
func (h *RoundHandler) SetTargetCard(c *gin.Context) {
	var req dto.SetTargetCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	state, err := h.roundService.SetTargetCard(c.Request.Context(), c.Param("roomId"), req.Card)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRoundState(state, h.betTimerSeconds))
}

// DeclareResult handles POST /admin/rooms/:roomId/result
func (h *RoundHandler) DeclareResult(c *gin.Context) {
	var req dto.DeclareResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.roundService.DeclareWinner(c.Request.Context(), c.Param("roomId"), entity.Side(req.Winner))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSettlementResult(result))
}

// RetrySettlement handles POST /admin/rooms/:roomId/settle/retry
func (h *RoundHandler) RetrySettlement(c *gin.Context) {
	result, err := h.roundService.RetrySettlement(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSettlementResult(result))
}
