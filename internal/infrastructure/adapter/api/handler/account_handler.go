package handler

import (
	"net/http"
	"strconv"

	"github.com/codecraftmss/game/internal/domain/entity"
	domainerr "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	usecaseport "github.com/codecraftmss/game/internal/domain/port/usecase"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/dto"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles balance reads for players and account
// administration for admins
type AccountHandler struct {
	accountService  usecaseport.AccountUseCase
	logger          coreport.Logger
	transactionPage int
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accountService usecaseport.AccountUseCase, logger coreport.Logger, transactionPage int) *AccountHandler {
	return &AccountHandler{
		accountService:  accountService,
		logger:          logger,
		transactionPage: transactionPage,
	}
}

// GetBalance handles GET /account/balance
func (h *AccountHandler) GetBalance(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	balance, err := h.accountService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: balance.AccountID,
		Balance:   balance.Balance,
	})
}

// ListTransactions handles GET /account/transactions
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	limit := h.transactionPage
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

	entries, err := h.accountService.ListTransactions(c.Request.Context(), accountID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accountId":    accountID,
		"transactions": dto.FromTransactions(entries),
	})
}

// CreateAccount handles POST /admin/accounts
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req.AccountID, req.InitialBalance)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromAccount(account))
}

// GetAccount handles GET /admin/accounts/:accountId
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAccount(account))
}

// ApproveAccount handles POST /admin/accounts/:accountId/approve
func (h *AccountHandler) ApproveAccount(c *gin.Context) {
	h.setStatus(c, entity.StatusApproved)
}

// SuspendAccount handles POST /admin/accounts/:accountId/suspend
func (h *AccountHandler) SuspendAccount(c *gin.Context) {
	h.setStatus(c, entity.StatusSuspended)
}

func (h *AccountHandler) setStatus(c *gin.Context, status entity.AccountStatus) {
	accountID := c.Param("accountId")

	if err := h.accountService.SetAccountStatus(c.Request.Context(), accountID, status); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accountId": accountID,
		"status":    string(status),
	})
}

// ProcessTokens handles POST /admin/accounts/:accountId/tokens
func (h *AccountHandler) ProcessTokens(c *gin.Context) {
	var req dto.TokenTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.accountService.ProcessTokenTransaction(
		c.Request.Context(),
		c.Param("accountId"),
		c.GetString(middleware.ContextAdminID),
		entity.TransactionType(req.Type),
		req.Amount,
		req.TransactionID,
		req.Reference,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenTransactionResponse{
		TransactionID: result.TransactionID,
		AccountID:     result.AccountID,
		BeforeBalance: result.BeforeBalance,
		AfterBalance:  result.AfterBalance,
	})
}
