package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// httpStatus maps domain errors onto HTTP statuses. Losing a bet to a round
// close is a conflict, not a server fault; settlement failures are the one
// thing reported as 500 so they are impossible to miss.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrInsufficientBalance),
		errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrBetOutOfRange),
		errors.Is(err, domainerr.ErrInvalidSide),
		errors.Is(err, domainerr.ErrInvalidPhase),
		errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrAccountNotApproved):
		return http.StatusForbidden
	case errors.Is(err, domainerr.ErrAccountNotFound),
		errors.Is(err, domainerr.ErrRoomNotFound),
		errors.Is(err, domainerr.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrRoundClosed),
		errors.Is(err, domainerr.ErrInvalidTransition),
		errors.Is(err, domainerr.ErrDuplicateTransaction),
		errors.Is(err, domainerr.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the standardized error payload for a domain error.
// Internal detail stays in the logs; clients get the stable code and a
// short message.
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	status := httpStatus(err)

	fields := map[string]any{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
		"status": status,
		"error":  err.Error(),
	}
	if lf, ok := err.(interface{ LogFields() map[string]any }); ok {
		for k, v := range lf.LogFields() {
			fields[k] = v
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields)
	} else {
		logger.Info("Request rejected", fields)
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}
