package middleware

import (
	"crypto/subtle"
	"net/http"

	domainerr "github.com/codecraftmss/game/internal/domain/error"
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// Gin context keys set by the auth middlewares
const (
	ContextAccountID = "accountID"
	ContextAdminID   = "adminID"
)

// Auth headers. Identity arrives pre-authenticated from the platform edge;
// this boundary only consumes it.
const (
	headerAccountID  = "X-Account-ID"
	headerAdminToken = "X-Admin-Token"
	headerAdminID    = "X-Admin-ID"
)

// RequireAccount extracts the caller's account identity for player routes.
// Account existence and approval are enforced where the operations need
// them, so a missing header is the only thing rejected here.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetHeader(headerAccountID)
		if accountID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Missing required header: " + headerAccountID,
			})
			return
		}

		c.Set(ContextAccountID, accountID)
		c.Next()
	}
}

// RequireAdmin gates the admin surface behind the configured shared token
func RequireAdmin(adminToken string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(headerAdminToken)
		if adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			logger.Warn("Rejected admin request", map[string]any{
				"path":      c.Request.URL.Path,
				"client_ip": c.ClientIP(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid admin token",
			})
			return
		}

		adminID := c.GetHeader(headerAdminID)
		if adminID == "" {
			adminID = "admin"
		}
		c.Set(ContextAdminID, adminID)
		c.Next()
	}
}
