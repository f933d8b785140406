package routes

import (
	coreport "github.com/codecraftmss/game/internal/domain/port/core"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/handler"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	betHandler *handler.BetHandler,
	roundHandler *handler.RoundHandler,
	accountHandler *handler.AccountHandler,
	streamHandler *handler.StreamHandler,
	adminToken string,
	logger coreport.Logger,
) {
	// Player surface: identity arrives as X-Account-ID from the platform edge
	player := router.Group("/", middleware.RequireAccount())
	{
		player.GET("/rooms", roundHandler.ListRooms)
		player.GET("/rooms/:roomId/state", roundHandler.GetState)
		player.GET("/rooms/:roomId/state/stream", streamHandler.StreamRoundState)
		player.POST("/rooms/:roomId/bets", betHandler.PlaceBet)
		player.GET("/rooms/:roomId/bets", betHandler.ListRoundBets)
		player.GET("/rooms/:roomId/history", roundHandler.GetHistory)

		player.GET("/account/balance", accountHandler.GetBalance)
		player.GET("/account/balance/stream", streamHandler.StreamBalance)
		player.GET("/account/transactions", accountHandler.ListTransactions)
	}

	// Admin surface: round control and manual token operations
	admin := router.Group("/admin", middleware.RequireAdmin(adminToken, logger))
	{
		admin.POST("/rooms/:roomId/open", roundHandler.OpenBetting)
		admin.POST("/rooms/:roomId/close", roundHandler.CloseBetting)
		admin.POST("/rooms/:roomId/phase", roundHandler.SetPhase)
		admin.POST("/rooms/:roomId/target-card", roundHandler.SetTargetCard)
		admin.POST("/rooms/:roomId/result", roundHandler.DeclareResult)
		admin.POST("/rooms/:roomId/settle/retry", roundHandler.RetrySettlement)

		admin.POST("/accounts", accountHandler.CreateAccount)
		admin.GET("/accounts/:accountId", accountHandler.GetAccount)
		admin.POST("/accounts/:accountId/approve", accountHandler.ApproveAccount)
		admin.POST("/accounts/:accountId/suspend", accountHandler.SuspendAccount)
		admin.POST("/accounts/:accountId/tokens", accountHandler.ProcessTokens)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
