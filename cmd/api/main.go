package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	accountUseCase "github.com/codecraftmss/game/internal/domain/usecase/account"
	betUseCase "github.com/codecraftmss/game/internal/domain/usecase/bet"
	roundUseCase "github.com/codecraftmss/game/internal/domain/usecase/round"

	realtimeport "github.com/codecraftmss/game/internal/domain/port/realtime"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/handler"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/api/routes"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/database"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/database/migration"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/logger"
	realtimeAdapter "github.com/codecraftmss/game/internal/infrastructure/adapter/realtime"
	"github.com/codecraftmss/game/internal/infrastructure/adapter/repository"
	timeProvider "github.com/codecraftmss/game/internal/infrastructure/adapter/time"
	"github.com/codecraftmss/game/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbConfig := database.CreateConfigFromViperConfig(cfg)
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	// Repositories and unit of work
	db := dbManager.DB()
	accountRepo := repository.NewAccountRepository(db, tp, appLogger)
	transactionRepo := repository.NewTransactionRepository(db, tp, appLogger)
	betRepo := repository.NewBetRepository(db, tp, appLogger)
	roundRepo := repository.NewRoundRepository(db, tp, appLogger)
	historyRepo := repository.NewRoundHistoryRepository(db, tp, appLogger)
	roomRepo := repository.NewRoomRepository(db, tp, appLogger)
	uow := database.NewUnitOfWork(db, appLogger, tp)

	// Migrations and room seeding, retried on transient store failures so a
	// database still coming up does not kill the process
	ctx := context.Background()
	err = database.RetryOnTransientError(ctx, database.DefaultRetryConfig(), func() error {
		return dbManager.MigrationManager().MigrateAll()
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	err = database.RetryOnTransientError(ctx, database.DefaultRetryConfig(), func() error {
		return migration.CreateDefaultRooms(ctx, roomRepo, roundRepo, tp)
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to create default rooms", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Realtime fan-out; without a broker the system still runs, clients just
	// poll instead of streaming
	var notifier realtimeport.Notifier
	var subscriber realtimeport.Subscriber
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Error("Failed to connect to redis", map[string]any{
				"addr":  cfg.Redis.Addr,
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()

		redisNotifier := realtimeAdapter.NewRedisNotifier(redisClient, appLogger)
		notifier = redisNotifier
		subscriber = redisNotifier
	} else {
		appLogger.Warn("No redis address configured, realtime fan-out disabled", nil)
		notifier = realtimeAdapter.NewNoopNotifier()
		subscriber = realtimeAdapter.NewNoopSubscriber()
	}

	// Use cases
	accountService := accountUseCase.NewService(uow, accountRepo, transactionRepo, notifier, tp, appLogger)
	betService := betUseCase.NewService(uow, accountRepo, roomRepo, betRepo, roundRepo, notifier, tp, appLogger)
	roundService := roundUseCase.NewService(uow, roundRepo, roomRepo, betRepo, historyRepo, notifier, tp, appLogger, cfg.Game.BetTimerSeconds)

	// API handlers
	betHandler := handler.NewBetHandler(betService, roundService, appLogger)
	roundHandler := handler.NewRoundHandler(roundService, roomRepo, appLogger, cfg.Game.BetTimerSeconds, cfg.Game.HistoryLimit)
	accountHandler := handler.NewAccountHandler(accountService, appLogger, cfg.Game.TransactionPageSize)
	streamHandler := handler.NewStreamHandler(subscriber, roundService, accountService, appLogger, cfg.Game.BetTimerSeconds)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, betHandler, roundHandler, accountHandler, streamHandler, cfg.Auth.AdminToken, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	if cfg.Server.Port == 0 {
		missing = append(missing, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missing = append(missing, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missing = append(missing, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missing = append(missing, "server.shutdownTimeout")
	}
	if cfg.Logger.Level == "" {
		missing = append(missing, "logger.level")
	}
	if cfg.Game.BetTimerSeconds <= 0 {
		missing = append(missing, "game.betTimerSeconds")
	}

	switch cfg.Environment {
	case config.Development, config.Production, config.Test:
	case "":
		missing = append(missing, "environment")
	default:
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Environment == config.Production {
		if cfg.Auth.AdminToken == "" {
			missing = append(missing, "auth.adminToken (or AB_ADMIN_TOKEN environment variable)")
		}
		if cfg.Database.Host == "" && os.Getenv("AB_DB_HOST") == "" {
			missing = append(missing, "database.host (or AB_DB_HOST environment variable)")
		}
		if cfg.Database.Password == "" && os.Getenv("AB_DB_PASSWORD") == "" {
			missing = append(missing, "database.password (or AB_DB_PASSWORD environment variable)")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %v", missing)
	}
	return nil
}
