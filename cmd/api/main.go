package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/persistence"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/appointment"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/ledger"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/referral"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/user"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/vendor"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/cache"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/database"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/idgen"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/logger"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/memory"
	timeProvider "github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/time"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/config"
)

const idempotencyInFlightTTL = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLoggerWithOptions(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	ids := idgen.NewUUIDGenerator()
	startupCtx := context.Background()

	// Store
	var (
		uow    persistence.UnitOfWork
		pinger handler.Pinger
	)
	switch cfg.Database.Driver {
	case "memory":
		appLogger.Warn("Using in-memory store, data is lost on restart", nil)
		uow = memory.NewStore()
	default:
		dbManager := database.NewManager(databaseConfig(cfg), appLogger, tp)
		if err := dbManager.Connect(startupCtx); err != nil {
			appLogger.Error("Failed to connect to database", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer func() { _ = dbManager.Close() }()

		if err := dbManager.Migrate(startupCtx); err != nil {
			appLogger.Error("Failed to run migrations", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		uow = dbManager.UnitOfWork()
		pinger = dbManager
	}

	// Use cases
	rewards := ledger.Rewards{
		WelcomeBonus:   cfg.Rewards.WelcomeBonus,
		ReferrerReward: cfg.Rewards.ReferrerReward,
		ReferredReward: cfg.Rewards.ReferredReward,
	}
	coinLedger := ledger.NewLedger(uow, ids, tp, appLogger, retryConfig(cfg))
	vendorService := vendor.NewService(coinLedger, ids, tp, appLogger)
	userUseCase := user.NewUserUseCase(coinLedger, vendorService, rewards, ids, tp, appLogger)
	referralService := referral.NewService(coinLedger, rewards, tp, appLogger)
	appointmentService := appointment.NewService(coinLedger, ids, tp, appLogger)

	if err := userUseCase.EnsureAdmins(startupCtx, adminAccounts(cfg)); err != nil {
		appLogger.Error("Failed to create admin accounts", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// HTTP
	opts := routes.Options{
		Verifier: middleware.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Users:    userUseCase,
	}
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisIdempotencyStore(startupCtx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Error("Failed to connect to redis", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()

		opts.Idempotency = middleware.Idempotency(store, middleware.IdempotencyConfig{
			TTL:         cfg.Redis.IdempotencyTTL,
			InFlightTTL: idempotencyInFlightTTL,
		}, appLogger)
	}

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp, cfg.Server.AllowedOrigins)
	routes.SetupRoutes(router, routes.Handlers{
		User:        handler.NewUserHandler(userUseCase, coinLedger, referralService, appLogger),
		Vendor:      handler.NewVendorHandler(vendorService, appLogger),
		Appointment: handler.NewAppointmentHandler(appointmentService, appLogger),
		Transaction: handler.NewTransactionHandler(coinLedger, appLogger),
		Admin:       handler.NewAdminHandler(userUseCase, vendorService, appLogger),
		Health:      handler.NewHealthHandler(pinger, appLogger),
	}, opts)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":   server.Addr,
			"env":    cfg.Environment,
			"driver": cfg.Database.Driver,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdown(server, cfg.Server.ShutdownTimeout, appLogger)
}

func shutdown(server *http.Server, timeout time.Duration, appLogger coreport.Logger) {
	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
		return
	}
	appLogger.Info("Server exited gracefully", nil)
}

func databaseConfig(cfg *config.Config) *database.Config {
	return &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		SlowThreshold:   cfg.Database.SlowThreshold,
		LogLevel:        cfg.Database.LogLevel,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}
}

func retryConfig(cfg *config.Config) ledger.RetryConfig {
	return ledger.RetryConfig{
		MaxRetries:    cfg.Transaction.MaxRetries,
		RetryInterval: time.Duration(cfg.Transaction.RetryIntervalMs) * time.Millisecond,
		MaxInterval:   time.Duration(cfg.Transaction.MaxRetryIntervalMs) * time.Millisecond,
		JitterFactor:  cfg.Transaction.JitterFactor,
	}
}

func adminAccounts(cfg *config.Config) []user.AdminAccount {
	admins := make([]user.AdminAccount, 0, len(cfg.Auth.Admins))
	for _, a := range cfg.Auth.Admins {
		admins = append(admins, user.AdminAccount{ID: a.ID, Email: a.Email})
	}
	return admins
}
