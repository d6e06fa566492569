package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ledgerdesk/ledger/internal/command"
	"github.com/ledgerdesk/ledger/internal/config"
	"github.com/ledgerdesk/ledger/internal/db"
	"github.com/ledgerdesk/ledger/internal/handler"
	"github.com/ledgerdesk/ledger/internal/logging"
	"github.com/ledgerdesk/ledger/internal/query"
	"github.com/ledgerdesk/ledger/internal/repository"
	"github.com/ledgerdesk/ledger/shared/events"
	redisClient "github.com/ledgerdesk/ledger/shared/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.NewLogger(&cfg.Logger, "ledger-api")
	logger.Info().Str("port", cfg.Server.Port).Str("log_level", cfg.Logger.Level).Msg("starting ledger api")

	if cfg.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(database); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
		logger.Info().Msg("migrations applied")
	}

	// Domain events are optional; without Redis they are dropped.
	var publisher events.EventPublisher = events.NopPublisher{}
	if cfg.Redis.Enabled() {
		redis, err := redisClient.NewClient(ctx, redisClient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redis.Close()
		publisher = events.NewPublisher(redis.Client, cfg.Redis.StreamMaxLen)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("publishing domain events to redis")
	}

	// --- CQRS wiring ---
	accounts := repository.NewAccountRepository(database)
	tokens := repository.NewTokenRepository(database)
	customers := repository.NewCustomerRepository(database)

	registrationSvc := command.NewRegistrationCommandService(accounts, publisher, logger)
	customerCmdSvc := command.NewCustomerCommandService(customers, publisher, logger)
	authQuerySvc := query.NewAuthQueryService(accounts, tokens, logger)
	customerQuerySvc := query.NewCustomerQueryService(customers)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(registrationSvc, authQuerySvc),
		Customers:      handler.NewCustomerHandler(customerCmdSvc, customerQuerySvc),
		Resolver:       authQuerySvc,
		DB:             database,
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("address", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
