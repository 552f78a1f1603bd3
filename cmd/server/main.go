package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accountd/account-service/internal/api"
	"github.com/accountd/account-service/internal/core/auth"
	"github.com/accountd/account-service/internal/core/service"
	"github.com/accountd/account-service/internal/infrastructure/config"
	mongodb "github.com/accountd/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/accountd/account-service/internal/infrastructure/db/redis"
	"github.com/accountd/account-service/internal/infrastructure/queue"
	"github.com/accountd/account-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	secret, insecure := cfg.SecretOrDefault()
	if insecure {
		log.Warn().Msg("JWT_SECRET not set, using the insecure development default")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	// The unique email index is the invariant concurrent sign-ups rely on;
	// refuse to start without it.
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index bootstrap failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	tokens := auth.NewTokenService(secret, cfg.TokenTTL)

	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Mongo:  db,
		Redis:  rdb,
		Tokens: tokens,
		Audit:  dispatcher,
		Log:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("account service listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
