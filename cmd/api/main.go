// Command api runs the authentication gateway HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/regportal/auth-gateway/internal/api"
	"github.com/regportal/auth-gateway/internal/infrastructure/config"
	"github.com/regportal/auth-gateway/internal/infrastructure/db/postgres"
	"github.com/regportal/auth-gateway/internal/pkg/password"
	"github.com/regportal/auth-gateway/internal/pkg/token"
	"github.com/regportal/auth-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger options depend on config, so bootstrap with defaults
		// just to report the failure.
		log := logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("configuration load failed")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	e := api.NewRouter(api.Dependencies{
		DB:     db,
		Hasher: password.NewHasher(cfg.BcryptCost),
		Tokens: token.NewIssuer(cfg.JWTSecretKey, cfg.TokenTTL),
		Logger: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting auth gateway")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
