package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devtrack/device-tracker/internal/api"
	"github.com/devtrack/device-tracker/internal/api/handler"
	"github.com/devtrack/device-tracker/internal/core/ports"
	"github.com/devtrack/device-tracker/internal/core/service"
	"github.com/devtrack/device-tracker/internal/infrastructure/config"
	"github.com/devtrack/device-tracker/internal/infrastructure/db"
	rediscache "github.com/devtrack/device-tracker/internal/infrastructure/db/redis"
	"github.com/devtrack/device-tracker/internal/infrastructure/secret"
	"github.com/devtrack/device-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "device-tracker",
		Env:     cfg.Env,
	})

	key, err := secret.Load(secret.Source{
		File:       cfg.Auth.JWTSecretFile,
		Value:      cfg.Auth.JWTSecret,
		Production: cfg.IsProduction(),
	}, log)
	if err != nil {
		return err
	}

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore(store, log)

	checks := []handler.Check{{Name: store.Driver, Ping: store.Ping}}

	var cache ports.DeviceCache
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = rediscache.NewDeviceCache(rdb, cfg.Redis.CacheTTL)
		checks = append(checks, handler.Check{Name: "redis", Ping: redisPing(rdb)})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("device cache enabled")
	}

	tokens := service.NewTokenService(key, cfg.Auth.TokenTTL, service.WithIssuer(cfg.Auth.Issuer))
	creds := service.NewCredentials(store.Users, cfg.Auth.BcryptCost)

	e := api.NewRouter(api.Deps{
		Log:     log,
		Auth:    service.NewAuthService(creds, tokens, log),
		Devices: service.NewDeviceService(store.Devices, cache, log),
		Tokens:  tokens,
		Checks:  checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", store.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func redisPing(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func closeStore(store *db.Store, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
}
