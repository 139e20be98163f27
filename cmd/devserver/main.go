package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/remote/remotetest"
	"storefront/internal/seed"
)

// devserver runs the in-memory catalog/order service for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.New(cfg.Env, cfg.LogLevel, "devserver")

	svc, err := remotetest.New(remotetest.Options{
		JWTSecret: cfg.Dev.JWTSecret,
		TokenTTL:  cfg.Dev.TokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init service")
	}
	n, err := seed.Apply(context.Background(), remotetest.Catalog(svc))
	if err != nil {
		logger.Fatal().Err(err).Msg("seed catalog")
	}
	logger.Info().Int("products", n).Str("admin", remotetest.DefaultAdminEmail).Msg("catalog seeded")

	srv := &http.Server{
		Addr:              cfg.Dev.Addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Dev.Addr).Msg("serving /api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stopCh:
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
