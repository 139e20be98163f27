package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	"storefront/internal/receipt"
	sessionrepo "storefront/internal/repository/session"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"
	sessionsvc "storefront/internal/service/session"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.New(cfg.Env, cfg.LogLevel, "storefront")

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Fatal().Err(err).Msg("register metrics")
	}

	ctx := context.Background()
	store, err := app.OpenSessionStore(ctx, cfg.Session, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("open session store")
	}
	defer store.Close()

	sessions := sessionsvc.New(ctx, sessionrepo.New(store.Backend, logger), logger)
	client := app.RemoteClient(cfg.Remote, sessions, logger)
	credentials := sessionsvc.NewCredentials(sessions, client, logger)
	if sessions.IsAuthenticated() {
		if _, err := credentials.Refresh(ctx); err != nil {
			logger.Warn().Err(err).Msg("could not revalidate restored session")
		}
	}

	cart := cartsvc.New(logger)
	catalog := catalogsvc.New(client, sessions, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:    sessions,
		Credentials: credentials,
		Cart:        cart,
		Checkout:    checkoutsvc.New(cart, client, cfg.Checkout.Timeout, logger),
		Catalog:     catalog,
		Orders:      ordersvc.New(client, sessions, receipt.New("Storefront"), logger),
		ReadyProbes: map[string]func(context.Context) error{
			"session store":  store.Ping,
			"remote service": client.Ping,
		},
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("remote", cfg.Remote.BaseURL).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
