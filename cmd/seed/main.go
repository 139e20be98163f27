package main

import (
	"context"
	"flag"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/seed"
)

func main() {
	var email, password string
	flag.StringVar(&email, "email", "admin@shop.com", "Admin email")
	flag.StringVar(&password, "password", "admin123", "Admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.New(cfg.Env, cfg.LogLevel, "seed")

	ctx := context.Background()
	catalog, err := app.AdminCatalog(ctx, cfg.Remote, logger, email, password)
	if err != nil {
		logger.Fatal().Err(err).Msg("admin sign in")
	}

	n, err := seed.Apply(ctx, catalog)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed apply")
	}

	logger.Info().Int("created", n).Msg("seed applied")
}
