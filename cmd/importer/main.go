package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/importer"
	"storefront/internal/logging"
)

func main() {
	var filePath, email, password string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (name,description,price,stock_quantity,image_url)")
	flag.StringVar(&email, "email", "admin@shop.com", "Admin email")
	flag.StringVar(&password, "password", "", "Admin password")
	flag.Parse()

	if filePath == "" || password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.New(cfg.Env, cfg.LogLevel, "importer")
	ctx := context.Background()

	catalog, err := app.AdminCatalog(ctx, cfg.Remote, logger, email, password)
	if err != nil {
		logger.Fatal().Err(err).Msg("admin sign in")
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open file")
	}
	defer f.Close()

	start := time.Now()
	res, err := importer.NewCSVImporter(f, catalog).Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Int("created", res.Created).Int("updated", res.Updated).Msg("import failed")
	}

	fmt.Printf("Imported %d new and %d updated products in %s\n", res.Created, res.Updated, time.Since(start).Truncate(time.Millisecond))
}
