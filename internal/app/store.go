// Package app assembles the storefront's components from configuration for the binaries.
package app

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
	sessionrepo "storefront/internal/repository/session"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Store is an opened session backend together with its readiness probe and cleanup.
type Store struct {
	Backend sessionrepo.Backend
	// Ping is nil for backends that need no health check.
	Ping  func(ctx context.Context) error
	Close func()
}

// OpenSessionStore opens the backend named by cfg.Store.
func OpenSessionStore(ctx context.Context, cfg config.SessionConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Store {
	case "", "file":
		logger.Debug().Str("path", cfg.File).Msg("session store: file")
		return Store{Backend: sessionrepo.NewFileBackend(cfg.File), Close: func() {}}, nil
	case "memory":
		return Store{Backend: sessionrepo.NewMemoryBackend(), Close: func() {}}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return Store{}, fmt.Errorf("redis ping: %w", err)
		}
		return Store{
			Backend: sessionrepo.NewRedis(client, cfg.KeyPrefix),
			Ping:    func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close:   func() { _ = client.Close() },
		}, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			return Store{}, fmt.Errorf("connect db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return Store{}, fmt.Errorf("apply migrations: %w", err)
		}
		return Store{
			Backend: sessionrepo.NewPostgres(pool),
			Ping:    pool.Ping,
			Close:   pool.Close,
		}, nil
	default:
		return Store{}, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
