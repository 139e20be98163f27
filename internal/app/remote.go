package app

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/remote"
	sessionrepo "storefront/internal/repository/session"
	catalogsvc "storefront/internal/service/catalog"
	sessionsvc "storefront/internal/service/session"

	"github.com/rs/zerolog"
)

// RemoteClient builds the catalog/order service client, authenticating with tokens.
func RemoteClient(cfg config.RemoteConfig, tokens remote.TokenSource, logger zerolog.Logger) *remote.Client {
	return remote.New(remote.Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		ReadRetries:   cfg.ReadRetries,
		RatePerSecond: cfg.RatePerSecond,
		RateBurst:     cfg.RateBurst,
		Tokens:        tokens,
		Logger:        logger,
	})
}

// AdminCatalog signs in with admin credentials on a throwaway in-memory session and
// returns a catalog service acting as that admin. Nothing is written to the user's session store.
func AdminCatalog(ctx context.Context, cfg config.RemoteConfig, logger zerolog.Logger, email, password string) (*catalogsvc.Service, error) {
	sessions := sessionsvc.New(ctx, sessionrepo.New(sessionrepo.NewMemoryBackend(), logger), logger)
	client := RemoteClient(cfg, sessions, logger)
	creds := sessionsvc.NewCredentials(sessions, client, logger)

	user, err := creds.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in as %s: %w", email, err)
	}
	if !user.Role.IsAdmin() {
		return nil, fmt.Errorf("%s is not an admin", email)
	}
	return catalogsvc.New(client, sessions, logger), nil
}
