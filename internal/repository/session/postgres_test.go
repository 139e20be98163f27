package session

import (
	"context"
	"os"
	"testing"

	"storefront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresBackend_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, migrate.Apply(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE session_store`)
	require.NoError(t, err)

	repo := New(NewPostgres(pool), zerolog.Nop())
	require.NoError(t, repo.Save(ctx, "tok", testUser))
	require.NoError(t, repo.Save(ctx, "tok-2", testUser))

	rec, ok := repo.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-2", rec.Token)

	require.NoError(t, repo.Clear(ctx))
	_, ok = repo.Load(ctx)
	assert.False(t, ok)
}
