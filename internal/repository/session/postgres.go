package session

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgres stores session keys in the session_store table created by internal/migrate.
func NewPostgres(pool *pgxpool.Pool) Backend {
	return &postgresBackend{pool: pool}
}

func (r *postgresBackend) Read(ctx context.Context, keys ...string) (map[string]string, error) {
	const q = `
SELECT key, value
FROM session_store
WHERE key = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *postgresBackend) Write(ctx context.Context, values map[string]string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for k, v := range values {
		if _, err := tx.Exec(ctx, `
INSERT INTO session_store (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`, k, v); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *postgresBackend) Delete(ctx context.Context, keys ...string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM session_store WHERE key = ANY($1)`, keys)
	return err
}
