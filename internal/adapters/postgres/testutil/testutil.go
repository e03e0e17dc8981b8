// Package testutil provisions a migrated Postgres pool for adapter tests.
// Tests that use it are skipped unless TEST_DATABASE_URL is set.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/oakmount/accounts-api/internal/adapters/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	external_id  UUID        NOT NULL,
	subject      TEXT        NOT NULL,
	display_name TEXT        NOT NULL,
	email        TEXT        NOT NULL,
	bio          TEXT,
	is_active    BOOLEAN     NOT NULL DEFAULT TRUE,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	CONSTRAINT users_external_id_unique UNIQUE (external_id),
	CONSTRAINT users_subject_unique UNIQUE (subject)
);
`

// OpenMigratedPool connects to TEST_DATABASE_URL, applies the schema, and
// truncates the tables so each test starts clean.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres adapter test")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{})
	if err != nil {
		t.Fatalf("connect test postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE users`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}
