// Package testutil wires integration tests to the test Postgres and Redis
// instances described by config.LoadTestConfig. Tests are skipped, not
// failed, when a backing service is unreachable.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"event-checkin/config"
	"event-checkin/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const testDBLockID int64 = 741852964

// NewTestPool connects to the test database, applies migrations and truncates all tables.
func NewTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	cfg := config.LoadTestConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		pool *pgxpool.Pool
		err  error
	)
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			err = pool.Ping(ctx)
		}
	} else {
		pool, err = database.InitDatabase(ctx, &cfg.Database)
	}
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		t.Skipf("skipping Postgres integration tests: %v", err)
	}
	t.Cleanup(pool.Close)

	lockTestDB(t, pool)

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	Truncate(t, pool)

	return pool
}

// lockTestDB serializes test packages that share the database. The lock is
// held on a dedicated connection until the test finishes.
func lockTestDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("failed to acquire lock connection: %v", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, testDBLockID); err != nil {
		conn.Release()
		t.Fatalf("failed to lock test database: %v", err)
	}
	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, testDBLockID)
		conn.Release()
	})
}

// Truncate clears test data but keeps the schema.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE checkin_activity, people, events CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// NewTestRedis connects to the test Redis and flushes its database.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	cfg := config.LoadTestConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		t.Skipf("skipping Redis integration tests: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	if err := rdb.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
	return rdb
}
