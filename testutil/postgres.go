// Package testutil provides shared test utilities for dbdiff: a disposable
// PostgreSQL instance per test, backed by testcontainers-go.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPostgres holds connection details for a disposable PostgreSQL
// instance started for a single test.
type TestPostgres struct {
	container *tcpostgres.PostgresContainer
	DSN       string
	Conn      *sql.DB
}

// SetupTestPostgres starts a PostgreSQL 17 container, waits for it to accept
// connections, and registers cleanup via t.Cleanup. The returned DSN uses
// sslmode=disable, matching every other container-backed test in this repo.
func SetupTestPostgres(ctx context.Context, t *testing.T) *TestPostgres {
	t.Helper()

	container, err := tcpostgres.Run(ctx,
		"postgres:17",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("testutil: starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("testutil: terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("testutil: connection string: %v", err)
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("testutil: opening connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := conn.PingContext(ctx); err != nil {
		t.Fatalf("testutil: pinging database: %v", err)
	}

	return &TestPostgres{container: container, DSN: dsn, Conn: conn}
}

// Exec runs a batch of setup DDL/DML against the test database, failing the
// test immediately on error — used to seed the "before" state of a schema
// comparison test.
func (tp *TestPostgres) Exec(ctx context.Context, t *testing.T, sql string) {
	t.Helper()
	if _, err := tp.Conn.ExecContext(ctx, sql); err != nil {
		t.Fatalf("testutil: exec %q: %v", sql, err)
	}
}

func (tp *TestPostgres) String() string {
	return fmt.Sprintf("postgres test instance at %s", tp.DSN)
}
