// Package apply executes a diff.Statements plan against a live database
// and defines DriftError, which cmd apply returns when its post-apply
// re-introspection still differs from the desired schema.
package apply

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/dbdiff/dbdiff/diff"
)

// Executor runs a plan with database/sql over the lib/pq driver, the same
// driver/connection style a dump-and-migrate CLI uses for the write path
// while pgx handles the read-heavy introspection path.
type Executor struct {
	db *sql.DB
}

// Open connects to dsn (a postgres:// URL or libpq keyword string).
func Open(dsn string) (*Executor, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("apply: open: %w", err)
	}
	return &Executor{db: db}, nil
}

func (e *Executor) Close() error { return e.db.Close() }

// Apply runs every statement in stmts inside a single transaction: either
// the whole plan lands, or none of it does.
func (e *Executor) Apply(ctx context.Context, stmts diff.Statements) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply: begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt.SQL); err != nil {
			return fmt.Errorf("apply: executing %q: %w", stmt.SQL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply: commit: %w", err)
	}
	return nil
}

// DriftError reports that, after applying a plan and re-introspecting,
// the database still doesn't match the intended target — the plan's
// statements ran without error but didn't fully converge (for example, a
// concurrent schema change landed between introspection and apply).
type DriftError struct {
	Remaining diff.Statements
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("apply: %d statement(s) still pending after apply, database has drifted", len(e.Remaining))
}
