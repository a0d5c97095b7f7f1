package apply

import (
	"context"
	"strings"
	"testing"

	"github.com/dbdiff/dbdiff/diff"
	"github.com/dbdiff/dbdiff/internal/introspect"
	"github.com/dbdiff/dbdiff/schema"
	"github.com/dbdiff/dbdiff/testutil"
)

func TestExecutorApplyRunsPlanInOneTransaction(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pg := testutil.SetupTestPostgres(ctx, t)

	pool, src, err := introspect.NewLivePGSource(ctx, pg.DSN)
	if err != nil {
		t.Fatalf("NewLivePGSource: %v", err)
	}
	defer pool.Close()

	before, err := src.Snapshot(ctx, "public")
	if err != nil {
		t.Fatalf("Snapshot (before): %v", err)
	}

	pg.Exec(ctx, t, `CREATE TABLE widgets (id serial PRIMARY KEY, name text NOT NULL);`)

	after, err := src.Snapshot(ctx, "public")
	if err != nil {
		t.Fatalf("Snapshot (after): %v", err)
	}

	pg.Exec(ctx, t, `DROP TABLE widgets;`)

	engine := diff.NewEngine(before, after)
	engine.AddAllChanges(false)
	stmts, err := engine.Statements()
	if err != nil {
		t.Fatalf("Statements: %v", err)
	}
	if len(stmts) == 0 {
		t.Fatal("expected at least one statement to create widgets")
	}

	executor, err := Open(pg.DSN)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer executor.Close()

	if err := executor.Apply(ctx, stmts); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	applied, err := src.Snapshot(ctx, "public")
	if err != nil {
		t.Fatalf("Snapshot (applied): %v", err)
	}
	if _, ok := applied.Tables["public.widgets"]; !ok {
		t.Error("expected public.widgets to exist after apply")
	}
}

func TestExecutorApplyRollsBackOnStatementError(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pg := testutil.SetupTestPostgres(ctx, t)

	executor, err := Open(pg.DSN)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer executor.Close()

	stmts := diff.Statements{
		{SQL: "CREATE TABLE gadgets (id serial PRIMARY KEY);", Kind: schema.KindTable, Operation: diff.OpCreate, Identity: "public.gadgets"},
		{SQL: "this is not valid sql;", Kind: schema.KindTable, Operation: diff.OpCreate, Identity: "public.bogus"},
	}

	if err := executor.Apply(ctx, stmts); err == nil {
		t.Fatal("expected an error from the invalid statement")
	} else if !strings.Contains(err.Error(), "executing") {
		t.Errorf("expected the error to wrap the failing statement, got %v", err)
	}

	pool, src, err := introspect.NewLivePGSource(ctx, pg.DSN)
	if err != nil {
		t.Fatalf("NewLivePGSource: %v", err)
	}
	defer pool.Close()

	snap, err := src.Snapshot(ctx, "public")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, ok := snap.Tables["public.gadgets"]; ok {
		t.Error("expected the whole transaction to roll back, leaving gadgets absent")
	}
}
