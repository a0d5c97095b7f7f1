package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dbdiff/dbdiff/cmd/util"
	"github.com/dbdiff/dbdiff/diff"
	"github.com/dbdiff/dbdiff/internal/introspect"
	"github.com/dbdiff/dbdiff/schema"
)

var (
	planSrc1, planSrc2 util.ConnFlags
	planFormat         string
	planIncludeGrants  bool
)

var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute the migration plan between two schemas",
	Long:  "Introspect two PostgreSQL schemas (or load two JSON fixtures) and print the ordered DDL statements that transform the first into the second.",
	RunE:  runPlan,
}

func init() {
	util.RegisterConnFlags(PlanCmd, &planSrc1, "1")
	util.RegisterConnFlags(PlanCmd, &planSrc2, "2")
	PlanCmd.Flags().StringVar(&planFormat, "format", "text", "Output format: text, json")
	PlanCmd.Flags().BoolVar(&planIncludeGrants, "include-privileges", false, "Also diff GRANT/REVOKE statements")
}

func runPlan(cmd *cobra.Command, args []string) error {
	before, after, err := loadSnapshotPair(cmd)
	if err != nil {
		return err
	}

	engine := diff.NewEngine(before, after)
	engine.AddAllChanges(planIncludeGrants)

	stmts, err := engine.Statements()
	if err != nil {
		return fmt.Errorf("dbdiff: %w", err)
	}

	switch planFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stmts)
	case "text":
		fallthrough
	default:
		fmt.Print(stmts.String())
	}
	return nil
}

// loadSnapshotPair validates the two source flag groups and resolves them
// into linked snapshots, fetching both concurrently when both are live
// database connections.
func loadSnapshotPair(cmd *cobra.Command) (*schema.Snapshot, *schema.Snapshot, error) {
	planSrc1.ApplyEnvDefaults(cmd, "1")
	planSrc2.ApplyEnvDefaults(cmd, "2")

	if err := planSrc1.Validate("1"); err != nil {
		return nil, nil, err
	}
	if err := planSrc2.Validate("2"); err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src1, closer1, err := openSource(ctx, &planSrc1)
	if err != nil {
		return nil, nil, fmt.Errorf("source 1: %w", err)
	}
	if closer1 != nil {
		defer closer1()
	}
	src2, closer2, err := openSource(ctx, &planSrc2)
	if err != nil {
		return nil, nil, fmt.Errorf("source 2: %w", err)
	}
	if closer2 != nil {
		defer closer2()
	}

	return introspect.SnapshotPair(ctx, src1, src2, planSrc1.Schema)
}

// openSource resolves one ConnFlags side into an introspect.Source, along
// with an optional cleanup func for a pool it opened.
func openSource(ctx context.Context, c *util.ConnFlags) (introspect.Source, func(), error) {
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return nil, nil, fmt.Errorf("reading schema file: %w", err)
		}
		return introspect.NewFixtureSource(data), nil, nil
	}

	pool, err := pgxpool.New(ctx, c.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return introspect.NewPGSource(pool), pool.Close, nil
}
