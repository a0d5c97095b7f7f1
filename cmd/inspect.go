package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbdiff/dbdiff/cmd/util"
	"github.com/dbdiff/dbdiff/internal/introspect"
)

var inspectSrc util.ConnFlags

var InspectJSONCmd = &cobra.Command{
	Use:   "inspect-json",
	Short: "Dump a schema snapshot as JSON",
	Long:  "Introspect a PostgreSQL schema and print it as a JSON snapshot, the same format accepted by --file on plan and apply.",
	RunE:  runInspectJSON,
}

func init() {
	util.RegisterConnFlags(InspectJSONCmd, &inspectSrc, "")
	InspectJSONCmd.Flags().MarkHidden("file")
}

func runInspectJSON(cmd *cobra.Command, args []string) error {
	inspectSrc.ApplyEnvDefaults(cmd, "")
	if err := inspectSrc.Validate(""); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, src, err := introspect.NewLivePGSource(ctx, inspectSrc.DSN())
	if err != nil {
		return fmt.Errorf("inspect-json: %w", err)
	}
	defer pool.Close()

	snap, err := src.Snapshot(ctx, inspectSrc.Schema)
	if err != nil {
		return fmt.Errorf("inspect-json: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
