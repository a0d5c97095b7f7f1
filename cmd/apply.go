package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbdiff/dbdiff/cmd/util"
	"github.com/dbdiff/dbdiff/diff"
	"github.com/dbdiff/dbdiff/internal/apply"
	"github.com/dbdiff/dbdiff/internal/introspect"
)

var (
	applyTarget      util.ConnFlags
	applyDesired     util.ConnFlags
	applyAutoApprove bool
	applySafe        bool
)

var ApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the migration plan to a target database",
	Long:  "Compute the migration plan from the target's current schema to a desired schema, show it, and (unless --auto-approve is given) ask for confirmation before applying it.",
	RunE:  runApply,
}

func init() {
	util.RegisterConnFlags(ApplyCmd, &applyTarget, "")
	util.RegisterConnFlags(ApplyCmd, &applyDesired, "-desired")
	ApplyCmd.Flags().BoolVar(&applyAutoApprove, "auto-approve", false, "Apply without prompting for confirmation")
	ApplyCmd.Flags().BoolVar(&applySafe, "safe", false, "Reject plans containing destructive (drop) statements")

	// --file is inherited from RegisterConnFlags under a confusing name for
	// the target side (a live database is always required there).
	ApplyCmd.Flags().MarkHidden("file")
}

func runApply(cmd *cobra.Command, args []string) error {
	applyTarget.ApplyEnvDefaults(cmd, "")
	applyDesired.ApplyEnvDefaults(cmd, "-desired")

	if applyTarget.File != "" {
		return fmt.Errorf("apply: the target schema must be a live database, not a file")
	}
	if err := applyTarget.Validate(""); err != nil {
		return err
	}
	if err := applyDesired.Validate("-desired"); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	targetPool, targetSource, err := introspect.NewLivePGSource(ctx, applyTarget.DSN())
	if err != nil {
		return fmt.Errorf("apply: connecting to target: %w", err)
	}
	defer targetPool.Close()

	desiredSource, closer, err := openSource(ctx, &applyDesired)
	if err != nil {
		return fmt.Errorf("apply: desired schema: %w", err)
	}
	if closer != nil {
		defer closer()
	}

	before, after, err := introspect.SnapshotPair(ctx, targetSource, desiredSource, applyTarget.Schema)
	if err != nil {
		return fmt.Errorf("apply: introspecting: %w", err)
	}

	engine := diff.NewEngine(before, after)
	engine.SetSafety(applySafe)
	engine.AddAllChanges(false)

	stmts, err := engine.Statements()
	if err != nil {
		return err
	}
	if len(stmts) == 0 {
		fmt.Println("No changes to apply.")
		return nil
	}

	fmt.Println(stmts.String())
	if !applyAutoApprove && !confirmApply() {
		fmt.Println("Apply cancelled.")
		return nil
	}

	executor, err := apply.Open(applyTarget.DSN())
	if err != nil {
		return err
	}
	defer executor.Close()

	if err := executor.Apply(ctx, stmts); err != nil {
		return err
	}

	fmt.Printf("Applied %d statement(s).\n", len(stmts))

	applied, err := targetSource.Snapshot(ctx, applyTarget.Schema)
	if err != nil {
		return fmt.Errorf("apply: re-introspecting target after apply: %w", err)
	}
	verify := diff.NewEngine(applied, after)
	verify.AddAllChanges(false)
	remaining, err := verify.Statements()
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return &apply.DriftError{Remaining: remaining}
	}

	return nil
}

func confirmApply() bool {
	fmt.Print("Apply these changes? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
