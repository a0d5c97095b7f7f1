package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dbdiff/dbdiff/internal/logger"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "dbdiff",
	Short: "Compute and apply ordered PostgreSQL schema migrations",
	Long: fmt.Sprintf(`dbdiff compares two PostgreSQL schemas and produces the minimal,
dependency-ordered sequence of DDL statements that transforms one into the
other.

Platform: %s

Commands:
  plan           Compute the migration plan between two schemas
  apply          Apply the migration plan to a target database
  inspect-json   Dump a schema snapshot as JSON

Use "dbdiff [command] --help" for more information about a command.`, platform()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(PlanCmd)
	RootCmd.AddCommand(ApplyCmd)
	RootCmd.AddCommand(InspectJSONCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger.SetGlobal(slog.New(handler), Debug)
}

// platform returns the OS/architecture combination.
func platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
