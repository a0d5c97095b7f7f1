// Package util holds small helpers shared by the dbdiff subcommands:
// environment-variable fallbacks for connection flags and DSN building.
package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// GetEnvWithDefault returns the value of an environment variable or a
// default value if it isn't set.
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable parsed
// as an int, or a default value if it isn't set or doesn't parse.
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConnFlags is one side of a two-schema comparison: either a live
// connection or a fixture file, never both.
type ConnFlags struct {
	Host     string
	Port     int
	DBName   string
	Username string
	Password string
	Schema   string
	File     string
}

// RegisterConnFlags adds --host<suffix>, --port<suffix>, --dbname<suffix>,
// --username<suffix>, --schema<suffix> and --file<suffix> to cmd, backed by
// c's fields, following the same per-source flag-suffix convention used for
// every two-sided comparison in this CLI.
func RegisterConnFlags(cmd *cobra.Command, c *ConnFlags, suffix string) {
	cmd.Flags().StringVar(&c.Host, "host"+suffix, "localhost", "Database server host for source "+suffix)
	cmd.Flags().IntVar(&c.Port, "port"+suffix, 5432, "Database server port for source "+suffix)
	cmd.Flags().StringVar(&c.DBName, "dbname"+suffix, "", "Database name for source "+suffix)
	cmd.Flags().StringVar(&c.Username, "username"+suffix, "", "Database user name for source "+suffix)
	cmd.Flags().StringVar(&c.Password, "password"+suffix, "", "Database password for source "+suffix)
	cmd.Flags().StringVar(&c.Schema, "schema"+suffix, "public", "Schema name for source "+suffix)
	cmd.Flags().StringVar(&c.File, "file"+suffix, "", "Path to a JSON schema snapshot for source "+suffix)
}

// ApplyEnvDefaults fills unset connection fields from the PG* environment
// variables libpq clients conventionally honor.
func (c *ConnFlags) ApplyEnvDefaults(cmd *cobra.Command, suffix string) {
	if c.File != "" {
		return
	}
	if !cmd.Flags().Changed("host"+suffix) && os.Getenv("PGHOST") != "" {
		c.Host = os.Getenv("PGHOST")
	}
	if !cmd.Flags().Changed("port"+suffix) {
		c.Port = GetEnvIntWithDefault("PGPORT", c.Port)
	}
	if !cmd.Flags().Changed("dbname"+suffix) && os.Getenv("PGDATABASE") != "" {
		c.DBName = os.Getenv("PGDATABASE")
	}
	if !cmd.Flags().Changed("username"+suffix) && os.Getenv("PGUSER") != "" {
		c.Username = os.Getenv("PGUSER")
	}
	if !cmd.Flags().Changed("password"+suffix) && os.Getenv("PGPASSWORD") != "" {
		c.Password = os.Getenv("PGPASSWORD")
	}
}

// Validate ensures exactly one of (dbname+username) or file was given.
func (c *ConnFlags) Validate(suffix string) error {
	label := "source " + suffix
	if suffix == "" {
		label = "target"
	}

	hasDB := c.DBName != "" || c.Username != ""
	hasFile := c.File != ""

	if hasDB && hasFile {
		return fmt.Errorf("%s: cannot specify both database connection and schema file", label)
	}
	if !hasDB && !hasFile {
		return fmt.Errorf("%s: must specify either database connection (--dbname%s, --username%s) or schema file (--file%s)", label, suffix, suffix, suffix)
	}
	if hasDB && (c.DBName == "" || c.Username == "") {
		return fmt.Errorf("%s: both --dbname%s and --username%s are required for a database connection", label, suffix, suffix)
	}
	return nil
}

// DSN builds a libpq keyword connection string for this source.
func (c *ConnFlags) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s sslmode=prefer", c.Host, c.Port, c.DBName, c.Username)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}
