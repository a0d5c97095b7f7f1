package util

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCmd(c *ConnFlags, suffix string) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	RegisterConnFlags(cmd, c, suffix)
	return cmd
}

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("DBDIFF_TEST_VAR", "")
	if got := GetEnvWithDefault("DBDIFF_TEST_VAR", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	t.Setenv("DBDIFF_TEST_VAR", "set")
	if got := GetEnvWithDefault("DBDIFF_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("expected set, got %q", got)
	}
}

func TestGetEnvIntWithDefault(t *testing.T) {
	t.Setenv("DBDIFF_TEST_PORT", "")
	if got := GetEnvIntWithDefault("DBDIFF_TEST_PORT", 5432); got != 5432 {
		t.Errorf("expected default 5432, got %d", got)
	}
	t.Setenv("DBDIFF_TEST_PORT", "6543")
	if got := GetEnvIntWithDefault("DBDIFF_TEST_PORT", 5432); got != 6543 {
		t.Errorf("expected 6543, got %d", got)
	}
	t.Setenv("DBDIFF_TEST_PORT", "not-a-number")
	if got := GetEnvIntWithDefault("DBDIFF_TEST_PORT", 5432); got != 5432 {
		t.Errorf("expected fallback on unparseable value, got %d", got)
	}
}

func TestConnFlagsValidateRejectsBothDBAndFile(t *testing.T) {
	c := &ConnFlags{DBName: "d", Username: "u", File: "snap.json"}
	if err := c.Validate("1"); err == nil {
		t.Fatal("expected an error when both a connection and a file are set")
	}
}

func TestConnFlagsValidateRejectsNeitherDBNorFile(t *testing.T) {
	c := &ConnFlags{}
	if err := c.Validate("1"); err == nil {
		t.Fatal("expected an error when neither a connection nor a file is set")
	}
}

func TestConnFlagsValidateRequiresUsernameWithDBName(t *testing.T) {
	c := &ConnFlags{DBName: "d"}
	if err := c.Validate("1"); err == nil {
		t.Fatal("expected an error when dbname is set without username")
	}
}

func TestConnFlagsValidateUnsuffixedUsesTargetLabel(t *testing.T) {
	c := &ConnFlags{}
	err := c.Validate("")
	if err == nil || !strings.Contains(err.Error(), "target:") {
		t.Errorf("expected the unsuffixed error to read as \"target: ...\", got %v", err)
	}
}

func TestConnFlagsValidateAcceptsFileAlone(t *testing.T) {
	c := &ConnFlags{File: "snap.json"}
	if err := c.Validate("1"); err != nil {
		t.Errorf("expected a file-only ConnFlags to validate, got %v", err)
	}
}

func TestConnFlagsDSNIncludesPasswordOnlyWhenSet(t *testing.T) {
	c := &ConnFlags{Host: "localhost", Port: 5432, DBName: "d", Username: "u"}
	if got := c.DSN(); strings.Contains(got, "password=") {
		t.Errorf("expected no password clause when Password is empty, got %q", got)
	}
	c.Password = "secret"
	if got := c.DSN(); !strings.Contains(got, "password=secret") {
		t.Errorf("expected the password clause once Password is set, got %q", got)
	}
}

func TestApplyEnvDefaultsSkippedForFileSource(t *testing.T) {
	t.Setenv("PGHOST", "env-host")
	c := &ConnFlags{}
	cmd := newTestCmd(c, "1")
	if err := cmd.Flags().Set("file1", "snap.json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	c.ApplyEnvDefaults(cmd, "1")
	if c.Host != "localhost" {
		t.Errorf("expected a file-backed ConnFlags to ignore PGHOST, got %q", c.Host)
	}
}

func TestApplyEnvDefaultsFillsUnsetFlags(t *testing.T) {
	t.Setenv("PGHOST", "env-host")
	t.Setenv("PGDATABASE", "env-db")
	t.Setenv("PGUSER", "env-user")

	c := &ConnFlags{}
	cmd := newTestCmd(c, "1")
	c.ApplyEnvDefaults(cmd, "1")

	if c.Host != "env-host" || c.DBName != "env-db" || c.Username != "env-user" {
		t.Errorf("expected env defaults to fill unset fields, got %+v", c)
	}
}

func TestApplyEnvDefaultsDoesNotClobberExplicitFlags(t *testing.T) {
	t.Setenv("PGHOST", "env-host")

	c := &ConnFlags{}
	cmd := newTestCmd(c, "1")
	if err := cmd.Flags().Set("host1", "explicit-host"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	c.ApplyEnvDefaults(cmd, "1")

	if c.Host != "explicit-host" {
		t.Errorf("expected the explicit flag to win over PGHOST, got %q", c.Host)
	}
}
