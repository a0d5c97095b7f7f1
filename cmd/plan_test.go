package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dbdiff/dbdiff/cmd/util"
	"github.com/dbdiff/dbdiff/diff"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunPlanFixtureToFixtureTextOutput(t *testing.T) {
	dir := t.TempDir()
	before := writeFixture(t, dir, "before.json", `{"schemas": {"public": {"Name": "public"}}}`)
	after := writeFixture(t, dir, "after.json", `{
		"schemas": {"public": {"Name": "public"}},
		"enums": {"public.color": {"SchemaName": "public", "Name": "color", "Values": ["red", "green"]}}
	}`)

	planSrc1 = util.ConnFlags{File: before}
	planSrc2 = util.ConnFlags{File: after}
	planFormat = "text"
	planIncludeGrants = false

	out := captureStdout(t, func() {
		if err := runPlan(PlanCmd, nil); err != nil {
			t.Fatalf("runPlan: %v", err)
		}
	})

	if !strings.Contains(out, "CREATE TYPE") {
		t.Errorf("expected the plan to contain a CREATE TYPE statement, got %q", out)
	}
}

func TestRunPlanFixtureToFixtureJSONOutput(t *testing.T) {
	dir := t.TempDir()
	before := writeFixture(t, dir, "before.json", `{}`)
	after := writeFixture(t, dir, "after.json", `{"schemas": {"app": {"Name": "app"}}}`)

	planSrc1 = util.ConnFlags{File: before}
	planSrc2 = util.ConnFlags{File: after}
	planFormat = "json"
	planIncludeGrants = false

	out := captureStdout(t, func() {
		if err := runPlan(PlanCmd, nil); err != nil {
			t.Fatalf("runPlan: %v", err)
		}
	})

	var stmts diff.Statements
	if err := json.Unmarshal([]byte(out), &stmts); err != nil {
		t.Fatalf("expected valid JSON output, got %q: %v", out, err)
	}
	if len(stmts) != 1 {
		t.Errorf("expected a single CREATE SCHEMA statement, got %v", stmts)
	}
}
