// Package diff computes the minimal, dependency-ordered sequence of DDL
// statements that transforms a source schema.Snapshot into a target one.
package diff

import (
	"regexp"
	"strings"

	"github.com/dbdiff/dbdiff/schema"
)

// Operation classifies a Statement for callers that want to filter or
// report on the plan (e.g. "how many drops") without parsing SQL text.
type Operation string

const (
	OpCreate  Operation = "CREATE"
	OpDrop    Operation = "DROP"
	OpAlter   Operation = "ALTER"
	OpReplace Operation = "REPLACE"
	OpGrant   Operation = "GRANT"
	OpRevoke  Operation = "REVOKE"
)

// Statement is a single DDL statement in the emitted plan, tagged with
// enough metadata for callers to reason about safety and ordering without
// re-parsing the SQL.
type Statement struct {
	SQL       string
	Kind      schema.Kind
	Operation Operation
	Identity  string // the Object.Identity this statement acts on
}

// Statements is an ordered plan. String renders it as a single SQL script:
// statements separated by exactly two newlines, with a trailing
// two-newline sequence after the last one. An empty plan renders as the
// empty string.
type Statements []Statement

func (s Statements) String() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, len(s))
	for i, stmt := range s {
		parts[i] = stmt.SQL
	}
	return strings.Join(parts, "\n\n") + "\n\n"
}

// dropToken matches "drop" as a word-initial substring followed by
// whitespace, case-insensitively — this is a textual scan over rendered
// SQL, not a structural check of Operation, so it also catches drops
// hiding inside an otherwise-ALTER statement (e.g. "ALTER TABLE t DROP
// COLUMN c;"). The \b anchor keeps a mid-word "drop" such as the
// identifier "raindrop" from matching, but the word "drop" followed by
// whitespace anywhere in the text, including inside a string literal or a
// comment, is still flagged.
var dropToken = regexp.MustCompile(`(?i)\bdrop\s`)

// Unsafe returns the subset of statements whose rendered SQL contains a
// word-initial "drop" token — destructive statements a safety-enabled
// caller should refuse to emit.
func (s Statements) Unsafe() Statements {
	var out Statements
	for _, stmt := range s {
		if dropToken.MatchString(stmt.SQL) {
			out = append(out, stmt)
		}
	}
	return out
}

func newStatement(sql string, kind schema.Kind, op Operation, identity string) Statement {
	return Statement{SQL: sql, Kind: kind, Operation: op, Identity: identity}
}
