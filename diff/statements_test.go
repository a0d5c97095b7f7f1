package diff

import (
	"testing"

	"github.com/dbdiff/dbdiff/schema"
)

func TestStatementsStringJoinsWithBlankLineAndTrailer(t *testing.T) {
	stmts := Statements{
		{SQL: "CREATE SCHEMA app;", Kind: schema.KindSchema, Operation: OpCreate, Identity: "app"},
		{SQL: "CREATE TABLE app.widgets (id bigint);", Kind: schema.KindTable, Operation: OpCreate, Identity: "app.widgets"},
	}
	want := "CREATE SCHEMA app;\n\nCREATE TABLE app.widgets (id bigint);\n\n"
	if got := stmts.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStatementsUnsafeScansRenderedSQLForDropToken(t *testing.T) {
	stmts := Statements{
		{SQL: "ALTER TABLE public.t DROP COLUMN c;", Kind: schema.KindTable, Operation: OpAlter, Identity: "public.t"},
		{SQL: "ALTER TABLE public.t ADD COLUMN d text;", Kind: schema.KindTable, Operation: OpAlter, Identity: "public.t"},
	}
	unsafe := stmts.Unsafe()
	if len(unsafe) != 1 || unsafe[0].SQL != stmts[0].SQL {
		t.Errorf("expected only the DROP COLUMN statement flagged unsafe, got %v", unsafe)
	}
}

func TestStatementsUnsafeIgnoresDropAsIdentifierSubstring(t *testing.T) {
	stmts := Statements{
		{SQL: "COMMENT ON COLUMN public.t.raindrop IS 'weather data';", Kind: schema.KindTable, Operation: OpAlter, Identity: "public.t"},
	}
	if unsafe := stmts.Unsafe(); len(unsafe) != 0 {
		t.Errorf("expected \"raindrop\" to not match the word-initial drop scan, got %v", unsafe)
	}
}

func TestEngineSafetyRejectsColumnDrop(t *testing.T) {
	before := schema.NewSnapshot()
	before.Tables["public.t"] = &schema.Table{SchemaName: "public", Name: "t", Columns: []*schema.Column{
		{Name: "id", DBTypeStr: "integer"},
		{Name: "legacy", DBTypeStr: "text"},
	}}
	before.Link()

	after := schema.NewSnapshot()
	after.Tables["public.t"] = &schema.Table{SchemaName: "public", Name: "t", Columns: []*schema.Column{
		{Name: "id", DBTypeStr: "integer"},
	}}
	after.Link()

	engine := NewEngine(before, after)
	engine.SetSafety(true)
	engine.AddAllChanges(false)

	_, err := engine.Statements()
	if err == nil {
		t.Fatal("expected an UnsafeChangeError for a plan containing an ALTER TABLE ... DROP COLUMN")
	}
	if _, ok := err.(*UnsafeChangeError); !ok {
		t.Errorf("expected *UnsafeChangeError, got %T: %v", err, err)
	}
}
