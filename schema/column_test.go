package schema

import "testing"

func TestColumnEqualTo(t *testing.T) {
	base := &Column{Name: "email", DBTypeStr: "text", Nullable: true}

	same := &Column{Name: "email", DBTypeStr: "text", Nullable: true}
	if !base.EqualTo(same) {
		t.Errorf("expected identical columns to be equal")
	}

	typeChanged := &Column{Name: "email", DBTypeStr: "varchar(255)", Nullable: true}
	if base.EqualTo(typeChanged) {
		t.Errorf("expected differing DBTypeStr to break equality")
	}

	if base.EqualTo(nil) {
		t.Errorf("expected EqualTo(nil) to be false")
	}
}

func TestColumnAlterTableStatements(t *testing.T) {
	tableIdentity := `"public"."users"`

	old := &Column{Name: "age", DBTypeStr: "integer", Nullable: true, Default: ""}
	newCol := &Column{Name: "age", DBTypeStr: "bigint", Nullable: false, Default: "0"}

	stmts := newCol.AlterTableStatements(old, tableIdentity)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 alter statements (type, not null, default), got %d: %v", len(stmts), stmts)
	}

	want := []string{
		`ALTER TABLE "public"."users" ALTER COLUMN age TYPE bigint;`,
		`ALTER TABLE "public"."users" ALTER COLUMN age SET NOT NULL;`,
		`ALTER TABLE "public"."users" ALTER COLUMN age SET DEFAULT 0;`,
	}
	for i, w := range want {
		if stmts[i] != w {
			t.Errorf("stmt[%d] = %q; want %q", i, stmts[i], w)
		}
	}
}

func TestColumnAlterTableStatementsEnumUsing(t *testing.T) {
	old := &Column{Name: "status", DBTypeStr: "text"}
	newCol := &Column{Name: "status", DBTypeStr: "public.order_status", IsEnum: true, Enum: "public.order_status"}

	stmts := newCol.AlterTableStatements(old, `"public"."orders"`)
	if len(stmts) != 1 {
		t.Fatalf("expected a single type-change statement, got %v", stmts)
	}
	want := `ALTER TABLE "public"."orders" ALTER COLUMN status TYPE public.order_status USING status::public.order_status;`
	if stmts[0] != want {
		t.Errorf("got %q; want %q", stmts[0], want)
	}
}

func TestColumnNoChangesProducesNoStatements(t *testing.T) {
	col := &Column{Name: "id", DBTypeStr: "integer", Nullable: false}
	if stmts := col.AlterTableStatements(col, `"public"."t"`); len(stmts) != 0 {
		t.Errorf("expected no statements for an unchanged column, got %v", stmts)
	}
}
