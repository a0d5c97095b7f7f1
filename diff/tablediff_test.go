package diff

import (
	"strings"
	"testing"

	"github.com/dbdiff/dbdiff/schema"
)

func col(name, dbType string, nullable bool) *schema.Column {
	return &schema.Column{Name: name, DBTypeStr: dbType, Nullable: nullable}
}

func TestTableDiffAddAndDropColumn(t *testing.T) {
	old := &schema.Table{SchemaName: "public", Name: "users", Columns: []*schema.Column{
		col("id", "integer", false),
		col("legacy_flag", "boolean", true),
	}}
	newTable := &schema.Table{SchemaName: "public", Name: "users", Columns: []*schema.Column{
		col("id", "integer", false),
		col("email", "text", true),
	}}

	stmts := TableDiff(old, newTable)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements (drop + add), got %d: %v", len(stmts), stmts)
	}

	var sawDrop, sawAdd bool
	for _, s := range stmts {
		if strings.Contains(s.SQL, "DROP COLUMN") {
			sawDrop = true
		}
		if strings.Contains(s.SQL, "ADD COLUMN") {
			sawAdd = true
		}
	}
	if !sawDrop || !sawAdd {
		t.Errorf("expected both a drop and an add statement, got %v", stmts)
	}
}

func TestTableDiffPartitionFlagFlipRecreatesTable(t *testing.T) {
	old := &schema.Table{SchemaName: "public", Name: "events", Columns: []*schema.Column{col("id", "integer", false)}}
	newTable := &schema.Table{
		SchemaName: "public", Name: "events", IsPartitioned: true, PartitionKey: "RANGE (id)",
		Columns: []*schema.Column{col("id", "integer", false)},
	}

	stmts := TableDiff(old, newTable)
	if len(stmts) != 2 {
		t.Fatalf("expected drop+create for a partition flag flip, got %d: %v", len(stmts), stmts)
	}
	if stmts[0].Operation != OpDrop || stmts[1].Operation != OpCreate {
		t.Errorf("expected [drop, create], got %v", stmts)
	}
}

func TestTableDiffNoChanges(t *testing.T) {
	tbl := &schema.Table{SchemaName: "public", Name: "users", Columns: []*schema.Column{col("id", "integer", false)}}
	if stmts := TableDiff(tbl, tbl); len(stmts) != 0 {
		t.Errorf("expected no statements for an identical table, got %v", stmts)
	}
}

func TestTableDiffNotAlterableSkipsColumnDiff(t *testing.T) {
	old := &schema.Table{
		SchemaName: "public", Name: "events_2024", ParentTable: "public.events",
		PartitionBound: "FOR VALUES FROM ('2024-01-01') TO ('2025-01-01')",
		Columns:        []*schema.Column{col("id", "integer", false)},
	}
	newTable := &schema.Table{
		SchemaName: "public", Name: "events_2024", ParentTable: "public.events",
		PartitionBound: "FOR VALUES FROM ('2024-01-01') TO ('2025-01-01')",
		Columns:        []*schema.Column{col("id", "integer", false), col("note", "text", true)},
	}

	stmts := TableDiff(old, newTable)
	for _, s := range stmts {
		if strings.Contains(s.SQL, "ADD COLUMN") || strings.Contains(s.SQL, "DROP COLUMN") {
			t.Errorf("expected a non-alterable partition to skip column-level statements, got %v", stmts)
		}
	}
}

func TestTableDiffReparentingPrecedesColumnChanges(t *testing.T) {
	old := &schema.Table{
		SchemaName: "public", Name: "events_2024", ParentTable: "public.events",
		PartitionBound: "FOR VALUES FROM ('2024-01-01') TO ('2025-01-01')",
		Columns:        []*schema.Column{col("id", "integer", false)},
	}
	newTable := &schema.Table{
		SchemaName: "public", Name: "events_2024",
		Columns: []*schema.Column{col("id", "integer", false), col("note", "text", true)},
	}

	stmts := TableDiff(old, newTable)
	detachIdx, addColIdx := -1, -1
	for i, s := range stmts {
		if strings.Contains(s.SQL, "DETACH PARTITION") {
			detachIdx = i
		}
		if strings.Contains(s.SQL, "ADD COLUMN") {
			addColIdx = i
		}
	}
	if detachIdx == -1 || addColIdx == -1 {
		t.Fatalf("expected both a DETACH PARTITION and an ADD COLUMN statement, got %v", stmts)
	}
	if detachIdx >= addColIdx {
		t.Errorf("expected attach/detach before column-level changes, got order %v", stmts)
	}
}

func TestTableDiffRowSecurityChange(t *testing.T) {
	old := &schema.Table{SchemaName: "public", Name: "orders", Columns: []*schema.Column{col("id", "integer", false)}}
	newTable := &schema.Table{SchemaName: "public", Name: "orders", RowSecurity: true, Columns: []*schema.Column{col("id", "integer", false)}}

	stmts := TableDiff(old, newTable)
	if len(stmts) != 1 || !strings.Contains(stmts[0].SQL, "ENABLE ROW LEVEL SECURITY") {
		t.Errorf("expected a single ENABLE ROW LEVEL SECURITY statement, got %v", stmts)
	}
}
