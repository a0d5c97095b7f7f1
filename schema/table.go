package schema

import (
	"fmt"
	"strings"
)

// Table is a base table or partition. Constraints, indexes, triggers, and
// policies are NOT nested here — they are independent SchemaObject kinds in
// the snapshot, keyed by "schema.table.name" (indexes by "schema.name"),
// diffed by the generic emitter
// and ordered against the table by DependentOn edges. Table.EqualTo only
// concerns itself with columns and table-level flags; the table differ
// (diff.TableDiff) is what turns column-level differences into ALTER TABLE
// statements.
type Table struct {
	depSet
	SchemaName       string
	Name             string
	Columns          []*Column
	IsPartitioned    bool
	PartitionKey     string // "RANGE (created_at)" — only set when IsPartitioned
	ParentTable      string // identity of the parent table, empty unless this is a partition
	PartitionBound   string // "FOR VALUES FROM (...) TO (...)", only set when ParentTable != ""
	RowSecurity      bool
	ForceRowSecurity bool
	Comment          string
}

func (t *Table) Identity() string { return t.SchemaName + "." + t.Name }
func (t *Table) Kind() Kind       { return KindTable }

func (t *Table) IsTable() bool       { return true }
func (t *Table) RelationType() string { return "TABLE" }

// IsAlterable reports whether column-level ALTER TABLE statements can
// target this table directly. A partition (ParentTable set) inherits its
// column list from the partitioned parent; Postgres requires column
// adds/drops/alterations go through the parent, where they cascade to
// every partition, so a partition itself is never column-alterable.
func (t *Table) IsAlterable() bool { return t.ParentTable == "" }

func (t *Table) ColumnsMap() *OrderedMap[*Column] {
	items := make(map[string]*Column, len(t.Columns))
	for _, c := range t.Columns {
		items[c.Name] = c
	}
	return NewOrderedMap(items)
}

func (t *Table) EqualTo(other Object) bool {
	o, ok := other.(*Table)
	if !ok || o.SchemaName != t.SchemaName || o.Name != t.Name ||
		o.IsPartitioned != t.IsPartitioned || o.PartitionKey != t.PartitionKey ||
		o.ParentTable != t.ParentTable || o.PartitionBound != t.PartitionBound ||
		o.RowSecurity != t.RowSecurity || o.ForceRowSecurity != t.ForceRowSecurity {
		return false
	}
	if len(o.Columns) != len(t.Columns) {
		return false
	}
	for i, c := range t.Columns {
		if !c.EqualTo(o.Columns[i]) {
			return false
		}
	}
	return true
}

func (t *Table) identity() string { return QualifyName(t.SchemaName, t.Name, "") }

func (t *Table) CreateStatement() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.identity())
	for i, c := range t.Columns {
		fmt.Fprintf(&b, "    %s", c.columnClause())
		if i < len(t.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	if t.IsPartitioned {
		fmt.Fprintf(&b, " PARTITION BY %s", t.PartitionKey)
	}
	if t.ParentTable != "" {
		fmt.Fprintf(&b, "\nPARTITION OF %s %s", t.ParentTable, t.PartitionBound)
	}
	b.WriteString(";")
	return b.String()
}

func (t *Table) DropStatement() string {
	return fmt.Sprintf("DROP TABLE %s;", t.identity())
}

func (t *Table) CanReplace(Object) bool { return false }

// AlterTableStatement wraps an arbitrary clause (e.g. from
// Column.AddColumnClause or Column.DropColumnClause) in an ALTER TABLE
// against this table's identity.
func (t *Table) AlterTableStatement(clause string) string {
	return fmt.Sprintf("ALTER TABLE %s %s;", t.identity(), clause)
}

// AlterRLSStatements renders the ENABLE/DISABLE [NO FORCE|FORCE] ROW LEVEL
// SECURITY statements needed to bring old's RLS flags up to this table's.
func (t *Table) AlterRLSStatements(old *Table) []string {
	var stmts []string
	if old.RowSecurity != t.RowSecurity {
		verb := "DISABLE"
		if t.RowSecurity {
			verb = "ENABLE"
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s %s ROW LEVEL SECURITY;", t.identity(), verb))
	}
	if old.ForceRowSecurity != t.ForceRowSecurity {
		verb := "NO FORCE"
		if t.ForceRowSecurity {
			verb = "FORCE"
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s %s ROW LEVEL SECURITY;", t.identity(), verb))
	}
	return stmts
}

// AttachDetachStatements renders partition ATTACH/DETACH statements when
// the parent-table relationship itself changes between old and this table.
// Pure column/flag changes on an already-attached partition go through the
// normal ALTER TABLE path instead.
func (t *Table) AttachDetachStatements(old *Table) []string {
	var stmts []string
	if old.ParentTable == t.ParentTable && old.PartitionBound == t.PartitionBound {
		return stmts
	}
	if old.ParentTable != "" {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DETACH PARTITION %s;", old.ParentTable, t.identity()))
	}
	if t.ParentTable != "" {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ATTACH PARTITION %s %s;", t.ParentTable, t.identity(), t.PartitionBound))
	}
	return stmts
}
