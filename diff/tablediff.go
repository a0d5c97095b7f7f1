package diff

import (
	"github.com/dbdiff/dbdiff/schema"
)

// TableDiff renders the ALTER TABLE statements that bring old up to new,
// in order: partition toggle (drop+recreate, short-circuits the rest),
// parent attach/detach, column adds/drops/alters (skipped entirely when
// new.IsAlterable() is false), then row-security flag changes. It does
// not touch constraints, indexes, triggers, or policies — those are
// independent schema.Object kinds diffed and ordered by the emitter like
// any other top-level object.
//
// Enum type changes are deliberately invisible here: a column whose enum
// type gained or lost values keeps the same DBTypeStr (the type's name
// didn't change), so it never shows up as a column diff. That case is
// handled entirely by the enum reconciler in enumdiff.go, whose whole
// cast/drop/create/cast-back sequence AddSelectableChanges emits just
// before its call to TableDiff for the first affected table.
func TableDiff(old, new *schema.Table) Statements {
	if old == nil || new == nil || old.Identity() != new.Identity() {
		return nil
	}

	var stmts Statements
	identity := new.Identity()

	// A table that flips in or out of being partitioned can't be altered
	// into that shape; Postgres requires it be recreated.
	if old.IsPartitioned != new.IsPartitioned {
		stmts = append(stmts, newStatement(old.DropStatement(), schema.KindTable, OpDrop, identity))
		stmts = append(stmts, newStatement(new.CreateStatement(), schema.KindTable, OpCreate, identity))
		return stmts
	}

	// Re-parenting must land before any column-level work: attach/detach
	// changes which partition inherits which columns.
	for _, sql := range new.AttachDetachStatements(old) {
		stmts = append(stmts, newStatement(sql, schema.KindTable, OpAlter, identity))
	}

	if new.IsAlterable() {
		oldCols := old.ColumnsMap().Map()
		newCols := new.ColumnsMap().Map()
		added, removed, modified, _ := DiffColumns(oldCols, newCols)

		for _, name := range removed {
			c := oldCols[name]
			stmts = append(stmts, newStatement(new.AlterTableStatement(c.DropColumnClause()), schema.KindTable, OpAlter, identity))
		}
		for _, name := range added {
			c := newCols[name]
			stmts = append(stmts, newStatement(new.AlterTableStatement(c.AddColumnClause()), schema.KindTable, OpAlter, identity))
		}
		for _, name := range modified {
			oldCol, newCol := oldCols[name], newCols[name]
			for _, sql := range newCol.AlterTableStatements(oldCol, tableRef(new)) {
				stmts = append(stmts, newStatement(sql, schema.KindTable, OpAlter, identity))
			}
		}
	}

	for _, sql := range new.AlterRLSStatements(old) {
		stmts = append(stmts, newStatement(sql, schema.KindTable, OpAlter, identity))
	}

	return stmts
}

func tableRef(t *schema.Table) string {
	return schema.QualifyName(t.SchemaName, t.Name, "")
}
