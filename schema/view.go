package schema

import "fmt"

// View is a CREATE VIEW or CREATE MATERIALIZED VIEW object. Plain views
// support CREATE OR REPLACE when the column list is unchanged, so CanReplace
// can return true for them (as it always does for functions); materialized
// views never do, since Postgres has no CREATE OR REPLACE MATERIALIZED VIEW.
type View struct {
	depSet
	SchemaName   string
	Name         string
	Definition   string // the SELECT body, without "CREATE VIEW ... AS"
	Materialized bool
	ColumnNames  []string // explicit column list, empty if Postgres infers it
	CheckOption  string   // "LOCAL", "CASCADED", or "" for no WITH CHECK OPTION
}

func (v *View) Identity() string { return v.SchemaName + "." + v.Name }

func (v *View) Kind() Kind {
	if v.Materialized {
		return KindMaterializedView
	}
	return KindView
}

func (v *View) IsTable() bool { return false }

func (v *View) RelationType() string {
	if v.Materialized {
		return "MATERIALIZED VIEW"
	}
	return "VIEW"
}

func (v *View) EqualTo(other Object) bool {
	o, ok := other.(*View)
	if !ok || o.SchemaName != v.SchemaName || o.Name != v.Name ||
		o.Definition != v.Definition || o.Materialized != v.Materialized || o.CheckOption != v.CheckOption {
		return false
	}
	if len(o.ColumnNames) != len(v.ColumnNames) {
		return false
	}
	for i, c := range v.ColumnNames {
		if o.ColumnNames[i] != c {
			return false
		}
	}
	return true
}

func (v *View) identity() string { return QualifyName(v.SchemaName, v.Name, "") }

func (v *View) columnList() string {
	if len(v.ColumnNames) == 0 {
		return ""
	}
	return " (" + joinComma(quoteAll(v.ColumnNames)) + ")"
}

func (v *View) CreateStatement() string {
	verb := "CREATE VIEW"
	if v.Materialized {
		verb = "CREATE MATERIALIZED VIEW"
	}
	stmt := fmt.Sprintf("%s %s%s AS\n%s", verb, v.identity(), v.columnList(), v.Definition)
	if v.CheckOption != "" {
		stmt += fmt.Sprintf("\nWITH (check_option = %s)", v.CheckOption)
	}
	return stmt + ";"
}

func (v *View) DropStatement() string {
	verb := "DROP VIEW"
	if v.Materialized {
		verb = "DROP MATERIALIZED VIEW"
	}
	return fmt.Sprintf("%s %s;", verb, v.identity())
}

// CanReplace reports whether this view can be brought up to date via
// CREATE OR REPLACE rather than DROP+CREATE. Materialized views never can.
// Plain views can only be replaced when the explicit column list matches,
// since CREATE OR REPLACE VIEW cannot change the set or order of columns.
func (v *View) CanReplace(oldVersion Object) bool {
	if v.Materialized {
		return false
	}
	old, ok := oldVersion.(*View)
	if !ok || len(old.ColumnNames) != len(v.ColumnNames) {
		return false
	}
	for i, c := range v.ColumnNames {
		if old.ColumnNames[i] != c {
			return false
		}
	}
	return true
}

// ReplaceStatement renders CREATE OR REPLACE VIEW, used instead of
// CreateStatement when CanReplace returned true.
func (v *View) ReplaceStatement() string {
	stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s%s AS\n%s", v.identity(), v.columnList(), v.Definition)
	if v.CheckOption != "" {
		stmt += fmt.Sprintf("\nWITH (check_option = %s)", v.CheckOption)
	}
	return stmt + ";"
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = QuoteIdentifier(n)
	}
	return out
}
