package schema

import "fmt"

// Column is a table column. It is not itself a top-level SchemaObject kind
// (the Kind enum has no KindColumn) — it is diffed within the table differ
// via its own column-keyed mapping, and its statements are always wrapped
// in the owning table's ALTER TABLE clause.
type Column struct {
	Name          string
	Position      int
	DBTypeStr     string // dbtypestr: the rendered type, e.g. "character varying(40)" or "public.color"
	Nullable      bool
	Default       string // empty if no default
	IsEnum        bool
	Enum          string // referenced enum identity (schema.name), empty if not an enum column
	GeneratedExpr string // empty if not a generated column
	Comment       string
}

// EqualTo is deep equality over every column attribute, Comment included,
// and is what the table differ uses to find modified columns. A
// comment-only change therefore marks a column modified even though
// AlterTableStatements renders no statement for it.
func (c *Column) EqualTo(other *Column) bool {
	return other != nil &&
		c.Name == other.Name && c.DBTypeStr == other.DBTypeStr && c.Nullable == other.Nullable &&
		c.Default == other.Default && c.IsEnum == other.IsEnum && c.Enum == other.Enum &&
		c.GeneratedExpr == other.GeneratedExpr && c.Comment == other.Comment
}

func (c *Column) columnClause() string {
	null := "NOT NULL"
	if c.Nullable {
		null = "NULL"
	}
	clause := fmt.Sprintf("%s %s %s", QuoteIdentifier(c.Name), c.DBTypeStr, null)
	if c.Default != "" {
		clause += fmt.Sprintf(" DEFAULT %s", c.Default)
	}
	return clause
}

// AddColumnClause renders the clause for "ALTER TABLE ... ADD COLUMN ...".
func (c *Column) AddColumnClause() string {
	return "ADD COLUMN " + c.columnClause()
}

// DropColumnClause renders the clause for "ALTER TABLE ... DROP COLUMN ...".
func (c *Column) DropColumnClause() string {
	return fmt.Sprintf("DROP COLUMN %s", QuoteIdentifier(c.Name))
}

// AlterTableStatements renders the sequence of ALTER TABLE statements that
// bring old up to this column's definition, scoped to tableIdentity (an
// already-qualified "schema"."table" string).
func (c *Column) AlterTableStatements(old *Column, tableIdentity string) []string {
	var stmts []string
	col := QuoteIdentifier(c.Name)

	if old.DBTypeStr != c.DBTypeStr {
		using := ""
		if c.IsEnum {
			using = fmt.Sprintf(" USING %s::%s", col, c.DBTypeStr)
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s%s;", tableIdentity, col, c.DBTypeStr, using))
	}
	if old.Nullable != c.Nullable {
		if c.Nullable {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", tableIdentity, col))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", tableIdentity, col))
		}
	}
	if old.Default != c.Default {
		if c.Default == "" {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", tableIdentity, col))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;", tableIdentity, col, c.Default))
		}
	}
	return stmts
}

// ChangeEnumToStringStatement casts this column to text, used by the enum
// reconciler before the referenced enum type is dropped and recreated.
func (c *Column) ChangeEnumToStringStatement(tableIdentity string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE text;", tableIdentity, QuoteIdentifier(c.Name))
}

// ChangeStringToEnumStatement casts this column back to its enum type,
// used by the enum reconciler after the enum type has been recreated.
func (c *Column) ChangeStringToEnumStatement(tableIdentity string) string {
	col := QuoteIdentifier(c.Name)
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s;", tableIdentity, col, c.DBTypeStr, col, c.DBTypeStr)
}
