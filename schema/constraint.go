package schema

import "fmt"

// ConstraintType enumerates the constraint_type values the kind dispatcher
// splits on (primary keys are emitted in a different position than the rest).
type ConstraintType string

const (
	ConstraintTypePrimaryKey ConstraintType = "PRIMARY KEY"
	ConstraintTypeUnique     ConstraintType = "UNIQUE"
	ConstraintTypeForeignKey ConstraintType = "FOREIGN KEY"
	ConstraintTypeCheck      ConstraintType = "CHECK"
	ConstraintTypeExclude    ConstraintType = "EXCLUDE"
)

// Constraint is a table constraint (PK, unique, FK, check, or exclude).
type Constraint struct {
	depSet
	SchemaName     string
	TableName      string
	Name           string
	Type           ConstraintType
	Definition     string // the clause after "ADD CONSTRAINT <name>", e.g. "PRIMARY KEY (id)"
	RefSchemaName  string // for FOREIGN KEY
	RefTableName   string // for FOREIGN KEY
}

func (c *Constraint) Identity() string { return c.SchemaName + "." + c.TableName + "." + c.Name }
func (c *Constraint) Kind() Kind       { return KindConstraint }

func (c *Constraint) EqualTo(other Object) bool {
	o, ok := other.(*Constraint)
	return ok && o.SchemaName == c.SchemaName && o.TableName == c.TableName && o.Name == c.Name &&
		o.Type == c.Type && o.Definition == c.Definition &&
		o.RefSchemaName == c.RefSchemaName && o.RefTableName == c.RefTableName
}

func (c *Constraint) tableIdentity() string {
	return QualifyName(c.SchemaName, c.TableName, "")
}

func (c *Constraint) CreateStatement() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s;", c.tableIdentity(), QuoteIdentifier(c.Name), c.Definition)
}

func (c *Constraint) DropStatement() string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;", c.tableIdentity(), QuoteIdentifier(c.Name))
}

func (c *Constraint) CanReplace(Object) bool { return false }
