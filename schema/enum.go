package schema

import (
	"fmt"
	"strings"
)

// Enum is a CREATE TYPE ... AS ENUM object. Its Dependents are the tables
// whose columns reference it; Snapshot.Link populates that set from the
// table/column graph since an enum's own definition carries no pointer
// back to its users.
type Enum struct {
	depSet
	SchemaName string
	Name       string
	Values     []string
}

func (e *Enum) Identity() string { return e.SchemaName + "." + e.Name }
func (e *Enum) Kind() Kind       { return KindEnum }

func (e *Enum) EqualTo(other Object) bool {
	o, ok := other.(*Enum)
	if !ok || o.SchemaName != e.SchemaName || o.Name != e.Name || len(o.Values) != len(e.Values) {
		return false
	}
	for i, v := range e.Values {
		if o.Values[i] != v {
			return false
		}
	}
	return true
}

func (e *Enum) CreateStatement() string {
	quoted := make([]string, len(e.Values))
	for i, v := range e.Values {
		quoted[i] = QuoteLiteral(v)
	}
	return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s);", QualifyName(e.SchemaName, e.Name, ""), strings.Join(quoted, ", "))
}

func (e *Enum) DropStatement() string {
	return fmt.Sprintf("DROP TYPE %s;", QualifyName(e.SchemaName, e.Name, ""))
}

// CanReplace is always false: enum value changes require DROP+CREATE,
// reconciled by the enum reconciler rather than an in-place replace.
func (e *Enum) CanReplace(Object) bool { return false }
