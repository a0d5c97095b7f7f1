package schema

import "fmt"

// Index is a CREATE INDEX object. Definition carries the full column/using
// clause (e.g. "btree (id)"), mirroring pg_get_indexdef's body.
type Index struct {
	depSet
	SchemaName string
	TableName  string
	Name       string
	Unique     bool
	Definition string
}

func (i *Index) Identity() string { return i.SchemaName + "." + i.Name }
func (i *Index) Kind() Kind       { return KindIndex }

func (i *Index) EqualTo(other Object) bool {
	o, ok := other.(*Index)
	return ok && o.SchemaName == i.SchemaName && o.TableName == i.TableName && o.Name == i.Name &&
		o.Unique == i.Unique && o.Definition == i.Definition
}

func (i *Index) CreateStatement() string {
	unique := ""
	if i.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s USING %s;",
		unique, QuoteIdentifier(i.Name), QualifyName(i.SchemaName, i.TableName, ""), i.Definition)
}

func (i *Index) DropStatement() string {
	return fmt.Sprintf("DROP INDEX %s;", QualifyName(i.SchemaName, i.Name, ""))
}

func (i *Index) CanReplace(Object) bool { return false }
