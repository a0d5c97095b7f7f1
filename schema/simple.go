package schema

import "fmt"

// Schema is a namespace. Its Identity is its bare name (schemas are not
// themselves schema-qualified).
type Schema struct {
	Name  string
	Owner string
}

func (s *Schema) Identity() string { return s.Name }
func (s *Schema) Kind() Kind       { return KindSchema }

func (s *Schema) EqualTo(other Object) bool {
	o, ok := other.(*Schema)
	return ok && o.Name == s.Name && o.Owner == s.Owner
}

func (s *Schema) Dependents() map[string]struct{}    { return nil }
func (s *Schema) DependentsAll() map[string]struct{} { return nil }
func (s *Schema) DependentOn() map[string]struct{}   { return nil }

func (s *Schema) CreateStatement() string {
	stmt := fmt.Sprintf("CREATE SCHEMA %s;", QuoteIdentifier(s.Name))
	if s.Owner != "" {
		stmt = fmt.Sprintf("CREATE SCHEMA %s AUTHORIZATION %s;", QuoteIdentifier(s.Name), QuoteIdentifier(s.Owner))
	}
	return stmt
}

func (s *Schema) DropStatement() string {
	return fmt.Sprintf("DROP SCHEMA %s;", QuoteIdentifier(s.Name))
}

func (s *Schema) CanReplace(Object) bool { return false }

// Extension is a Postgres CREATE EXTENSION object.
type Extension struct {
	SchemaName string
	Name       string
	Version    string
}

func (e *Extension) Identity() string { return e.SchemaName + "." + e.Name }
func (e *Extension) Kind() Kind       { return KindExtension }

func (e *Extension) EqualTo(other Object) bool {
	o, ok := other.(*Extension)
	return ok && *o == *e
}

func (e *Extension) Dependents() map[string]struct{}    { return nil }
func (e *Extension) DependentsAll() map[string]struct{} { return nil }
func (e *Extension) DependentOn() map[string]struct{}   { return nil }

func (e *Extension) CreateStatement() string {
	stmt := fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s", QuoteIdentifier(e.Name))
	if e.SchemaName != "" {
		stmt += fmt.Sprintf(" SCHEMA %s", QuoteIdentifier(e.SchemaName))
	}
	if e.Version != "" {
		stmt += fmt.Sprintf(" VERSION %s", QuoteLiteral(e.Version))
	}
	return stmt + ";"
}

func (e *Extension) DropStatement() string {
	return fmt.Sprintf("DROP EXTENSION IF EXISTS %s;", QuoteIdentifier(e.Name))
}

func (e *Extension) CanReplace(Object) bool { return false }

// Collation is a CREATE COLLATION object.
type Collation struct {
	SchemaName string
	Name       string
	LcCollate  string
	LcCtype    string
	Provider   string
}

func (c *Collation) Identity() string { return c.SchemaName + "." + c.Name }
func (c *Collation) Kind() Kind       { return KindCollation }

func (c *Collation) EqualTo(other Object) bool {
	o, ok := other.(*Collation)
	return ok && *o == *c
}

func (c *Collation) Dependents() map[string]struct{}    { return nil }
func (c *Collation) DependentsAll() map[string]struct{} { return nil }
func (c *Collation) DependentOn() map[string]struct{}   { return nil }

func (c *Collation) CreateStatement() string {
	provider := c.Provider
	if provider == "" {
		provider = "libc"
	}
	return fmt.Sprintf(
		"CREATE COLLATION %s (provider = %s, lc_collate = %s, lc_ctype = %s);",
		QualifyName(c.SchemaName, c.Name, ""), provider, QuoteLiteral(c.LcCollate), QuoteLiteral(c.LcCtype),
	)
}

func (c *Collation) DropStatement() string {
	return fmt.Sprintf("DROP COLLATION %s;", QualifyName(c.SchemaName, c.Name, ""))
}

func (c *Collation) CanReplace(Object) bool { return false }
