package schema

import "fmt"

// Function is a CREATE FUNCTION object (including aggregate and trigger
// functions). Identity includes the argument signature since Postgres
// overloads functions by argument types, not by name alone.
type Function struct {
	depSet
	SchemaName string
	Name       string
	Arguments  string // "a integer, b text" as rendered in the signature
	ReturnType string
	Language   string
	Volatility string // IMMUTABLE, STABLE, VOLATILE
	Body       string // the "$$...$$" body, already delimiter-quoted; statements prepend "AS"
}

func (f *Function) Identity() string { return f.SchemaName + "." + f.Name + "(" + f.Arguments + ")" }
func (f *Function) Kind() Kind       { return KindFunction }

func (f *Function) IsTable() bool       { return false }
func (f *Function) RelationType() string { return "FUNCTION" }

func (f *Function) EqualTo(other Object) bool {
	o, ok := other.(*Function)
	return ok && o.SchemaName == f.SchemaName && o.Name == f.Name && o.Arguments == f.Arguments &&
		o.ReturnType == f.ReturnType && o.Language == f.Language && o.Volatility == f.Volatility && o.Body == f.Body
}

func (f *Function) identity() string { return QualifyName(f.SchemaName, f.Name, "") }

func (f *Function) signature() string {
	return fmt.Sprintf("%s(%s)", f.identity(), f.Arguments)
}

func (f *Function) CreateStatement() string {
	return fmt.Sprintf("CREATE FUNCTION %s RETURNS %s LANGUAGE %s %s AS %s;",
		f.signature(), f.ReturnType, f.Language, f.Volatility, f.Body)
}

func (f *Function) DropStatement() string {
	return fmt.Sprintf("DROP FUNCTION %s;", f.signature())
}

// CanReplace is always true: CREATE OR REPLACE FUNCTION works for any
// function whose argument signature is unchanged, which is guaranteed here
// since Identity includes the signature (a signature change is a
// drop-then-create of a differently-identified object, not a modification).
func (f *Function) CanReplace(Object) bool { return true }

// ReplaceStatement renders CREATE OR REPLACE FUNCTION, used instead of
// CreateStatement when CanReplace (always, for functions) applies.
func (f *Function) ReplaceStatement() string {
	return fmt.Sprintf("CREATE OR REPLACE FUNCTION %s RETURNS %s LANGUAGE %s %s AS %s;",
		f.signature(), f.ReturnType, f.Language, f.Volatility, f.Body)
}
