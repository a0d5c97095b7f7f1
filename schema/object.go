package schema

// Object is the polymorphic entity the diff engine operates on. Every
// schema object — schema, extension, enum, sequence, table, view,
// function, constraint, index, trigger, RLS policy, collation, or
// privilege — implements it.
type Object interface {
	// Identity is the qualified name, unique within the object's Kind.
	Identity() string
	Kind() Kind

	// EqualTo is deep semantic equality, used to detect "modified".
	EqualTo(other Object) bool

	// Dependents is the set of qualified names that reference this
	// object directly. DependentsAll is the transitive closure; for
	// leaf kinds it equals Dependents.
	Dependents() map[string]struct{}
	DependentsAll() map[string]struct{}

	// DependentOn is the set of qualified names this object directly
	// references.
	DependentOn() map[string]struct{}

	CreateStatement() string
	DropStatement() string

	// CanReplace reports whether emitting CreateStatement alone
	// (without dropping oldVersion) suffices to migrate from oldVersion
	// to this object.
	CanReplace(oldVersion Object) bool
}

// Selectable is implemented by every query-targetable object: tables,
// views, materialized views, and functions.
type Selectable interface {
	Object
	IsTable() bool
	// RelationType names the object's relation type in SQL keyword form:
	// "TABLE", "VIEW", "MATERIALIZED VIEW", or "FUNCTION" for a function
	// pseudo-entry in the selectable space.
	RelationType() string
}

// Alterable narrows Table-shaped objects that support column-level
// ALTER statements rather than a blanket drop+recreate.
type Alterable interface {
	IsAlterable() bool
}
