// Package schema holds the data model consumed by the diff engine: the
// polymorphic Object type every schema entity implements, the concrete
// object kinds, and the Snapshot that groups them per introspection.
package schema

// Kind identifies the category a schema Object belongs to.
type Kind int

const (
	KindSchema Kind = iota
	KindExtension
	KindEnum
	KindSequence
	KindTable
	KindView
	KindMaterializedView
	KindFunction
	KindConstraint
	KindIndex
	KindTrigger
	KindRLSPolicy
	KindCollation
	KindPrivilege
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindExtension:
		return "extension"
	case KindEnum:
		return "enum"
	case KindSequence:
		return "sequence"
	case KindTable:
		return "table"
	case KindView:
		return "view"
	case KindMaterializedView:
		return "materialized_view"
	case KindFunction:
		return "function"
	case KindConstraint:
		return "constraint"
	case KindIndex:
		return "index"
	case KindTrigger:
		return "trigger"
	case KindRLSPolicy:
		return "rls_policy"
	case KindCollation:
		return "collation"
	case KindPrivilege:
		return "privilege"
	default:
		return "unknown"
	}
}
