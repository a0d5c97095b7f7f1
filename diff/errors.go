package diff

import "fmt"

// CycleError is returned by the ordered emitter when pending creations and
// pending drops stop making progress before either set empties — the
// dependency graph contains a cycle the fixpoint loop cannot resolve on
// its own (e.g. two objects that each list the other in DependentOn).
// Remaining holds the identities still stuck, sorted, so
// callers can report exactly where the cycle lives.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dbdiff: dependency cycle prevents ordering %d object(s): %v", len(e.Remaining), e.Remaining)
}

// UnsafeChangeError is returned when a caller has disabled unsafe changes
// (diff.Engine.SetSafety(true)) and the computed plan would require a
// destructive statement, e.g. dropping a table or a non-nullable column.
type UnsafeChangeError struct {
	Statement string
	Reason    string
}

func (e *UnsafeChangeError) Error() string {
	return fmt.Sprintf("dbdiff: unsafe change rejected (%s): %s", e.Reason, e.Statement)
}
