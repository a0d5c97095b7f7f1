package diff

import (
	"sort"

	"github.com/dbdiff/dbdiff/schema"
)

// EnumReconciler renders the statements needed for every enum type whose
// value list changed. Postgres has no ALTER TYPE ... AS ENUM, so a
// modified enum is dropped and recreated; every column referencing it
// must be cast to text first (pre) and back to the enum (post), since a
// column can't stay typed as an enum that briefly doesn't exist.
// EnumReconciler only returns the column casts; Engine.AddSelectableChanges
// emits the enum's own drop+create pair directly (not through addCategory
// or the fixpoint emitter) and splices these casts immediately around it.
type EnumReconciler struct {
	Pre  map[string]Statements // enum identity -> cast-to-text statements
	Post map[string]Statements // enum identity -> cast-back statements
}

// Reconcile computes the pre/post cast statements for every modified enum
// between before and after.
func Reconcile(before, after *schema.Snapshot) *EnumReconciler {
	r := &EnumReconciler{Pre: map[string]Statements{}, Post: map[string]Statements{}}
	_, _, modified, _ := Diff(before.Enums, after.Enums)

	for _, id := range modified {
		oldEnum := before.Enums[id]
		newEnum := after.Enums[id]

		for _, tableID := range sortedKeysOf(oldEnum.Dependents()) {
			oldTable, ok := before.Tables[tableID]
			if !ok {
				continue
			}
			for _, col := range oldTable.Columns {
				if col.IsEnum && col.Enum == id {
					r.Pre[id] = append(r.Pre[id], newStatement(
						col.ChangeEnumToStringStatement(tableRef(oldTable)), schema.KindTable, OpAlter, oldTable.Identity()))
				}
			}
		}

		for _, tableID := range sortedKeysOf(newEnum.Dependents()) {
			newTable, ok := after.Tables[tableID]
			if !ok {
				continue
			}
			for _, col := range newTable.Columns {
				if col.IsEnum && col.Enum == id {
					r.Post[id] = append(r.Post[id], newStatement(
						col.ChangeStringToEnumStatement(tableRef(newTable)), schema.KindTable, OpAlter, newTable.Identity()))
				}
			}
		}
	}

	return r
}

// ModifiedEnums returns the sorted identities of enums whose value list
// changed between before and after.
func ModifiedEnums(before, after *schema.Snapshot) []string {
	_, _, modified, _ := Diff(before.Enums, after.Enums)
	return modified
}

func sortedKeysOf(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
