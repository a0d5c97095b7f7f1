package diff

import (
	"sort"

	"github.com/dbdiff/dbdiff/schema"
)

// DiffWith is the diff primitive every kind-specific differ is built on: it
// buckets two keyed mappings of the same key type into added (in after,
// not in before), removed (in before, not in after), modified (in both but
// not eq), and unmodified (in both and eq). Keys are returned sorted so
// every caller gets deterministic iteration order for free.
func DiffWith[T any](before, after map[string]T, eq func(a, b T) bool) (added, removed, modified, unmodified []string) {
	for k := range after {
		if _, ok := before[k]; !ok {
			added = append(added, k)
		}
	}
	for k, bv := range before {
		av, ok := after[k]
		if !ok {
			removed = append(removed, k)
			continue
		}
		if eq(bv, av) {
			unmodified = append(unmodified, k)
		} else {
			modified = append(modified, k)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(modified)
	sort.Strings(unmodified)
	return
}

// Diff specializes DiffWith for any schema.Object kind, using its EqualTo
// method for the equality test.
func Diff[T schema.Object](before, after map[string]T) (added, removed, modified, unmodified []string) {
	return DiffWith(before, after, func(a, b T) bool { return a.EqualTo(b) })
}

// DiffColumns specializes DiffWith for schema.Column, which is not itself a
// schema.Object (see schema/column.go) but is diffed the same way within
// the table differ.
func DiffColumns(before, after map[string]*schema.Column) (added, removed, modified, unmodified []string) {
	return DiffWith(before, after, func(a, b *schema.Column) bool { return a.EqualTo(b) })
}
