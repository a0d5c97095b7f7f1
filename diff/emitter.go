package diff

import (
	"sort"

	"github.com/dbdiff/dbdiff/schema"
)

// OrderCreates orders objs so every object's DependentOn set is already
// satisfied before it is emitted. It works in rounds: each round takes
// every object whose remaining DependentOn names are either already
// emitted or outside objs entirely, in lexicographic Identity order, and
// emits all of them at once. It repeats until objs is empty or a round
// emits nothing, at which point the unresolved remainder is a dependency
// cycle. alreadyCreated is not consulted: any DependentOn name outside objs
// already counts as satisfied, so objects that exist already never block a
// round whether or not they are listed there.
func OrderCreates(objs []schema.Object, alreadyCreated map[string]struct{}) ([]schema.Object, error) {
	pending := make(map[string]schema.Object, len(objs))
	for _, o := range objs {
		pending[o.Identity()] = o
	}

	var ordered []schema.Object
	for len(pending) > 0 {
		ready := readyKeys(pending, func(id string, o schema.Object) bool {
			for dep := range o.DependentOn() {
				if dep == id {
					continue
				}
				if _, ok := pending[dep]; ok {
					return false
				}
			}
			return true
		})
		if len(ready) == 0 {
			return ordered, &CycleError{Remaining: sortedPendingKeys(pending)}
		}
		for _, id := range ready {
			ordered = append(ordered, pending[id])
			delete(pending, id)
		}
	}
	return ordered, nil
}

// OrderDrops orders objs so every object's Dependents set is already gone
// before it is emitted — the mirror image of OrderCreates, run over the
// same kind of fixpoint rounds.
func OrderDrops(objs []schema.Object) ([]schema.Object, error) {
	pending := make(map[string]schema.Object, len(objs))
	for _, o := range objs {
		pending[o.Identity()] = o
	}

	var ordered []schema.Object
	for len(pending) > 0 {
		ready := readyKeys(pending, func(id string, o schema.Object) bool {
			for dep := range o.Dependents() {
				if dep == id {
					continue
				}
				if _, ok := pending[dep]; ok {
					return false
				}
			}
			return true
		})
		if len(ready) == 0 {
			return ordered, &CycleError{Remaining: sortedPendingKeys(pending)}
		}
		for _, id := range ready {
			ordered = append(ordered, pending[id])
			delete(pending, id)
		}
	}
	return ordered, nil
}

func readyKeys(pending map[string]schema.Object, isReady func(id string, o schema.Object) bool) []string {
	var keys []string
	for id, o := range pending {
		if isReady(id, o) {
			keys = append(keys, id)
		}
	}
	sort.Strings(keys)
	return keys
}

func sortedPendingKeys(pending map[string]schema.Object) []string {
	keys := make([]string, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
