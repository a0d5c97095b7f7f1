package diff

import "github.com/dbdiff/dbdiff/schema"

// SelectablePlan is the coordinated plan for every query-targetable object
// (tables, views, materialized views, functions): what to drop, what
// table column changes to reconcile in place, and what to (re)create.
// These four kinds share one dependency graph — a view selects from a
// table, a materialized view from a view, a function is called by a
// trigger on a table — so they are planned together rather than kind by
// kind, and the drop/create halves are each internally ordered by the
// fixpoint emitter.
type SelectablePlan struct {
	Drop         []schema.Object
	Create       []schema.Object
	TableChanges []TablePair
}

// TablePair is a table that survives in place; its column-level changes
// are reconciled via TableDiff rather than drop+create.
type TablePair struct {
	Old *schema.Table
	New *schema.Table
}

// PlanSelectables merges the four selectable kinds into one plan. A
// modified object that reports CanReplace(old) == true (plain views with
// an unchanged column list, and functions, which always can) is left out
// of both Drop and Create here — the dispatcher emits a single REPLACE
// statement for those instead — unless it is itself in the dependents_all
// of another changed selectable, in which case it is promoted and dropped
// and recreated like any other dependent. A modified table is never dropped; its
// changes always go through TableChanges. Everything else modified, plus
// anything removed, goes through drop+create.
//
// A change to ANY selectable — including a table whose own change is an
// in-place ALTER — also forces every non-table object in its (transitive)
// dependents_all to be dropped and recreated, even if that dependent's own
// definition is untouched: a view or function pinned to a changed relation
// is not assumed safe to leave alone. This mirrors the target-side
// dependents_all scan in get_selectable_changes; it is a single pass, not
// a fixpoint, since dependents_all is already the full transitive closure.
func PlanSelectables(before, after *schema.Snapshot) *SelectablePlan {
	plan := &SelectablePlan{}

	beforeAll := selectableObjects(before)
	afterAll := selectableObjects(after)

	added, removed, modified, _ := Diff[schema.Object](beforeAll, afterAll)

	promote := map[string]bool{}
	promoteFrom := func(obj schema.Object) {
		for dep := range obj.DependentsAll() {
			depObj, stillExists := afterAll[dep]
			if !stillExists {
				continue
			}
			if depObj.Kind() == schema.KindTable {
				continue // tables never enter promote; their changes always go through TableChanges
			}
			promote[dep] = true
		}
	}

	for _, id := range removed {
		promote[id] = true
		promoteFrom(beforeAll[id])
	}

	for _, id := range modified {
		old := beforeAll[id]
		new := afterAll[id]
		if old.Kind() == schema.KindTable {
			plan.TableChanges = append(plan.TableChanges, TablePair{Old: old.(*schema.Table), New: new.(*schema.Table)})
			promoteFrom(new)
			continue
		}
		if new.CanReplace(old) {
			promoteFrom(new)
			continue
		}
		promote[id] = true
		promoteFrom(new)
	}

	var dropObjs, createObjs []schema.Object
	for id := range promote {
		if old, ok := beforeAll[id]; ok {
			dropObjs = append(dropObjs, old)
		}
	}
	for _, id := range added {
		createObjs = append(createObjs, afterAll[id])
	}
	for id := range promote {
		if new, ok := afterAll[id]; ok {
			createObjs = append(createObjs, new)
		}
	}

	dropped, err := OrderDrops(dropObjs)
	if err != nil {
		// On a cycle the CycleError is discarded and the unordered input
		// list is used as is (the same holds for creates below); no
		// CycleError reaches the caller of PlanSelectables.
		dropped = dropObjs
	}
	plan.Drop = dropped

	unmodifiedCreated := map[string]struct{}{}
	for id := range beforeAll {
		if !promote[id] {
			unmodifiedCreated[id] = struct{}{}
		}
	}
	created, err := OrderCreates(createObjs, unmodifiedCreated)
	if err != nil {
		created = createObjs
	}
	plan.Create = created

	return plan
}

func selectableObjects(s *schema.Snapshot) map[string]schema.Object {
	out := map[string]schema.Object{}
	for id, t := range s.Tables {
		out[id] = t
	}
	for id, v := range s.Views {
		out[id] = v
	}
	for id, f := range s.Functions {
		out[id] = f
	}
	return out
}
