package diff

import (
	"testing"

	"github.com/dbdiff/dbdiff/schema"
)

// buildS3Snapshots constructs the S3 scenario: a table t(a int) with a
// view v selecting from it, then a target where t gained a column and v
// is otherwise untouched.
func buildS3Snapshots(t *testing.T) (before, after *schema.Snapshot) {
	t.Helper()

	before = schema.NewSnapshot()
	beforeTable := &schema.Table{SchemaName: "public", Name: "t", Columns: []*schema.Column{{Name: "a", DBTypeStr: "integer"}}}
	view := &schema.View{SchemaName: "public", Name: "v", Definition: "SELECT a FROM t"}
	before.Tables[beforeTable.Identity()] = beforeTable
	before.Views[view.Identity()] = view
	before.Link()

	after = schema.NewSnapshot()
	afterTable := &schema.Table{SchemaName: "public", Name: "t", Columns: []*schema.Column{
		{Name: "a", DBTypeStr: "integer"}, {Name: "b", DBTypeStr: "integer"},
	}}
	afterView := &schema.View{SchemaName: "public", Name: "v", Definition: "SELECT a FROM t"}
	after.Tables[afterTable.Identity()] = afterTable
	after.Views[afterView.Identity()] = afterView
	after.Link()

	return before, after
}

func TestPlanSelectablesPromotesViewOnTableChange(t *testing.T) {
	before, after := buildS3Snapshots(t)

	plan := PlanSelectables(before, after)

	if len(plan.TableChanges) != 1 {
		t.Fatalf("expected the table to go through TableChanges, got %d entries", len(plan.TableChanges))
	}

	var droppedView, createdView bool
	for _, o := range plan.Drop {
		if o.Identity() == "public.v" {
			droppedView = true
		}
	}
	for _, o := range plan.Create {
		if o.Identity() == "public.v" {
			createdView = true
		}
	}
	if !droppedView || !createdView {
		t.Errorf("expected view v to be dropped and recreated alongside its changed table, drop=%v create=%v", droppedView, createdView)
	}
}

func TestPlanSelectablesReplaceableViewNotDroppedWhenUnaffected(t *testing.T) {
	before := schema.NewSnapshot()
	beforeView := &schema.View{SchemaName: "public", Name: "v", Definition: "SELECT 1"}
	before.Views[beforeView.Identity()] = beforeView
	before.Link()

	after := schema.NewSnapshot()
	afterView := &schema.View{SchemaName: "public", Name: "v", Definition: "SELECT 2"}
	after.Views[afterView.Identity()] = afterView
	after.Link()

	plan := PlanSelectables(before, after)
	if len(plan.Drop) != 0 || len(plan.Create) != 0 {
		t.Errorf("expected a same-column-list view change to be left for CREATE OR REPLACE, got drop=%v create=%v", plan.Drop, plan.Create)
	}
}

func TestPlanSelectablesDropsDependentBeforeRemovedTable(t *testing.T) {
	before := schema.NewSnapshot()
	tbl := &schema.Table{SchemaName: "public", Name: "t", Columns: []*schema.Column{{Name: "a", DBTypeStr: "integer"}}}
	view := &schema.View{SchemaName: "public", Name: "v", Definition: "SELECT a FROM t"}
	before.Tables[tbl.Identity()] = tbl
	before.Views[view.Identity()] = view
	before.Link()

	after := schema.NewSnapshot()

	plan := PlanSelectables(before, after)

	pos := map[string]int{}
	for i, o := range plan.Drop {
		pos[o.Identity()] = i
	}
	if _, ok := pos["public.v"]; !ok {
		t.Fatalf("expected view v in the drop list, got %v", plan.Drop)
	}
	if _, ok := pos["public.t"]; !ok {
		t.Fatalf("expected table t in the drop list, got %v", plan.Drop)
	}
	if pos["public.v"] >= pos["public.t"] {
		t.Errorf("expected v dropped before t, got order %v", plan.Drop)
	}
}
