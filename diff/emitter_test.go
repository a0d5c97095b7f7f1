package diff

import (
	"testing"

	"github.com/dbdiff/dbdiff/schema"
)

// linkedTablesWithFK builds a two-table snapshot where orders.customer_id
// references customers. The FK is its own Constraint object depending on
// both tables (the tables carry no edge to each other), so OrderCreates must
// place both tables before the FK and OrderDrops must place the FK before
// both tables.
func linkedTablesWithFK(t *testing.T) (customers, orders *schema.Table, fk *schema.Constraint) {
	t.Helper()
	snap := schema.NewSnapshot()

	customers = &schema.Table{SchemaName: "public", Name: "customers", Columns: []*schema.Column{
		{Name: "id", DBTypeStr: "integer"},
	}}
	orders = &schema.Table{SchemaName: "public", Name: "orders", Columns: []*schema.Column{
		{Name: "id", DBTypeStr: "integer"},
		{Name: "customer_id", DBTypeStr: "integer"},
	}}
	fk = &schema.Constraint{
		SchemaName: "public", TableName: "orders", Name: "orders_customer_id_fkey",
		Type: schema.ConstraintTypeForeignKey, Definition: "FOREIGN KEY (customer_id) REFERENCES customers(id)",
		RefSchemaName: "public", RefTableName: "customers",
	}

	snap.Tables[customers.Identity()] = customers
	snap.Tables[orders.Identity()] = orders
	snap.Constraints[fk.Identity()] = fk
	snap.Link()

	return customers, orders, fk
}

func TestOrderCreatesRespectsForeignKeys(t *testing.T) {
	customers, orders, fk := linkedTablesWithFK(t)

	ordered, err := OrderCreates([]schema.Object{orders, fk, customers}, nil)
	if err != nil {
		t.Fatalf("OrderCreates: %v", err)
	}

	pos := map[string]int{}
	for i, o := range ordered {
		pos[o.Identity()] = i
	}
	if pos[customers.Identity()] >= pos[fk.Identity()] {
		t.Errorf("expected customers before the FK constraint referencing it, got order %v", identities(ordered))
	}
	if pos[orders.Identity()] >= pos[fk.Identity()] {
		t.Errorf("expected orders before its FK constraint, got order %v", identities(ordered))
	}
}

func TestOrderDropsIsReverseOfCreates(t *testing.T) {
	customers, orders, fk := linkedTablesWithFK(t)

	ordered, err := OrderDrops([]schema.Object{orders, fk, customers})
	if err != nil {
		t.Fatalf("OrderDrops: %v", err)
	}

	pos := map[string]int{}
	for i, o := range ordered {
		pos[o.Identity()] = i
	}
	if pos[fk.Identity()] >= pos[orders.Identity()] {
		t.Errorf("expected the FK constraint dropped before its table, got order %v", identities(ordered))
	}
	if pos[fk.Identity()] >= pos[customers.Identity()] {
		t.Errorf("expected the FK constraint dropped before the table it references, got order %v", identities(ordered))
	}
}

func TestOrderCreatesAlreadyCreatedSeedsReadySet(t *testing.T) {
	customers, orders, _ := linkedTablesWithFK(t)

	alreadyCreated := map[string]struct{}{customers.Identity(): {}}
	ordered, err := OrderCreates([]schema.Object{orders}, alreadyCreated)
	if err != nil {
		t.Fatalf("OrderCreates: %v", err)
	}
	if len(ordered) != 1 || ordered[0].Identity() != orders.Identity() {
		t.Errorf("expected orders alone to be ready once customers is already created, got %v", identities(ordered))
	}
}

func TestOrderCreatesCycleError(t *testing.T) {
	a := &cyclicObject{id: "a", dependsOn: "b"}
	b := &cyclicObject{id: "b", dependsOn: "a"}

	_, err := OrderCreates([]schema.Object{a, b}, nil)
	if err == nil {
		t.Fatal("expected a CycleError for two mutually dependent objects")
	}
	cycleErr, ok := err.(*CycleError)
	if !ok {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if len(cycleErr.Remaining) != 2 {
		t.Errorf("expected both objects stuck in the cycle, got %v", cycleErr.Remaining)
	}
}

func identities(objs []schema.Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Identity()
	}
	return out
}

// cyclicObject is a minimal schema.Object double for exercising CycleError
// without needing a whole Snapshot for a pathological two-node cycle.
type cyclicObject struct {
	id        string
	dependsOn string
}

func (c *cyclicObject) Identity() string                  { return c.id }
func (c *cyclicObject) Kind() schema.Kind                  { return schema.KindTable }
func (c *cyclicObject) EqualTo(schema.Object) bool         { return false }
func (c *cyclicObject) Dependents() map[string]struct{}    { return map[string]struct{}{c.dependsOn: {}} }
func (c *cyclicObject) DependentsAll() map[string]struct{} { return c.Dependents() }
func (c *cyclicObject) DependentOn() map[string]struct{}   { return map[string]struct{}{c.dependsOn: {}} }
func (c *cyclicObject) CreateStatement() string            { return "" }
func (c *cyclicObject) DropStatement() string              { return "" }
func (c *cyclicObject) CanReplace(schema.Object) bool      { return false }
