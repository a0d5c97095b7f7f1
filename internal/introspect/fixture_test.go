package introspect

import (
	"context"
	"testing"
)

func TestFixtureSourceSnapshotParsesAndLinks(t *testing.T) {
	doc := []byte(`{
		"schemas": {"public": {"Name": "public"}},
		"tables": {
			"public.customers": {
				"SchemaName": "public",
				"Name": "customers",
				"Columns": [{"Name": "id", "DBTypeStr": "integer"}]
			},
			"public.orders": {
				"SchemaName": "public",
				"Name": "orders",
				"Columns": [{"Name": "id", "DBTypeStr": "integer"}, {"Name": "customer_id", "DBTypeStr": "integer"}]
			}
		},
		"constraints": {
			"public.orders.orders_customer_id_fkey": {
				"SchemaName": "public",
				"TableName": "orders",
				"Name": "orders_customer_id_fkey",
				"Type": "FOREIGN KEY",
				"Definition": "FOREIGN KEY (customer_id) REFERENCES customers(id)",
				"RefSchemaName": "public",
				"RefTableName": "customers"
			}
		}
	}`)

	src := NewFixtureSource(doc)
	snap, err := src.Snapshot(context.Background(), "public")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if len(snap.Schemas) != 1 || len(snap.Tables) != 2 || len(snap.Constraints) != 1 {
		t.Fatalf("expected 1 schema, 2 tables, 1 constraint; got %d/%d/%d", len(snap.Schemas), len(snap.Tables), len(snap.Constraints))
	}

	fk := snap.Constraints["public.orders.orders_customer_id_fkey"]
	if fk == nil {
		t.Fatal("expected the FK constraint to be present")
	}
	if _, ok := fk.DependentOn()["public.customers"]; !ok {
		t.Errorf("expected Link to wire the FK constraint's dependency onto customers, got %v", fk.DependentOn())
	}
	if _, ok := fk.DependentOn()["public.orders"]; !ok {
		t.Errorf("expected the FK constraint to also depend on its own table, got %v", fk.DependentOn())
	}
}

func TestFixtureSourceSnapshotRejectsInvalidJSON(t *testing.T) {
	src := NewFixtureSource([]byte("not json"))
	if _, err := src.Snapshot(context.Background(), "public"); err == nil {
		t.Fatal("expected an error parsing invalid JSON")
	}
}

func TestFixtureSourceSnapshotEmptyDocument(t *testing.T) {
	src := NewFixtureSource([]byte(`{}`))
	snap, err := src.Snapshot(context.Background(), "public")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Tables) != 0 || len(snap.Schemas) != 0 {
		t.Errorf("expected an empty snapshot, got %+v", snap)
	}
}
