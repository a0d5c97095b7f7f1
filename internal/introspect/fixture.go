package introspect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dbdiff/dbdiff/schema"
)

// fixtureDoc mirrors schema.Snapshot's exported fields so a fixture file
// can be unmarshaled straight into it; depSet's unexported fields are left
// zero by json.Unmarshal and rebuilt by Snapshot.Link.
type fixtureDoc struct {
	Schemas     map[string]*schema.Schema     `json:"schemas"`
	Extensions  map[string]*schema.Extension  `json:"extensions"`
	Collations  map[string]*schema.Collation  `json:"collations"`
	Enums       map[string]*schema.Enum       `json:"enums"`
	Sequences   map[string]*schema.Sequence   `json:"sequences"`
	Tables      map[string]*schema.Table      `json:"tables"`
	Views       map[string]*schema.View       `json:"views"`
	Functions   map[string]*schema.Function   `json:"functions"`
	Constraints map[string]*schema.Constraint `json:"constraints"`
	Indexes     map[string]*schema.Index      `json:"indexes"`
	Triggers    map[string]*schema.Trigger    `json:"triggers"`
	Policies    map[string]*schema.RLSPolicy  `json:"policies"`
	Privileges  map[string]*schema.Privilege  `json:"privileges"`
}

// FixtureSource loads a Snapshot from a JSON document instead of a live
// database, for tests that want full control over the before/after shape
// without a testcontainers-managed Postgres instance.
type FixtureSource struct {
	data []byte
}

func NewFixtureSource(data []byte) *FixtureSource {
	return &FixtureSource{data: data}
}

// Snapshot ignores targetSchema: a fixture document already represents
// one schema's worth of objects.
func (f *FixtureSource) Snapshot(_ context.Context, _ string) (*schema.Snapshot, error) {
	var doc fixtureDoc
	if err := json.Unmarshal(f.data, &doc); err != nil {
		return nil, fmt.Errorf("introspect: parse fixture: %w", err)
	}

	snap := schema.NewSnapshot()
	assignIfSet(snap.Schemas, doc.Schemas)
	assignIfSet(snap.Extensions, doc.Extensions)
	assignIfSet(snap.Collations, doc.Collations)
	assignIfSet(snap.Enums, doc.Enums)
	assignIfSet(snap.Sequences, doc.Sequences)
	assignIfSet(snap.Tables, doc.Tables)
	assignIfSet(snap.Views, doc.Views)
	assignIfSet(snap.Functions, doc.Functions)
	assignIfSet(snap.Constraints, doc.Constraints)
	assignIfSet(snap.Indexes, doc.Indexes)
	assignIfSet(snap.Triggers, doc.Triggers)
	assignIfSet(snap.Policies, doc.Policies)
	assignIfSet(snap.Privileges, doc.Privileges)

	snap.Link()
	return snap, nil
}

func assignIfSet[T any](dst, src map[string]T) {
	for k, v := range src {
		dst[k] = v
	}
}
