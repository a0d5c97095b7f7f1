// Package introspect builds a schema.Snapshot either by querying a live
// PostgreSQL database or by loading a JSON fixture, so the diff engine can
// be driven the same way in production and in tests.
package introspect

import (
	"context"

	"github.com/dbdiff/dbdiff/schema"
)

// Source produces a linked schema.Snapshot for a target schema name.
type Source interface {
	Snapshot(ctx context.Context, targetSchema string) (*schema.Snapshot, error)
}
