package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/dbdiff/dbdiff/schema"
)

// NewLivePGSource opens a connection pool for dsn and wraps it as a
// Source, returning the pool alongside so the caller can close it once
// done (a PGSource has no Close of its own since the pool may be shared).
func NewLivePGSource(ctx context.Context, dsn string) (*pgxpool.Pool, *PGSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("introspect: connecting: %w", err)
	}
	return pool, NewPGSource(pool), nil
}

// SnapshotPair fetches the source and target snapshots concurrently,
// since they are entirely independent reads. Returning both together
// keeps callers (cmd/plan.go) from having to sequence two round trips
// to what are often two different databases.
func SnapshotPair(ctx context.Context, src, tgt Source, schemaName string) (before, after *schema.Snapshot, err error) {
	eg, gctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		s, err := src.Snapshot(gctx, schemaName)
		if err != nil {
			return err
		}
		before = s
		return nil
	})
	eg.Go(func() error {
		s, err := tgt.Snapshot(gctx, schemaName)
		if err != nil {
			return err
		}
		after = s
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return before, after, nil
}
