package introspect

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/dbdiff/dbdiff/schema"
)

// PGSource introspects a live PostgreSQL database via pg_catalog. It
// mirrors the phased build a dump command would do: sequential
// prerequisites first (schema existence, bare tables), then groups of
// independent queries run concurrently, then indexes last since an
// index can reference a view built in the previous phase.
type PGSource struct {
	pool *pgxpool.Pool
}

func NewPGSource(pool *pgxpool.Pool) *PGSource {
	return &PGSource{pool: pool}
}

type builderFunc func(context.Context, *schema.Snapshot, string) error

func (s *PGSource) Snapshot(ctx context.Context, targetSchema string) (*schema.Snapshot, error) {
	snap := schema.NewSnapshot()

	if err := s.buildSchemas(ctx, snap, targetSchema); err != nil {
		return nil, fmt.Errorf("introspect: schemas: %w", err)
	}
	if err := s.buildTables(ctx, snap, targetSchema); err != nil {
		return nil, fmt.Errorf("introspect: tables: %w", err)
	}

	tableDetails := []builderFunc{s.buildColumns, s.buildConstraints}
	independent := []builderFunc{s.buildEnums, s.buildSequences, s.buildFunctions, s.buildExtensions, s.buildCollations}

	var eg errgroup.Group
	eg.Go(func() error { return runGroup(ctx, s, snap, targetSchema, tableDetails) })
	eg.Go(func() error { return runGroup(ctx, s, snap, targetSchema, independent) })
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}

	tableDependent := []builderFunc{s.buildViews, s.buildTriggers, s.buildPolicies, s.buildPrivileges}
	if err := runGroup(ctx, s, snap, targetSchema, tableDependent); err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}

	if err := s.buildIndexes(ctx, snap, targetSchema); err != nil {
		return nil, fmt.Errorf("introspect: indexes: %w", err)
	}

	snap.Link()
	return snap, nil
}

// runGroup fans builders within a phase out over goroutines. Each builder
// in a phase only ever touches its own part of snap (its own map, or a
// field on an object no other builder in the same phase writes to), so no
// further locking is needed beyond collecting the first error.
func runGroup(ctx context.Context, s *PGSource, snap *schema.Snapshot, targetSchema string, fns []builderFunc) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(fns))
	for _, fn := range fns {
		wg.Add(1)
		go func(f builderFunc) {
			defer wg.Done()
			if err := f(ctx, snap, targetSchema); err != nil {
				errCh <- err
			}
		}(fn)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PGSource) buildSchemas(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT n.nspname, pg_get_userbyid(n.nspowner)
		FROM pg_namespace n
		WHERE n.nspname = $1`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		sc := &schema.Schema{}
		if err := rows.Scan(&sc.Name, &sc.Owner); err != nil {
			return err
		}
		snap.Schemas[sc.Identity()] = sc
	}
	return rows.Err()
}

func (s *PGSource) buildTables(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.relname,
		       c.relkind = 'p' AS is_partitioned,
		       COALESCE(pg_get_expr(c.relpartbound, c.oid), '') AS partition_bound,
		       COALESCE(parent_ns.nspname || '.' || parent.relname, '') AS parent_table,
		       c.relrowsecurity, c.relforcerowsecurity,
		       COALESCE(obj_description(c.oid, 'pg_class'), '') AS comment
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_inherits i ON i.inhrelid = c.oid AND c.relispartition
		LEFT JOIN pg_class parent ON parent.oid = i.inhparent
		LEFT JOIN pg_namespace parent_ns ON parent_ns.oid = parent.relnamespace
		WHERE n.nspname = $1 AND c.relkind IN ('r', 'p')
		ORDER BY c.relname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		t := &schema.Table{SchemaName: targetSchema}
		if err := rows.Scan(&t.Name, &t.IsPartitioned, &t.PartitionBound, &t.ParentTable, &t.RowSecurity, &t.ForceRowSecurity, &t.Comment); err != nil {
			return err
		}
		snap.Tables[t.Identity()] = t
	}
	return rows.Err()
}

func (s *PGSource) buildColumns(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.relname, a.attname, a.attnum,
		       format_type(a.atttypid, a.atttypmod) AS dbtypestr,
		       NOT a.attnotnull AS nullable,
		       COALESCE(pg_get_expr(ad.adbin, ad.adrelid), '') AS default_expr,
		       t.typtype = 'e' AS is_enum,
		       CASE WHEN t.typtype = 'e' THEN tn.nspname || '.' || t.typname ELSE '' END AS enum_ref,
		       COALESCE(a.attgenerated != '', false) AS has_generated,
		       COALESCE(col_description(c.oid, a.attnum), '') AS comment
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_type t ON t.oid = a.atttypid
		JOIN pg_namespace tn ON tn.oid = t.typnamespace
		LEFT JOIN pg_attrdef ad ON ad.adrelid = c.oid AND ad.adnum = a.attnum
		WHERE n.nspname = $1 AND c.relkind IN ('r', 'p') AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY c.relname, a.attnum`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tableName string
		col := &schema.Column{}
		var hasGenerated bool
		if err := rows.Scan(&tableName, &col.Name, &col.Position, &col.DBTypeStr, &col.Nullable,
			&col.Default, &col.IsEnum, &col.Enum, &hasGenerated, &col.Comment); err != nil {
			return err
		}
		tableID := targetSchema + "." + tableName
		if t, ok := snap.Tables[tableID]; ok {
			t.Columns = append(t.Columns, col)
		}
	}
	return rows.Err()
}

func (s *PGSource) buildConstraints(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.relname, con.conname, con.contype,
		       pg_get_constraintdef(con.oid) AS definition,
		       COALESCE(rn.nspname, ''), COALESCE(rc.relname, '')
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_class rc ON rc.oid = con.confrelid
		LEFT JOIN pg_namespace rn ON rn.oid = rc.relnamespace
		WHERE n.nspname = $1
		ORDER BY c.relname, con.conname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tableName, contype string
		con := &schema.Constraint{SchemaName: targetSchema}
		if err := rows.Scan(&tableName, &con.Name, &contype, &con.Definition, &con.RefSchemaName, &con.RefTableName); err != nil {
			return err
		}
		con.TableName = tableName
		con.Type = constraintTypeFromChar(contype)
		snap.Constraints[con.Identity()] = con
	}
	return rows.Err()
}

func constraintTypeFromChar(c string) schema.ConstraintType {
	switch c {
	case "p":
		return schema.ConstraintTypePrimaryKey
	case "u":
		return schema.ConstraintTypeUnique
	case "f":
		return schema.ConstraintTypeForeignKey
	case "c":
		return schema.ConstraintTypeCheck
	case "x":
		return schema.ConstraintTypeExclude
	default:
		return schema.ConstraintType(c)
	}
}

func (s *PGSource) buildIndexes(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.relname AS table_name, ic.relname AS index_name, ix.indisunique,
		       substring(pg_get_indexdef(ic.oid) from 'USING (.*)$') AS definition
		FROM pg_index ix
		JOIN pg_class ic ON ic.oid = ix.indexrelid
		JOIN pg_class c ON c.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND NOT ix.indisprimary
		ORDER BY c.relname, ic.relname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tableName string
		idx := &schema.Index{SchemaName: targetSchema}
		if err := rows.Scan(&tableName, &idx.Name, &idx.Unique, &idx.Definition); err != nil {
			return err
		}
		idx.TableName = tableName
		snap.Indexes[idx.Identity()] = idx
	}
	return rows.Err()
}

func (s *PGSource) buildEnums(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT t.typname, array_agg(e.enumlabel ORDER BY e.enumsortorder)
		FROM pg_type t
		JOIN pg_namespace n ON n.oid = t.typnamespace
		JOIN pg_enum e ON e.enumtypid = t.oid
		WHERE n.nspname = $1
		GROUP BY t.typname
		ORDER BY t.typname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		en := &schema.Enum{SchemaName: targetSchema}
		if err := rows.Scan(&en.Name, &en.Values); err != nil {
			return err
		}
		snap.Enums[en.Identity()] = en
	}
	return rows.Err()
}

func (s *PGSource) buildSequences(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT s.relname, seq.data_type, seq.increment, seq.minimum_value, seq.maximum_value,
		       seq.start_value, seq.cache_size, seq.cycle_option = 'YES',
		       COALESCE(dep_c.relname, ''), COALESCE(dep_a.attname, '')
		FROM pg_class s
		JOIN pg_namespace n ON n.oid = s.relnamespace
		JOIN information_schema.sequences seq ON seq.sequence_schema = n.nspname AND seq.sequence_name = s.relname
		LEFT JOIN pg_depend d ON d.objid = s.oid AND d.deptype = 'a'
		LEFT JOIN pg_class dep_c ON dep_c.oid = d.refobjid
		LEFT JOIN pg_attribute dep_a ON dep_a.attrelid = d.refobjid AND dep_a.attnum = d.refobjsubid
		WHERE n.nspname = $1 AND s.relkind = 'S'
		ORDER BY s.relname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		sq := &schema.Sequence{SchemaName: targetSchema}
		if err := rows.Scan(&sq.Name, &sq.DataType, &sq.Increment, &sq.MinValue, &sq.MaxValue,
			&sq.StartValue, &sq.CacheSize, &sq.Cycle, &sq.OwnedByTable, &sq.OwnedByColumn); err != nil {
			return err
		}
		snap.Sequences[sq.Identity()] = sq
	}
	return rows.Err()
}

func (s *PGSource) buildFunctions(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT p.proname, pg_get_function_arguments(p.oid), pg_get_function_result(p.oid),
		       l.lanname, CASE p.provolatile WHEN 'i' THEN 'IMMUTABLE' WHEN 's' THEN 'STABLE' ELSE 'VOLATILE' END,
		       COALESCE(p.prosrc, '')
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		JOIN pg_language l ON l.oid = p.prolang
		WHERE n.nspname = $1 AND p.prokind IN ('f', 'a')
		ORDER BY p.proname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		f := &schema.Function{SchemaName: targetSchema}
		var body string
		if err := rows.Scan(&f.Name, &f.Arguments, &f.ReturnType, &f.Language, &f.Volatility, &body); err != nil {
			return err
		}
		f.Body = "$$" + body + "$$"
		snap.Functions[f.Identity()] = f
	}
	return rows.Err()
}

func (s *PGSource) buildExtensions(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT e.extname, e.extversion, COALESCE(n.nspname, '')
		FROM pg_extension e
		LEFT JOIN pg_namespace n ON n.oid = e.extnamespace
		WHERE n.nspname = $1
		ORDER BY e.extname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		ext := &schema.Extension{}
		if err := rows.Scan(&ext.Name, &ext.Version, &ext.SchemaName); err != nil {
			return err
		}
		snap.Extensions[ext.Identity()] = ext
	}
	return rows.Err()
}

func (s *PGSource) buildCollations(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.collname, COALESCE(c.collcollate, ''), COALESCE(c.collctype, ''), c.collprovider
		FROM pg_collation c
		JOIN pg_namespace n ON n.oid = c.collnamespace
		WHERE n.nspname = $1
		ORDER BY c.collname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var provider string
		col := &schema.Collation{SchemaName: targetSchema}
		if err := rows.Scan(&col.Name, &col.LcCollate, &col.LcCtype, &provider); err != nil {
			return err
		}
		col.Provider = collationProviderName(provider)
		snap.Collations[col.Identity()] = col
	}
	return rows.Err()
}

func collationProviderName(c string) string {
	switch c {
	case "i":
		return "icu"
	case "b":
		return "builtin"
	default:
		return "libc"
	}
}

func (s *PGSource) buildViews(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.relname, c.relkind = 'm', pg_get_viewdef(c.oid, true)
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relkind IN ('v', 'm')
		ORDER BY c.relname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		v := &schema.View{SchemaName: targetSchema}
		if err := rows.Scan(&v.Name, &v.Materialized, &v.Definition); err != nil {
			return err
		}
		snap.Views[v.Identity()] = v
	}
	return rows.Err()
}

func (s *PGSource) buildTriggers(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.relname, t.tgname,
		       CASE WHEN t.tgtype::int & 2 > 0 THEN 'BEFORE' WHEN t.tgtype::int & 64 > 0 THEN 'INSTEAD OF' ELSE 'AFTER' END,
		       CASE WHEN t.tgtype::int & 4 > 0 THEN 'ROW' ELSE 'STATEMENT' END,
		       fn.proname, fn_n.nspname
		FROM pg_trigger t
		JOIN pg_class c ON c.oid = t.tgrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_proc fn ON fn.oid = t.tgfoid
		JOIN pg_namespace fn_n ON fn_n.oid = fn.pronamespace
		WHERE n.nspname = $1 AND NOT t.tgisinternal
		ORDER BY c.relname, t.tgname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		tr := &schema.Trigger{SchemaName: targetSchema}
		var fnName, fnSchema string
		if err := rows.Scan(&tr.TableName, &tr.Name, &tr.Timing, &tr.Level, &fnName, &fnSchema); err != nil {
			return err
		}
		tr.FunctionName = fnSchema + "." + fnName
		snap.Triggers[tr.Identity()] = tr
	}
	return rows.Err()
}

func (s *PGSource) buildPolicies(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT c.relname, p.polname, p.polcmd::text, p.polpermissive,
		       COALESCE(array_to_string(p.polroles::regrole[]::text[], ','), ''),
		       COALESCE(pg_get_expr(p.polqual, p.polrelid), ''), COALESCE(pg_get_expr(p.polwithcheck, p.polrelid), '')
		FROM pg_policy p
		JOIN pg_class c ON c.oid = p.polrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		ORDER BY c.relname, p.polname`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		p := &schema.RLSPolicy{SchemaName: targetSchema}
		var roles, cmd string
		if err := rows.Scan(&p.TableName, &p.Name, &cmd, &p.Permissive, &roles, &p.Using, &p.WithCheck); err != nil {
			return err
		}
		p.Command = policyCommandName(cmd)
		if roles != "" {
			p.Roles = splitComma(roles)
		}
		snap.Policies[p.Identity()] = p
	}
	return rows.Err()
}

func policyCommandName(c string) string {
	switch c {
	case "r":
		return "SELECT"
	case "a":
		return "INSERT"
	case "w":
		return "UPDATE"
	case "d":
		return "DELETE"
	default:
		return "ALL"
	}
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func (s *PGSource) buildPrivileges(ctx context.Context, snap *schema.Snapshot, targetSchema string) error {
	rows, err := s.pool.Query(ctx, `
		SELECT grantee, table_schema, table_name, privilege_type,
		       is_grantable = 'YES'
		FROM information_schema.role_table_grants
		WHERE table_schema = $1
		ORDER BY table_name, grantee, privilege_type`, targetSchema)
	if err != nil {
		return err
	}
	defer rows.Close()
	byKey := map[string]*schema.Privilege{}
	for rows.Next() {
		var grantee, tableSchema, tableName, priv string
		var grantable bool
		if err := rows.Scan(&grantee, &tableSchema, &tableName, &priv, &grantable); err != nil {
			return err
		}
		key := "TABLE:" + tableSchema + "." + tableName + ":" + grantee
		p, ok := byKey[key]
		if !ok {
			p = &schema.Privilege{Grantee: grantee, ObjectType: "TABLE", ObjectSchema: tableSchema, ObjectName: tableName, GrantOption: grantable}
			byKey[key] = p
		}
		p.Privileges = append(p.Privileges, priv)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, p := range byKey {
		snap.Privileges[p.Identity()] = p
	}
	return nil
}
