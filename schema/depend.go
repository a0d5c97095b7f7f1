package schema

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// ExtractIdentifiers parses a SELECT body (a view or materialized view
// definition) and returns the set of "schema.table" identifiers referenced
// in its FROM clause, including joins, subqueries, and CTEs. Unqualified
// names are returned bare (e.g. "orders") and must be run through
// ResolveUnqualified against a search_path before they can be matched
// against a Snapshot's table/view keys. Parse failures return an empty
// set rather than an error: a view whose body this release of pg_query_go
// cannot parse simply gets no inferred dependency edges, which only
// affects statement ordering, not correctness of the emitted DDL text.
func ExtractIdentifiers(sql string) map[string]struct{} {
	out := map[string]struct{}{}
	result, err := pg_query.Parse(sql)
	if err != nil {
		return out
	}
	for _, raw := range result.Stmts {
		walkNode(raw.Stmt, out)
	}
	return out
}

func identifierOf(schemaName, relName string) string {
	if schemaName == "" {
		return relName
	}
	return schemaName + "." + relName
}

// walkNode recurses through the subset of pg_query node kinds that can
// appear in a view-defining SELECT: range vars, joins, subselects, CTEs,
// and set operations. It is not a complete SQL walker — DML and DDL nodes
// never appear inside a view body, so they are not handled.
func walkNode(node *pg_query.Node, out map[string]struct{}) {
	if node == nil {
		return
	}
	switch n := node.Node.(type) {
	case *pg_query.Node_SelectStmt:
		walkSelect(n.SelectStmt, out)
	case *pg_query.Node_RangeVar:
		out[identifierOf(n.RangeVar.Schemaname, n.RangeVar.Relname)] = struct{}{}
	case *pg_query.Node_JoinExpr:
		walkNode(n.JoinExpr.Larg, out)
		walkNode(n.JoinExpr.Rarg, out)
	case *pg_query.Node_RangeSubselect:
		walkNode(n.RangeSubselect.Subquery, out)
	}
}

func walkSelect(stmt *pg_query.SelectStmt, out map[string]struct{}) {
	if stmt == nil {
		return
	}
	if stmt.WithClause != nil {
		for _, cte := range stmt.WithClause.Ctes {
			if c, ok := cte.Node.(*pg_query.Node_CommonTableExpr); ok {
				walkNode(c.CommonTableExpr.Ctequery, out)
			}
		}
	}
	for _, from := range stmt.FromClause {
		walkNode(from, out)
	}
	if stmt.Larg != nil {
		walkSelect(stmt.Larg, out)
	}
	if stmt.Rarg != nil {
		walkSelect(stmt.Rarg, out)
	}
}

// ResolveUnqualified maps each bare name in ids to "searchSchema.name" when
// it is not already schema-qualified, mirroring how Postgres resolves an
// unqualified relation name against search_path. Already-qualified
// identifiers (containing a ".") pass through unchanged.
func ResolveUnqualified(ids map[string]struct{}, searchSchema string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for id := range ids {
		if containsDot(id) {
			out[id] = struct{}{}
			continue
		}
		out[identifierOf(searchSchema, id)] = struct{}{}
	}
	return out
}

func containsDot(s string) bool {
	for _, r := range s {
		if r == '.' {
			return true
		}
	}
	return false
}
