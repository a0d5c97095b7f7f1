package schema

import (
	"strings"
	"unicode"
)

// reservedWords are PostgreSQL keywords that force identifier quoting.
// Based on the PostgreSQL 17 key word appendix.
var reservedWords = map[string]bool{
	"all": true, "and": true, "any": true, "array": true, "as": true,
	"asymmetric": true, "authorization": true, "between": true, "bigint": true,
	"by": true, "binary": true, "boolean": true, "both": true, "case": true,
	"cast": true, "char": true, "character": true, "check": true, "collate": true,
	"collation": true, "column": true, "constraint": true, "create": true,
	"cross": true, "current_catalog": true, "current_date": true,
	"current_role": true, "current_schema": true, "current_time": true,
	"current_timestamp": true, "current_user": true,
	"default": true, "deferrable": true, "delete": true, "distinct": true,
	"do": true, "else": true, "end": true, "except": true, "exists": true,
	"false": true, "fetch": true, "filter": true, "for": true, "foreign": true,
	"freeze": true, "from": true,
	"grant": true, "group": true, "having": true, "ilike": true, "in": true,
	"initially": true, "inner": true, "insert": true, "intersect": true,
	"into": true, "is": true, "isnull": true, "join": true, "lateral": true,
	"left": true, "like": true, "limit": true,
	"natural": true, "not": true, "null": true, "of": true, "offset": true,
	"on": true, "only": true, "or": true, "order": true, "outer": true,
	"primary": true,
	"references": true, "returning": true, "right": true, "select": true,
	"similar": true, "some": true, "symmetric": true, "system_user": true,
	"table": true, "tablesample": true, "then": true, "to": true,
	"trailing": true, "true": true, "union": true, "update": true,
	"unique": true, "user": true, "using": true, "variadic": true,
	"verbose": true, "when": true, "where": true, "window": true,
	"with": true, "within": true,
}

// NeedsQuoting reports whether identifier requires double-quoting to
// round-trip through Postgres unchanged.
func NeedsQuoting(identifier string) bool {
	if identifier == "" {
		return false
	}
	if reservedWords[strings.ToLower(identifier)] {
		return true
	}
	for _, r := range identifier {
		if unicode.IsUpper(r) {
			return true
		}
	}
	for i, r := range identifier {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return true
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return true
		}
	}
	return false
}

// QuoteIdentifier double-quotes identifier only when NeedsQuoting.
func QuoteIdentifier(identifier string) string {
	if NeedsQuoting(identifier) {
		return `"` + identifier + `"`
	}
	return identifier
}

// QualifyName renders "schema"."name" unless entitySchema matches the
// surrounding target schema, in which case the schema prefix is omitted.
func QualifyName(entitySchema, entityName, targetSchema string) string {
	quotedName := QuoteIdentifier(entityName)
	if entitySchema == targetSchema || entitySchema == "" {
		return quotedName
	}
	return QuoteIdentifier(entitySchema) + "." + quotedName
}

// QuoteLiteral escapes a string for use as a single-quoted SQL literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
