package schema

import "fmt"

// Privilege is an explicit GRANT on a single object to a single grantee.
type Privilege struct {
	Grantee      string
	ObjectType   string // TABLE, SEQUENCE, FUNCTION, SCHEMA, ...
	ObjectSchema string
	ObjectName   string
	Privileges   []string // e.g. {"SELECT", "INSERT"}
	GrantOption  bool
}

func (p *Privilege) Identity() string {
	return fmt.Sprintf("%s:%s.%s:%s", p.ObjectType, p.ObjectSchema, p.ObjectName, p.Grantee)
}

func (p *Privilege) Kind() Kind { return KindPrivilege }

func (p *Privilege) EqualTo(other Object) bool {
	o, ok := other.(*Privilege)
	if !ok || o.Grantee != p.Grantee || o.ObjectType != p.ObjectType ||
		o.ObjectSchema != p.ObjectSchema || o.ObjectName != p.ObjectName || o.GrantOption != p.GrantOption {
		return false
	}
	if len(o.Privileges) != len(p.Privileges) {
		return false
	}
	for i, v := range p.Privileges {
		if o.Privileges[i] != v {
			return false
		}
	}
	return true
}

func (p *Privilege) Dependents() map[string]struct{}    { return nil }
func (p *Privilege) DependentsAll() map[string]struct{} { return nil }

func (p *Privilege) DependentOn() map[string]struct{} {
	return map[string]struct{}{p.ObjectSchema + "." + p.ObjectName: {}}
}

func (p *Privilege) CreateStatement() string {
	grant := fmt.Sprintf("GRANT %s ON %s %s TO %s",
		joinComma(p.Privileges), p.ObjectType, QualifyName(p.ObjectSchema, p.ObjectName, ""), QuoteIdentifier(p.Grantee))
	if p.GrantOption {
		grant += " WITH GRANT OPTION"
	}
	return grant + ";"
}

func (p *Privilege) DropStatement() string {
	return fmt.Sprintf("REVOKE %s ON %s %s FROM %s;",
		joinComma(p.Privileges), p.ObjectType, QualifyName(p.ObjectSchema, p.ObjectName, ""), QuoteIdentifier(p.Grantee))
}

func (p *Privilege) CanReplace(Object) bool { return false }

func joinComma(items []string) string {
	out := ""
	for i, v := range items {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}
