package schema

import "fmt"

// RLSPolicy is a CREATE POLICY object.
type RLSPolicy struct {
	depSet
	SchemaName string
	TableName  string
	Name       string
	Command    string // ALL, SELECT, INSERT, UPDATE, DELETE
	Permissive bool
	Roles      []string
	Using      string
	WithCheck  string
}

func (p *RLSPolicy) Identity() string { return p.SchemaName + "." + p.TableName + "." + p.Name }
func (p *RLSPolicy) Kind() Kind       { return KindRLSPolicy }

func (p *RLSPolicy) EqualTo(other Object) bool {
	o, ok := other.(*RLSPolicy)
	if !ok || o.SchemaName != p.SchemaName || o.TableName != p.TableName || o.Name != p.Name ||
		o.Command != p.Command || o.Permissive != p.Permissive || o.Using != p.Using || o.WithCheck != p.WithCheck {
		return false
	}
	if len(o.Roles) != len(p.Roles) {
		return false
	}
	for i, r := range p.Roles {
		if o.Roles[i] != r {
			return false
		}
	}
	return true
}

func (p *RLSPolicy) roles() string {
	if len(p.Roles) == 0 {
		return "PUBLIC"
	}
	return joinComma(p.Roles)
}

func (p *RLSPolicy) CreateStatement() string {
	stmt := fmt.Sprintf("CREATE POLICY %s ON %s", QuoteIdentifier(p.Name), QualifyName(p.SchemaName, p.TableName, ""))
	if !p.Permissive {
		stmt += " AS RESTRICTIVE"
	}
	stmt += fmt.Sprintf(" FOR %s TO %s", p.Command, p.roles())
	if p.Using != "" {
		stmt += fmt.Sprintf(" USING (%s)", p.Using)
	}
	if p.WithCheck != "" {
		stmt += fmt.Sprintf(" WITH CHECK (%s)", p.WithCheck)
	}
	return stmt + ";"
}

func (p *RLSPolicy) DropStatement() string {
	return fmt.Sprintf("DROP POLICY %s ON %s;", QuoteIdentifier(p.Name), QualifyName(p.SchemaName, p.TableName, ""))
}

func (p *RLSPolicy) CanReplace(Object) bool { return false }
