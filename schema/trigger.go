package schema

import "fmt"

// Trigger is a CREATE TRIGGER object. FunctionName is schema-qualified and
// is registered as a DependentOn edge so triggers are created after the
// function they call.
type Trigger struct {
	depSet
	SchemaName   string
	TableName    string
	Name         string
	Timing       string // BEFORE, AFTER, INSTEAD OF
	Events       string // "INSERT OR UPDATE OR DELETE"
	Level        string // ROW, STATEMENT
	FunctionName string // schema-qualified
	When         string // optional WHEN (...) clause, empty if none
}

func (t *Trigger) Identity() string { return t.SchemaName + "." + t.TableName + "." + t.Name }
func (t *Trigger) Kind() Kind       { return KindTrigger }

func (t *Trigger) EqualTo(other Object) bool {
	o, ok := other.(*Trigger)
	return ok && o.SchemaName == t.SchemaName && o.TableName == t.TableName && o.Name == t.Name &&
		o.Timing == t.Timing && o.Events == t.Events && o.Level == t.Level &&
		o.FunctionName == t.FunctionName && o.When == t.When
}

func (t *Trigger) CreateStatement() string {
	when := ""
	if t.When != "" {
		when = fmt.Sprintf(" WHEN (%s)", t.When)
	}
	return fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s FOR EACH %s%s EXECUTE FUNCTION %s();",
		QuoteIdentifier(t.Name), t.Timing, t.Events, QualifyName(t.SchemaName, t.TableName, ""), t.Level, when, t.FunctionName)
}

func (t *Trigger) DropStatement() string {
	return fmt.Sprintf("DROP TRIGGER %s ON %s;", QuoteIdentifier(t.Name), QualifyName(t.SchemaName, t.TableName, ""))
}

func (t *Trigger) CanReplace(Object) bool { return false }
