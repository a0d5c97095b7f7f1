package schema

import "fmt"

// Sequence is a CREATE SEQUENCE object. Sequences owned by a SERIAL/IDENTITY
// column (OwnedByTable/OwnedByColumn set) are diffed like any other
// sequence; ownership only adds a DependentOn edge to the owning table in
// Snapshot.Link.
type Sequence struct {
	depSet
	SchemaName    string
	Name          string
	DataType      string
	Increment     int64
	MinValue      int64
	MaxValue      int64
	StartValue    int64
	CacheSize     int64
	Cycle         bool
	OwnedByTable  string
	OwnedByColumn string
}

func (s *Sequence) Identity() string { return s.SchemaName + "." + s.Name }
func (s *Sequence) Kind() Kind       { return KindSequence }

func (s *Sequence) EqualTo(other Object) bool {
	o, ok := other.(*Sequence)
	if !ok {
		return false
	}
	return o.SchemaName == s.SchemaName && o.Name == s.Name && o.DataType == s.DataType &&
		o.Increment == s.Increment && o.MinValue == s.MinValue && o.MaxValue == s.MaxValue &&
		o.StartValue == s.StartValue && o.CacheSize == s.CacheSize && o.Cycle == s.Cycle
}

func (s *Sequence) CreateStatement() string {
	cycle := ""
	if s.Cycle {
		cycle = " CYCLE"
	}
	return fmt.Sprintf(
		"CREATE SEQUENCE %s AS %s INCREMENT BY %d MINVALUE %d MAXVALUE %d START WITH %d CACHE %d%s;",
		QualifyName(s.SchemaName, s.Name, ""), s.DataType, s.Increment, s.MinValue, s.MaxValue, s.StartValue, s.CacheSize, cycle,
	)
}

func (s *Sequence) DropStatement() string {
	return fmt.Sprintf("DROP SEQUENCE %s;", QualifyName(s.SchemaName, s.Name, ""))
}

func (s *Sequence) CanReplace(Object) bool { return false }
