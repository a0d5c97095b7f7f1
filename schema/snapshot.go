package schema

// Snapshot is one complete introspected schema state: every object the
// diff engine operates over, grouped by kind and keyed by Identity. An
// introspector or a test fixture builds a Snapshot and calls Link before
// handing it to the diff engine.
type Snapshot struct {
	Schemas     map[string]*Schema     `json:"schemas"`
	Extensions  map[string]*Extension  `json:"extensions"`
	Collations  map[string]*Collation  `json:"collations"`
	Enums       map[string]*Enum       `json:"enums"`
	Sequences   map[string]*Sequence   `json:"sequences"`
	Tables      map[string]*Table      `json:"tables"`
	Views       map[string]*View       `json:"views"`
	Functions   map[string]*Function   `json:"functions"`
	Constraints map[string]*Constraint `json:"constraints"`
	Indexes     map[string]*Index      `json:"indexes"`
	Triggers    map[string]*Trigger    `json:"triggers"`
	Policies    map[string]*RLSPolicy  `json:"policies"`
	Privileges  map[string]*Privilege  `json:"privileges"`
}

// NewSnapshot returns a Snapshot with every map initialized, so callers can
// populate it field by field without nil-map panics.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Schemas:     map[string]*Schema{},
		Extensions:  map[string]*Extension{},
		Collations:  map[string]*Collation{},
		Enums:       map[string]*Enum{},
		Sequences:   map[string]*Sequence{},
		Tables:      map[string]*Table{},
		Views:       map[string]*View{},
		Functions:   map[string]*Function{},
		Constraints: map[string]*Constraint{},
		Indexes:     map[string]*Index{},
		Triggers:    map[string]*Trigger{},
		Policies:    map[string]*RLSPolicy{},
		Privileges:  map[string]*Privilege{},
	}
}

// Link walks the whole object graph and wires the DependentOn/Dependents
// edges that individual object constructors cannot know on their own,
// since they are built one row at a time during introspection before the
// rest of the graph exists. Call this once a Snapshot is fully populated
// and before handing it to the diff engine.
func (s *Snapshot) Link() {
	for _, t := range s.Tables {
		if _, ok := s.Schemas[t.SchemaName]; ok {
			t.addDependentOn(t.SchemaName)
		}
		if t.ParentTable != "" {
			t.addDependentOn(t.ParentTable)
			if parent, ok := s.Tables[t.ParentTable]; ok {
				parent.addDependent(t.Identity())
			}
		}
		for _, c := range t.Columns {
			if c.IsEnum && c.Enum != "" {
				t.addDependentOn(c.Enum)
				if e, ok := s.Enums[c.Enum]; ok {
					e.addDependent(t.Identity())
				}
			}
		}
	}

	for _, c := range s.Constraints {
		tableID := c.SchemaName + "." + c.TableName
		c.addDependentOn(tableID)
		if tbl, ok := s.Tables[tableID]; ok {
			tbl.addDependent(c.Identity())
		}
		if c.Type == ConstraintTypeForeignKey && c.RefTableName != "" {
			refID := c.RefSchemaName + "." + c.RefTableName
			c.addDependentOn(refID)
			if ref, ok := s.Tables[refID]; ok {
				ref.addDependent(c.Identity())
			}
		}
	}

	for _, i := range s.Indexes {
		tableID := i.SchemaName + "." + i.TableName
		i.addDependentOn(tableID)
		if tbl, ok := s.Tables[tableID]; ok {
			tbl.addDependent(i.Identity())
		}
	}

	for _, tr := range s.Triggers {
		tableID := tr.SchemaName + "." + tr.TableName
		tr.addDependentOn(tableID)
		if tbl, ok := s.Tables[tableID]; ok {
			tbl.addDependent(tr.Identity())
		}
		if fn, ok := lookupFunctionByName(s.Functions, tr.FunctionName); ok {
			tr.addDependentOn(fn.Identity())
			fn.addDependent(tr.Identity())
		}
	}

	for _, p := range s.Policies {
		tableID := p.SchemaName + "." + p.TableName
		p.addDependentOn(tableID)
		if tbl, ok := s.Tables[tableID]; ok {
			tbl.addDependent(p.Identity())
		}
	}

	for _, v := range s.Views {
		if _, ok := s.Schemas[v.SchemaName]; ok {
			v.addDependentOn(v.SchemaName)
		}
		for ident := range ResolveUnqualified(ExtractIdentifiers(v.Definition), v.SchemaName) {
			if tbl, ok := s.Tables[ident]; ok {
				v.addDependentOn(tbl.Identity())
				tbl.addDependent(v.Identity())
			} else if dep, ok := s.Views[ident]; ok && dep.Identity() != v.Identity() {
				v.addDependentOn(dep.Identity())
				dep.addDependent(v.Identity())
			}
		}
	}

	for _, f := range s.Functions {
		if _, ok := s.Schemas[f.SchemaName]; ok {
			f.addDependentOn(f.SchemaName)
		}
	}

	for _, sq := range s.Sequences {
		if sq.OwnedByTable != "" {
			ownerID := sq.SchemaName + "." + sq.OwnedByTable
			sq.addDependentOn(ownerID)
			if tbl, ok := s.Tables[ownerID]; ok {
				tbl.addDependent(sq.Identity())
			}
		}
	}

	s.propagateDependentsAll()
}

// propagateDependentsAll computes each object's transitive-closure
// dependents set (DependentsAll), used by the selectable coordinator to
// find the dependents of a changed object that must be promoted (dropped
// and recreated). Direct Dependents are already populated above;
// this is a fixed-point expansion over those direct edges.
func (s *Snapshot) propagateDependentsAll() {
	all := s.allObjects()
	direct := map[string]map[string]struct{}{}
	for id, obj := range all {
		direct[id] = obj.Dependents()
	}

	closure := map[string]map[string]struct{}{}
	for id := range all {
		closure[id] = map[string]struct{}{}
	}

	changed := true
	for changed {
		changed = false
		for id := range all {
			for dep := range direct[id] {
				if _, ok := closure[id][dep]; !ok {
					closure[id][dep] = struct{}{}
					changed = true
				}
				for grand := range closure[dep] {
					if _, ok := closure[id][grand]; !ok {
						closure[id][grand] = struct{}{}
						changed = true
					}
				}
			}
		}
	}

	for id, obj := range all {
		if setter, ok := obj.(interface{ setDependentsAll(map[string]struct{}) }); ok {
			setter.setDependentsAll(closure[id])
		}
	}
}

// allObjects returns every object that carries a real depSet. Schema,
// Extension, Collation, and Privilege always report empty Dependents sets,
// so they are excluded here; there is nothing for the closure below to
// compute for them.
func (s *Snapshot) allObjects() map[string]Object {
	out := map[string]Object{}
	for _, v := range s.Tables {
		out[v.Identity()] = v
	}
	for _, v := range s.Enums {
		out[v.Identity()] = v
	}
	for _, v := range s.Views {
		out[v.Identity()] = v
	}
	for _, v := range s.Functions {
		out[v.Identity()] = v
	}
	for _, v := range s.Constraints {
		out[v.Identity()] = v
	}
	for _, v := range s.Indexes {
		out[v.Identity()] = v
	}
	for _, v := range s.Triggers {
		out[v.Identity()] = v
	}
	for _, v := range s.Policies {
		out[v.Identity()] = v
	}
	for _, v := range s.Sequences {
		out[v.Identity()] = v
	}
	return out
}

func lookupFunctionByName(fns map[string]*Function, name string) (*Function, bool) {
	for _, f := range fns {
		if f.SchemaName+"."+f.Name == name {
			return f, true
		}
	}
	return nil, false
}
