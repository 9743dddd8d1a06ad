package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/syssam/relgraph/scalar"
)

// validIdentifierRe validates SQL identifiers (alphanumeric and underscores).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// TypenameField is the meta field every table answers with its type name.
const TypenameField = "__typename"

// Schema is a validated set of tables with linked edges.
type Schema struct {
	tables   []*Table
	byName   map[string]*Table
	features scalar.Features
}

// Config holds the schema-wide settings applied by Build.
type Config struct {
	// Features enables extension kinds.
	Features scalar.Features
}

// New builds a schema with every extension kind disabled.
func New(tables ...*TableBuilder) (*Schema, error) {
	return Config{}.Build(tables...)
}

// Build validates the tables and links their edges.
func (c Config) Build(tables ...*TableBuilder) (*Schema, error) {
	descs := make([]*Table, len(tables))
	for i, b := range tables {
		descs[i] = b.Descriptor()
	}
	return c.build(descs)
}

func (c Config) build(tables []*Table) (*Schema, error) {
	s := &Schema{
		tables:   tables,
		byName:   make(map[string]*Table, len(tables)),
		features: c.Features,
	}
	var errs []error
	types := make(map[string]string, len(tables))
	for _, t := range tables {
		if _, ok := s.byName[t.Name]; ok {
			errs = append(errs, fmt.Errorf("schema: duplicate table %q", t.Name))
			continue
		}
		if other, ok := types[t.TypeName]; ok {
			errs = append(errs, fmt.Errorf("schema: tables %q and %q share type name %q", other, t.Name, t.TypeName))
		}
		types[t.TypeName] = t.Name
		s.byName[t.Name] = t
		errs = append(errs, c.checkTable(t)...)
	}
	for _, t := range tables {
		for _, e := range t.Edges {
			if err := s.link(t, e); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

func (c Config) checkTable(t *Table) []error {
	var errs []error
	if !isValidIdentifier(t.Name) {
		errs = append(errs, fmt.Errorf("schema: invalid table name %q", t.Name))
	}
	if !isValidIdentifier(t.TypeName) {
		errs = append(errs, fmt.Errorf("schema: table %q: invalid type name %q", t.Name, t.TypeName))
	}
	if len(t.Columns) == 0 {
		errs = append(errs, fmt.Errorf("schema: table %q declares no columns", t.Name))
	}
	t.columnIndex = make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		switch _, dup := t.columnIndex[col.Name]; {
		case !isValidIdentifier(col.Name), col.Name == TypenameField:
			errs = append(errs, fmt.Errorf("schema: table %q: invalid column name %q", t.Name, col.Name))
		case dup:
			errs = append(errs, fmt.Errorf("schema: table %q: duplicate column %q", t.Name, col.Name))
		case !col.Kind.Valid():
			errs = append(errs, fmt.Errorf("schema: column %q: invalid kind", t.QualifiedColumn(col.Name)))
		case !c.Features.Has(col.Kind.Requires()):
			errs = append(errs, fmt.Errorf("schema: column %q: kind %s is not enabled", t.QualifiedColumn(col.Name), col.Kind))
		}
		t.columnIndex[col.Name] = i
	}
	if len(t.PrimaryKey) == 0 {
		errs = append(errs, fmt.Errorf("schema: table %q declares no primary key", t.Name))
	}
	seen := make(map[string]bool, len(t.PrimaryKey))
	for _, name := range t.PrimaryKey {
		col, ok := t.Column(name)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("schema: table %q: primary key column %q is not declared", t.Name, name))
		case seen[name]:
			errs = append(errs, fmt.Errorf("schema: table %q: primary key column %q repeated", t.Name, name))
		case col.Nullable:
			errs = append(errs, fmt.Errorf("schema: table %q: primary key column %q is nullable", t.Name, name))
		}
		seen[name] = true
	}
	t.edgeIndex = make(map[string]int, len(t.Edges))
	for i, e := range t.Edges {
		_, col := t.columnIndex[e.Name]
		_, dup := t.edgeIndex[e.Name]
		switch {
		case !isValidIdentifier(e.Name), e.Name == TypenameField:
			errs = append(errs, fmt.Errorf("schema: table %q: invalid edge name %q", t.Name, e.Name))
		case col:
			errs = append(errs, fmt.Errorf("schema: table %q: edge %q collides with a column", t.Name, e.Name))
		case dup:
			errs = append(errs, fmt.Errorf("schema: table %q: duplicate edge %q", t.Name, e.Name))
		}
		t.edgeIndex[e.Name] = i
	}
	return errs
}

// link resolves the edge target, fills in defaulted join columns and checks
// that both sides pair up.
func (s *Schema) link(owner *Table, e *Edge) error {
	target, ok := s.byName[e.Target]
	if !ok {
		return fmt.Errorf("schema: edge %s.%s: unknown target table %q", owner.Name, e.Name, e.Target)
	}
	e.owner, e.target = owner, target
	switch e.Relation {
	case BelongsTo:
		if len(e.RefColumns) == 0 {
			e.RefColumns = target.PrimaryKey
		}
	case HasMany:
		if len(e.Columns) == 0 {
			e.Columns = owner.PrimaryKey
		}
	default:
		return fmt.Errorf("schema: edge %s.%s: invalid relation", owner.Name, e.Name)
	}
	if len(e.Columns) == 0 || len(e.Columns) != len(e.RefColumns) {
		return fmt.Errorf("schema: edge %s.%s: %d local columns do not pair with %d target columns",
			owner.Name, e.Name, len(e.Columns), len(e.RefColumns))
	}
	for i := range e.Columns {
		local, ok := owner.Column(e.Columns[i])
		if !ok {
			return fmt.Errorf("schema: edge %s.%s: column %q is not declared", owner.Name, e.Name, e.Columns[i])
		}
		remote, ok := target.Column(e.RefColumns[i])
		if !ok {
			return fmt.Errorf("schema: edge %s.%s: column %q is not declared", owner.Name, e.Name, target.QualifiedColumn(e.RefColumns[i]))
		}
		if !joinable(local.Kind, remote.Kind) {
			return fmt.Errorf("schema: edge %s.%s: cannot join %s to %s",
				owner.Name, e.Name, local.Kind, remote.Kind)
		}
		if e.Relation == BelongsTo && local.Nullable {
			e.Optional = true
		}
	}
	return nil
}

// joinable reports whether keys of the two kinds compare equal through
// scalar.Value.Key.
func joinable(a, b scalar.Kind) bool {
	switch {
	case a == b:
		return true
	case a.Integer() || a == scalar.ID:
		return b.Integer() || b == scalar.ID
	}
	return false
}

// Tables returns the tables in declaration order.
func (s *Schema) Tables() []*Table { return s.tables }

// Table returns the named table.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Features returns the enabled extension kinds.
func (s *Schema) Features() scalar.Features { return s.features }
