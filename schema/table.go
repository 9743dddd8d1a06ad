package schema

import "github.com/go-openapi/inflect"

// Table describes a relational table exposed as a graph type.
type Table struct {
	Name       string    `json:"name"`
	TypeName   string    `json:"type_name"`
	Columns    []*Column `json:"columns"`
	PrimaryKey []string  `json:"primary_key"`
	Edges      []*Edge   `json:"edges,omitempty"`
	Comment    string    `json:"comment,omitempty"`

	columnIndex map[string]int
	edgeIndex   map[string]int
}

// Arity returns the number of declared columns.
func (t *Table) Arity() int { return len(t.Columns) }

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.columnIndex[name]
	if !ok {
		return nil, false
	}
	return t.Columns[i], true
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.columnIndex[name]; ok {
		return i
	}
	return -1
}

// Edge returns the named edge.
func (t *Table) Edge(name string) (*Edge, bool) {
	i, ok := t.edgeIndex[name]
	if !ok {
		return nil, false
	}
	return t.Edges[i], true
}

// KeyColumns returns the primary key columns in key order.
func (t *Table) KeyColumns() []*Column {
	cols := make([]*Column, len(t.PrimaryKey))
	for i, name := range t.PrimaryKey {
		cols[i], _ = t.Column(name)
	}
	return cols
}

// CompositeKey reports whether the primary key spans several columns.
func (t *Table) CompositeKey() bool { return len(t.PrimaryKey) > 1 }

// QualifiedColumn returns "table.column".
func (t *Table) QualifiedColumn(name string) string {
	return t.Name + "." + name
}

// TableBuilder is the builder for tables.
type TableBuilder struct {
	desc  *Table
	edges []*EdgeBuilder
}

// NewTable returns a table builder. The type name defaults to the
// singular, camel-cased table name ("blog_posts" becomes "BlogPost").
func NewTable(name string) *TableBuilder {
	return &TableBuilder{desc: &Table{
		Name:     name,
		TypeName: inflect.Camelize(inflect.Singularize(name)),
	}}
}

// TypeName overrides the graph type name.
func (b *TableBuilder) TypeName(name string) *TableBuilder {
	b.desc.TypeName = name
	return b
}

// Columns appends columns in declaration order.
func (b *TableBuilder) Columns(columns ...*ColumnBuilder) *TableBuilder {
	for _, c := range columns {
		b.desc.Columns = append(b.desc.Columns, c.Descriptor())
	}
	return b
}

// PrimaryKey sets the primary key columns, in key order.
func (b *TableBuilder) PrimaryKey(columns ...string) *TableBuilder {
	b.desc.PrimaryKey = columns
	return b
}

// Edges appends declared associations.
func (b *TableBuilder) Edges(edges ...*EdgeBuilder) *TableBuilder {
	b.edges = append(b.edges, edges...)
	return b
}

// Comment sets the comment of the table.
func (b *TableBuilder) Comment(c string) *TableBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the unlinked table descriptor.
func (b *TableBuilder) Descriptor() *Table {
	t := b.desc
	t.Edges = t.Edges[:0]
	for _, e := range b.edges {
		t.Edges = append(t.Edges, e.Descriptor())
	}
	return t
}
