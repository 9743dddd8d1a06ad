package schema

// Relation is the direction of a declared association.
type Relation uint8

// Relation kinds.
const (
	// BelongsTo is a to-one association: the owning table holds the
	// foreign key and references the target's key.
	BelongsTo Relation = iota + 1
	// HasMany is a to-many association: the target table holds a foreign
	// key referencing the owning table's key.
	HasMany
)

// String returns the relation name.
func (r Relation) String() string {
	switch r {
	case BelongsTo:
		return "belongs_to"
	case HasMany:
		return "has_many"
	default:
		return "invalid"
	}
}

// Unique reports whether the association resolves to at most one row.
func (r Relation) Unique() bool { return r == BelongsTo }

// Edge describes a declared association. Columns are on the owning table
// and RefColumns on the target; the two lists pair up positionally, so
// rows join where Columns[i] = RefColumns[i] for every i.
type Edge struct {
	Name       string   `json:"name"`
	Relation   Relation `json:"relation"`
	Target     string   `json:"target"`
	Columns    []string `json:"columns"`
	RefColumns []string `json:"ref_columns"`
	// Optional reports whether a to-one edge may resolve to null. It is
	// set when any of the local columns is nullable.
	Optional bool   `json:"optional,omitempty"`
	Comment  string `json:"comment,omitempty"`

	owner  *Table
	target *Table
}

// Owner returns the table declaring the edge.
func (e *Edge) Owner() *Table { return e.owner }

// TargetTable returns the linked target table.
func (e *Edge) TargetTable() *Table { return e.target }

// EdgeBuilder is the builder for edges.
type EdgeBuilder struct {
	desc *Edge
}

// To declares a to-one edge whose foreign key columns live on the owning
// table. By default they reference the target's primary key.
//
//	schema.To("author", "people", "author_id")
func To(name, target string, columns ...string) *EdgeBuilder {
	return &EdgeBuilder{desc: &Edge{
		Name:     name,
		Relation: BelongsTo,
		Target:   target,
		Columns:  columns,
	}}
}

// From declares a to-many edge whose foreign key columns live on the target
// table. By default they reference the owning table's primary key.
//
//	schema.From("posts", "posts", "author_id")
func From(name, target string, refColumns ...string) *EdgeBuilder {
	return &EdgeBuilder{desc: &Edge{
		Name:       name,
		Relation:   HasMany,
		Target:     target,
		RefColumns: refColumns,
	}}
}

// References overrides the columns the foreign key points at: the target
// columns for To, and the owning columns for From.
func (b *EdgeBuilder) References(columns ...string) *EdgeBuilder {
	if b.desc.Relation == BelongsTo {
		b.desc.RefColumns = columns
	} else {
		b.desc.Columns = columns
	}
	return b
}

// Optional marks a to-one edge as nullable even if its columns are not.
func (b *EdgeBuilder) Optional() *EdgeBuilder {
	b.desc.Optional = true
	return b
}

// Comment sets the comment of the edge.
func (b *EdgeBuilder) Comment(c string) *EdgeBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the edge descriptor.
func (b *EdgeBuilder) Descriptor() *Edge {
	return b.desc
}
