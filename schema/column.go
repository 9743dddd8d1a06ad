package schema

import "github.com/syssam/relgraph/scalar"

// Column describes one declared column of a table.
type Column struct {
	Name     string      `json:"name" yaml:"name"`
	Kind     scalar.Kind `json:"kind" yaml:"-"`
	Nullable bool        `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Comment  string      `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ColumnBuilder is the builder for columns.
type ColumnBuilder struct {
	desc *Column
}

// Field returns a column builder for the given kind.
func Field(name string, kind scalar.Kind) *ColumnBuilder {
	return &ColumnBuilder{desc: &Column{Name: name, Kind: kind}}
}

// SmallInt returns a new 16-bit integer column.
func SmallInt(name string) *ColumnBuilder { return Field(name, scalar.SmallInt) }

// Int returns a new 32-bit integer column.
func Int(name string) *ColumnBuilder { return Field(name, scalar.Int) }

// BigInt returns a new 64-bit integer column.
func BigInt(name string) *ColumnBuilder { return Field(name, scalar.BigInt) }

// Float returns a new 32-bit floating point column.
func Float(name string) *ColumnBuilder { return Field(name, scalar.Float) }

// Double returns a new 64-bit floating point column.
func Double(name string) *ColumnBuilder { return Field(name, scalar.Double) }

// String returns a new text column.
func String(name string) *ColumnBuilder { return Field(name, scalar.String) }

// Bool returns a new boolean column.
func Bool(name string) *ColumnBuilder { return Field(name, scalar.Boolean) }

// Timestamp returns a new timestamp column. Requires scalar.Timestamps.
func Timestamp(name string) *ColumnBuilder { return Field(name, scalar.Timestamp) }

// Date returns a new date column. Requires scalar.Timestamps.
func Date(name string) *ColumnBuilder { return Field(name, scalar.Date) }

// UUID returns a new UUID column. Requires scalar.UUIDs.
func UUID(name string) *ColumnBuilder { return Field(name, scalar.UUID) }

// ID returns a new identifier column, exposed as a string.
func ID(name string) *ColumnBuilder { return Field(name, scalar.ID) }

// Nullable indicates that the column may hold NULL.
func (b *ColumnBuilder) Nullable() *ColumnBuilder {
	b.desc.Nullable = true
	return b
}

// Comment sets the comment of the column.
func (b *ColumnBuilder) Comment(c string) *ColumnBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the column descriptor.
func (b *ColumnBuilder) Descriptor() *Column {
	return b.desc
}
