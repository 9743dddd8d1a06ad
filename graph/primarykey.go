package graph

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/relgraph/scalar"
	"github.com/syssam/relgraph/schema"
)

// Key is a primary key value, one entry per key column in key order.
type Key []scalar.Value

// String returns a canonical form of k, equal for keys that compare equal
// after integer widening. Distinct keys never share a form.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = v.Key()
	}
	return strings.Join(parts, "|")
}

// HasNull reports whether any component of k is null.
func (k Key) HasNull() bool {
	for _, v := range k {
		if v.IsNull() {
			return true
		}
	}
	return false
}

// KeyCodec converts primary keys of one table to and from argument literals.
// A single-column key is the bare column scalar; a composite key is an input
// object named after the table type with one field per key column.
type KeyCodec struct {
	table *schema.Table
}

// NewKeyCodec returns the key codec of t.
func NewKeyCodec(t *schema.Table) KeyCodec {
	return KeyCodec{table: t}
}

// InputName returns the name of the composite key input object.
func (c KeyCodec) InputName() string {
	return c.table.TypeName + "Key"
}

// Register returns the primaryKey argument definition. For composite keys it
// also returns the input object the argument refers to; for single keys the
// definition is nil.
func (c KeyCodec) Register() (ast.ArgumentDefinitionList, *ast.Definition) {
	cols := c.table.KeyColumns()
	if len(cols) == 1 {
		return ast.ArgumentDefinitionList{{
			Name: ArgPrimaryKey,
			Type: ast.NonNullNamedType(cols[0].Kind.String(), nil),
		}}, nil
	}
	def := &ast.Definition{
		Kind:        ast.InputObject,
		Name:        c.InputName(),
		Description: "Primary key of " + c.table.TypeName + ".",
	}
	for _, col := range cols {
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name: col.Name,
			Type: ast.NonNullNamedType(col.Kind.String(), nil),
		})
	}
	return ast.ArgumentDefinitionList{{
		Name: ArgPrimaryKey,
		Type: ast.NonNullNamedType(def.Name, nil),
	}}, def
}

// FromExternal decodes a key literal. Decoding is all-or-nothing: a missing
// or malformed component rejects the whole key.
func (c KeyCodec) FromExternal(l scalar.Literal) (Key, bool) {
	cols := c.table.KeyColumns()
	if len(cols) == 1 {
		if v, ok := cols[0].Kind.Decode(l); ok {
			return Key{v}, true
		}
	}
	if _, ok := l.Fields(); !ok {
		return nil, false
	}
	key := make(Key, len(cols))
	for i, col := range cols {
		f, ok := l.Field(col.Name)
		if !ok {
			return nil, false
		}
		v, ok := col.Kind.Decode(f)
		if !ok {
			return nil, false
		}
		key[i] = v
	}
	return key, true
}

// ToExternal encodes k in the form FromExternal reads.
func (c KeyCodec) ToExternal(k Key) scalar.Literal {
	if len(c.table.PrimaryKey) == 1 {
		return scalar.Scalar(k[0])
	}
	fields := make([]scalar.ObjectField, len(k))
	for i, name := range c.table.PrimaryKey {
		fields[i] = scalar.Prop(name, scalar.Scalar(k[i]))
	}
	return scalar.Object(fields...)
}

// Predicate returns the equality predicate on the full key.
func (c KeyCodec) Predicate(k Key) *Predicate {
	return Equal(c.table, c.table.PrimaryKey, k)
}

// keyAt extracts the values of the given column positions from a row.
func keyAt(row []scalar.Value, idx []int) Key {
	k := make(Key, len(idx))
	for i, j := range idx {
		k[i] = row[j]
	}
	return k
}

// columnIndexes resolves column names to row positions.
func columnIndexes(t *schema.Table, names []string) []int {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = t.ColumnIndex(name)
	}
	return idx
}
