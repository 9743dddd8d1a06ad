package graph

import (
	"slices"

	"github.com/syssam/relgraph/scalar"
)

// Argument names read from a selection.
const (
	ArgFilter     = "filter"
	ArgOrder      = "order"
	ArgLimit      = "limit"
	ArgOffset     = "offset"
	ArgPrimaryKey = "primaryKey"
	ArgInput      = "input"
)

// Field is one requested field of a selection level.
type Field struct {
	Name  string
	Alias string
}

// Key returns the response key of the field: its alias, or its name.
func (f Field) Key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Selection is a read-only view of one level of a client request.
type Selection interface {
	// Fields returns the requested fields in request order.
	Fields() []Field
	// HasField reports whether a field with the given name was requested.
	HasField(name string) bool
	// Argument returns the literal passed for the named argument.
	Argument(name string) (scalar.Literal, bool)
	// Child returns the sub-selection of the field with the given response key.
	Child(key string) (Selection, bool)
}

// Empty is a selection with no fields and no arguments.
var Empty Selection = NewRequest()

// Request is an immutable in-memory Selection. Every method returns a new
// request and leaves the receiver untouched.
//
//	req := graph.NewRequest().
//	    Field("id").
//	    Field("name").
//	    Field("posts", graph.NewRequest().Field("title").Arg("limit", 3))
type Request struct {
	fields []requestField
	args   []requestArg
}

type requestField struct {
	Field
	sub *Request
}

type requestArg struct {
	name  string
	value scalar.Literal
}

// NewRequest returns an empty request.
func NewRequest() *Request { return &Request{} }

// Field appends a field, with an optional sub-selection.
func (r *Request) Field(name string, sub ...*Request) *Request {
	return r.Alias("", name, sub...)
}

// Alias appends a field answered under alias.
func (r *Request) Alias(alias, name string, sub ...*Request) *Request {
	f := requestField{Field: Field{Name: name, Alias: alias}}
	if len(sub) > 0 {
		f.sub = sub[0]
	}
	c := r.clone()
	c.fields = append(c.fields, f)
	return c
}

// Arg sets an argument. The value is either a scalar.Literal or a Go value
// accepted by scalar.FromGo; Arg panics on any other value.
func (r *Request) Arg(name string, v any) *Request {
	lit, ok := v.(scalar.Literal)
	if !ok {
		lit = scalar.MustFromGo(v)
	}
	c := r.clone()
	c.args = slices.DeleteFunc(c.args, func(a requestArg) bool { return a.name == name })
	c.args = append(c.args, requestArg{name: name, value: lit})
	return c
}

func (r *Request) clone() *Request {
	return &Request{
		fields: slices.Clone(r.fields),
		args:   slices.Clone(r.args),
	}
}

// Fields implements Selection.
func (r *Request) Fields() []Field {
	fields := make([]Field, len(r.fields))
	for i, f := range r.fields {
		fields[i] = f.Field
	}
	return fields
}

// HasField implements Selection.
func (r *Request) HasField(name string) bool {
	return slices.ContainsFunc(r.fields, func(f requestField) bool { return f.Name == name })
}

// Argument implements Selection.
func (r *Request) Argument(name string) (scalar.Literal, bool) {
	for _, a := range r.args {
		if a.name == name {
			return a.value, true
		}
	}
	return scalar.Literal{}, false
}

// Child implements Selection.
func (r *Request) Child(key string) (Selection, bool) {
	for _, f := range r.fields {
		if f.Key() == key {
			if f.sub == nil {
				return Empty, true
			}
			return f.sub, true
		}
	}
	return nil, false
}

// argument returns a non-null argument literal.
func argument(sel Selection, name string) (scalar.Literal, bool) {
	l, ok := sel.Argument(name)
	if !ok || l.IsNull() {
		return scalar.Literal{}, false
	}
	return l, true
}

// child returns the sub-selection of f, or Empty.
func child(sel Selection, f Field) Selection {
	if c, ok := sel.Child(f.Key()); ok && c != nil {
		return c
	}
	return Empty
}
