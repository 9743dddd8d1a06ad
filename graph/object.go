package graph

import (
	"bytes"
	"encoding/json"

	"github.com/syssam/relgraph"
)

// Entry is one field of a response object.
type Entry struct {
	Key   string
	Value any
}

// Object is one resolved row: its requested fields in request order, keyed
// by response key. Values are nil, a scalar.Value, a string (for
// __typename), an *Object (to-one edge) or a []*Object (to-many edge).
type Object struct {
	entries []Entry
}

// Set sets the value under key. An existing key keeps its position.
func (o *Object) Set(key string, v any) {
	for i := range o.entries {
		if o.entries[i].Key == key {
			o.entries[i].Value = v
			return
		}
	}
	o.entries = append(o.entries, Entry{Key: key, Value: v})
}

// Get returns the value under key.
func (o *Object) Get(key string) (any, bool) {
	for _, e := range o.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the response keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the fields in order.
func (o *Object) Entries() []Entry { return o.entries }

// MarshalJSON implements json.Marshaler, keeping the field order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range o.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// EdgeState holds the objects of one edge of one row. The zero value is not
// loaded.
type EdgeState struct {
	name   string
	loaded bool
	items  []*Object
}

// NotLoaded returns the state of an edge the resolver has not visited.
func NotLoaded(name string) EdgeState {
	return EdgeState{name: name}
}

// Loaded returns the state of a resolved edge.
func Loaded(name string, items []*Object) EdgeState {
	if items == nil {
		items = []*Object{}
	}
	return EdgeState{name: name, loaded: true, items: items}
}

// IsLoaded reports whether the edge was resolved.
func (s EdgeState) IsLoaded() bool { return s.loaded }

// Items returns the resolved objects. Reading an edge that was never loaded
// is a bug in the resolver and panics with a *relgraph.NotLoadedError.
func (s EdgeState) Items() []*Object {
	if !s.loaded {
		panic(relgraph.NewNotLoadedError(s.name))
	}
	return s.items
}

// Unique returns the single resolved object, or nil.
func (s EdgeState) Unique() *Object {
	items := s.Items()
	if len(items) == 0 {
		return nil
	}
	return items[0]
}
