package scalar

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LiteralKind tags the shape of an argument literal.
type LiteralKind uint8

// Literal shapes.
const (
	NullLiteral LiteralKind = iota
	ScalarLiteral
	EnumLiteral
	ListLiteral
	ObjectLiteral
)

// Literal is an input value as written by a client: a scalar, an enum
// name, a list, an object with ordered fields, or null.
type Literal struct {
	kind   LiteralKind
	value  Value
	enum   string
	items  []Literal
	fields []ObjectField
}

// ObjectField is one named entry of an object literal.
type ObjectField struct {
	Name  string
	Value Literal
}

// NullLit returns the null literal.
func NullLit() Literal { return Literal{} }

// Scalar returns a scalar literal.
func Scalar(v Value) Literal {
	if v.IsNull() {
		return Literal{}
	}
	return Literal{kind: ScalarLiteral, value: v}
}

// Enum returns an enum literal.
func Enum(name string) Literal { return Literal{kind: EnumLiteral, enum: name} }

// List returns a list literal.
func List(items ...Literal) Literal { return Literal{kind: ListLiteral, items: items} }

// Object returns an object literal with fields in the given order.
func Object(fields ...ObjectField) Literal { return Literal{kind: ObjectLiteral, fields: fields} }

// Prop returns an object field.
func Prop(name string, v Literal) ObjectField { return ObjectField{Name: name, Value: v} }

// Kind returns the literal shape.
func (l Literal) Kind() LiteralKind { return l.kind }

// IsNull reports whether l is the null literal.
func (l Literal) IsNull() bool { return l.kind == NullLiteral }

// Scalar returns the scalar held by l.
func (l Literal) Scalar() (Value, bool) {
	return l.value, l.kind == ScalarLiteral
}

// Enum returns the enum name held by l.
func (l Literal) Enum() (string, bool) {
	return l.enum, l.kind == EnumLiteral
}

// Items returns the elements of a list literal.
func (l Literal) Items() ([]Literal, bool) {
	return l.items, l.kind == ListLiteral
}

// Fields returns the fields of an object literal.
func (l Literal) Fields() ([]ObjectField, bool) {
	return l.fields, l.kind == ObjectLiteral
}

// Field returns the named field of an object literal. The second result is
// false when l is not an object or has no such field.
func (l Literal) Field(name string) (Literal, bool) {
	if l.kind != ObjectLiteral {
		return Literal{}, false
	}
	for _, f := range l.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Literal{}, false
}

// String renders l in GraphQL input syntax.
func (l Literal) String() string {
	var b strings.Builder
	l.write(&b)
	return b.String()
}

func (l Literal) write(b *strings.Builder) {
	switch l.kind {
	case NullLiteral:
		b.WriteString("null")
	case ScalarLiteral:
		switch l.value.Kind() {
		case SmallInt, Int, BigInt, Float, Double, Boolean:
			b.WriteString(l.value.String())
		default:
			b.WriteString(strconv.Quote(l.value.String()))
		}
	case EnumLiteral:
		b.WriteString(l.enum)
	case ListLiteral:
		b.WriteByte('[')
		for i, it := range l.items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.write(b)
		}
		b.WriteByte(']')
	case ObjectLiteral:
		b.WriteByte('{')
		for i, f := range l.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Value.write(b)
		}
		b.WriteByte('}')
	}
}

// FromGo converts a Go value into a literal. Integers and floats narrow to
// the smallest scalar kind that holds them, as a parsed literal would. JSON
// input should be decoded with UseNumber so integers stay integers. Map keys
// are sorted to keep object field order deterministic.
func FromGo(v any) (Literal, error) {
	switch v := v.(type) {
	case nil:
		return Literal{}, nil
	case Literal:
		return v, nil
	case Value:
		return Scalar(v), nil
	case bool:
		return Scalar(Bool(v)), nil
	case string:
		return Scalar(Text(v)), nil
	case int:
		return Scalar(NarrowInt(int64(v))), nil
	case int8:
		return Scalar(NarrowInt(int64(v))), nil
	case int16:
		return Scalar(NarrowInt(int64(v))), nil
	case int32:
		return Scalar(NarrowInt(int64(v))), nil
	case int64:
		return Scalar(NarrowInt(v)), nil
	case uint8:
		return Scalar(NarrowInt(int64(v))), nil
	case uint16:
		return Scalar(NarrowInt(int64(v))), nil
	case uint32:
		return Scalar(NarrowInt(int64(v))), nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint64:
		return fromUint(v), nil
	case float32:
		return Scalar(Float32(v)), nil
	case float64:
		return Scalar(NarrowFloat(v)), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return Scalar(NarrowInt(n)), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Literal{}, fmt.Errorf("scalar: invalid number %q", v)
		}
		return Scalar(NarrowFloat(f)), nil
	case time.Time:
		return Scalar(Text(v.Format(TimestampLayout))), nil
	case uuid.UUID:
		return Scalar(Text(v.String())), nil
	case []Literal:
		return List(v...), nil
	case []ObjectField:
		return Object(v...), nil
	case []any:
		items := make([]Literal, len(v))
		for i := range v {
			it, err := FromGo(v[i])
			if err != nil {
				return Literal{}, err
			}
			items[i] = it
		}
		return List(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]ObjectField, len(keys))
		for i, k := range keys {
			fv, err := FromGo(v[k])
			if err != nil {
				return Literal{}, err
			}
			fields[i] = Prop(k, fv)
		}
		return Object(fields...), nil
	default:
		return Literal{}, fmt.Errorf("scalar: unsupported literal type %T", v)
	}
}

// MustFromGo is like FromGo but panics on error.
func MustFromGo(v any) Literal {
	l, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return l
}

func fromUint(v uint64) Literal {
	if v <= math.MaxInt64 {
		return Scalar(NarrowInt(int64(v)))
	}
	// Beyond BigInt; clients serialize such numbers as floats anyway.
	return Scalar(Float64(float64(v)))
}
