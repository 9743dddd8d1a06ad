package scalar

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Decode converts a literal into a value of kind k. Integer kinds widen
// SmallInt to Int to BigInt. Float and Double accept each other, Float
// rounding a Double within float32 range to the nearest float32. ID accepts any
// integer or string. Extension kinds parse from string literals. Every other
// combination fails.
func (k Kind) Decode(l Literal) (Value, bool) {
	v, ok := l.Scalar()
	if !ok {
		return Null, false
	}
	switch k {
	case SmallInt:
		if v.kind == SmallInt {
			return v, true
		}
	case Int:
		if v.kind == SmallInt || v.kind == Int {
			return Int32(int32(v.i)), true
		}
	case BigInt:
		if v.kind.Integer() {
			return Int64(v.i), true
		}
	case Float:
		switch {
		case v.kind == Float:
			return v, true
		case v.kind == Double && math.Abs(v.f) <= math.MaxFloat32:
			return Float32(float32(v.f)), true
		}
	case Double:
		if v.kind == Float || v.kind == Double {
			return Float64(v.f), true
		}
	case String:
		if v.kind == String {
			return v, true
		}
	case Boolean:
		if v.kind == Boolean {
			return v, true
		}
	case ID:
		switch {
		case v.kind.Integer():
			return IDOf(strconv.FormatInt(v.i, 10)), true
		case v.kind == String, v.kind == ID:
			return IDOf(v.s), true
		}
	case Timestamp:
		if v.kind == Timestamp {
			return v, true
		}
		if v.kind == String {
			if t, ok := parseTimestamp(v.s); ok {
				return Time(t), true
			}
		}
	case Date:
		if v.kind == Date {
			return v, true
		}
		if v.kind == String {
			if t, ok := parseDate(v.s); ok {
				return CalendarDate(t), true
			}
		}
	case UUID:
		if v.kind == UUID {
			return v, true
		}
		if v.kind == String {
			if u, err := uuid.Parse(v.s); err == nil {
				return UUIDOf(u), true
			}
		}
	}
	return Null, false
}

// Decoder converts a literal into T, reporting whether it succeeded.
type Decoder[T any] func(Literal) (T, bool)

// Decoder returns k.Decode as a Decoder.
func (k Kind) Decoder() Decoder[Value] {
	return k.Decode
}

// ListOf decodes a list literal element-wise. A single failing element
// fails the whole list.
func ListOf[T any](dec Decoder[T]) Decoder[[]T] {
	return func(l Literal) ([]T, bool) {
		items, ok := l.Items()
		if !ok {
			return nil, false
		}
		out := make([]T, len(items))
		for i := range items {
			v, ok := dec(items[i])
			if !ok {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	}
}

// Optional never fails: a literal that does not decode yields nil.
func Optional[T any](dec Decoder[T]) Decoder[*T] {
	return func(l Literal) (*T, bool) {
		v, ok := dec(l)
		if !ok {
			return nil, true
		}
		return &v, true
	}
}

// Typed decoders for the core and extension kinds.
var (
	DecodeInt16 Decoder[int16] = func(l Literal) (int16, bool) {
		v, ok := SmallInt.Decode(l)
		return int16(v.i), ok
	}
	DecodeInt32 Decoder[int32] = func(l Literal) (int32, bool) {
		v, ok := Int.Decode(l)
		return int32(v.i), ok
	}
	DecodeInt64 Decoder[int64] = func(l Literal) (int64, bool) {
		v, ok := BigInt.Decode(l)
		return v.i, ok
	}
	DecodeFloat32 Decoder[float32] = func(l Literal) (float32, bool) {
		v, ok := Float.Decode(l)
		return float32(v.f), ok
	}
	DecodeFloat64 Decoder[float64] = func(l Literal) (float64, bool) {
		v, ok := Double.Decode(l)
		return v.f, ok
	}
	DecodeString Decoder[string] = func(l Literal) (string, bool) {
		v, ok := String.Decode(l)
		return v.s, ok
	}
	DecodeBool Decoder[bool] = func(l Literal) (bool, bool) {
		v, ok := Boolean.Decode(l)
		return v.i == 1, ok
	}
	DecodeID Decoder[string] = func(l Literal) (string, bool) {
		v, ok := ID.Decode(l)
		return v.s, ok
	}
	DecodeTime Decoder[time.Time] = func(l Literal) (time.Time, bool) {
		v, ok := Timestamp.Decode(l)
		return v.t, ok
	}
	DecodeDate Decoder[time.Time] = func(l Literal) (time.Time, bool) {
		v, ok := Date.Decode(l)
		return v.t, ok
	}
	DecodeUUID Decoder[uuid.UUID] = func(l Literal) (uuid.UUID, bool) {
		v, ok := UUID.Decode(l)
		return v.u, ok
	}
)
