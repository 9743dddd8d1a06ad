package scalar

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Value is a tagged scalar. The zero Value is null.
//
// Values are comparable, but two values of different integer kinds holding
// the same number are not equal; use Key to compare across widening.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	t    time.Time
	u    uuid.UUID
}

// Null is the null value.
var Null Value

// Int16 returns a SmallInt value.
func Int16(v int16) Value { return Value{kind: SmallInt, i: int64(v)} }

// Int32 returns an Int value.
func Int32(v int32) Value { return Value{kind: Int, i: int64(v)} }

// Int64 returns a BigInt value.
func Int64(v int64) Value { return Value{kind: BigInt, i: v} }

// Float32 returns a Float value.
func Float32(v float32) Value { return Value{kind: Float, f: float64(v)} }

// Float64 returns a Double value.
func Float64(v float64) Value { return Value{kind: Double, f: v} }

// Text returns a String value.
func Text(v string) Value { return Value{kind: String, s: v} }

// Bool returns a Boolean value.
func Bool(v bool) Value {
	if v {
		return Value{kind: Boolean, i: 1}
	}
	return Value{kind: Boolean}
}

// Time returns a Timestamp value.
func Time(v time.Time) Value { return Value{kind: Timestamp, t: v} }

// CalendarDate returns a Date value; the clock part of v is dropped.
func CalendarDate(v time.Time) Value { return Value{kind: Date, t: truncateDate(v)} }

// UUIDOf returns a UUID value.
func UUIDOf(v uuid.UUID) Value { return Value{kind: UUID, u: v} }

// IDOf returns an ID value.
func IDOf(v string) Value { return Value{kind: ID, s: v} }

// NarrowInt returns v as the smallest integer kind that holds it.
func NarrowInt(v int64) Value {
	switch {
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return Int16(int16(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return Int32(int32(v))
	default:
		return Int64(v)
	}
}

// NarrowFloat returns v as Float when it is exactly representable in 32
// bits, and as Double otherwise.
func NarrowFloat(v float64) Value {
	if float64(float32(v)) == v {
		return Float32(float32(v))
	}
	return Float64(v)
}

// Kind returns the kind of v, or Invalid for null.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Invalid }

// Int returns the integer held by an integer kind.
func (v Value) Int() (int64, bool) {
	if !v.kind.Integer() {
		return 0, false
	}
	return v.i, true
}

// Float returns the number held by Float or Double.
func (v Value) Float() (float64, bool) {
	if v.kind != Float && v.kind != Double {
		return 0, false
	}
	return v.f, true
}

// Str returns the text held by String or ID.
func (v Value) Str() (string, bool) {
	if v.kind != String && v.kind != ID {
		return "", false
	}
	return v.s, true
}

// Bool returns the flag held by Boolean.
func (v Value) Bool() (bool, bool) {
	if v.kind != Boolean {
		return false, false
	}
	return v.i == 1, true
}

// Time returns the instant held by Timestamp or Date.
func (v Value) Time() (time.Time, bool) {
	if v.kind != Timestamp && v.kind != Date {
		return time.Time{}, false
	}
	return v.t, true
}

// UUID returns the identifier held by UUID.
func (v Value) UUID() (uuid.UUID, bool) {
	if v.kind != UUID {
		return uuid.Nil, false
	}
	return v.u, true
}

// Any returns v as a database/sql argument.
func (v Value) Any() any {
	switch v.kind {
	case SmallInt:
		return int16(v.i)
	case Int:
		return int32(v.i)
	case BigInt:
		return v.i
	case Float:
		return float32(v.f)
	case Double:
		return v.f
	case String, ID:
		return v.s
	case Boolean:
		return v.i == 1
	case Timestamp:
		return v.t
	case Date:
		return v.t.Format(DateLayout)
	case UUID:
		return v.u.String()
	default:
		return nil
	}
}

// Key returns a canonical representation that is equal for values denoting
// the same key, regardless of integer width. String payloads are quoted, so
// keys stay distinct when joined with any separator outside quotes.
func (v Value) Key() string {
	switch v.kind {
	case SmallInt, Int, BigInt:
		return "n:" + strconv.FormatInt(v.i, 10)
	case Float, Double:
		return "f:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return "s:" + strconv.Quote(v.s)
	case ID:
		// Numeric identifiers join against integer columns.
		if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return "n:" + strconv.FormatInt(n, 10)
		}
		return "s:" + strconv.Quote(v.s)
	case Boolean:
		return "b:" + strconv.FormatInt(v.i, 10)
	case Timestamp, Date:
		return "t:" + strconv.FormatInt(v.t.UnixNano(), 10)
	case UUID:
		return "u:" + v.u.String()
	default:
		return "null"
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case SmallInt, Int, BigInt:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case Double:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String, ID:
		return v.s
	case Boolean:
		return strconv.FormatBool(v.i == 1)
	case Timestamp:
		return v.t.Format(TimestampLayout)
	case Date:
		return v.t.Format(DateLayout)
	case UUID:
		return v.u.String()
	default:
		return "null"
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Invalid:
		return []byte("null"), nil
	case Float, Double:
		// JSON has no NaN or infinities; they are sent as "NaN", "+Inf" and "-Inf".
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return json.Marshal(strconv.FormatFloat(v.f, 'g', -1, 64))
		}
		return []byte(v.String()), nil
	case SmallInt, Int, BigInt, Boolean:
		return []byte(v.String()), nil
	default:
		return json.Marshal(v.String())
	}
}
