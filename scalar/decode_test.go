package scalar

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWidening(t *testing.T) {
	small := Scalar(Int16(7))
	medium := Scalar(Int32(70000))
	big := Scalar(Int64(1 << 40))
	f32 := Scalar(Float32(1.5))
	f64 := Scalar(Float64(0.1))

	tests := []struct {
		name string
		kind Kind
		lit  Literal
		want Value
		ok   bool
	}{
		{"smallint/smallint", SmallInt, small, Int16(7), true},
		{"smallint/int", SmallInt, medium, Null, false},
		{"int/smallint", Int, small, Int32(7), true},
		{"int/int", Int, medium, Int32(70000), true},
		{"int/bigint", Int, big, Null, false},
		{"bigint/smallint", BigInt, small, Int64(7), true},
		{"bigint/int", BigInt, medium, Int64(70000), true},
		{"bigint/bigint", BigInt, big, Int64(1 << 40), true},
		{"float/float", Float, f32, Float32(1.5), true},
		{"float/double", Float, f64, Float32(0.1), true},
		{"float/double_overflow", Float, Scalar(Float64(1e300)), Null, false},
		{"double/float", Double, f32, Float64(1.5), true},
		{"double/double", Double, f64, Float64(0.1), true},
		{"double/int", Double, small, Null, false},
		{"int/float", Int, f32, Null, false},
		{"string/string", String, Scalar(Text("x")), Text("x"), true},
		{"string/int", String, small, Null, false},
		{"boolean/boolean", Boolean, Scalar(Bool(true)), Bool(true), true},
		{"boolean/string", Boolean, Scalar(Text("true")), Null, false},
		{"id/int", ID, small, IDOf("7"), true},
		{"id/bigint", ID, big, IDOf("1099511627776"), true},
		{"id/string", ID, Scalar(Text("abc")), IDOf("abc"), true},
		{"id/bool", ID, Scalar(Bool(true)), Null, false},
		{"null", Int, NullLit(), Null, false},
		{"enum", String, Enum("ASC"), Null, false},
		{"list", Int, List(small), Null, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.kind.Decode(tt.lit)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeExtensionKinds(t *testing.T) {
	ts, ok := Timestamp.Decode(Scalar(Text("2024-03-01T10:30:00Z")))
	require.True(t, ok)
	tv, _ := ts.Time()
	assert.True(t, tv.Equal(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))

	_, ok = Timestamp.Decode(Scalar(Text("yesterday")))
	assert.False(t, ok)

	d, ok := Date.Decode(Scalar(Text("2024-03-01")))
	require.True(t, ok)
	assert.Equal(t, "2024-03-01", d.String())

	id := uuid.MustParse("0b7e5a8c-3f0e-4f3a-9a77-2f8ad0f4a6f1")
	u, ok := UUID.Decode(Scalar(Text(id.String())))
	require.True(t, ok)
	got, _ := u.UUID()
	assert.Equal(t, id, got)

	_, ok = UUID.Decode(Scalar(Text("not-a-uuid")))
	assert.False(t, ok)
}

func TestListOf(t *testing.T) {
	dec := ListOf(DecodeInt32)

	got, ok := dec(List(Scalar(Int16(1)), Scalar(Int32(100000))))
	require.True(t, ok)
	assert.Equal(t, []int32{1, 100000}, got)

	_, ok = dec(List(Scalar(Int16(1)), Scalar(Text("2"))))
	assert.False(t, ok, "one bad element fails the whole list")

	_, ok = dec(Scalar(Int16(1)))
	assert.False(t, ok)

	got, ok = dec(List())
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestOptional(t *testing.T) {
	dec := Optional(DecodeString)

	got, ok := dec(Scalar(Text("x")))
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "x", *got)

	got, ok = dec(Scalar(Int16(1)))
	assert.True(t, ok)
	assert.Nil(t, got)

	got, ok = dec(NullLit())
	assert.True(t, ok)
	assert.Nil(t, got)
}

func TestTypedDecoders(t *testing.T) {
	i16, ok := DecodeInt16(Scalar(Int16(-3)))
	assert.True(t, ok)
	assert.Equal(t, int16(-3), i16)

	i64, ok := DecodeInt64(Scalar(Int32(5)))
	assert.True(t, ok)
	assert.Equal(t, int64(5), i64)

	f, ok := DecodeFloat64(Scalar(Float32(2.5)))
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	b, ok := DecodeBool(Scalar(Bool(true)))
	assert.True(t, ok)
	assert.True(t, b)

	id, ok := DecodeID(Scalar(Int16(42)))
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	vs, ok := ListOf(Int.Decoder())(List(Scalar(Int16(1))))
	assert.True(t, ok)
	assert.Equal(t, []Value{Int32(1)}, vs)
}
