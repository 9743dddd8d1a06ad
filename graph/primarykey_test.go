package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/relgraph/scalar"
)

func TestKeyCodecSingle(t *testing.T) {
	s := blogSchema(t)
	codec := NewKeyCodec(table(t, s, "people"))

	args, def := codec.Register()
	assert.Nil(t, def)
	require.Len(t, args, 1)
	assert.Equal(t, "primaryKey", args[0].Name)
	assert.Equal(t, "Int!", args[0].Type.String())

	key, ok := codec.FromExternal(scalar.MustFromGo(7))
	require.True(t, ok)
	assert.Equal(t, Key{scalar.Int32(7)}, key)
	assert.Equal(t, scalar.Scalar(scalar.Int32(7)), codec.ToExternal(key))

	key, ok = codec.FromExternal(scalar.MustFromGo(map[string]any{"id": 7}))
	require.True(t, ok, "the object form is accepted for single keys")
	assert.Equal(t, Key{scalar.Int32(7)}, key)

	for name, l := range map[string]scalar.Literal{
		"string":      scalar.MustFromGo("7"),
		"null":        scalar.NullLit(),
		"wrong_field": scalar.MustFromGo(map[string]any{"uid": 7}),
		"too_wide":    scalar.MustFromGo(int64(1) << 40),
	} {
		_, ok := codec.FromExternal(l)
		assert.False(t, ok, name)
	}
}

func TestKeyCodecComposite(t *testing.T) {
	s := blogSchema(t)
	codec := NewKeyCodec(table(t, s, "memberships"))

	args, def := codec.Register()
	require.Len(t, args, 1)
	assert.Equal(t, "MembershipKey!", args[0].Type.String())
	require.NotNil(t, def)
	assert.Equal(t, ast.InputObject, def.Kind)
	assert.Equal(t, "MembershipKey", def.Name)
	require.Len(t, def.Fields, 2)
	assert.Equal(t, "user_id", def.Fields[0].Name)
	assert.Equal(t, "group_id", def.Fields[1].Name)

	full := scalar.MustFromGo(map[string]any{"user_id": 1, "group_id": 2})
	key, ok := codec.FromExternal(full)
	require.True(t, ok)
	assert.Equal(t, Key{scalar.Int32(1), scalar.Int32(2)}, key)

	// Round trip is exact, including field order.
	ext := codec.ToExternal(key)
	assert.Equal(t, "{user_id: 1, group_id: 2}", ext.String())
	again, ok := codec.FromExternal(ext)
	require.True(t, ok)
	assert.Equal(t, key, again)

	for name, l := range map[string]scalar.Literal{
		"partial":   scalar.MustFromGo(map[string]any{"user_id": 1}),
		"malformed": scalar.MustFromGo(map[string]any{"user_id": 1, "group_id": "x"}),
		"scalar":    scalar.MustFromGo(1),
		"null_part": scalar.Object(scalar.Prop("user_id", scalar.MustFromGo(1)), scalar.Prop("group_id", scalar.NullLit())),
	} {
		_, ok := codec.FromExternal(l)
		assert.False(t, ok, name)
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, Key{scalar.Int16(1)}.String(), Key{scalar.Int64(1)}.String())
	assert.Equal(t, Key{scalar.IDOf("1")}.String(), Key{scalar.Int32(1)}.String())
	assert.NotEqual(t, Key{scalar.Text("1")}.String(), Key{scalar.Int32(1)}.String())
	assert.NotEqual(t,
		Key{scalar.Text("x|s:y"), scalar.Text("z")}.String(),
		Key{scalar.Text("x"), scalar.Text("y|s:z")}.String())
	assert.NotEqual(t,
		Key{scalar.IDOf(`a"|s:"b`), scalar.Text("c")}.String(),
		Key{scalar.IDOf("a"), scalar.Text(`b"|s:"c`)}.String())
	assert.True(t, Key{scalar.Int32(1), scalar.Null}.HasNull())
	assert.False(t, Key{scalar.Int32(1)}.HasNull())
}
