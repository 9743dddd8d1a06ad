package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/scalar"
)

func TestObjectJSON(t *testing.T) {
	post := &Object{}
	post.Set("title", scalar.Text("Hello"))

	obj := &Object{}
	obj.Set("name", scalar.Text("Ada"))
	obj.Set("id", scalar.Int32(1))
	obj.Set("age", nil)
	obj.Set("posts", []*Object{post})
	obj.Set("__typename", "Person")
	obj.Set("id", scalar.Int32(2))

	assert.Equal(t, []string{"name", "id", "age", "posts", "__typename"}, obj.Keys())
	v, ok := obj.Get("id")
	require.True(t, ok)
	assert.Equal(t, scalar.Int32(2), v)
	_, ok = obj.Get("email")
	assert.False(t, ok)

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ada","id":2,"age":null,"posts":[{"title":"Hello"}],"__typename":"Person"}`, string(out))
}

func TestEdgeState(t *testing.T) {
	var zero EdgeState
	assert.False(t, zero.IsLoaded())

	state := NotLoaded("posts")
	assert.False(t, state.IsLoaded())
	defer func() {
		v := recover()
		err, ok := v.(error)
		require.True(t, ok, "panic value %v", v)
		assert.True(t, relgraph.IsNotLoaded(err))
		var nl *relgraph.NotLoadedError
		require.ErrorAs(t, err, &nl)
		assert.Equal(t, "posts", nl.Edge())
	}()

	loaded := Loaded("posts", nil)
	assert.True(t, loaded.IsLoaded())
	assert.NotNil(t, loaded.Items())
	assert.Empty(t, loaded.Items())
	assert.Nil(t, loaded.Unique())

	one := &Object{}
	assert.Same(t, one, Loaded("author", []*Object{one}).Unique())

	state.Items()
	t.Fatal("reading an edge that was not loaded must panic")
}

func TestMaterializeUnloadedEdgePanics(t *testing.T) {
	s := blogSchema(t)
	people := table(t, s, "people")
	n := &node{row: make([]scalar.Value, people.Arity())}

	assert.Panics(t, func() {
		materialize(people, []*node{n}, NewRequest().Field("posts", NewRequest().Field("title")))
	})
}
