package graphql

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/syssam/relgraph/graph"
	"github.com/syssam/relgraph/scalar"
)

func parse(t *testing.T, query string) *ast.QueryDocument {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func rootField(t *testing.T, doc *ast.QueryDocument) *ast.Field {
	t.Helper()
	require.NotEmpty(t, doc.Operations)
	f, ok := doc.Operations[0].SelectionSet[0].(*ast.Field)
	require.True(t, ok)
	return f
}

func TestLiteral(t *testing.T) {
	doc := parse(t, `query($n: Int) {
		people(
			filter: {name: {eq: "Ada"}, id: {eqAny: [1, 2]}}
			order: [{field: name, direction: DESC}]
			limit: $n
			offset: $missing
			ratio: 1.5
			big: 5000000000
			flag: true
			none: null
		) { id }
	}`)
	f := rootField(t, doc)
	vars := map[string]any{"n": json.Number("10")}

	tests := map[string]scalar.Literal{
		"filter": scalar.Object(
			scalar.Prop("name", scalar.Object(scalar.Prop("eq", scalar.Scalar(scalar.Text("Ada"))))),
			scalar.Prop("id", scalar.Object(scalar.Prop("eqAny", scalar.List(
				scalar.Scalar(scalar.Int16(1)),
				scalar.Scalar(scalar.Int16(2)),
			)))),
		),
		"order": scalar.List(scalar.Object(
			scalar.Prop("field", scalar.Enum("name")),
			scalar.Prop("direction", scalar.Enum("DESC")),
		)),
		"limit":  scalar.Scalar(scalar.Int16(10)),
		"offset": scalar.NullLit(),
		"ratio":  scalar.Scalar(scalar.Float32(1.5)),
		"big":    scalar.Scalar(scalar.Int64(5000000000)),
		"flag":   scalar.Scalar(scalar.Bool(true)),
		"none":   scalar.NullLit(),
	}
	for name, want := range tests {
		arg := f.Arguments.ForName(name)
		require.NotNil(t, arg, name)
		got, err := Literal(arg.Value, vars)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	doc = parse(t, `{ people(limit: 99999999999999999999) { id } }`)
	_, err := Literal(rootField(t, doc).Arguments.ForName("limit").Value, nil)
	assert.Error(t, err)
}

func TestSelection(t *testing.T) {
	doc := parse(t, `query($skip: Boolean!) {
		people(limit: 3) {
			id
			nick: name
			...Details
			posts(limit: 2) { title }
			secret: age @skip(if: $skip)
			... on Person { id }
			shown: name @include(if: true)
		}
	}
	fragment Details on Person { age }`)
	sel, err := NewSelection(doc, rootField(t, doc), map[string]any{"skip": true})
	require.NoError(t, err)

	want := []graph.Field{
		{Name: "id"},
		{Name: "name", Alias: "nick"},
		{Name: "age"},
		{Name: "posts"},
		{Name: "name", Alias: "shown"},
	}
	if diff := cmp.Diff(want, sel.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, sel.HasField("name"))
	assert.False(t, sel.HasField("nick"))

	l, ok := sel.Argument("limit")
	require.True(t, ok)
	assert.Equal(t, scalar.Scalar(scalar.Int16(3)), l)
	_, ok = sel.Argument("offset")
	assert.False(t, ok)

	posts, ok := sel.Child("posts")
	require.True(t, ok)
	if diff := cmp.Diff([]graph.Field{{Name: "title"}}, posts.Fields()); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}
	l, ok = posts.Argument("limit")
	require.True(t, ok)
	assert.Equal(t, scalar.Scalar(scalar.Int16(2)), l)

	id, ok := sel.Child("id")
	require.True(t, ok)
	assert.Empty(t, id.Fields())
	_, ok = sel.Child("secret")
	assert.False(t, ok)
}

func TestSelectionMalformedArgument(t *testing.T) {
	doc := parse(t, `{ people { posts(limit: 99999999999999999999) { title } } }`)
	_, err := NewSelection(doc, rootField(t, doc), nil)
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	doc := parse(t, `query($n: Int) { people(limit: $n) { id nick: name ...Details } }
	fragment Details on Person { posts { title } }`)
	f := rootField(t, doc)

	ctx := graphql.WithOperationContext(context.Background(), &graphql.OperationContext{
		Doc:       doc,
		Variables: map[string]any{"n": 2},
	})
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{
		Field: graphql.CollectedField{Field: f, Selections: f.SelectionSet},
	})
	sel, err := FromContext(ctx)
	require.NoError(t, err)

	want := []graph.Field{{Name: "id"}, {Name: "name", Alias: "nick"}, {Name: "posts"}}
	if diff := cmp.Diff(want, sel.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
	l, ok := sel.Argument("limit")
	require.True(t, ok)
	assert.Equal(t, scalar.Scalar(scalar.Int16(2)), l)
	posts, ok := sel.Child("posts")
	require.True(t, ok)
	assert.True(t, posts.HasField("title"))

	_, err = FromContext(context.Background())
	assert.Error(t, err)
}
