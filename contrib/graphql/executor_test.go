package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	_ "modernc.org/sqlite"

	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/dialect"
	"github.com/syssam/relgraph/dialect/sql"
	"github.com/syssam/relgraph/graph"
	"github.com/syssam/relgraph/schema"
)

func blogSchema(t testing.TB) *schema.Schema {
	t.Helper()
	s, err := schema.New(
		schema.NewTable("people").
			Comment("A person.").
			Columns(
				schema.Int("id"),
				schema.String("name"),
				schema.SmallInt("age").Nullable(),
			).
			PrimaryKey("id").
			Edges(schema.From("posts", "posts", "author_id")),
		schema.NewTable("posts").
			Columns(
				schema.Int("id"),
				schema.String("title"),
				schema.Int("author_id").Nullable(),
				schema.Bool("published"),
			).
			PrimaryKey("id").
			Edges(schema.To("author", "people", "author_id")),
		schema.NewTable("memberships").
			Columns(
				schema.Int("user_id"),
				schema.Int("group_id"),
				schema.String("role").Nullable(),
			).
			PrimaryKey("user_id", "group_id"),
	)
	require.NoError(t, err)
	return s
}

var blogSQL = []string{
	`CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER)`,
	`CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT NOT NULL, author_id INTEGER, published BOOLEAN NOT NULL DEFAULT 0)`,
	`CREATE TABLE memberships (user_id INTEGER NOT NULL, group_id INTEGER NOT NULL, role TEXT, PRIMARY KEY (user_id, group_id))`,
	`INSERT INTO people (id, name, age) VALUES (1, 'Ada', 36), (2, 'Bob', NULL), (3, 'Cy', 20)`,
	`INSERT INTO posts (id, title, author_id, published) VALUES (1, 'A1', 1, 1), (2, 'A2', 1, 0), (3, 'B1', 2, 1)`,
	`INSERT INTO memberships (user_id, group_id, role) VALUES (1, 10, 'owner'), (1, 11, NULL)`,
}

func newExecutor(t *testing.T) *Executor {
	t.Helper()
	drv, err := sql.Open(dialect.SQLite, filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { drv.Close() })
	for _, stmt := range blogSQL {
		_, err := drv.DB().ExecContext(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}
	x, err := NewExecutor(graph.NewEngine(drv, blogSchema(t)))
	require.NoError(t, err)
	return x
}

func dataJSON(t *testing.T, resp *Response) string {
	t.Helper()
	out, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	return string(out)
}

func TestRootFields(t *testing.T) {
	s := blogSchema(t)
	names := func(table string) []string {
		tbl, ok := s.Table(table)
		require.True(t, ok)
		var out []string
		for _, rf := range RootFields(tbl) {
			out = append(out, rf.Name)
		}
		return out
	}
	assert.Equal(t, []string{"people", "person", "createPerson", "createPeople", "deletePerson"}, names("people"))
	assert.Equal(t, []string{"memberships", "membership", "createMembership", "createMemberships", "deleteMembership"}, names("memberships"))
}

func TestSDL(t *testing.T) {
	s := blogSchema(t)
	sdl := SDL(s)
	for _, want := range []string{"type Person", "input PersonFilter", "input MembershipKey", "scalar SmallInt", "enum OrderDirection", "A person."} {
		assert.Contains(t, sdl, want)
	}
	assert.NotContains(t, sdl, "scalar Timestamp")

	x := newExecutor(t)
	gs := x.Schema()
	require.NotNil(t, gs.Query)
	require.NotNil(t, gs.Mutation)

	person := gs.Types["Person"]
	require.NotNil(t, person)
	assert.Equal(t, "Int!", person.Fields.ForName("id").Type.String())
	assert.Equal(t, "SmallInt", person.Fields.ForName("age").Type.String())
	assert.Equal(t, "[Post!]!", person.Fields.ForName("posts").Type.String())
	assert.Equal(t, "PostFilter", person.Fields.ForName("posts").Arguments.ForName("filter").Type.String())
	assert.Equal(t, "Person", gs.Types["Post"].Fields.ForName("author").Type.String())

	assert.Equal(t, "Int!", gs.Query.Fields.ForName("person").Arguments.ForName("primaryKey").Type.String())
	assert.Equal(t, "[Person!]!", gs.Query.Fields.ForName("people").Type.String())
	assert.Equal(t, "MembershipKey!", gs.Mutation.Fields.ForName("deleteMembership").Arguments.ForName("primaryKey").Type.String())
	assert.Equal(t, "DeletedCount!", gs.Mutation.Fields.ForName("deleteMembership").Type.String())
	assert.Equal(t, "[PersonInput!]!", gs.Mutation.Fields.ForName("createPeople").Arguments.ForName("input").Type.String())

	var ops []string
	for _, f := range gs.Types["BooleanFilter"].Fields {
		ops = append(ops, f.Name)
	}
	assert.Equal(t, []string{"eq", "notEq", "isNull"}, ops)

	filter := gs.Types["PersonFilter"].Fields
	assert.NotNil(t, filter.ForName("posts"))
	assert.Equal(t, "[PersonFilter!]", filter.ForName("or").Type.String())
	assert.Equal(t, "PersonFilter", filter.ForName("not").Type.String())
}

func TestExecute(t *testing.T) {
	x := newExecutor(t)
	resp := x.Execute(context.Background(), Params{Query: `{
		people(order: [{field: id}]) {
			id
			name
			posts(order: [{field: id}]) { title }
		}
		bob: person(primaryKey: 2) { __typename name }
		nobody: person(primaryKey: 99) { name }
		__typename
	}`})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{
		"people": [
			{"id": 1, "name": "Ada", "posts": [{"title": "A1"}, {"title": "A2"}]},
			{"id": 2, "name": "Bob", "posts": [{"title": "B1"}]},
			{"id": 3, "name": "Cy", "posts": []}
		],
		"bob": {"__typename": "Person", "name": "Bob"},
		"nobody": null,
		"__typename": "Query"
	}`, dataJSON(t, resp))
}

func TestExecuteVariables(t *testing.T) {
	x := newExecutor(t)
	resp := x.Execute(context.Background(), Params{
		Query: `query Adults($min: SmallInt, $dir: OrderDirection) {
			people(filter: {age: {gte: $min}}, order: [{field: id, direction: $dir}]) { name }
		}`,
		OperationName: "Adults",
		Variables:     map[string]any{"min": 20, "dir": "DESC"},
	})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"people": [{"name": "Cy"}, {"name": "Ada"}]}`, dataJSON(t, resp))
}

func TestExecuteFieldErrors(t *testing.T) {
	x := newExecutor(t)
	resp := x.Execute(context.Background(), Params{Query: `{
		ok: people(limit: 1, order: [{field: id}]) { name }
		broken: people(filter: {age: {eq: "old"}}) { name }
	}`})
	assert.JSONEq(t, `{"ok": [{"name": "Ada"}], "broken": null}`, dataJSON(t, resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, ast.Path{ast.PathName("broken")}, resp.Errors[0].Path)
	assert.Equal(t, CodeMalformed, resp.Errors[0].Extensions["code"])
	require.NotEmpty(t, resp.Errors[0].Locations)
	assert.Equal(t, 3, resp.Errors[0].Locations[0].Line)
}

func TestExecuteMutation(t *testing.T) {
	x := newExecutor(t)
	ctx := context.Background()
	resp := x.Execute(ctx, Params{Query: `mutation {
		createPerson(input: {name: "Dee", age: 40}) { id name }
		createPeople(input: [{name: "Eve"}, {name: "Fay"}], order: [{field: id, direction: DESC}]) { id }
		deleteMembership(primaryKey: {user_id: 1, group_id: 11}) { count __typename }
	}`})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{
		"createPerson": {"id": 4, "name": "Dee"},
		"createPeople": [{"id": 6}, {"id": 5}],
		"deleteMembership": {"count": 1, "__typename": "DeletedCount"}
	}`, dataJSON(t, resp))

	resp = x.Execute(ctx, Params{Query: `mutation {
		dup: createPerson(input: {id: 1, name: "Again"}) { id }
		gone: deletePerson(primaryKey: 42) { count }
	}`})
	assert.JSONEq(t, `{"dup": null, "gone": {"count": 0}}`, dataJSON(t, resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, CodeConstraint, resp.Errors[0].Extensions["code"])
}

func TestExecuteRequestErrors(t *testing.T) {
	x := newExecutor(t)
	ctx := context.Background()
	for name, p := range map[string]Params{
		"syntax":        {Query: `{ people { id `},
		"unknown_field": {Query: `{ people { email } }`},
		"operation":     {Query: `query A { people { id } }`, OperationName: "B"},
		"variables":     {Query: `query($n: Int!) { people(limit: $n) { id } }`},
	} {
		t.Run(name, func(t *testing.T) {
			resp := x.Execute(ctx, p)
			assert.Nil(t, resp.Data)
			assert.NotEmpty(t, resp.Errors)
			out, err := json.Marshal(resp)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(out), `{"data":null`), string(out))
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{relgraph.NewMissingArgumentError("people", "input"), CodeMissingArgument},
		{relgraph.NewNoPrimaryKeyError("people"), CodeNoPrimaryKey},
		{relgraph.NewMalformedArgumentError("limit", "non-negative Int"), CodeMalformed},
		{relgraph.NewUnknownFieldError("people", "email"), CodeUnknownField},
		{relgraph.NewMutationError("people", "insert", relgraph.NewConstraintError("unique", errors.New("dup"))), CodeConstraint},
		{relgraph.NewQueryError("people", "load", errors.New("conn reset")), CodeBackend},
		{graph.ErrMaxDepth, CodeMaxDepth},
		{errUnsupported, CodeUnsupported},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, ErrorCode(tt.err), tt.err.Error())
	}
}
