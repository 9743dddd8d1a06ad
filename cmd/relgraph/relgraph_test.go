package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaYAML = `
tables:
  - name: people
    primary_key: [id]
    columns:
      - {name: id, kind: int}
      - {name: name, kind: string}
      - {name: age, kind: smallint, nullable: true}
    edges:
      - {name: posts, has_many: posts, ref_columns: [author_id]}
  - name: posts
    primary_key: [id]
    columns:
      - {name: id, kind: int}
      - {name: title, kind: string}
      - {name: author_id, kind: int, nullable: true}
    edges:
      - {name: author, belongs_to: people, columns: [author_id]}
`

// fixture writes a schema file and a seeded SQLite database.
func fixture(t *testing.T) (schemaPath, dsn string) {
	t.Helper()
	dir := t.TempDir()
	schemaPath = filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(schemaYAML), 0o644))

	dsn = filepath.Join(dir, "blog.db")
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range []string{
		`CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER)`,
		`CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT NOT NULL, author_id INTEGER)`,
		`INSERT INTO people (id, name, age) VALUES (1, 'Ada', 36), (2, 'Bob', NULL)`,
		`INSERT INTO posts (id, title, author_id) VALUES (1, 'A1', 1), (2, 'B1', 2)`,
	} {
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}
	return schemaPath, dsn
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestQueryCommand(t *testing.T) {
	schemaPath, dsn := fixture(t)

	out, _, err := run(t, "", "--schema", schemaPath, "--dsn", dsn,
		"query", `{ people(order: [{field: id}]) { name posts { title } } }`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": {"people": [
		{"name": "Ada", "posts": [{"title": "A1"}]},
		{"name": "Bob", "posts": [{"title": "B1"}]}
	]}}`, out)

	out, stderr, err := run(t, `query Named($id: Int!) { person(primaryKey: $id) { name } }`,
		"--schema", schemaPath, "--dsn", dsn,
		"query", "--variables", `{"id": 2}`, "--operation", "Named", "--stats")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": {"person": {"name": "Bob"}}}`, out)
	assert.Contains(t, stderr, "queries=")
}

func TestQueryCommandEnv(t *testing.T) {
	schemaPath, dsn := fixture(t)
	t.Setenv("RELGRAPH_SCHEMA", schemaPath)
	t.Setenv("RELGRAPH_DSN", dsn)
	t.Setenv("RELGRAPH_DIALECT", "sqlite")

	docPath := filepath.Join(t.TempDir(), "mutation.graphql")
	require.NoError(t, os.WriteFile(docPath, []byte(`mutation { createPerson(input: {name: "Cy"}) { id name } }`), 0o644))
	out, _, err := run(t, "", "query", "-f", docPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": {"createPerson": {"id": 3, "name": "Cy"}}}`, out)
}

func TestQueryCommandErrors(t *testing.T) {
	schemaPath, dsn := fixture(t)

	out, _, err := run(t, "", "--schema", schemaPath, "--dsn", dsn, "query", `{ people(filter: {age: {eq: "old"}}) { name } }`)
	require.Error(t, err)
	assert.Contains(t, out, "MALFORMED_ARGUMENT")

	_, _, err = run(t, "", "--schema", schemaPath, "--dsn", dsn, "--dialect", "oracle", "query", "{ people { id } }")
	assert.ErrorContains(t, err, `unsupported dialect "oracle"`)

	_, _, err = run(t, "", "--dsn", dsn, "query", "{ people { id } }")
	assert.ErrorContains(t, err, "no schema file")

	_, _, err = run(t, "", "--schema", schemaPath, "query", "{ people { id } }")
	assert.ErrorContains(t, err, "no data source")

	_, _, err = run(t, "  ", "--schema", schemaPath, "--dsn", dsn, "query")
	assert.ErrorContains(t, err, "empty document")

	_, _, err = run(t, "", "--schema", schemaPath, "--dsn", dsn, "query", "--variables", "[1]", "{ people { id } }")
	assert.ErrorContains(t, err, "invalid variables")

	_, _, err = run(t, "", "--schema", schemaPath, "--dsn", dsn, "--log-level", "loud", "query", "{ people { id } }")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestSDLCommand(t *testing.T) {
	schemaPath, _ := fixture(t)

	out, _, err := run(t, "", "--schema", schemaPath, "sdl")
	require.NoError(t, err)
	assert.Contains(t, out, "type Person")
	assert.Contains(t, out, "scalar SmallInt")

	dir := t.TempDir()
	sdlPath := filepath.Join(dir, "schema.graphql")
	gqlgenPath := filepath.Join(dir, "gqlgen.yml")
	_, _, err = run(t, "", "--schema", schemaPath, "sdl", "-o", sdlPath, "--gqlgen", gqlgenPath)
	require.NoError(t, err)
	data, err := os.ReadFile(sdlPath)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
	cfg, err := os.ReadFile(gqlgenPath)
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "graphql.Int64")
	assert.Contains(t, string(cfg), sdlPath)

	_, _, err = run(t, "", "--schema", schemaPath, "sdl", "--gqlgen", gqlgenPath)
	assert.ErrorContains(t, err, "requires --out")
}

func TestCheckCommand(t *testing.T) {
	schemaPath, dsn := fixture(t)

	out, _, err := run(t, "", "--schema", schemaPath, "--dsn", dsn, "check")
	require.NoError(t, err)
	assert.NotContains(t, out, "Errors:")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), `DROP TABLE posts`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, _, err = run(t, "", "--schema", schemaPath, "--dsn", dsn, "check")
	assert.ErrorContains(t, err, "1 error(s)")
	assert.Contains(t, out, "posts: table cannot be selected")
}
