package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph/schema"
)

// blogSchema declares people with posts, and memberships keyed by
// (user_id, group_id).
func blogSchema(t testing.TB) *schema.Schema {
	t.Helper()
	s, err := schema.New(
		schema.NewTable("people").
			Columns(
				schema.Int("id"),
				schema.String("name"),
				schema.SmallInt("age").Nullable(),
			).
			PrimaryKey("id").
			Edges(
				schema.From("posts", "posts", "author_id"),
				schema.From("memberships", "memberships", "user_id"),
			),
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
			PrimaryKey("user_id", "group_id").
			Edges(schema.To("user", "people", "user_id")),
	)
	require.NoError(t, err)
	return s
}

func table(t testing.TB, s *schema.Schema, name string) *schema.Table {
	t.Helper()
	tbl, ok := s.Table(name)
	require.True(t, ok, "table %q", name)
	return tbl
}
