package graph

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph/scalar"
)

func TestPredicates(t *testing.T) {
	s := blogSchema(t)
	people := table(t, s, "people")

	tests := []struct {
		name  string
		pred  *Predicate
		query string
		args  []any
	}{
		{"eq", EQ(people, "name", scalar.Text("Ada")), "people.name = ?", []any{"Ada"}},
		{"neq", NEQ(people, "id", scalar.Int32(1)), "people.id <> ?", []any{int32(1)}},
		{"lt", LT(people, "id", scalar.Int32(2)), "people.id < ?", []any{int32(2)}},
		{"lte", LTE(people, "id", scalar.Int32(2)), "people.id <= ?", []any{int32(2)}},
		{"gt", GT(people, "id", scalar.Int32(2)), "people.id > ?", []any{int32(2)}},
		{"gte", GTE(people, "id", scalar.Int32(2)), "people.id >= ?", []any{int32(2)}},
		{"is_null", IsNull(people, "age"), "people.age IS NULL", nil},
		{"not_null", NotNull(people, "age"), "people.age IS NOT NULL", nil},
		{"in", In(people, "id", []scalar.Value{scalar.Int32(1), scalar.Int32(2)}), "people.id IN (?,?)", []any{int32(1), int32(2)}},
		{"in_empty", In(people, "id", nil), "(1=0)", nil},
		{
			"and",
			And(EQ(people, "name", scalar.Text("Ada")), GT(people, "id", scalar.Int32(1))),
			"(people.name = ? AND people.id > ?)",
			[]any{"Ada", int32(1)},
		},
		{
			"or",
			Or(EQ(people, "id", scalar.Int32(1)), EQ(people, "id", scalar.Int32(2))),
			"(people.id = ? OR people.id = ?)",
			[]any{int32(1), int32(2)},
		},
		{"not", Not(IsNull(people, "age")), "NOT (people.age IS NULL)", nil},
		{"and_single", And(nil, IsNull(people, "age"), nil), "people.age IS NULL", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.pred.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.args, nilIfEmpty(args))
			assert.Equal(t, "people", tt.pred.Table())
		})
	}

	assert.Nil(t, And())
	assert.Nil(t, Or(nil, nil))
	assert.Nil(t, Not(nil))
}

func TestPredicateTableMismatch(t *testing.T) {
	s := blogSchema(t)
	people, posts := table(t, s, "people"), table(t, s, "posts")

	assert.Panics(t, func() {
		And(EQ(people, "id", scalar.Int32(1)), EQ(posts, "id", scalar.Int32(1)))
	})
	assert.Panics(t, func() {
		q, err := BuildQuery("sqlite", people, NewRequest().Field("id"))
		require.NoError(t, err)
		q.Where(EQ(posts, "id", scalar.Int32(1)))
	})
}

func TestKeyPredicates(t *testing.T) {
	s := blogSchema(t)
	memberships := table(t, s, "memberships")

	pred := InKeys(memberships, []string{"user_id", "group_id"}, []Key{
		{scalar.Int32(1), scalar.Int32(10)},
		{scalar.Int32(2), scalar.Int32(20)},
	})
	query, args, err := pred.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(memberships.user_id, memberships.group_id) IN ((?, ?), (?, ?))", query)
	assert.Equal(t, []any{int32(1), int32(10), int32(2), int32(20)}, args)

	query, args, err = Equal(memberships, memberships.PrimaryKey, Key{scalar.Int32(1), scalar.Int32(10)}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(memberships.user_id = ? AND memberships.group_id = ?)", query)
	assert.Equal(t, []any{int32(1), int32(10)}, args)

	query, _, err = InKeys(memberships, []string{"user_id", "group_id"}, nil).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(1=0)", query)

	sub := sq.Select("people.id").From("people").Where(sq.Eq{"people.name": "Ada"})
	query, args, err = InQuery(memberships, []string{"user_id"}, sub).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "memberships.user_id IN (SELECT people.id FROM people WHERE people.name = ?)", query)
	assert.Equal(t, []any{"Ada"}, args)
}

func nilIfEmpty(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	return args
}
