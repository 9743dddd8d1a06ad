package graph

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/syssam/relgraph/dialect"
	"github.com/syssam/relgraph/schema"
)

// Query is a select over one table, assembled from a selection and open to
// further constraints.
type Query struct {
	table   *schema.Table
	proj    *Projection
	dialect string
	sel     sq.SelectBuilder
}

// Statements returns the statement builder of a dialect.
func Statements(name string) sq.StatementBuilderType {
	if name == dialect.Postgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// BuildQuery assembles the query of t for sel. The select list comes from
// the projection; the filter, limit, offset and order arguments apply in that
// sequence. Columns listed in required are fetched regardless of sel.
func BuildQuery(dialectName string, t *schema.Table, sel Selection, required ...string) (*Query, error) {
	proj, err := PlanProjection(t, sel, required...)
	if err != nil {
		return nil, err
	}
	q := &Query{
		table:   t,
		proj:    proj,
		dialect: dialectName,
		sel:     Statements(dialectName).Select(proj.Columns()...).From(t.Name),
	}
	if l, ok := argument(sel, ArgFilter); ok {
		p, err := NewFilterCompiler().Compile(t, l)
		if err != nil {
			return nil, err
		}
		q.Where(p)
	}
	limit, hasLimit, err := CompileCount(sel, ArgLimit)
	if err != nil {
		return nil, err
	}
	if hasLimit {
		q.sel = q.sel.Limit(limit)
	}
	offset, hasOffset, err := CompileCount(sel, ArgOffset)
	if err != nil {
		return nil, err
	}
	if hasOffset {
		if !hasLimit && dialect.OffsetRequiresLimit(dialectName) {
			q.sel = q.sel.Limit(dialect.NoLimit(dialectName))
		}
		q.sel = q.sel.Offset(offset)
	}
	if l, ok := argument(sel, ArgOrder); ok {
		terms, err := CompileOrder(t, l)
		if err != nil {
			return nil, err
		}
		for _, term := range terms {
			q.sel = q.sel.OrderBy(term.OrderBy(t))
		}
	}
	return q, nil
}

// Table returns the queried table.
func (q *Query) Table() *schema.Table { return q.table }

// Projection returns the column plan of the query.
func (q *Query) Projection() *Projection { return q.proj }

// Where adds a predicate on the queried table. A nil predicate is ignored.
func (q *Query) Where(p *Predicate) *Query {
	if p == nil {
		return q
	}
	if p.Table() != q.table.Name {
		panic("graph: predicate on " + p.Table() + " applied to query on " + q.table.Name)
	}
	q.sel = q.sel.Where(p)
	return q
}

// WhereAny adds the disjunction of preds. No predicates match no rows.
func (q *Query) WhereAny(preds []*Predicate) *Query {
	if len(preds) == 0 {
		q.sel = q.sel.Where(sq.Expr("1=0"))
		return q
	}
	return q.Where(Or(preds...))
}

// SQL returns the statement text and its arguments.
func (q *Query) SQL() (string, []any, error) {
	return q.sel.ToSql()
}
