package graph

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/syssam/relgraph/scalar"
	"github.com/syssam/relgraph/schema"
)

// Predicate is a boolean expression over the columns of exactly one table.
// Predicates of different tables never combine; And, Or and Not panic when
// asked to.
type Predicate struct {
	table string
	expr  sq.Sqlizer
}

// Table returns the name of the table the predicate constrains.
func (p *Predicate) Table() string { return p.table }

// ToSql implements squirrel.Sqlizer.
func (p *Predicate) ToSql() (string, []any, error) { return p.expr.ToSql() }

// String returns the SQL text of the predicate, for logs and test failures.
func (p *Predicate) String() string {
	query, _, err := p.ToSql()
	if err != nil {
		return "!" + err.Error()
	}
	return query
}

func newPredicate(t *schema.Table, expr sq.Sqlizer) *Predicate {
	return &Predicate{table: t.Name, expr: expr}
}

// EQ returns "column = v", or "column IS NULL" for a null v.
func EQ(t *schema.Table, column string, v scalar.Value) *Predicate {
	return newPredicate(t, sq.Eq{t.QualifiedColumn(column): v.Any()})
}

// NEQ returns "column <> v".
func NEQ(t *schema.Table, column string, v scalar.Value) *Predicate {
	return newPredicate(t, sq.NotEq{t.QualifiedColumn(column): v.Any()})
}

// LT returns "column < v".
func LT(t *schema.Table, column string, v scalar.Value) *Predicate {
	return newPredicate(t, sq.Lt{t.QualifiedColumn(column): v.Any()})
}

// LTE returns "column <= v".
func LTE(t *schema.Table, column string, v scalar.Value) *Predicate {
	return newPredicate(t, sq.LtOrEq{t.QualifiedColumn(column): v.Any()})
}

// GT returns "column > v".
func GT(t *schema.Table, column string, v scalar.Value) *Predicate {
	return newPredicate(t, sq.Gt{t.QualifiedColumn(column): v.Any()})
}

// GTE returns "column >= v".
func GTE(t *schema.Table, column string, v scalar.Value) *Predicate {
	return newPredicate(t, sq.GtOrEq{t.QualifiedColumn(column): v.Any()})
}

// IsNull returns "column IS NULL".
func IsNull(t *schema.Table, column string) *Predicate {
	return newPredicate(t, sq.Eq{t.QualifiedColumn(column): nil})
}

// NotNull returns "column IS NOT NULL".
func NotNull(t *schema.Table, column string) *Predicate {
	return newPredicate(t, sq.NotEq{t.QualifiedColumn(column): nil})
}

// In returns "column IN (vs...)". An empty list matches nothing.
func In(t *schema.Table, column string, vs []scalar.Value) *Predicate {
	args := make([]any, len(vs))
	for i, v := range vs {
		args[i] = v.Any()
	}
	return newPredicate(t, sq.Eq{t.QualifiedColumn(column): args})
}

// Equal returns the conjunction of "column = v" over paired columns and values.
func Equal(t *schema.Table, columns []string, k Key) *Predicate {
	preds := make([]*Predicate, len(columns))
	for i, c := range columns {
		preds[i] = EQ(t, c, k[i])
	}
	return And(preds...)
}

// InKeys returns a membership predicate of the given columns over a set of
// keys. A single column renders as "col IN (...)", several columns as the
// row value "(a, b) IN ((?, ?), ...)".
func InKeys(t *schema.Table, columns []string, keys []Key) *Predicate {
	if len(columns) == 1 {
		vs := make([]scalar.Value, len(keys))
		for i, k := range keys {
			vs[i] = k[0]
		}
		return In(t, columns[0], vs)
	}
	return newPredicate(t, tupleIn{columns: qualify(t, columns), keys: keys})
}

// InQuery returns "columns IN (sub)", where sub selects a matching number of
// columns from another table.
func InQuery(t *schema.Table, columns []string, sub sq.Sqlizer) *Predicate {
	return newPredicate(t, subqueryIn{columns: qualify(t, columns), sub: sub})
}

// And returns the conjunction of preds. Nil predicates are skipped; And of
// nothing is nil.
func And(preds ...*Predicate) *Predicate {
	return join(preds, func(exprs []sq.Sqlizer) sq.Sqlizer { return sq.And(exprs) })
}

// Or returns the disjunction of preds. Nil predicates are skipped; Or of
// nothing is nil.
func Or(preds ...*Predicate) *Predicate {
	return join(preds, func(exprs []sq.Sqlizer) sq.Sqlizer { return sq.Or(exprs) })
}

// Not negates p.
func Not(p *Predicate) *Predicate {
	if p == nil {
		return nil
	}
	return &Predicate{table: p.table, expr: not{p.expr}}
}

func join(preds []*Predicate, conj func([]sq.Sqlizer) sq.Sqlizer) *Predicate {
	var (
		table string
		exprs []sq.Sqlizer
	)
	for _, p := range preds {
		if p == nil {
			continue
		}
		switch {
		case table == "":
			table = p.table
		case table != p.table:
			panic(fmt.Sprintf("graph: predicate on %q combined with predicate on %q", p.table, table))
		}
		exprs = append(exprs, p)
	}
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0].(*Predicate)
	}
	return &Predicate{table: table, expr: conj(exprs)}
}

func qualify(t *schema.Table, columns []string) []string {
	qs := make([]string, len(columns))
	for i, c := range columns {
		qs[i] = t.QualifiedColumn(c)
	}
	return qs
}

// lhs renders one column bare and several as a row value.
func lhs(columns []string) string {
	if len(columns) == 1 {
		return columns[0]
	}
	return "(" + strings.Join(columns, ", ") + ")"
}

type not struct{ expr sq.Sqlizer }

func (n not) ToSql() (string, []any, error) {
	query, args, err := n.expr.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + query + ")", args, nil
}

type subqueryIn struct {
	columns []string
	sub     sq.Sqlizer
}

func (s subqueryIn) ToSql() (string, []any, error) {
	query, args, err := s.sub.ToSql()
	if err != nil {
		return "", nil, err
	}
	return lhs(s.columns) + " IN (" + query + ")", args, nil
}

type tupleIn struct {
	columns []string
	keys    []Key
}

func (t tupleIn) ToSql() (string, []any, error) {
	if len(t.keys) == 0 {
		return "(1=0)", nil, nil
	}
	var (
		b    strings.Builder
		args = make([]any, 0, len(t.keys)*len(t.columns))
		row  = "(" + strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ") + ")"
	)
	b.WriteString(lhs(t.columns))
	b.WriteString(" IN (")
	for i, k := range t.keys {
		if len(k) != len(t.columns) {
			return "", nil, fmt.Errorf("graph: key of %d values for %d columns", len(k), len(t.columns))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(row)
		for _, v := range k {
			args = append(args, v.Any())
		}
	}
	b.WriteString(")")
	return b.String(), args, nil
}
