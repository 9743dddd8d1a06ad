package graph

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/scalar"
	"github.com/syssam/relgraph/schema"
)

// Filter combinator keys, accepted next to column and edge names.
const (
	FilterAnd = "and"
	FilterOr  = "or"
	FilterNot = "not"
)

// Op is a column filter operator.
type Op string

// Column filter operators.
const (
	OpEQ     Op = "eq"
	OpNEQ    Op = "notEq"
	OpLT     Op = "lt"
	OpLTE    Op = "lte"
	OpGT     Op = "gt"
	OpGTE    Op = "gte"
	OpIsNull Op = "isNull"
	OpEqAny  Op = "eqAny"
)

var (
	orderedOps  = []Op{OpEQ, OpNEQ, OpLT, OpLTE, OpGT, OpGTE, OpIsNull, OpEqAny}
	booleanOps  = []Op{OpEQ, OpNEQ, OpIsNull}
	identityOps = []Op{OpEQ, OpNEQ, OpIsNull, OpEqAny}
)

// Ops returns the operators a column of kind k accepts, in the order they
// compile.
func Ops(k scalar.Kind) []Op {
	switch {
	case k.Ordered():
		return orderedOps
	case k == scalar.Boolean:
		return booleanOps
	default:
		return identityOps
	}
}

// FilterCompiler lowers filter arguments into predicates.
type FilterCompiler struct {
	// Sub-queries keep "?" placeholders; the outer statement rewrites them.
	builder sq.StatementBuilderType
}

// NewFilterCompiler returns a filter compiler.
func NewFilterCompiler() *FilterCompiler {
	return &FilterCompiler{builder: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
}

// Compile lowers the filter literal l into a predicate over t. A null or
// absent filter, and a filter whose entries are all absent, compile to nil:
// no constraint.
//
// Entries compile in declaration order of the table: columns first, then
// edges, then and, or and not.
func (fc *FilterCompiler) Compile(t *schema.Table, l scalar.Literal) (*Predicate, error) {
	return fc.compile(t, l, ArgFilter)
}

func (fc *FilterCompiler) compile(t *schema.Table, l scalar.Literal, path string) (*Predicate, error) {
	if l.IsNull() {
		return nil, nil
	}
	fields, ok := l.Fields()
	if !ok {
		return nil, relgraph.NewMalformedArgumentError(path, t.TypeName+" filter object")
	}
	for _, f := range fields {
		if !filterable(t, f.Name) {
			return nil, relgraph.NewUnknownFieldError(t.Name, f.Name)
		}
	}
	var preds []*Predicate
	for _, col := range t.Columns {
		sub, ok := present(l, col.Name)
		if !ok {
			continue
		}
		ps, err := fc.column(t, col, sub, path+"."+col.Name)
		if err != nil {
			return nil, err
		}
		preds = append(preds, ps...)
	}
	for _, e := range t.Edges {
		sub, ok := present(l, e.Name)
		if !ok {
			continue
		}
		p, err := fc.edge(t, e, sub, path+"."+e.Name)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if sub, ok := present(l, FilterAnd); ok {
		ps, err := fc.list(t, sub, path+"."+FilterAnd)
		if err != nil {
			return nil, err
		}
		preds = append(preds, ps...)
	}
	if sub, ok := present(l, FilterOr); ok {
		ps, err := fc.list(t, sub, path+"."+FilterOr)
		if err != nil {
			return nil, err
		}
		// An unconstrained branch makes the whole disjunction unconstrained.
		if !containsNil(ps) {
			preds = append(preds, Or(ps...))
		}
	}
	if sub, ok := present(l, FilterNot); ok {
		p, err := fc.compile(t, sub, path+"."+FilterNot)
		if err != nil {
			return nil, err
		}
		preds = append(preds, Not(p))
	}
	return And(preds...), nil
}

// list compiles every filter of a list literal. A single object is accepted
// as a list of one, the way GraphQL coerces list inputs.
func (fc *FilterCompiler) list(t *schema.Table, l scalar.Literal, path string) ([]*Predicate, error) {
	items, ok := l.Items()
	if !ok {
		items = []scalar.Literal{l}
	}
	ps := make([]*Predicate, len(items))
	for i, item := range items {
		p, err := fc.compile(t, item, path)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

func (fc *FilterCompiler) column(t *schema.Table, col *schema.Column, l scalar.Literal, path string) ([]*Predicate, error) {
	fields, ok := l.Fields()
	if !ok {
		return nil, relgraph.NewMalformedArgumentError(path, col.Kind.String()+" filter object")
	}
	ops := Ops(col.Kind)
	for _, f := range fields {
		if !containsOp(ops, Op(f.Name)) {
			return nil, relgraph.NewMalformedArgumentError(path+"."+f.Name, "one of "+joinOps(ops))
		}
	}
	var preds []*Predicate
	for _, op := range ops {
		arg, ok := present(l, string(op))
		if !ok {
			continue
		}
		p, err := fc.operator(t, col, op, arg, path+"."+string(op))
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func (fc *FilterCompiler) operator(t *schema.Table, col *schema.Column, op Op, l scalar.Literal, path string) (*Predicate, error) {
	switch op {
	case OpIsNull:
		null, ok := scalar.DecodeBool(l)
		if !ok {
			return nil, relgraph.NewMalformedArgumentError(path, scalar.Boolean.String())
		}
		if null {
			return IsNull(t, col.Name), nil
		}
		return NotNull(t, col.Name), nil
	case OpEqAny:
		vs, ok := scalar.ListOf(col.Kind.Decoder())(l)
		if !ok {
			return nil, relgraph.NewMalformedArgumentError(path, "["+col.Kind.String()+"]")
		}
		return In(t, col.Name, vs), nil
	}
	v, ok := col.Kind.Decode(l)
	if !ok {
		return nil, relgraph.NewMalformedArgumentError(path, col.Kind.String())
	}
	switch op {
	case OpEQ:
		return EQ(t, col.Name, v), nil
	case OpNEQ:
		return NEQ(t, col.Name, v), nil
	case OpLT:
		return LT(t, col.Name, v), nil
	case OpLTE:
		return LTE(t, col.Name, v), nil
	case OpGT:
		return GT(t, col.Name, v), nil
	default:
		return GTE(t, col.Name, v), nil
	}
}

// edge lowers a relation filter to a membership test of the owner's join
// columns in a sub-query over the target. An optional belongs-to edge also
// matches rows whose foreign key is null.
func (fc *FilterCompiler) edge(t *schema.Table, e *schema.Edge, l scalar.Literal, path string) (*Predicate, error) {
	target := e.TargetTable()
	nested, err := fc.compile(target, l, path)
	if err != nil {
		return nil, err
	}
	sub := fc.builder.Select(qualify(target, e.RefColumns)...).From(target.Name)
	if nested != nil {
		sub = sub.Where(nested)
	}
	p := InQuery(t, e.Columns, sub)
	if e.Relation == schema.BelongsTo && e.Optional {
		branches := []*Predicate{p}
		for _, c := range e.Columns {
			if col, _ := t.Column(c); col.Nullable {
				branches = append(branches, IsNull(t, c))
			}
		}
		p = Or(branches...)
	}
	return p, nil
}

func filterable(t *schema.Table, name string) bool {
	switch name {
	case FilterAnd, FilterOr, FilterNot:
		return true
	}
	if _, ok := t.Column(name); ok {
		return true
	}
	_, ok := t.Edge(name)
	return ok
}

// present returns the named entry of an object literal unless it is absent
// or null.
func present(l scalar.Literal, name string) (scalar.Literal, bool) {
	v, ok := l.Field(name)
	if !ok || v.IsNull() {
		return scalar.Literal{}, false
	}
	return v, true
}

func containsNil(ps []*Predicate) bool {
	if len(ps) == 0 {
		return true
	}
	for _, p := range ps {
		if p == nil {
			return true
		}
	}
	return false
}

func containsOp(ops []Op, op Op) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func joinOps(ops []Op) string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}
