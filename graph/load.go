package graph

import (
	"context"
	"fmt"

	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/dialect"
	"github.com/syssam/relgraph/dialect/sql"
	"github.com/syssam/relgraph/scalar"
	"github.com/syssam/relgraph/schema"
)

// Load returns every row of table matching the filter, order, limit and
// offset arguments of sel, with the requested fields and edges resolved.
// All statements run on one connection.
func (e *Engine) Load(ctx context.Context, table string, sel Selection) (_ []*Object, err error) {
	ctx, span := e.start(ctx, "Load", table)
	defer func() { end(span, err) }()
	t, err := e.table(table)
	if err != nil {
		return nil, err
	}
	q, err := BuildQuery(e.drv.Dialect(), t, sel)
	if err != nil {
		return nil, err
	}
	var objs []*Object
	err = e.session(ctx, func(conn dialect.ExecQuerier) error {
		objs, err = e.loader(conn).objects(ctx, q, sel, "load")
		return err
	})
	if err != nil {
		return nil, err
	}
	return objs, nil
}

// LoadByPrimaryKey returns the row identified by the primaryKey argument of
// sel, or nil when there is none.
func (e *Engine) LoadByPrimaryKey(ctx context.Context, table string, sel Selection) (_ *Object, err error) {
	ctx, span := e.start(ctx, "LoadByPrimaryKey", table)
	defer func() { end(span, err) }()
	t, err := e.table(table)
	if err != nil {
		return nil, err
	}
	key, err := primaryKeyArg(t, sel)
	if err != nil {
		return nil, err
	}
	q, err := BuildQuery(e.drv.Dialect(), t, sel)
	if err != nil {
		return nil, err
	}
	q.Where(NewKeyCodec(t).Predicate(key))
	q.sel = q.sel.Limit(1)
	var objs []*Object
	err = e.session(ctx, func(conn dialect.ExecQuerier) error {
		objs, err = e.loader(conn).objects(ctx, q, sel, "load_by_primary_key")
		return err
	})
	if err != nil || len(objs) == 0 {
		return nil, err
	}
	return objs[0], nil
}

// primaryKeyArg decodes the primaryKey argument of sel.
func primaryKeyArg(t *schema.Table, sel Selection) (Key, error) {
	l, ok := argument(sel, ArgPrimaryKey)
	if !ok {
		return nil, relgraph.NewNoPrimaryKeyError(t.Name)
	}
	key, ok := NewKeyCodec(t).FromExternal(l)
	if !ok {
		return nil, relgraph.NewNoPrimaryKeyError(t.Name)
	}
	return key, nil
}

// node is one decoded row together with the edges resolved for it.
type node struct {
	row   []scalar.Value
	edges map[string]EdgeState
}

func (n *node) edge(key string) EdgeState {
	if s, ok := n.edges[key]; ok {
		return s
	}
	return NotLoaded(key)
}

// loader runs the statements of one operation on one connection.
type loader struct {
	*Engine
	conn dialect.ExecQuerier
}

func (e *Engine) loader(conn dialect.ExecQuerier) *loader {
	return &loader{Engine: e, conn: conn}
}

// objects runs q, resolves the requested edges and builds the response.
func (l *loader) objects(ctx context.Context, q *Query, sel Selection, op string) ([]*Object, error) {
	nodes, err := l.nodes(ctx, q, sel, op, 0)
	if err != nil {
		return nil, err
	}
	return materialize(q.table, nodes, sel), nil
}

// nodes runs q and resolves the edges requested by sel over all returned rows.
func (l *loader) nodes(ctx context.Context, q *Query, sel Selection, op string, depth int) ([]*node, error) {
	if depth > l.maxDepth {
		return nil, fmt.Errorf("%w (%d)", ErrMaxDepth, l.maxDepth)
	}
	nodes, err := l.query(ctx, q, op)
	if err != nil {
		return nil, err
	}
	for _, f := range sel.Fields() {
		e, ok := q.table.Edge(f.Name)
		if !ok {
			continue
		}
		if err := l.resolve(ctx, nodes, e, f, child(sel, f), depth+1); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// query executes q and decodes every row to the full table arity.
func (l *loader) query(ctx context.Context, q *Query, op string) ([]*node, error) {
	query, args, err := q.SQL()
	if err != nil {
		return nil, err
	}
	l.log.DebugContext(ctx, "graph: query", "table", q.table.Name, "sql", query, "args", args)
	var rows sql.Rows
	if err := l.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, relgraph.NewQueryError(q.table.Name, op, err)
	}
	defer rows.Close()
	nodes, err := scanNodes(&rows, q.proj)
	if err != nil {
		return nil, relgraph.NewQueryError(q.table.Name, op, err)
	}
	return nodes, nil
}

func scanNodes(rows *sql.Rows, proj *Projection) ([]*node, error) {
	t := proj.Table()
	var nodes []*node
	for rows.Next() {
		dest := make([]any, t.Arity())
		ptrs := make([]any, len(dest))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		n := &node{row: make([]scalar.Value, len(dest))}
		for i, col := range t.Columns {
			if !proj.Fetched(i) {
				continue
			}
			v, err := col.Kind.Scan(dest[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", t.QualifiedColumn(col.Name), err)
			}
			n.row[i] = v
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// materialize builds the response objects of nodes for sel.
func materialize(t *schema.Table, nodes []*node, sel Selection) []*Object {
	objs := make([]*Object, len(nodes))
	fields := sel.Fields()
	for i, n := range nodes {
		obj := &Object{entries: make([]Entry, 0, len(fields))}
		for _, f := range fields {
			key := f.Key()
			if f.Name == schema.TypenameField {
				obj.Set(key, t.TypeName)
				continue
			}
			if j := t.ColumnIndex(f.Name); j >= 0 {
				if v := n.row[j]; !v.IsNull() {
					obj.Set(key, v)
				} else {
					obj.Set(key, nil)
				}
				continue
			}
			e, _ := t.Edge(f.Name)
			state := n.edge(key)
			if e.Relation.Unique() {
				if o := state.Unique(); o != nil {
					obj.Set(key, o)
				} else {
					obj.Set(key, nil)
				}
			} else {
				obj.Set(key, state.Items())
			}
		}
		objs[i] = obj
	}
	return objs
}
