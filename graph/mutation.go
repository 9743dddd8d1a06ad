package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/dialect"
	"github.com/syssam/relgraph/dialect/sql"
	"github.com/syssam/relgraph/scalar"
	"github.com/syssam/relgraph/schema"
)

// DeletedCount is the result of Delete.
type DeletedCount struct {
	Count int64 `json:"count"`
}

// Insert inserts the row given by the input argument of sel and returns it
// as selected by sel, read back in the same transaction. A row that is not
// visible to the read-back yields nil without error.
func (e *Engine) Insert(ctx context.Context, table string, sel Selection) (_ *Object, err error) {
	ctx, span := e.start(ctx, "Insert", table)
	defer func() { end(span, err) }()
	t, err := e.table(table)
	if err != nil {
		return nil, err
	}
	l, ok := argument(sel, ArgInput)
	if !ok {
		return nil, relgraph.NewMissingArgumentError(t.Name, ArgInput)
	}
	cols, row, err := decodeInput(t, l, ArgInput)
	if err != nil {
		return nil, err
	}
	var obj *Object
	err = e.withTx(ctx, func(tx dialect.Tx) error {
		keys, err := e.insert(ctx, tx, t, cols, [][]scalar.Value{row}, "insert")
		if err != nil {
			return err
		}
		objs, err := e.requery(ctx, tx, t, sel, keys, "insert")
		if err != nil {
			return err
		}
		if len(objs) == 0 {
			e.log.DebugContext(ctx, "graph: inserted row not visible", "table", t.Name)
			return nil
		}
		obj = objs[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// BatchInsert inserts every row of the input list argument in one statement
// and returns them as selected by sel, read back in the same transaction.
// The result follows the order argument of sel, not the input order. Rows
// omitting a column supplied by another row insert NULL for it.
func (e *Engine) BatchInsert(ctx context.Context, table string, sel Selection) (_ []*Object, err error) {
	ctx, span := e.start(ctx, "BatchInsert", table)
	defer func() { end(span, err) }()
	t, err := e.table(table)
	if err != nil {
		return nil, err
	}
	l, ok := argument(sel, ArgInput)
	if !ok {
		return nil, relgraph.NewMissingArgumentError(t.Name, ArgInput)
	}
	items, ok := l.Items()
	if !ok {
		items = []scalar.Literal{l}
	}
	if len(items) == 0 {
		return nil, relgraph.NewMalformedArgumentError(ArgInput, "non-empty list of "+t.TypeName+" inputs")
	}
	cols, rows, err := decodeInputs(t, items)
	if err != nil {
		return nil, err
	}
	var objs []*Object
	err = e.withTx(ctx, func(tx dialect.Tx) error {
		keys, err := e.insert(ctx, tx, t, cols, rows, "batch_insert")
		if err != nil {
			return err
		}
		objs, err = e.requery(ctx, tx, t, sel, keys, "batch_insert")
		return err
	})
	if err != nil {
		return nil, err
	}
	if objs == nil {
		objs = []*Object{}
	}
	return objs, nil
}

// Delete deletes the row identified by the primaryKey argument of sel and
// reports how many rows were removed.
func (e *Engine) Delete(ctx context.Context, table string, sel Selection) (_ *DeletedCount, err error) {
	ctx, span := e.start(ctx, "Delete", table)
	defer func() { end(span, err) }()
	t, err := e.table(table)
	if err != nil {
		return nil, err
	}
	if _, ok := argument(sel, ArgPrimaryKey); !ok {
		return nil, relgraph.NewMissingArgumentError(t.Name, ArgPrimaryKey)
	}
	key, err := primaryKeyArg(t, sel)
	if err != nil {
		return nil, err
	}
	query, args, err := Statements(e.drv.Dialect()).
		Delete(t.Name).
		Where(NewKeyCodec(t).Predicate(key)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var n int64
	err = e.withTx(ctx, func(tx dialect.Tx) error {
		e.log.DebugContext(ctx, "graph: delete", "table", t.Name, "sql", query, "args", args)
		var res sql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return mutationError(t, "delete", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return mutationError(t, "delete", err)
		}
		n = affected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DeletedCount{Count: n}, nil
}

// insert runs one INSERT for rows and returns the primary keys of the
// inserted rows. Dialects with RETURNING read the keys back from the
// statement; MySQL takes them from the input or from LastInsertId.
func (e *Engine) insert(ctx context.Context, tx dialect.Tx, t *schema.Table, cols []string, rows [][]scalar.Value, op string) ([]Key, error) {
	name := e.drv.Dialect()
	b := Statements(name).Insert(t.Name).Columns(cols...)
	for _, row := range rows {
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v.Any()
		}
		b = b.Values(vals...)
	}
	if dialect.SupportsReturning(name) {
		b = b.Suffix("RETURNING " + strings.Join(t.PrimaryKey, ", "))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	e.log.DebugContext(ctx, "graph: insert", "table", t.Name, "sql", query, "args", args)
	if dialect.SupportsReturning(name) {
		keys, err := returnedKeys(ctx, tx, t, query, args)
		if err != nil {
			return nil, mutationError(t, op, err)
		}
		return keys, nil
	}
	var res sql.Result
	if err := tx.Exec(ctx, query, args, &res); err != nil {
		return nil, mutationError(t, op, err)
	}
	if keys, ok := inputKeys(t, cols, rows); ok {
		return keys, nil
	}
	keyCol := t.KeyColumns()[0]
	if t.CompositeKey() || !keyCol.Kind.Integer() {
		return nil, mutationError(t, op, errors.New("generated key requires a single integer primary key"))
	}
	first, err := res.LastInsertId()
	if err != nil {
		return nil, mutationError(t, op, err)
	}
	// Multi-row inserts allocate consecutive ids starting at LastInsertId.
	keys := make([]Key, len(rows))
	for i := range rows {
		keys[i] = Key{scalar.Int64(first + int64(i))}
	}
	return keys, nil
}

func returnedKeys(ctx context.Context, tx dialect.Tx, t *schema.Table, query string, args []any) ([]Key, error) {
	var rows sql.Rows
	if err := tx.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	cols := t.KeyColumns()
	var keys []Key
	for rows.Next() {
		dest := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		k := make(Key, len(cols))
		for i, col := range cols {
			v, err := col.Kind.Scan(dest[i])
			if err != nil {
				return nil, err
			}
			k[i] = v
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// inputKeys returns the keys of rows when every key column was supplied.
func inputKeys(t *schema.Table, cols []string, rows [][]scalar.Value) ([]Key, bool) {
	idx := make([]int, len(t.PrimaryKey))
	for i, pk := range t.PrimaryKey {
		idx[i] = -1
		for j, c := range cols {
			if c == pk {
				idx[i] = j
			}
		}
		if idx[i] < 0 {
			return nil, false
		}
	}
	keys := make([]Key, len(rows))
	for i, row := range rows {
		keys[i] = keyAt(row, idx)
		if keys[i].HasNull() {
			return nil, false
		}
	}
	return keys, true
}

// requery loads the rows with the given keys as selected by sel.
func (e *Engine) requery(ctx context.Context, tx dialect.Tx, t *schema.Table, sel Selection, keys []Key, op string) ([]*Object, error) {
	q, err := BuildQuery(e.drv.Dialect(), t, sel)
	if err != nil {
		return nil, err
	}
	codec := NewKeyCodec(t)
	preds := make([]*Predicate, len(keys))
	for i, k := range keys {
		preds[i] = codec.Predicate(k)
	}
	q.WhereAny(preds)
	return e.loader(tx).objects(ctx, q, sel, op)
}

// decodeInput decodes one input object into the supplied columns, in
// declaration order, and their values.
func decodeInput(t *schema.Table, l scalar.Literal, path string) ([]string, []scalar.Value, error) {
	fields, ok := l.Fields()
	if !ok || len(fields) == 0 {
		return nil, nil, relgraph.NewMalformedArgumentError(path, "non-empty "+t.TypeName+" input object")
	}
	for _, f := range fields {
		if _, ok := t.Column(f.Name); !ok {
			return nil, nil, relgraph.NewUnknownFieldError(t.Name, f.Name)
		}
	}
	var (
		cols []string
		vals []scalar.Value
	)
	for _, col := range t.Columns {
		f, ok := l.Field(col.Name)
		if !ok {
			continue
		}
		v := scalar.Null
		if !f.IsNull() {
			if v, ok = col.Kind.Decode(f); !ok {
				return nil, nil, relgraph.NewMalformedArgumentError(path+"."+col.Name, col.Kind.String())
			}
		}
		cols = append(cols, col.Name)
		vals = append(vals, v)
	}
	return cols, vals, nil
}

// decodeInputs decodes a list of input objects over the union of their
// columns.
func decodeInputs(t *schema.Table, items []scalar.Literal) ([]string, [][]scalar.Value, error) {
	type decoded struct {
		cols []string
		vals []scalar.Value
	}
	var (
		all  = make([]decoded, len(items))
		used = make([]bool, t.Arity())
	)
	for i, item := range items {
		cols, vals, err := decodeInput(t, item, fmt.Sprintf("%s[%d]", ArgInput, i))
		if err != nil {
			return nil, nil, err
		}
		all[i] = decoded{cols: cols, vals: vals}
		for _, c := range cols {
			used[t.ColumnIndex(c)] = true
		}
	}
	var cols []string
	for i, col := range t.Columns {
		if used[i] {
			cols = append(cols, col.Name)
		}
	}
	rows := make([][]scalar.Value, len(all))
	for i, d := range all {
		row := make([]scalar.Value, len(cols))
		for j, c := range cols {
			for k, dc := range d.cols {
				if dc == c {
					row[j] = d.vals[k]
				}
			}
		}
		rows[i] = row
	}
	return cols, rows, nil
}

// mutationError wraps a backend failure, classifying constraint violations.
func mutationError(t *schema.Table, op string, err error) error {
	if kind := sql.Constraint(err); kind != sql.NoConstraint {
		err = relgraph.NewConstraintError(kind.String(), err)
	}
	return relgraph.NewMutationError(t.Name, op, err)
}
