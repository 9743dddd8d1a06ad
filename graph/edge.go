package graph

import (
	"context"

	"github.com/syssam/relgraph/contrib/dataloader"
	"github.com/syssam/relgraph/schema"
)

// resolve loads edge e for every parent with a single query over the target
// table, constrained to the join keys found in parents and to the filter,
// order, limit and offset of sel. Children are grouped by join key in the
// order the query returned them and attached to every parent with that key.
// Without parents or keys, no query is issued.
func (l *loader) resolve(ctx context.Context, parents []*node, e *schema.Edge, f Field, sel Selection, depth int) error {
	owner, target := e.Owner(), e.TargetTable()
	var (
		local = columnIndexes(owner, e.Columns)
		keys  []Key
		seen  = make(map[string]bool)
	)
	for _, p := range parents {
		k := keyAt(p.row, local)
		if k.HasNull() || seen[k.String()] {
			continue
		}
		seen[k.String()] = true
		keys = append(keys, k)
	}
	groups := make(map[string][]*Object, len(keys))
	if len(keys) > 0 {
		q, err := BuildQuery(l.drv.Dialect(), target, sel, e.RefColumns...)
		if err != nil {
			return err
		}
		q.Where(InKeys(target, e.RefColumns, keys))
		children, err := l.nodes(ctx, q, sel, "edge", depth)
		if err != nil {
			return err
		}
		remote := columnIndexes(target, e.RefColumns)
		byKey := dataloader.GroupByKey(children, func(c *node) string {
			return keyAt(c.row, remote).String()
		})
		for k, group := range byKey {
			groups[k] = materialize(target, group, sel)
		}
	}
	// Parents without a join key map to "", which no child key renders as.
	parentKeys := make([]string, len(parents))
	for i, p := range parents {
		if k := keyAt(p.row, local); !k.HasNull() {
			parentKeys[i] = k.String()
		}
	}
	key := f.Key()
	for i, items := range dataloader.OrderGroupsByKeys(parentKeys, groups) {
		p := parents[i]
		if p.edges == nil {
			p.edges = make(map[string]EdgeState)
		}
		p.edges[key] = Loaded(key, items)
	}
	return nil
}
