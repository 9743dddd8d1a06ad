package graph

import (
	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/schema"
)

// Projection is the column plan of one query level. Every declared column
// keeps its position; columns that are not fetched are selected as NULL so
// the row width is always the table arity.
type Projection struct {
	table *schema.Table
	fetch []bool
}

// PlanProjection plans the columns of t for sel. A column is fetched when it
// is requested, when it is a join column of a requested edge, or when it is
// listed in required. The primary key is fetched whenever any edge is
// requested.
func PlanProjection(t *schema.Table, sel Selection, required ...string) (*Projection, error) {
	p := &Projection{table: t, fetch: make([]bool, t.Arity())}
	edges := false
	for _, f := range sel.Fields() {
		if f.Name == schema.TypenameField {
			continue
		}
		if i := t.ColumnIndex(f.Name); i >= 0 {
			p.fetch[i] = true
			continue
		}
		e, ok := t.Edge(f.Name)
		if !ok {
			return nil, relgraph.NewUnknownFieldError(t.Name, f.Name)
		}
		edges = true
		p.mark(e.Columns)
	}
	if edges {
		p.mark(t.PrimaryKey)
	}
	p.mark(required)
	return p, nil
}

func (p *Projection) mark(columns []string) {
	for _, c := range columns {
		if i := p.table.ColumnIndex(c); i >= 0 {
			p.fetch[i] = true
		}
	}
}

// Table returns the planned table.
func (p *Projection) Table() *schema.Table { return p.table }

// Fetched reports whether the column at position i is read.
func (p *Projection) Fetched(i int) bool { return p.fetch[i] }

// Columns returns the select list: qualified names for fetched columns and
// NULL for the rest.
func (p *Projection) Columns() []string {
	cols := make([]string, len(p.fetch))
	for i, c := range p.table.Columns {
		if p.fetch[i] {
			cols[i] = p.table.QualifiedColumn(c.Name)
		} else {
			cols[i] = "NULL"
		}
	}
	return cols
}
