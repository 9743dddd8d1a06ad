package graph

import (
	"strings"

	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/scalar"
	"github.com/syssam/relgraph/schema"
)

// Direction is the direction of an ordering term.
type Direction string

// Ordering directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Keys of an order entry.
const (
	orderField     = "field"
	orderDirection = "direction"
)

// OrderTerm orders by one column.
type OrderTerm struct {
	Column    string
	Direction Direction
}

// OrderBy renders the term as an ORDER BY item.
func (o OrderTerm) OrderBy(t *schema.Table) string {
	return t.QualifiedColumn(o.Column) + " " + string(o.Direction)
}

// CompileOrder decodes an order argument: a list of {field, direction}
// entries, where direction defaults to ASC. Later entries break ties of
// earlier ones.
func CompileOrder(t *schema.Table, l scalar.Literal) ([]OrderTerm, error) {
	if l.IsNull() {
		return nil, nil
	}
	items, ok := l.Items()
	if !ok {
		items = []scalar.Literal{l}
	}
	terms := make([]OrderTerm, 0, len(items))
	for _, item := range items {
		if _, ok := item.Fields(); !ok {
			return nil, relgraph.NewMalformedArgumentError(ArgOrder, "list of {field, direction}")
		}
		name, ok := enumOrString(item, orderField)
		if !ok {
			return nil, relgraph.NewMalformedArgumentError(ArgOrder+"."+orderField, "column name")
		}
		if _, ok := t.Column(name); !ok {
			return nil, relgraph.NewUnknownFieldError(t.Name, name)
		}
		term := OrderTerm{Column: name, Direction: Asc}
		if _, set := present(item, orderDirection); set {
			dir, ok := enumOrString(item, orderDirection)
			switch d := Direction(strings.ToUpper(dir)); {
			case ok && (d == Asc || d == Desc):
				term.Direction = d
			default:
				return nil, relgraph.NewMalformedArgumentError(ArgOrder+"."+orderDirection, "ASC or DESC")
			}
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// CompileCount decodes a limit or offset argument. The second result is
// false when the argument is absent or null.
func CompileCount(sel Selection, name string) (uint64, bool, error) {
	l, ok := argument(sel, name)
	if !ok {
		return 0, false, nil
	}
	n, ok := scalar.DecodeInt64(l)
	if !ok || n < 0 {
		return 0, false, relgraph.NewMalformedArgumentError(name, "non-negative Int")
	}
	return uint64(n), true, nil
}

func enumOrString(l scalar.Literal, name string) (string, bool) {
	v, ok := present(l, name)
	if !ok {
		return "", false
	}
	if s, ok := v.Enum(); ok {
		return s, true
	}
	return scalar.DecodeString(v)
}
