package graphql

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/relgraph/graph"
	"github.com/syssam/relgraph/scalar"
)

// collector flattens a selection set into its fields, in request order.
// Fields sharing a response key are merged.
type collector func(ast.SelectionSet) []collected

type collected struct {
	field *ast.Field
	set   ast.SelectionSet
}

// Selection adapts one field of a parsed GraphQL document to
// graph.Selection. Arguments are converted eagerly; a malformed value is
// reported by NewSelection.
type Selection struct {
	fields   []collected
	args     map[string]scalar.Literal
	children map[string]*Selection
}

var _ graph.Selection = (*Selection)(nil)

// NewSelection returns the selection of field f of doc, with variables
// resolved from vars.
func NewSelection(doc *ast.QueryDocument, f *ast.Field, vars map[string]any) (*Selection, error) {
	c := &fieldCollector{doc: doc, vars: vars}
	return newSelection(c.collect, f.Arguments, f.SelectionSet, vars)
}

func newSelection(collect collector, args ast.ArgumentList, set ast.SelectionSet, vars map[string]any) (*Selection, error) {
	s := &Selection{
		fields:   collect(set),
		args:     make(map[string]scalar.Literal, len(args)),
		children: make(map[string]*Selection),
	}
	for _, a := range args {
		l, err := Literal(a.Value, vars)
		if err != nil {
			return nil, err
		}
		s.args[a.Name] = l
	}
	for _, f := range s.fields {
		if len(f.set) == 0 {
			continue
		}
		child, err := newSelection(collect, f.field.Arguments, f.set, vars)
		if err != nil {
			return nil, err
		}
		s.children[responseKey(f.field)] = child
	}
	return s, nil
}

// Fields implements graph.Selection.
func (s *Selection) Fields() []graph.Field {
	fields := make([]graph.Field, len(s.fields))
	for i, f := range s.fields {
		fields[i] = graph.Field{Name: f.field.Name, Alias: alias(f.field)}
	}
	return fields
}

// HasField implements graph.Selection.
func (s *Selection) HasField(name string) bool {
	for _, f := range s.fields {
		if f.field.Name == name {
			return true
		}
	}
	return false
}

// Argument implements graph.Selection.
func (s *Selection) Argument(name string) (scalar.Literal, bool) {
	l, ok := s.args[name]
	return l, ok
}

// Child implements graph.Selection.
func (s *Selection) Child(key string) (graph.Selection, bool) {
	if c, ok := s.children[key]; ok {
		return c, true
	}
	for _, f := range s.fields {
		if responseKey(f.field) == key {
			return graph.Empty, true
		}
	}
	return nil, false
}

func responseKey(f *ast.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// alias returns the alias of f when it differs from its name.
func alias(f *ast.Field) string {
	if f.Alias == f.Name {
		return ""
	}
	return f.Alias
}

// fieldCollector collects fields the way the executor does: fragments are
// inlined once, and @skip / @include are honored.
type fieldCollector struct {
	doc  *ast.QueryDocument
	vars map[string]any
}

func (c *fieldCollector) collect(set ast.SelectionSet) []collected {
	var (
		out     []collected
		index   = make(map[string]int)
		visited = make(map[string]bool)
	)
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch sel := sel.(type) {
			case *ast.Field:
				if !c.include(sel.Directives) {
					continue
				}
				key := responseKey(sel)
				if i, ok := index[key]; ok {
					out[i].set = append(out[i].set, sel.SelectionSet...)
					continue
				}
				index[key] = len(out)
				out = append(out, collected{field: sel, set: sel.SelectionSet})
			case *ast.InlineFragment:
				if c.include(sel.Directives) {
					walk(sel.SelectionSet)
				}
			case *ast.FragmentSpread:
				if visited[sel.Name] || !c.include(sel.Directives) {
					continue
				}
				visited[sel.Name] = true
				def := sel.Definition
				if def == nil && c.doc != nil {
					def = c.doc.Fragments.ForName(sel.Name)
				}
				if def != nil {
					walk(def.SelectionSet)
				}
			}
		}
	}
	walk(set)
	return out
}

func (c *fieldCollector) include(dirs ast.DirectiveList) bool {
	if d := dirs.ForName("skip"); d != nil && c.condition(d) {
		return false
	}
	if d := dirs.ForName("include"); d != nil && !c.condition(d) {
		return false
	}
	return true
}

func (c *fieldCollector) condition(d *ast.Directive) bool {
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false
	}
	l, err := Literal(arg.Value, c.vars)
	if err != nil {
		return false
	}
	b, ok := scalar.DecodeBool(l)
	return ok && b
}
