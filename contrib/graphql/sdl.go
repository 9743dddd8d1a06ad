package graphql

import (
	"bytes"

	"github.com/go-openapi/inflect"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/relgraph/graph"
	"github.com/syssam/relgraph/scalar"
	"github.com/syssam/relgraph/schema"
)

// Names of the shared definitions of a rendered schema.
const (
	QueryType          = "Query"
	MutationType       = "Mutation"
	DeletedCountType   = "DeletedCount"
	OrderDirectionType = "OrderDirection"
)

// customScalars are the kinds GraphQL does not predefine, in declaration
// order.
var customScalars = []scalar.Kind{
	scalar.SmallInt,
	scalar.BigInt,
	scalar.Double,
	scalar.Timestamp,
	scalar.Date,
	scalar.UUID,
}

// Op is the engine operation behind a root field.
type Op int

// Root field operations.
const (
	OpLoad Op = iota
	OpLoadByPrimaryKey
	OpInsert
	OpBatchInsert
	OpDelete
)

// RootField is one field of the Query or Mutation type.
type RootField struct {
	Name  string
	Table string
	Op    Op
}

// RootFields returns the root fields serving t:
//
//	people(filter, order, limit, offset): [Person!]!
//	person(primaryKey): Person
//	createPerson(input): Person
//	createPeople(input, order): [Person!]!
//	deletePerson(primaryKey): DeletedCount!
func RootFields(t *schema.Table) []RootField {
	plural := inflect.Pluralize(t.TypeName)
	list := inflect.CamelizeDownFirst(plural)
	one := inflect.CamelizeDownFirst(t.TypeName)
	if one == list {
		one += "ByPrimaryKey"
	}
	many := "create" + plural
	if plural == t.TypeName {
		many = "createMany" + plural
	}
	return []RootField{
		{Name: list, Table: t.Name, Op: OpLoad},
		{Name: one, Table: t.Name, Op: OpLoadByPrimaryKey},
		{Name: "create" + t.TypeName, Table: t.Name, Op: OpInsert},
		{Name: many, Table: t.Name, Op: OpBatchInsert},
		{Name: "delete" + t.TypeName, Table: t.Name, Op: OpDelete},
	}
}

// SDL renders s as a GraphQL schema document.
func SDL(s *schema.Schema) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(Document(s))
	return buf.String()
}

// Document builds the schema document of s: one object type, filter,
// order and input definition per table, the per-kind column filters, and
// the Query and Mutation roots.
func Document(s *schema.Schema) *ast.SchemaDocument {
	b := &builder{kinds: make(map[scalar.Kind]bool)}
	tables := s.Tables()
	for _, t := range tables {
		for _, c := range t.Columns {
			b.kinds[c.Kind] = true
		}
	}
	for _, k := range customScalars {
		if b.kinds[k] {
			b.add(&ast.Definition{Kind: ast.Scalar, Name: k.String()})
		}
	}
	b.add(&ast.Definition{
		Kind: ast.Enum,
		Name: OrderDirectionType,
		EnumValues: ast.EnumValueList{
			{Name: string(graph.Asc)},
			{Name: string(graph.Desc)},
		},
	})
	b.add(&ast.Definition{
		Kind:        ast.Object,
		Name:        DeletedCountType,
		Description: "Number of deleted rows.",
		Fields: ast.FieldList{
			{Name: "count", Type: ast.NonNullNamedType("Int", nil)},
		},
	})
	for k := scalar.SmallInt; k <= scalar.ID; k++ {
		if b.kinds[k] {
			b.add(columnFilter(k))
		}
	}
	query := &ast.Definition{Kind: ast.Object, Name: QueryType}
	mutation := &ast.Definition{Kind: ast.Object, Name: MutationType}
	for _, t := range tables {
		b.table(t)
		keyArgs, keyDef := graph.NewKeyCodec(t).Register()
		if keyDef != nil {
			b.add(keyDef)
		}
		for _, rf := range RootFields(t) {
			switch rf.Op {
			case OpLoad:
				query.Fields = append(query.Fields, &ast.FieldDefinition{
					Name:      rf.Name,
					Arguments: listArgs(t),
					Type:      ast.NonNullListType(ast.NonNullNamedType(t.TypeName, nil), nil),
				})
			case OpLoadByPrimaryKey:
				query.Fields = append(query.Fields, &ast.FieldDefinition{
					Name:      rf.Name,
					Arguments: keyArgs,
					Type:      ast.NamedType(t.TypeName, nil),
				})
			case OpInsert:
				mutation.Fields = append(mutation.Fields, &ast.FieldDefinition{
					Name: rf.Name,
					Arguments: ast.ArgumentDefinitionList{
						{Name: graph.ArgInput, Type: ast.NonNullNamedType(inputName(t), nil)},
					},
					Type: ast.NamedType(t.TypeName, nil),
				})
			case OpBatchInsert:
				mutation.Fields = append(mutation.Fields, &ast.FieldDefinition{
					Name: rf.Name,
					Arguments: ast.ArgumentDefinitionList{
						{Name: graph.ArgInput, Type: ast.NonNullListType(ast.NonNullNamedType(inputName(t), nil), nil)},
						{Name: graph.ArgOrder, Type: orderType(t)},
					},
					Type: ast.NonNullListType(ast.NonNullNamedType(t.TypeName, nil), nil),
				})
			case OpDelete:
				mutation.Fields = append(mutation.Fields, &ast.FieldDefinition{
					Name:      rf.Name,
					Arguments: keyArgs,
					Type:      ast.NonNullNamedType(DeletedCountType, nil),
				})
			}
		}
	}
	if len(query.Fields) > 0 {
		b.add(query, mutation)
	}
	return &ast.SchemaDocument{Definitions: b.defs}
}

type builder struct {
	defs  ast.DefinitionList
	kinds map[scalar.Kind]bool
}

func (b *builder) add(defs ...*ast.Definition) {
	b.defs = append(b.defs, defs...)
}

// table adds the object type of t and its filter, order and input types.
func (b *builder) table(t *schema.Table) {
	obj := &ast.Definition{Kind: ast.Object, Name: t.TypeName, Description: t.Comment}
	filter := &ast.Definition{Kind: ast.InputObject, Name: filterName(t)}
	input := &ast.Definition{Kind: ast.InputObject, Name: inputName(t)}
	fields := &ast.Definition{Kind: ast.Enum, Name: t.TypeName + "OrderField"}
	for _, c := range t.Columns {
		typ := ast.NamedType(c.Kind.String(), nil)
		if !c.Nullable {
			typ = ast.NonNullNamedType(c.Kind.String(), nil)
		}
		obj.Fields = append(obj.Fields, &ast.FieldDefinition{Name: c.Name, Type: typ, Description: c.Comment})
		filter.Fields = append(filter.Fields, &ast.FieldDefinition{Name: c.Name, Type: ast.NamedType(c.Kind.String()+"Filter", nil)})
		input.Fields = append(input.Fields, &ast.FieldDefinition{Name: c.Name, Type: ast.NamedType(c.Kind.String(), nil)})
		fields.EnumValues = append(fields.EnumValues, &ast.EnumValueDefinition{Name: c.Name})
	}
	for _, e := range t.Edges {
		target := e.TargetTable()
		f := &ast.FieldDefinition{Name: e.Name, Description: e.Comment}
		switch {
		case e.Relation.Unique():
			f.Type = ast.NamedType(target.TypeName, nil)
		default:
			f.Arguments = listArgs(target)
			f.Type = ast.NonNullListType(ast.NonNullNamedType(target.TypeName, nil), nil)
		}
		obj.Fields = append(obj.Fields, f)
		filter.Fields = append(filter.Fields, &ast.FieldDefinition{Name: e.Name, Type: ast.NamedType(filterName(target), nil)})
	}
	filter.Fields = append(filter.Fields,
		&ast.FieldDefinition{Name: graph.FilterAnd, Type: ast.ListType(ast.NonNullNamedType(filter.Name, nil), nil)},
		&ast.FieldDefinition{Name: graph.FilterOr, Type: ast.ListType(ast.NonNullNamedType(filter.Name, nil), nil)},
		&ast.FieldDefinition{Name: graph.FilterNot, Type: ast.NamedType(filter.Name, nil)},
	)
	order := &ast.Definition{
		Kind: ast.InputObject,
		Name: t.TypeName + "Order",
		Fields: ast.FieldList{
			{Name: "field", Type: ast.NonNullNamedType(fields.Name, nil)},
			{
				Name:         "direction",
				Type:         ast.NamedType(OrderDirectionType, nil),
				DefaultValue: &ast.Value{Kind: ast.EnumValue, Raw: string(graph.Asc)},
			},
		},
	}
	b.add(obj, filter, fields, order, input)
}

// columnFilter returns the filter input of kind k, with one field per
// operator.
func columnFilter(k scalar.Kind) *ast.Definition {
	def := &ast.Definition{Kind: ast.InputObject, Name: k.String() + "Filter"}
	for _, op := range graph.Ops(k) {
		var typ *ast.Type
		switch op {
		case graph.OpIsNull:
			typ = ast.NamedType("Boolean", nil)
		case graph.OpEqAny:
			typ = ast.ListType(ast.NonNullNamedType(k.String(), nil), nil)
		default:
			typ = ast.NamedType(k.String(), nil)
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: string(op), Type: typ})
	}
	return def
}

func listArgs(t *schema.Table) ast.ArgumentDefinitionList {
	return ast.ArgumentDefinitionList{
		{Name: graph.ArgFilter, Type: ast.NamedType(filterName(t), nil)},
		{Name: graph.ArgOrder, Type: orderType(t)},
		{Name: graph.ArgLimit, Type: ast.NamedType("Int", nil)},
		{Name: graph.ArgOffset, Type: ast.NamedType("Int", nil)},
	}
}

func orderType(t *schema.Table) *ast.Type {
	return ast.ListType(ast.NonNullNamedType(t.TypeName+"Order", nil), nil)
}

func filterName(t *schema.Table) string { return t.TypeName + "Filter" }

func inputName(t *schema.Table) string { return t.TypeName + "Input" }
