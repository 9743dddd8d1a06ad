// Package graphql connects relgraph engines to GraphQL.
//
// # Schema
//
// SDL renders a schema.Schema as a GraphQL schema document. Every table
// becomes an object type with one field per column and edge, together with
// the inputs its arguments take:
//
//	type Person {
//	  id: Int!
//	  name: String!
//	  posts(filter: PostFilter, order: [PostOrder!], limit: Int, offset: Int): [Post!]!
//	}
//
//	input PersonFilter {
//	  id: IntFilter
//	  name: StringFilter
//	  posts: PostFilter
//	  and: [PersonFilter!]
//	  or: [PersonFilter!]
//	  not: PersonFilter
//	}
//
// Tables with a composite primary key also get a <Type>Key input. The Query
// and Mutation types carry the root fields listed by RootFields.
//
// # Selections
//
// Selection adapts a field of a parsed document to graph.Selection.
// NewSelection builds one from a gqlparser document, FromContext from the
// field a gqlgen resolver is resolving:
//
//	func (r *queryResolver) People(ctx context.Context) ([]*graph.Object, error) {
//	    sel, err := graphql.FromContext(ctx)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return r.engine.Load(ctx, "people", sel)
//	}
//
// GQLGenConfig.BindSchema registers the rendered schema and its custom
// scalars in gqlgen.yml.
//
// # Execution
//
// Executor serves the rendered schema directly, without generated code:
//
//	x, err := graphql.NewExecutor(engine)
//	if err != nil {
//	    return err
//	}
//	resp := x.Execute(ctx, graphql.Params{
//	    Query: `{ people(limit: 10) { name posts { title } } }`,
//	})
//
// Root fields fail independently: a failed field is null in the response
// data and reported in the errors list with a "code" extension.
package graphql
