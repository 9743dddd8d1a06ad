// Package graph compiles graph-shaped selections into SQL, runs them and
// reassembles nested results.
//
// # Selections
//
// A Selection is one level of a client request: the requested fields in
// order, their arguments and the sub-selection of every field. Request is an
// immutable in-memory implementation; contrib/graphql adapts parsed GraphQL
// documents and gqlgen resolver contexts.
//
//	req := graph.NewRequest().
//	    Arg("filter", map[string]any{"name": map[string]any{"eq": "Ada"}}).
//	    Arg("order", []any{map[string]any{"field": "id", "direction": "DESC"}}).
//	    Field("id").
//	    Field("name").
//	    Field("posts", graph.NewRequest().Field("title"))
//
// # Queries
//
// BuildQuery turns one selection level into a single SELECT:
//
//   - every declared column keeps its position in the select list; columns
//     that are not needed are selected as NULL
//   - the filter argument compiles to a predicate tree (see FilterCompiler)
//   - limit, offset and order apply after the filter
//
// # Loading
//
// Engine.Load runs the root query, then one query per requested edge per
// level, each constrained to the join keys of all parent rows at that level.
// Every statement of a load runs on one pinned connection; every mutation
// runs in one transaction that covers the write and its read-back.
//
//	eng := graph.NewEngine(drv, s, graph.WithLogger(logger))
//	people, err := eng.Load(ctx, "people", req)
//
// Results are Objects: ordered field lists keyed by alias or field name,
// which marshal to JSON in request order.
package graph
