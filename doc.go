// Package relgraph exposes relational tables as a graph-query schema.
//
// A client selection graph (nested field selections plus filter, order,
// limit, offset and primaryKey arguments) is compiled into SQL, executed on
// one connection, and reassembled into nested results. Writes run in a single
// transaction together with the requery of the written rows.
//
// # Packages
//
//   - scalar: the scalar value model and literal decoding rules
//   - schema: table descriptors and declared associations
//   - graph: the query compiler, association resolver and mutation handlers
//   - dialect, dialect/sql: the connection contract and its database/sql driver
//   - contrib/graphql: gqlparser and gqlgen adapters, SDL rendering and execution
//   - contrib/dataloader: grouping helpers for batched edge loading
//   - dialect/sqlschema: checks table descriptors against a live database
//   - cmd/relgraph: command line for the above
//
// # Usage
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, err := schema.New(
//	    schema.NewTable("people").
//	        Columns(schema.Int("id"), schema.String("name")).
//	        PrimaryKey("id"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng := graph.NewEngine(drv, s)
//	rows, err := eng.Load(ctx, "people", graph.NewRequest().Field("id").Field("name"))
//
// This package holds the error taxonomy shared by all sub-packages.
package relgraph
