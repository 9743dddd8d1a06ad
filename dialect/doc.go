// Package dialect defines the connection contract consumed by the resolver.
//
// # Supported Dialects
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Session(ctx context.Context) (Session, error)
//	    Close() error
//	    Dialect() string
//	}
//
// A top-level read pins one Session and issues every nested association
// query through it. A top-level write opens one Tx and issues the write and
// its requery through it.
//
// # Capabilities
//
// Backends differ in a few places the compiler cares about:
//
//   - OffsetRequiresLimit: MySQL and SQLite reject OFFSET without LIMIT;
//     NoLimit supplies the value used in that case.
//   - SupportsReturning: MySQL has no INSERT ... RETURNING, so generated keys
//     come from LastInsertId instead.
package dialect
