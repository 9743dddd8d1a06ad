package dialect

import (
	"context"
	"database/sql/driver"
	"math"
)

// Dialect names for external usage.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the 2 database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in SQL, INSERT or UPDATE.
	// It scans the result into the pointer v. For SQL drivers, it is dialect/sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT in SQL.
	// It scans the result into the pointer v. For SQL drivers, it is *dialect/sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for the resolver.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	// The provided context is used until the transaction is committed or rolled back.
	Tx(context.Context) (Tx, error)
	// Session pins one connection from the pool. Every statement issued
	// through the session runs on that connection until it is closed.
	Session(context.Context) (Session, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}

// Session is a connection pinned for the lifetime of one operation.
type Session interface {
	ExecQuerier
	Close() error
}

// OffsetRequiresLimit reports whether the dialect rejects OFFSET without LIMIT.
func OffsetRequiresLimit(name string) bool {
	switch name {
	case MySQL, SQLite:
		return true
	default:
		return false
	}
}

// NoLimit returns the LIMIT value the dialect treats as unbounded. It is
// only meaningful where OffsetRequiresLimit is true.
func NoLimit(name string) uint64 {
	switch name {
	case MySQL:
		return math.MaxUint64
	default:
		return math.MaxInt64
	}
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
func SupportsReturning(name string) bool {
	return name != MySQL
}
