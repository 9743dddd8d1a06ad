// Package sql implements the dialect.Driver contract on top of database/sql.
//
// # Drivers
//
//   - Driver: wraps *sql.DB; Tx opens a transaction, Session pins one *sql.Conn
//   - StatsDriver: counts statements, sessions and transactions, and reports
//     slow statements through a hook
//   - DebugDriver: logs every statement through log/slog at debug level
//
// Wrappers compose:
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	if err != nil {
//	    return err
//	}
//	stats := sql.NewStatsDriver(sql.NewDebugDriver(drv, logger),
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(logger),
//	)
//
// # Constraint errors
//
// Constraint classifies backend errors into unique, foreign key, check and
// not-null violations for PostgreSQL, MySQL and SQLite.
package sql
