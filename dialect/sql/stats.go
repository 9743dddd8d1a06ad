package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/relgraph/dialect"
)

// QueryStats holds statement counters for a driver and everything it opens.
type QueryStats struct {
	// Queries is the number of row-returning statements.
	Queries atomic.Int64
	// Execs is the number of statements that returned no rows.
	Execs atomic.Int64
	// Duration is the time spent in the connection, in nanoseconds.
	Duration atomic.Int64
	// Slow is the number of statements exceeding the slow threshold.
	Slow atomic.Int64
	// Errors is the number of failed statements.
	Errors atomic.Int64
	// Sessions is the number of pinned connections handed out.
	Sessions atomic.Int64
	// Txs is the number of transactions started.
	Txs atomic.Int64
}

// Snapshot returns a point-in-time copy of the counters.
func (s *QueryStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:  s.Queries.Load(),
		Execs:    s.Execs.Load(),
		Duration: time.Duration(s.Duration.Load()),
		Slow:     s.Slow.Load(),
		Errors:   s.Errors.Load(),
		Sessions: s.Sessions.Load(),
		Txs:      s.Txs.Load(),
	}
}

// Reset resets all counters to zero.
func (s *QueryStats) Reset() {
	for _, c := range []*atomic.Int64{&s.Queries, &s.Execs, &s.Duration, &s.Slow, &s.Errors, &s.Sessions, &s.Txs} {
		c.Store(0)
	}
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	Queries  int64
	Execs    int64
	Duration time.Duration
	Slow     int64
	Errors   int64
	Sessions int64
	Txs      int64
}

// Statements returns the total number of statements issued.
func (s StatsSnapshot) Statements() int64 {
	return s.Queries + s.Execs
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s slow=%d errors=%d sessions=%d txs=%d",
		s.Queries, s.Execs, s.Duration, s.Slow, s.Errors, s.Sessions, s.Txs,
	)
}

// SlowQueryHook is a function called when a slow statement is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsDriver wraps a dialect.Driver with statement statistics.
type StatsDriver struct {
	dialect.Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements to the given logger.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		logger.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "args", args)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
//	drv, _ := sql.Open(dialect.Postgres, dsn)
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(slog.Default()))
//	eng := graph.NewEngine(stats, s)
//	...
//	fmt.Println(stats.QueryStats().Snapshot())
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying counters.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// Query executes a query and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	return d.record(ctx, d.Driver.Query, query, args, v, true)
}

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	return d.record(ctx, d.Driver.Exec, query, args, v, false)
}

// Tx starts a transaction that also records statistics.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	d.stats.Txs.Add(1)
	return &statsTx{Tx: tx, driver: d}, nil
}

// Session pins a connection that also records statistics.
func (d *StatsDriver) Session(ctx context.Context) (dialect.Session, error) {
	s, err := d.Driver.Session(ctx)
	if err != nil {
		return nil, err
	}
	d.stats.Sessions.Add(1)
	return &statsSession{Session: s, driver: d}, nil
}

type execFunc func(ctx context.Context, query string, args, v any) error

func (d *StatsDriver) record(ctx context.Context, fn execFunc, query string, args, v any, isQuery bool) error {
	start := time.Now()
	err := fn(ctx, query, args, v)
	duration := time.Since(start)
	if isQuery {
		d.stats.Queries.Add(1)
	} else {
		d.stats.Execs.Add(1)
	}
	d.stats.Duration.Add(int64(duration))
	if err != nil {
		d.stats.Errors.Add(1)
	}
	if duration > d.slowThreshold {
		d.stats.Slow.Add(1)
		if d.slowHook != nil {
			argv, _ := args.([]any)
			d.slowHook(ctx, query, argv, duration)
		}
	}
	return err
}

type statsTx struct {
	dialect.Tx
	driver *StatsDriver
}

func (tx *statsTx) Query(ctx context.Context, query string, args, v any) error {
	return tx.driver.record(ctx, tx.Tx.Query, query, args, v, true)
}

func (tx *statsTx) Exec(ctx context.Context, query string, args, v any) error {
	return tx.driver.record(ctx, tx.Tx.Exec, query, args, v, false)
}

type statsSession struct {
	dialect.Session
	driver *StatsDriver
}

func (s *statsSession) Query(ctx context.Context, query string, args, v any) error {
	return s.driver.record(ctx, s.Session.Query, query, args, v, true)
}

func (s *statsSession) Exec(ctx context.Context, query string, args, v any) error {
	return s.driver.record(ctx, s.Session.Exec, query, args, v, false)
}

// DebugDriver wraps a Driver and logs every statement at debug level.
type DebugDriver struct {
	dialect.Driver
	logger *slog.Logger
}

// NewDebugDriver wraps a Driver with debug logging. A nil logger uses slog.Default.
func NewDebugDriver(drv dialect.Driver, logger *slog.Logger) *DebugDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugDriver{Driver: drv, logger: logger}
}

// Query executes a query and logs it.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.logger.DebugContext(ctx, "query", "sql", query, "args", args)
	return d.Driver.Query(ctx, query, args, v)
}

// Exec executes a statement and logs it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.logger.DebugContext(ctx, "exec", "sql", query, "args", args)
	return d.Driver.Exec(ctx, query, args, v)
}

// Tx starts a transaction with debug logging.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.logger.DebugContext(ctx, "begin transaction")
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &debugTx{Tx: tx, logger: d.logger}, nil
}

// Session pins a connection with debug logging.
func (d *DebugDriver) Session(ctx context.Context) (dialect.Session, error) {
	s, err := d.Driver.Session(ctx)
	if err != nil {
		return nil, err
	}
	return &debugSession{Session: s, logger: d.logger}, nil
}

type debugTx struct {
	dialect.Tx
	logger *slog.Logger
}

func (tx *debugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.logger.DebugContext(ctx, "tx query", "sql", query, "args", args)
	return tx.Tx.Query(ctx, query, args, v)
}

func (tx *debugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.logger.DebugContext(ctx, "tx exec", "sql", query, "args", args)
	return tx.Tx.Exec(ctx, query, args, v)
}

func (tx *debugTx) Commit() error {
	tx.logger.Debug("commit transaction")
	return tx.Tx.Commit()
}

func (tx *debugTx) Rollback() error {
	tx.logger.Debug("rollback transaction")
	return tx.Tx.Rollback()
}

type debugSession struct {
	dialect.Session
	logger *slog.Logger
}

func (s *debugSession) Query(ctx context.Context, query string, args, v any) error {
	s.logger.DebugContext(ctx, "session query", "sql", query, "args", args)
	return s.Session.Query(ctx, query, args, v)
}

func (s *debugSession) Exec(ctx context.Context, query string, args, v any) error {
	s.logger.DebugContext(ctx, "session exec", "sql", query, "args", args)
	return s.Session.Exec(ctx, query, args, v)
}

var (
	_ dialect.Driver  = (*StatsDriver)(nil)
	_ dialect.Tx      = (*statsTx)(nil)
	_ dialect.Session = (*statsSession)(nil)
	_ dialect.Driver  = (*DebugDriver)(nil)
	_ dialect.Tx      = (*debugTx)(nil)
	_ dialect.Session = (*debugSession)(nil)
)
