package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/dialect"
	"github.com/syssam/relgraph/schema"
)

// DefaultMaxDepth is the default limit on edge nesting.
const DefaultMaxDepth = 16

const instrumentationName = "github.com/syssam/relgraph/graph"

// ErrMaxDepth is returned when a selection nests edges deeper than allowed.
var ErrMaxDepth = errors.New("graph: selection exceeds max depth")

// Engine resolves selections against a schema over one driver.
// It is safe for concurrent use; every operation owns its own connection.
type Engine struct {
	drv      dialect.Driver
	schema   *schema.Schema
	log      *slog.Logger
	tracer   trace.Tracer
	maxDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithTracerProvider sets the tracer provider. The default is the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = tp.Tracer(instrumentationName)
	}
}

// WithMaxDepth limits how deep edges may nest.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// NewEngine returns an engine over drv serving the tables of s.
func NewEngine(drv dialect.Driver, s *schema.Schema, opts ...Option) *Engine {
	e := &Engine{
		drv:      drv,
		schema:   s,
		log:      slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer(instrumentationName),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schema returns the schema served by the engine.
func (e *Engine) Schema() *schema.Schema { return e.schema }

// Dialect returns the dialect of the underlying driver.
func (e *Engine) Dialect() string { return e.drv.Dialect() }

func (e *Engine) table(name string) (*schema.Table, error) {
	t, ok := e.schema.Table(name)
	if !ok {
		return nil, fmt.Errorf("%w: table %q", relgraph.ErrUnknownField, name)
	}
	return t, nil
}

// start opens the span of a top-level operation.
func (e *Engine) start(ctx context.Context, op, table string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "relgraph."+op, trace.WithAttributes(
		attribute.String("relgraph.table", table),
		attribute.String("db.system", e.drv.Dialect()),
	))
}

// end closes span, recording err.
func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// session runs fn on one pinned connection.
func (e *Engine) session(ctx context.Context, fn func(dialect.ExecQuerier) error) error {
	s, err := e.drv.Session(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			e.log.WarnContext(ctx, "closing session", "error", cerr)
		}
	}()
	return fn(s)
}

// withTx runs fn in a transaction, rolling back on error or panic.
func (e *Engine) withTx(ctx context.Context, fn func(dialect.Tx) error) error {
	tx, err := e.drv.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			e.log.WarnContext(ctx, "rolling back transaction", "error", rerr)
			return errors.Join(err, &relgraph.RollbackError{Err: rerr})
		}
		return err
	}
	return tx.Commit()
}
