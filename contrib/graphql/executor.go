package graphql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/syssam/relgraph"
	"github.com/syssam/relgraph/graph"
)

// Error codes reported in the "code" extension of field errors.
const (
	CodeMissingArgument = "MISSING_ARGUMENT"
	CodeNoPrimaryKey    = "NO_PRIMARY_KEY_ARGUMENT"
	CodeMalformed       = "MALFORMED_ARGUMENT"
	CodeUnknownField    = "UNKNOWN_FIELD"
	CodeConstraint      = "CONSTRAINT_VIOLATION"
	CodeMaxDepth        = "MAX_DEPTH"
	CodeBackend         = "BACKEND_ERROR"
	CodeUnsupported     = "UNSUPPORTED"
	CodeInternal        = "INTERNAL"
)

const schemaSourceName = "relgraph.graphql"

// Params is one GraphQL request.
type Params struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is the result of a request. Data is nil when the request failed
// validation; otherwise every root field is present, null where it failed.
type Response struct {
	Data   *graph.Object `json:"data"`
	Errors gqlerror.List `json:"errors,omitempty"`
}

// Executor runs GraphQL requests against an engine, serving the schema
// rendered by SDL. Root fields run one after another and fail
// independently.
type Executor struct {
	engine *graph.Engine
	schema *ast.Schema
	roots  map[string]RootField
	log    *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger of failed root fields.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(x *Executor) {
		x.log = l
	}
}

// NewExecutor returns an executor over e.
func NewExecutor(e *graph.Engine, opts ...ExecutorOption) (*Executor, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: schemaSourceName, Input: SDL(e.Schema())})
	if err != nil {
		return nil, fmt.Errorf("graphql: load schema: %w", err)
	}
	x := &Executor{
		engine: e,
		schema: s,
		roots:  make(map[string]RootField),
		log:    slog.New(slog.DiscardHandler),
	}
	for _, t := range e.Schema().Tables() {
		for _, rf := range RootFields(t) {
			x.roots[rf.Name] = rf
		}
	}
	for _, opt := range opts {
		opt(x)
	}
	return x, nil
}

// Schema returns the validated schema served by x.
func (x *Executor) Schema() *ast.Schema { return x.schema }

// Execute validates and runs p.
func (x *Executor) Execute(ctx context.Context, p Params) *Response {
	doc, errs := gqlparser.LoadQuery(x.schema, p.Query)
	if len(errs) > 0 {
		return &Response{Errors: errs}
	}
	op := doc.Operations.ForName(p.OperationName)
	if op == nil {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("operation %q not found", p.OperationName)}}
	}
	if op.Operation == ast.Subscription {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("subscriptions are not supported")}}
	}
	vars, err := validator.VariableValues(x.schema, op, p.Variables)
	if err != nil {
		return &Response{Errors: gqlerror.List{asGQLError(err)}}
	}
	var (
		data = &graph.Object{}
		c    = &fieldCollector{doc: doc, vars: vars}
		resp = &Response{Data: data}
	)
	for _, f := range c.collect(op.SelectionSet) {
		key := responseKey(f.field)
		v, err := x.resolve(ctx, op.Operation, c, f, vars)
		if err != nil {
			x.log.WarnContext(ctx, "graphql: root field failed", "field", f.field.Name, "error", err)
			data.Set(key, nil)
			resp.Errors = append(resp.Errors, fieldError(key, f.field, err))
			continue
		}
		data.Set(key, v)
	}
	return resp
}

// resolve runs one root field.
func (x *Executor) resolve(ctx context.Context, kind ast.Operation, c *fieldCollector, f collected, vars map[string]any) (any, error) {
	switch f.field.Name {
	case "__typename":
		if kind == ast.Mutation {
			return MutationType, nil
		}
		return QueryType, nil
	case "__schema", "__type":
		return nil, errUnsupported
	}
	rf, ok := x.roots[f.field.Name]
	if !ok || (kind == ast.Mutation) != (rf.Op >= OpInsert) {
		return nil, relgraph.NewUnknownFieldError(string(kind), f.field.Name)
	}
	sel, err := newSelection(c.collect, f.field.Arguments, f.set, vars)
	if err != nil {
		return nil, relgraph.NewMalformedArgumentError(f.field.Name, err.Error())
	}
	switch rf.Op {
	case OpLoad:
		return x.engine.Load(ctx, rf.Table, sel)
	case OpLoadByPrimaryKey:
		return x.engine.LoadByPrimaryKey(ctx, rf.Table, sel)
	case OpInsert:
		return x.engine.Insert(ctx, rf.Table, sel)
	case OpBatchInsert:
		return x.engine.BatchInsert(ctx, rf.Table, sel)
	case OpDelete:
		res, err := x.engine.Delete(ctx, rf.Table, sel)
		if err != nil {
			return nil, err
		}
		return deletedCount(res, sel), nil
	}
	return nil, fmt.Errorf("graphql: unknown operation %d", rf.Op)
}

var errUnsupported = errors.New("graphql: introspection is not supported")

// deletedCount shapes res by the selection of the root field.
func deletedCount(res *graph.DeletedCount, sel graph.Selection) *graph.Object {
	obj := &graph.Object{}
	for _, f := range sel.Fields() {
		switch f.Name {
		case "count":
			obj.Set(f.Key(), res.Count)
		case "__typename":
			obj.Set(f.Key(), DeletedCountType)
		}
	}
	return obj
}

func fieldError(key string, f *ast.Field, err error) *gqlerror.Error {
	gerr := gqlerror.WrapPath(ast.Path{ast.PathName(key)}, err)
	if f.Position != nil {
		gerr.Locations = []gqlerror.Location{{Line: f.Position.Line, Column: f.Position.Column}}
	}
	gerr.Extensions = map[string]any{"code": ErrorCode(err)}
	return gerr
}

func asGQLError(err error) *gqlerror.Error {
	var gerr *gqlerror.Error
	if errors.As(err, &gerr) {
		return gerr
	}
	return gqlerror.Errorf("%s", err)
}

// ErrorCode classifies err for the "code" extension.
func ErrorCode(err error) string {
	switch {
	case relgraph.IsMissingArgument(err):
		return CodeMissingArgument
	case relgraph.IsNoPrimaryKey(err):
		return CodeNoPrimaryKey
	case relgraph.IsMalformedArgument(err):
		return CodeMalformed
	case relgraph.IsUnknownField(err):
		return CodeUnknownField
	case relgraph.IsConstraintError(err):
		return CodeConstraint
	case errors.Is(err, graph.ErrMaxDepth):
		return CodeMaxDepth
	case relgraph.IsBackendError(err):
		return CodeBackend
	case errors.Is(err, errUnsupported):
		return CodeUnsupported
	default:
		return CodeInternal
	}
}
