package relgraph

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for argument handling.
var (
	// ErrMissingArgument is returned when a required argument was not supplied.
	ErrMissingArgument = errors.New("relgraph: missing argument")

	// ErrNoPrimaryKeyArgumentFound is returned when a primary key lookup has
	// no primaryKey argument, or the argument does not decode to a full key.
	ErrNoPrimaryKeyArgumentFound = errors.New("relgraph: no primary key argument found")

	// ErrMalformedArgument is returned when an argument is present but its
	// literal does not decode to the declared kind.
	ErrMalformedArgument = errors.New("relgraph: malformed argument")

	// ErrUnknownField is returned when a selection, filter or order references
	// a field the table does not declare.
	ErrUnknownField = errors.New("relgraph: unknown field")
)

// MissingArgumentError represents a required argument that was absent.
type MissingArgumentError struct {
	Field    string // Root field being resolved
	Argument string // Argument name
}

// Error returns the error string.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("relgraph: missing argument %q on %s", e.Argument, e.Field)
}

// Is reports whether the target error matches ErrMissingArgument.
func (e *MissingArgumentError) Is(err error) bool {
	return err == ErrMissingArgument
}

// NewMissingArgumentError returns a new MissingArgumentError.
func NewMissingArgumentError(field, argument string) *MissingArgumentError {
	return &MissingArgumentError{Field: field, Argument: argument}
}

// IsMissingArgument returns true if the error is a MissingArgumentError.
func IsMissingArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingArgumentError
	return errors.As(err, &e) || errors.Is(err, ErrMissingArgument)
}

// NoPrimaryKeyError is returned by primary key lookups and deletes.
type NoPrimaryKeyError struct {
	Table string
}

// Error returns the error string.
func (e *NoPrimaryKeyError) Error() string {
	return fmt.Sprintf("relgraph: no primary key argument found for %s", e.Table)
}

// Is reports whether the target error matches ErrNoPrimaryKeyArgumentFound.
func (e *NoPrimaryKeyError) Is(err error) bool {
	return err == ErrNoPrimaryKeyArgumentFound
}

// NewNoPrimaryKeyError returns a new NoPrimaryKeyError for the given table.
func NewNoPrimaryKeyError(table string) *NoPrimaryKeyError {
	return &NoPrimaryKeyError{Table: table}
}

// IsNoPrimaryKey returns true if the error reports a missing or partial key.
func IsNoPrimaryKey(err error) bool {
	return err != nil && errors.Is(err, ErrNoPrimaryKeyArgumentFound)
}

// MalformedArgumentError represents an argument whose literal failed to decode.
type MalformedArgumentError struct {
	Argument string // Dotted path to the offending value, e.g. "filter.age.gt"
	Expected string // Expected kind or shape
}

// Error returns the error string.
func (e *MalformedArgumentError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("relgraph: malformed argument %q: expected %s", e.Argument, e.Expected)
	}
	return fmt.Sprintf("relgraph: malformed argument %q", e.Argument)
}

// Is reports whether the target error matches ErrMalformedArgument.
func (e *MalformedArgumentError) Is(err error) bool {
	return err == ErrMalformedArgument
}

// NewMalformedArgumentError returns a new MalformedArgumentError.
func NewMalformedArgumentError(argument, expected string) *MalformedArgumentError {
	return &MalformedArgumentError{Argument: argument, Expected: expected}
}

// IsMalformedArgument returns true if the error is a MalformedArgumentError.
func IsMalformedArgument(err error) bool {
	if err == nil {
		return false
	}
	var e *MalformedArgumentError
	return errors.As(err, &e) || errors.Is(err, ErrMalformedArgument)
}

// UnknownFieldError represents a reference to an undeclared column or edge.
type UnknownFieldError struct {
	Table string
	Field string
}

// Error returns the error string.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("relgraph: unknown field %q on %s", e.Field, e.Table)
}

// Is reports whether the target error matches ErrUnknownField.
func (e *UnknownFieldError) Is(err error) bool {
	return err == ErrUnknownField
}

// NewUnknownFieldError returns a new UnknownFieldError.
func NewUnknownFieldError(table, field string) *UnknownFieldError {
	return &UnknownFieldError{Table: table, Field: field}
}

// IsUnknownField returns true if the error is an UnknownFieldError.
func IsUnknownField(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownFieldError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownField)
}

// NotLoadedError is raised, as a panic value, when an edge is read before the
// resolver loaded it. It marks a broken internal invariant and is never
// returned to callers.
type NotLoadedError struct {
	edge string
}

// Error returns the error string.
func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("relgraph: edge %q was not loaded", e.edge)
}

// Edge returns the name of the edge.
func (e *NotLoadedError) Edge() string {
	return e.edge
}

// NewNotLoadedError returns a new NotLoadedError for the given edge name.
func NewNotLoadedError(edge string) *NotLoadedError {
	return &NotLoadedError{edge: edge}
}

// IsNotLoaded returns true if the error is a NotLoadedError.
func IsNotLoaded(err error) bool {
	if err == nil {
		return false
	}
	var e *NotLoadedError
	return errors.As(err, &e)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("relgraph: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Original error that triggered rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("relgraph: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// QueryError wraps a backend failure raised while loading a table.
type QueryError struct {
	Table string // Table being queried
	Op    string // Operation (e.g., "load", "load_by_primary_key", "edge")
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("relgraph: querying %s (%s): %v", e.Table, e.Op, e.Err)
	}
	return fmt.Sprintf("relgraph: querying %s: %v", e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(table, op string, err error) *QueryError {
	return &QueryError{Table: table, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps a backend failure raised inside a write transaction.
type MutationError struct {
	Table string // Table being mutated
	Op    string // Operation (e.g., "insert", "batch_insert", "delete")
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("relgraph: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// NewMutationError returns a new MutationError.
func NewMutationError(table, op string, err error) *MutationError {
	return &MutationError{Table: table, Op: op, Err: err}
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}

// IsBackendError reports whether err was raised by the connection rather
// than by argument validation.
func IsBackendError(err error) bool {
	return IsQueryError(err) || IsMutationError(err)
}
