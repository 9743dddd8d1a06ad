package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ConstraintKind classifies a constraint violation reported by the backend.
type ConstraintKind int

// Constraint kinds.
const (
	NoConstraint ConstraintKind = iota
	UniqueConstraint
	ForeignKeyConstraint
	CheckConstraint
	NotNullConstraint
)

// String implements fmt.Stringer.
func (k ConstraintKind) String() string {
	switch k {
	case UniqueConstraint:
		return "unique"
	case ForeignKeyConstraint:
		return "foreign key"
	case CheckConstraint:
		return "check"
	case NotNullConstraint:
		return "not null"
	default:
		return "none"
	}
}

// errorCoder is implemented by drivers exposing SQLSTATE as Code.
type errorCoder interface {
	Code() string
}

// sqlStateError is implemented by pq.Error and pgconn.PgError.
type sqlStateError interface {
	SQLState() string
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlBadNull                = 1048
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451
	mysqlForeignKeyChild        = 1452
	mysqlCheckConstraintViolate = 3819
)

// Constraint reports which constraint, if any, err violated.
func Constraint(err error) ConstraintKind {
	if err == nil {
		return NoConstraint
	}
	if e, ok := asError[sqlStateError](err); ok {
		if k := pgConstraint(e.SQLState()); k != NoConstraint {
			return k
		}
	}
	if e, ok := asError[errorCoder](err); ok {
		if k := pgConstraint(e.Code()); k != NoConstraint {
			return k
		}
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return UniqueConstraint
		case mysqlForeignKeyParent, mysqlForeignKeyChild:
			return ForeignKeyConstraint
		case mysqlCheckConstraintViolate:
			return CheckConstraint
		case mysqlBadNull:
			return NotNullConstraint
		}
	}
	// Drivers that expose nothing but the message, modernc.org/sqlite included.
	msg := err.Error()
	switch {
	case containsAny(msg, "UNIQUE constraint failed", "violates unique constraint", "Error 1062"):
		return UniqueConstraint
	case containsAny(msg, "FOREIGN KEY constraint failed", "violates foreign key constraint", "Error 1451", "Error 1452"):
		return ForeignKeyConstraint
	case containsAny(msg, "CHECK constraint failed", "violates check constraint", "Error 3819"):
		return CheckConstraint
	case containsAny(msg, "NOT NULL constraint failed", "violates not-null constraint", "Error 1048"):
		return NotNullConstraint
	}
	return NoConstraint
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
func IsUniqueConstraintError(err error) bool {
	return Constraint(err) == UniqueConstraint
}

// IsForeignKeyConstraintError reports if the error resulted from a foreign-key constraint violation.
func IsForeignKeyConstraintError(err error) bool {
	return Constraint(err) == ForeignKeyConstraint
}

func pgConstraint(code string) ConstraintKind {
	switch code {
	case pgUniqueViolation:
		return UniqueConstraint
	case pgForeignKeyViolation:
		return ForeignKeyConstraint
	case pgCheckViolation:
		return CheckConstraint
	case pgNotNullViolation:
		return NotNullConstraint
	}
	return NoConstraint
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
