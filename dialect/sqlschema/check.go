// Package sqlschema checks table descriptors against a live database.
package sqlschema

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/syssam/relgraph/dialect"
	"github.com/syssam/relgraph/dialect/sql"
	"github.com/syssam/relgraph/schema"
)

// ValidationError is one divergence between a table descriptor and the
// database.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of Check. Errors make statements
// against the table fail; warnings do not.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// Check probes every table of s with an empty SELECT and compares the
// returned columns with the declared ones. A declared column missing from
// the database is an error, so is a table that cannot be selected. Columns
// that exist only in the database, and NOT NULL columns the database reports
// as nullable, are warnings.
//
// Check returns an error only when ctx is done.
//
//	result, err := sqlschema.Check(ctx, drv, s)
//	if err != nil {
//	    return err
//	}
//	if result.HasErrors() {
//	    log.Fatal(result)
//	}
func Check(ctx context.Context, drv dialect.ExecQuerier, s *schema.Schema) (*ValidationResult, error) {
	result := &ValidationResult{}
	for _, t := range s.Tables() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		columns, err := probe(ctx, drv, t.Name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("table cannot be selected: %v", err),
			})
			continue
		}
		checkTable(t, columns, result)
	}
	return result, nil
}

// dbColumn is a column as reported by the driver.
type dbColumn struct {
	name string
	// nullable is meaningful only when known is set.
	nullable, known bool
}

func probe(ctx context.Context, drv dialect.ExecQuerier, table string) ([]dbColumn, error) {
	query, args, err := sq.Select("*").From(table).Where("1=0").ToSql()
	if err != nil {
		return nil, err
	}
	var rows sql.Rows
	if err := drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	columns := make([]dbColumn, len(types))
	for i, ct := range types {
		columns[i].name = ct.Name()
		columns[i].nullable, columns[i].known = ct.Nullable()
	}
	return columns, rows.Err()
}

func checkTable(t *schema.Table, columns []dbColumn, result *ValidationResult) {
	byName := make(map[string]dbColumn, len(columns))
	for _, c := range columns {
		byName[strings.ToLower(c.name)] = c
	}
	declared := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		declared[strings.ToLower(c.Name)] = true
		dc, ok := byName[strings.ToLower(c.Name)]
		switch {
		case !ok:
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "column does not exist",
			})
		case dc.known && dc.nullable && !c.Nullable:
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "column is nullable in the database but declared NOT NULL",
			})
		}
	}
	for _, c := range columns {
		if !declared[strings.ToLower(c.name)] {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   t.Name,
				Column:  c.name,
				Message: "column is not declared",
			})
		}
	}
}
