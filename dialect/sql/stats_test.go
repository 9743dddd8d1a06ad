package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relgraph/dialect"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var slow []string
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db),
		WithSlowThreshold(0),
		WithSlowQueryHook(func(_ context.Context, query string, _ []any, _ time.Duration) {
			slow = append(slow, query)
		}),
	)
	ctx := context.Background()

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, drv.Query(ctx, "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM people").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.Error(t, tx.Exec(ctx, "DELETE FROM people", []any{}, nil))
	require.NoError(t, tx.Rollback())

	s, err := drv.Session(ctx)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT 2").WillReturnRows(sqlmock.NewRows([]string{"2"}).AddRow(2))
	require.NoError(t, s.Query(ctx, "SELECT 2", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, s.Close())
	require.NoError(t, mock.ExpectationsWereMet())

	snap := drv.QueryStats().Snapshot()
	assert.EqualValues(t, 2, snap.Queries)
	assert.EqualValues(t, 1, snap.Execs)
	assert.EqualValues(t, 3, snap.Statements())
	assert.EqualValues(t, 1, snap.Errors)
	assert.EqualValues(t, 1, snap.Txs)
	assert.EqualValues(t, 1, snap.Sessions)
	assert.EqualValues(t, 3, snap.Slow)
	assert.Equal(t, []string{"SELECT 1", "DELETE FROM people", "SELECT 2"}, slow)
	assert.Contains(t, snap.String(), "queries=2 execs=1")

	drv.QueryStats().Reset()
	assert.Zero(t, drv.QueryStats().Snapshot().Statements())
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	drv := NewDebugDriver(OpenDB(dialect.SQLite, db), logger)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO people").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "INSERT INTO people (name) VALUES (?)", []any{"Ada"}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	out := buf.String()
	assert.Contains(t, out, "begin transaction")
	assert.Contains(t, out, `msg="tx exec"`)
	assert.Contains(t, out, "INSERT INTO people (name) VALUES (?)")
	assert.Contains(t, out, "commit transaction")
}
