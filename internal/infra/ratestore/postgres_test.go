package ratestore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreIncrement(t *testing.T) {
	t.Parallel()
	resetAt := time.Unix(1700000900, 0).UTC()
	db := &fakeQuerier{row: fakeRow{count: 7, resetAt: resetAt}}
	store := NewPostgresStore(db, 15*time.Minute)

	w, err := store.Increment(context.Background(), "198.51.100.4")
	require.NoError(t, err)
	require.Equal(t, int64(7), w.Count)
	require.Equal(t, resetAt, w.ResetAt)
	require.Equal(t, []any{"198.51.100.4", 900.0}, db.lastArgs)
	require.Contains(t, db.lastSQL, "ON CONFLICT (key) DO UPDATE")
}

func TestPostgresStoreIncrementError(t *testing.T) {
	t.Parallel()
	db := &fakeQuerier{row: fakeRow{err: errors.New("connection refused")}}
	store := NewPostgresStore(db, time.Minute)

	_, err := store.Increment(context.Background(), "k")
	require.EqualError(t, err, "connection refused")
}

func TestPostgresStoreSchemaAndReset(t *testing.T) {
	t.Parallel()
	db := &fakeQuerier{}
	store := NewPostgresStore(db, time.Minute)

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.True(t, strings.Contains(db.execSQL[0], "CREATE TABLE IF NOT EXISTS rate_windows"))

	require.NoError(t, store.Reset(context.Background(), "k"))
	require.Contains(t, db.execSQL[1], "DELETE FROM rate_windows")
	require.Equal(t, []any{"k"}, db.lastArgs)
}

type fakeQuerier struct {
	row      fakeRow
	lastSQL  string
	lastArgs []any
	execSQL  []string
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.lastArgs = args
	return pgconn.NewCommandTag("OK"), nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL = sql
	f.lastArgs = args
	return f.row
}

type fakeRow struct {
	count   int64
	resetAt time.Time
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.count
	*dest[1].(*time.Time) = r.resetAt
	return nil
}
