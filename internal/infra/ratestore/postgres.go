package ratestore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yanqian/transcript-summarizer/internal/domain/ratelimit"
)

// pgQuerier is the subset of *pgxpool.Pool the store needs.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createRateWindowsTable = `
	CREATE TABLE IF NOT EXISTS rate_windows (
		key          TEXT PRIMARY KEY,
		count        BIGINT NOT NULL,
		window_start TIMESTAMPTZ NOT NULL
	)
`

// The upsert holds the row lock, so concurrent hits at a window boundary
// cannot both restart the window.
const incrementRateWindow = `
	INSERT INTO rate_windows (key, count, window_start)
	VALUES ($1, 1, now())
	ON CONFLICT (key) DO UPDATE SET
		count = CASE
			WHEN rate_windows.window_start + make_interval(secs => $2::double precision) <= now() THEN 1
			ELSE rate_windows.count + 1
		END,
		window_start = CASE
			WHEN rate_windows.window_start + make_interval(secs => $2::double precision) <= now() THEN now()
			ELSE rate_windows.window_start
		END
	RETURNING count, window_start + make_interval(secs => $2::double precision)
`

// PostgresStore shares fixed windows between instances through Postgres.
type PostgresStore struct {
	db     pgQuerier
	window time.Duration
}

// NewPostgresStore constructs the store. Call EnsureSchema once before use.
func NewPostgresStore(db pgQuerier, window time.Duration) *PostgresStore {
	return &PostgresStore{db: db, window: window}
}

// EnsureSchema creates the backing table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, createRateWindowsTable)
	return err
}

func (s *PostgresStore) Increment(ctx context.Context, key string) (ratelimit.Window, error) {
	var window ratelimit.Window
	err := s.db.QueryRow(ctx, incrementRateWindow, key, s.window.Seconds()).Scan(&window.Count, &window.ResetAt)
	if err != nil {
		return ratelimit.Window{}, err
	}
	return window, nil
}

func (s *PostgresStore) Reset(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM rate_windows WHERE key = $1`, key)
	return err
}

var _ ratelimit.Store = (*PostgresStore)(nil)
