package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"hackmap/internal/database"
)

type flakyDB struct {
	database.DB

	failures int
	err      error
	calls    int
	pings    int
}

func (f *flakyDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	f.calls++
	if f.calls <= f.failures {
		return 0, f.err
	}
	return 1, nil
}

func (f *flakyDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	f.calls++
	if f.calls <= f.failures {
		return errRow{err: f.err}
	}
	return errRow{}
}

func (f *flakyDB) Ping(ctx context.Context) error {
	f.pings++
	return nil
}

func TestIsConnectionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: context.DeadlineExceeded, want: true},
		{err: &pgconn.PgError{Code: "57P01"}, want: true},
		{err: &pgconn.PgError{Code: "08006"}, want: true},
		{err: &pgconn.PgError{Code: "23505"}, want: false},
		{err: sql.ErrNoRows, want: false},
	}
	for _, tc := range cases {
		if got := IsConnectionError(tc.err); got != tc.want {
			t.Fatalf("IsConnectionError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRetryingDB_RetriesConnectionErrors(t *testing.T) {
	inner := &flakyDB{failures: 2, err: &pgconn.PgError{Code: "08006"}}
	retried := 0
	db := NewRetryingDB(inner, RetryPolicy{MaxRetries: 3, OnRetry: func(int, error) { retried++ }}, zerolog.Nop())

	n, err := db.Exec(context.Background(), "UPDATE x SET y = 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || inner.calls != 3 || retried != 2 || inner.pings != 2 {
		t.Fatalf("unexpected counts n=%d calls=%d retried=%d pings=%d", n, inner.calls, retried, inner.pings)
	}
}

func TestRetryingDB_WrapsExhaustedAsTimeout(t *testing.T) {
	inner := &flakyDB{failures: 10, err: context.DeadlineExceeded}
	db := NewRetryingDB(inner, RetryPolicy{MaxRetries: 2}, zerolog.Nop())

	var v int
	err := db.QueryRow(context.Background(), "SELECT 1").Scan(&v)
	if !errors.Is(err, database.ErrConnectionTimeout) {
		t.Fatalf("expected ErrConnectionTimeout, got %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryingDB_PassesThroughQueryErrors(t *testing.T) {
	inner := &flakyDB{failures: 1, err: sql.ErrNoRows}
	db := NewRetryingDB(inner, RetryPolicy{MaxRetries: 3}, zerolog.Nop())

	var v int
	err := db.QueryRow(context.Background(), "SELECT 1").Scan(&v)
	if !errors.Is(err, sql.ErrNoRows) || errors.Is(err, database.ErrConnectionTimeout) {
		t.Fatalf("expected bare ErrNoRows, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", inner.calls)
	}
}
