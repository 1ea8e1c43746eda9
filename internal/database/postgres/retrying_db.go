package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"hackmap/internal/database"
)

type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
	OnRetry    func(attempt int, err error)
}

// RetryingDB retries statements that fail with connection class errors. The
// pool is pinged before each retry. Errors that survive all attempts are
// wrapped with database.ErrConnectionTimeout.
type RetryingDB struct {
	db     database.DB
	policy RetryPolicy
	logger zerolog.Logger
}

func NewRetryingDB(db database.DB, policy RetryPolicy, logger zerolog.Logger) *RetryingDB {
	return &RetryingDB{db: db, policy: policy, logger: logger}
}

// IsConnectionError reports whether err looks like the database being
// unreachable: deadlines, dial failures, admin shutdown and SQLSTATE class 08.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "57P01" || strings.HasPrefix(pgErr.Code, "08")
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func (r *RetryingDB) do(ctx context.Context, op func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op(ctx)
		if err == nil || !IsConnectionError(err) {
			return err
		}
		if ctx.Err() != nil || attempt >= r.policy.MaxRetries {
			break
		}

		r.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", r.policy.MaxRetries).
			Msg("database operation failed, retrying")
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(attempt+1, err)
		}
		if serr := sleepCtx(ctx, r.policy.Delay); serr != nil {
			break
		}
		if perr := r.db.Ping(ctx); perr != nil {
			r.logger.Debug().Err(perr).Msg("ping before retry failed")
		}
	}
	return fmt.Errorf("%w: %w", database.ErrConnectionTimeout, err)
}

func (r *RetryingDB) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *RetryingDB) Close() error {
	return r.db.Close()
}

func (r *RetryingDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		n, err = r.db.Exec(ctx, query, args...)
		return err
	})
	return n, err
}

func (r *RetryingDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	var rows database.Rows
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		rows, err = r.db.Query(ctx, query, args...)
		return err
	})
	return rows, err
}

func (r *RetryingDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return retryingRow{r: r, ctx: ctx, query: query, args: args}
}

func (r *RetryingDB) Begin(ctx context.Context) (database.Tx, error) {
	var tx database.Tx
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		tx, err = r.db.Begin(ctx)
		return err
	})
	return tx, err
}

func (r *RetryingDB) SQLDB() *sql.DB {
	return r.db.SQLDB()
}

func (r *RetryingDB) Stats() database.PoolStats {
	if sp, ok := r.db.(database.StatsProvider); ok {
		return sp.Stats()
	}
	return database.PoolStats{}
}

// retryingRow defers the query until Scan, since pgx reports row errors there.
type retryingRow struct {
	r     *RetryingDB
	ctx   context.Context
	query string
	args  []any
}

func (row retryingRow) Scan(dest ...any) error {
	return row.r.do(row.ctx, func(ctx context.Context) error {
		return row.r.db.QueryRow(ctx, row.query, row.args...).Scan(dest...)
	})
}
