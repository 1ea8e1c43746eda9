package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"hackmap/internal/config"
	"hackmap/internal/database"
)

const applicationName = "hackmap"

var ErrNilDB = errors.New("nil db")

// querier is the statement surface shared by the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type statements struct {
	q querier
}

func (s statements) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if s.q == nil {
		return 0, ErrNilDB
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// pgx.Rows and pgx.Row already satisfy the database interfaces.
func (s statements) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if s.q == nil {
		return nil, ErrNilDB
	}
	return s.q.Query(ctx, query, args...)
}

func (s statements) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if s.q == nil {
		return errRow{err: ErrNilDB}
	}
	return s.q.QueryRow(ctx, query, args...)
}

type Pool struct {
	statements
	pool  *pgxpool.Pool
	sqlDB *sql.DB

	acquireTimeout time.Duration
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	pcfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.Ping(pingCtx); err != nil {
		p.Close()
		return nil, err
	}

	return &Pool{
		statements:     statements{q: p},
		pool:           p,
		sqlDB:          stdlib.OpenDBFromPool(p),
		acquireTimeout: cfg.AcquireTimeout,
	}, nil
}

// poolConfig maps the database settings onto pgxpool. Zero values keep the
// pgx defaults.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	sslMode := strings.TrimSpace(cfg.DBSSLMode)
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(cfg.DBHost),
		strings.TrimSpace(cfg.DBPort),
		strings.TrimSpace(cfg.DBUser),
		quoteDSN(cfg.DBPassword),
		strings.TrimSpace(cfg.DBName),
		sslMode,
	)

	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pcfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.PoolMaxConns > 0 {
		pcfg.MaxConns = cfg.PoolMaxConns
	}
	if cfg.PoolMinConns > 0 {
		pcfg.MinConns = cfg.PoolMinConns
	}
	if cfg.PoolMaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.PoolMaxConnLifetime
	}
	if cfg.PoolMaxConnIdleTime > 0 {
		pcfg.MaxConnIdleTime = cfg.PoolMaxConnIdleTime
	}
	if cfg.PoolHealthCheckPeriod > 0 {
		pcfg.HealthCheckPeriod = cfg.PoolHealthCheckPeriod
	}
	return pcfg, nil
}

// quoteDSN quotes a keyword/value DSN value so passwords with spaces or
// quotes survive parsing.
func quoteDSN(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Ping acquires a connection within the configured acquire timeout, so an
// exhausted pool reports unhealthy instead of blocking the health probe.
func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return ErrNilDB
	}
	if _, ok := ctx.Deadline(); !ok && p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}
	return p.pool.Ping(ctx)
}

// Stats exposes pool counters for the health endpoint.
func (p *Pool) Stats() database.PoolStats {
	if p == nil || p.pool == nil {
		return database.PoolStats{}
	}
	st := p.pool.Stat()
	return database.PoolStats{
		TotalConns:    st.TotalConns(),
		IdleConns:     st.IdleConns(),
		AcquiredConns: st.AcquiredConns(),
		MaxConns:      st.MaxConns(),
	}
}

func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	if p.sqlDB != nil {
		_ = p.sqlDB.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Pool) Begin(ctx context.Context) (database.Tx, error) {
	if p == nil || p.pool == nil {
		return nil, ErrNilDB
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return pgxTx{statements: statements{q: tx}, tx: tx}, nil
}

// SQLDB is a database/sql view over the same pool, used by the migration
// runner.
func (p *Pool) SQLDB() *sql.DB {
	if p == nil {
		return nil
	}
	return p.sqlDB
}

type pgxTx struct {
	statements
	tx pgx.Tx
}

func (t pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
