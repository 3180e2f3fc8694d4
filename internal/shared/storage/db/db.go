package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"orgdocs-backend/internal/shared/config"
	"orgdocs-backend/internal/shared/telemetry"
)

// ErrNoURL is returned when no database URL is configured.
var ErrNoURL = errors.New("db: DATABASE_URL is empty")

// Runtime selects pool defaults for the kind of process.
type Runtime int

const (
	RuntimeServer Runtime = iota
	RuntimeLambda
	RuntimeMigrate
)

// Options controls the pool and the connectivity check.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var defaults = map[Runtime]Options{
	// Lambda runs many small instances; keep each one's footprint low.
	RuntimeLambda:  {MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxIdleTime: 30 * time.Second, ConnMaxLifetime: 15 * time.Minute, PingTimeout: 3 * time.Second},
	RuntimeServer:  {MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
	RuntimeMigrate: {MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
}

// OptionsFor returns the defaults for rt with any non-zero pool fields applied.
func OptionsFor(rt Runtime, pool config.DBPool) Options {
	opts, ok := defaults[rt]
	if !ok {
		opts = defaults[RuntimeServer]
	}
	if pool.MaxOpenConns > 0 {
		opts.MaxOpenConns = pool.MaxOpenConns
	}
	if pool.MaxIdleConns > 0 {
		opts.MaxIdleConns = pool.MaxIdleConns
	}
	if pool.ConnMaxLifetime > 0 {
		opts.ConnMaxLifetime = pool.ConnMaxLifetime
	}
	if pool.ConnMaxIdleTime > 0 {
		opts.ConnMaxIdleTime = pool.ConnMaxIdleTime
	}
	if pool.PingTimeout > 0 {
		opts.PingTimeout = pool.PingTimeout
	}
	return opts
}

var openDB = sql.Open

// Open connects for the serving process. Inside Lambda the pool is shared
// across invocations of the same execution environment.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.Lambda {
		return shared.get(ctx, cfg.DatabaseURL, OptionsFor(RuntimeLambda, cfg.DBPool))
	}
	return Connect(ctx, cfg.DatabaseURL, OptionsFor(RuntimeServer, cfg.DBPool))
}

// Connect opens a pgx-backed pool and pings it before returning.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrNoURL
	}
	sqlDB, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := sqlDB.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return sqlDB, nil
}

// sharedPool connects once and hands out the same pool afterwards. A failed
// connect leaves it empty so the next caller retries.
type sharedPool struct {
	mu sync.Mutex
	db *sql.DB
}

var shared sharedPool

func (p *sharedPool) get(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db != nil {
		telemetry.Debug("db.shared.reuse", nil)
		return p.db, nil
	}
	sqlDB, err := Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, err
	}
	p.db = sqlDB
	telemetry.Info("db.shared.cold_start", nil)
	return sqlDB, nil
}

func (p *sharedPool) reset() {
	p.mu.Lock()
	p.db = nil
	p.mu.Unlock()
}
