// Package postgres stores actors and reference documents in PostgreSQL
// through pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/swse/internal/config"
)

// ApplicationName tags every connection in pg_stat_activity.
const ApplicationName = "swse-rulesd"

// Pool is the shared connection pool behind the repositories.
type Pool struct {
	pool *pgxpool.Pool
}

// PoolStats is a point-in-time view of pool usage reported by Probe.
type PoolStats struct {
	Total    int32
	Idle     int32
	Acquired int32
	Latency  time.Duration
}

// Open connects to the database described by cfg and verifies it answers.
//
// Postcondition: the returned Pool has completed one round trip; on error no
// connections are left open.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing dsn: %w", err)
	}
	pc.MaxConns, pc.MinConns = cfg.MaxConns, cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	if pc.ConnConfig.RuntimeParams == nil {
		pc.ConnConfig.RuntimeParams = map[string]string{}
	}
	pc.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: first ping: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Probe pings the database, bounded by timeout, and reports pool usage with
// the round-trip latency.
func (p *Pool) Probe(ctx context.Context, timeout time.Duration) (PoolStats, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	began := time.Now()
	err := p.pool.Ping(ctx)
	s := p.pool.Stat()
	stats := PoolStats{
		Total:    s.TotalConns(),
		Idle:     s.IdleConns(),
		Acquired: s.AcquiredConns(),
		Latency:  time.Since(began),
	}
	if err != nil {
		return stats, fmt.Errorf("postgres: probe: %w", err)
	}
	return stats, nil
}

// Close releases every connection.
func (p *Pool) Close() { p.pool.Close() }

// DB exposes the pgx pool to the repositories.
func (p *Pool) DB() *pgxpool.Pool { return p.pool }
