// Package pg opens the pgxpool backing the manifest table and waits for it to answer
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool and the readiness wait
type Config struct {
	URL      string
	MaxConns int32
	// Slow marks queries at or above this duration; zero flags every query
	Slow time.Duration
	// Attempts bounds the readiness pings, default 20
	Attempts int
	// PingTimeout bounds each ping, default 3s
	PingTimeout time.Duration
}

// Client is a pool plus the tracer queries report to
type Client struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration
}

// Option adjusts a Client before the pool is created
type Option func(*Client, *pgxpool.Config)

// WithTracer reports every query to t
func WithTracer(t QueryTracer) Option {
	return func(c *Client, _ *pgxpool.Config) { c.Tracer = t }
}

// WithPoolConfig exposes the parsed pool config, used by tests to set session params
func WithPoolConfig(fn func(*pgxpool.Config)) Option {
	return func(_ *Client, pc *pgxpool.Config) { fn(pc) }
}

var (
	newPool = pgxpool.NewWithConfig
	ping    = func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }
	sleep   = time.Sleep
)

// Open parses cfg, builds the pool and blocks until a ping succeeds or attempts run out
func Open(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	c := &Client{Slow: cfg.Slow}
	for _, o := range opts {
		o(c, pc)
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pg pool: %w", err)
	}
	c.Pool = pool
	if err := c.waitReady(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) waitReady(ctx context.Context, cfg Config) error {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	backoff := 150 * time.Millisecond
	var last error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		last = ping(pctx, c.Pool)
		cancel()
		if last == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		sleep(backoff)
		backoff = min(backoff*2, 2*time.Second)
	}
	return fmt.Errorf("postgres not ready after %d pings: %w", attempts, last)
}

// Observe reports one finished query to the tracer, if any
func (c *Client) Observe(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if c == nil || c.Tracer == nil {
		return
	}
	took := time.Since(start)
	c.Tracer.OnQuery(ctx, QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: took,
		Err:     err,
		Slow:    took >= c.Slow,
	})
}

// Close releases the pool; safe on nil
func (c *Client) Close() {
	if c != nil && c.Pool != nil {
		c.Pool.Close()
	}
}
