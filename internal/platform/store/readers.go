package store

import (
	"context"
	"time"

	chx "profitscout/internal/platform/store/ch"
	"profitscout/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
)

// pgReader exposes a pg.Client as a RowQuerier and traces each query
type pgReader struct{ c *pg.Client }

func (r pgReader) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := r.c.Pool.Query(ctx, sql, args...)
	r.c.Observe(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{rs}, nil
}

// QueryRow traces once Scan returns, so no-rows and scan failures are reported
func (r pgReader) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	row := r.c.Pool.QueryRow(ctx, sql, args...)
	return scanHook{row: row, done: func(err error) { r.c.Observe(ctx, sql, args, start, err) }}
}

func (r pgReader) Ping(ctx context.Context) error { return r.c.Pool.Ping(ctx) }

func (r pgReader) Close() error { r.c.Close(); return nil }

type scanHook struct {
	row  Row
	done func(error)
}

func (h scanHook) Scan(dst ...any) error {
	err := h.row.Scan(dst...)
	h.done(err)
	return err
}

type pgRows struct{ pgx.Rows }

func (r pgRows) Columns() []string {
	fd := r.FieldDescriptions()
	out := make([]string, len(fd))
	for i, f := range fd {
		out[i] = f.Name
	}
	return out
}

// chConn is the part of *ch.CH the reader uses
type chConn interface {
	Query(ctx context.Context, sql string, args ...any) (chx.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// chReader exposes a clickhouse connection as the Clickhouse seam
type chReader struct{ c chConn }

func (r chReader) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := r.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

func (r chReader) Ping(ctx context.Context) error { return r.c.Ping(ctx) }

func (r chReader) Close() error { return r.c.Close() }

// chRows adapts Close to the Rows signature
type chRows struct{ chx.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
