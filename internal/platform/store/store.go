// Package store opens the optional read backends behind one facade:
// the artifact object store, the analytical store and the manifest database
package store

import (
	"context"
	"errors"
	"fmt"

	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/store/obj"
)

// Store holds whichever backends were enabled; nil fields are disabled
type Store struct {
	Log logger.Logger

	// PG reads the manifest table
	PG RowQuerier
	// CH reads the analytical tables behind query-backed datasets
	CH Clickhouse
	// Obj holds the research artifacts
	Obj obj.Bucket
}

// Row scans a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// Querier runs a query returning rows
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// RowQuerier adds single row lookups
type RowQuerier interface {
	Querier
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Clickhouse is the analytical read seam
type Clickhouse interface {
	Querier
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Option adjusts a Store before any backend is dialed
type Option func(*Store)

// WithLogger hands log to the backend clients; the default is the root logger
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open connects every enabled backend. On error, backends already opened are closed
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Get()}
	for _, o := range opts {
		o(s)
	}

	steps := []struct {
		on   bool
		open func() error
	}{
		{cfg.PG.Enabled, func() (err error) { s.PG, err = openPG(ctx, cfg.PG, s.Log); return }},
		{cfg.CH.Enabled, func() (err error) { s.CH, err = openCH(ctx, cfg.CH); return }},
		{cfg.Obj.Enabled, func() (err error) { s.Obj, err = openObj(ctx, cfg.Obj, cfg.NATS); return }},
	}
	for _, st := range steps {
		if !st.on {
			continue
		}
		if err := st.open(); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	check := func(name string, v any) {
		if p, ok := v.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	if s.PG != nil {
		check("pg", s.PG)
	}
	if s.CH != nil {
		check("ch", s.CH)
	}
	if s.Obj != nil {
		if _, err := s.Obj.Prefixes(ctx); err != nil {
			errs = append(errs, fmt.Errorf("obj: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.Obj != nil {
		errs = append(errs, s.Obj.Close())
	}
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
