package store

import (
	"context"
	"fmt"

	"profitscout/internal/platform/logger"
	chx "profitscout/internal/platform/store/ch"
	"profitscout/internal/platform/store/obj"
	"profitscout/internal/platform/store/pg"
)

func openPG(ctx context.Context, cfg PGConfig, log logger.Logger) (RowQuerier, error) {
	var opts []pg.Option
	if cfg.LogSQL {
		opts = append(opts, pg.WithTracer(pg.Tracer(log)))
	}
	c, err := pg.Open(ctx, pg.Config{
		URL:         cfg.URL,
		MaxConns:    cfg.MaxConns,
		Slow:        cfg.Slow,
		Attempts:    cfg.Attempts,
		PingTimeout: cfg.PingTimeout,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return pgReader{c: c}, nil
}

func openCH(ctx context.Context, cfg CHConfig) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.URL,
		ClientName: cfg.ClientName,
		ClientTag:  cfg.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return chReader{c: c}, nil
}

func openObj(ctx context.Context, cfg ObjConfig, nc NATSConfig) (obj.Bucket, error) {
	b, err := obj.Open(ctx, obj.Config{
		Driver:  cfg.Driver,
		Dir:     cfg.Dir,
		Bucket:  cfg.Bucket,
		URL:     nc.URL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	return b, nil
}
