package obj

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// natsBucket reads from a JetStream object store. Object names carry the full
// artifact path, so prefix listing filters the store's listing client side
type natsBucket struct {
	nc      *nats.Conn
	store   jetstream.ObjectStore
	timeout time.Duration
}

func openNATS(ctx context.Context, cfg Config) (Bucket, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("obj: nats driver needs an object store name")
	}
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name("profitscout"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("obj: nats connect: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("obj: jetstream: %w", err)
	}
	octx, cancel := bounded(ctx, cfg.Timeout)
	defer cancel()
	store, err := js.ObjectStore(octx, cfg.Bucket)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("obj: object store %s: %w", cfg.Bucket, err)
	}
	return &natsBucket{nc: nc, store: store, timeout: cfg.Timeout}, nil
}

func (b *natsBucket) all(ctx context.Context) ([]*jetstream.ObjectInfo, error) {
	infos, err := b.store.List(ctx)
	if errors.Is(err, jetstream.ErrNoObjectsFound) {
		return nil, nil
	}
	return infos, err
}

func (b *natsBucket) List(ctx context.Context, prefix string) ([]Info, error) {
	ctx, cancel := bounded(ctx, b.timeout)
	defer cancel()

	infos, err := b.all(ctx)
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, oi := range infos {
		if oi.Deleted || !strings.HasPrefix(oi.Name, prefix) {
			continue
		}
		out = append(out, Info{Path: oi.Name, Updated: oi.ModTime.UTC(), Size: int64(oi.Size)})
	}
	return out, nil
}

func (b *natsBucket) Prefixes(ctx context.Context) ([]string, error) {
	ctx, cancel := bounded(ctx, b.timeout)
	defer cancel()

	infos, err := b.all(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, oi := range infos {
		if oi.Deleted {
			continue
		}
		if dir, _, ok := strings.Cut(oi.Name, "/"); ok && dir != "" {
			seen[dir] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	slices.Sort(out)
	return out, nil
}

func (b *natsBucket) Get(ctx context.Context, p string) ([]byte, Info, error) {
	ctx, cancel := bounded(ctx, b.timeout)
	defer cancel()

	res, err := b.store.Get(ctx, p)
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return nil, Info{}, ErrNotExist
		}
		return nil, Info{}, err
	}
	defer res.Close()

	data, err := io.ReadAll(res)
	if err != nil {
		return nil, Info{}, err
	}
	info := Info{Path: p, Size: int64(len(data))}
	if oi, err := res.Info(); err == nil && oi != nil {
		info.Updated = oi.ModTime.UTC()
	}
	return data, info, nil
}

func (b *natsBucket) Close() error {
	b.nc.Close()
	return nil
}
