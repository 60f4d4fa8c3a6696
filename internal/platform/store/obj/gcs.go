package obj

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// gcsBucket reads from Google Cloud Storage using application default credentials
type gcsBucket struct {
	client  *storage.Client
	bkt     *storage.BucketHandle
	timeout time.Duration
}

func openGCS(ctx context.Context, cfg Config) (Bucket, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("obj: gcs driver needs a bucket")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("obj: gcs client: %w", err)
	}
	return &gcsBucket{client: client, bkt: client.Bucket(cfg.Bucket), timeout: cfg.Timeout}, nil
}

func (b *gcsBucket) List(ctx context.Context, prefix string) ([]Info, error) {
	ctx, cancel := bounded(ctx, b.timeout)
	defer cancel()

	q := &storage.Query{Prefix: prefix}
	_ = q.SetAttrSelection([]string{"Name", "Updated", "Size"})

	var out []Info
	it := b.bkt.Objects(ctx, q)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Info{Path: attrs.Name, Updated: attrs.Updated.UTC(), Size: attrs.Size})
	}
	return out, nil
}

func (b *gcsBucket) Prefixes(ctx context.Context) ([]string, error) {
	ctx, cancel := bounded(ctx, b.timeout)
	defer cancel()

	var out []string
	it := b.bkt.Objects(ctx, &storage.Query{Delimiter: "/"})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs.Prefix != "" {
			out = append(out, strings.TrimSuffix(attrs.Prefix, "/"))
		}
	}
	return out, nil
}

func (b *gcsBucket) Get(ctx context.Context, p string) ([]byte, Info, error) {
	ctx, cancel := bounded(ctx, b.timeout)
	defer cancel()

	r, err := b.bkt.Object(p).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, Info{}, ErrNotExist
		}
		return nil, Info{}, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Info{}, err
	}
	return data, Info{Path: p, Updated: r.Attrs.LastModified.UTC(), Size: r.Attrs.Size}, nil
}

func (b *gcsBucket) Close() error { return b.client.Close() }
