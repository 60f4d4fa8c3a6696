// Package obj provides read access to the artifact object store.
// Drivers: fs (local directory), gcs (Google Cloud Storage), nats (JetStream object store)
package obj

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotExist is returned by Get when the object is absent
var ErrNotExist = errors.New("obj: object does not exist")

// Info describes one stored object
type Info struct {
	Path    string
	Updated time.Time
	Size    int64
}

// Bucket is the read surface the resolver needs
type Bucket interface {
	// List returns every object whose path starts with prefix
	List(ctx context.Context, prefix string) ([]Info, error)
	// Prefixes returns the top level directory names, without trailing slash
	Prefixes(ctx context.Context) ([]string, error)
	// Get reads a whole object; absent objects yield ErrNotExist
	Get(ctx context.Context, path string) ([]byte, Info, error)
	Close() error
}

// Config selects and configures a driver
type Config struct {
	Driver string // fs | gcs | nats
	Dir    string // fs root
	Bucket string // gcs bucket or nats object store name
	URL    string // nats server url

	// Timeout bounds each backend call; zero means no extra bound
	Timeout time.Duration
}

// Open returns the configured driver
func Open(ctx context.Context, cfg Config) (Bucket, error) {
	switch cfg.Driver {
	case "fs", "":
		return OpenFS(cfg.Dir, cfg.Timeout)
	case "gcs":
		return openGCS(ctx, cfg)
	case "nats":
		return openNATS(ctx, cfg)
	default:
		return nil, fmt.Errorf("obj: unknown driver %q", cfg.Driver)
	}
}

// bounded applies the per call timeout when configured
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
