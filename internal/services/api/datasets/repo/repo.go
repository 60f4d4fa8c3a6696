// Package repo provides the manifest and object catalog seams for datasets
package repo

import (
	"context"

	"profitscout/internal/platform/store/obj"
)

// Catalog enumerates stored objects
type Catalog interface {
	List(ctx context.Context, prefix string) ([]obj.Info, error)
	Prefixes(ctx context.Context) ([]string, error)
}

// Reader fetches one object; absent objects yield obj.ErrNotExist
type Reader interface {
	Get(ctx context.Context, path string) ([]byte, obj.Info, error)
}

// Manifests answers the latest pointer of an item
// ok is false when no usable entry exists; err is reserved for backend failures
type Manifests interface {
	Latest(ctx context.Context, dataset, id string) (path string, ok bool, err error)
}

// Disabled is the manifest backend used when manifests are turned off
type Disabled struct{}

// Latest never finds an entry
func (Disabled) Latest(context.Context, string, string) (string, bool, error) { return "", false, nil }
