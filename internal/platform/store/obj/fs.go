package obj

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"time"
)

// FS serves objects from a local directory tree; object paths are slash separated
// and relative to the root
type FS struct {
	root    string
	fsys    fs.FS
	timeout time.Duration
}

// OpenFS roots a bucket at dir
func OpenFS(dir string, timeout time.Duration) (*FS, error) {
	if dir == "" {
		return nil, errors.New("obj: fs driver needs a directory")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("obj: fs root: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("obj: fs root %s is not a directory", dir)
	}
	return &FS{root: dir, fsys: os.DirFS(dir), timeout: timeout}, nil
}

func (b *FS) List(ctx context.Context, prefix string) ([]Info, error) {
	ctx, cancel := bounded(ctx, b.timeout)
	defer cancel()

	start := path.Dir(prefix)
	if strings.HasSuffix(prefix, "/") {
		start = strings.TrimSuffix(prefix, "/")
	}
	if start == "" {
		start = "."
	}

	var out []Info
	err := fs.WalkDir(b.fsys, start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() || !strings.HasPrefix(p, prefix) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, Info{Path: p, Updated: fi.ModTime().UTC(), Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *FS) Prefixes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(b.fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out, nil
}

func (b *FS) Get(ctx context.Context, p string) ([]byte, Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, Info{}, err
	}
	if !fs.ValidPath(p) {
		return nil, Info{}, ErrNotExist
	}
	fi, err := fs.Stat(b.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Info{}, ErrNotExist
		}
		return nil, Info{}, err
	}
	if fi.IsDir() {
		return nil, Info{}, ErrNotExist
	}
	data, err := fs.ReadFile(b.fsys, p)
	if err != nil {
		return nil, Info{}, err
	}
	return data, Info{Path: p, Updated: fi.ModTime().UTC(), Size: fi.Size()}, nil
}

func (b *FS) Close() error { return nil }
