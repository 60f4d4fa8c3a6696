package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"profitscout/internal/core/policy"
	"profitscout/internal/platform/store/obj"
	sigdomain "profitscout/internal/services/api/signals/domain"
)

var day = time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC)

type fakeObject struct {
	body    string
	updated time.Time
}

type fakeBucket struct {
	objs  map[string]fakeObject
	lists int
	gets  []string

	listErr   error
	getErr    error
	prefixErr error
}

func newBucket(paths ...string) *fakeBucket {
	b := &fakeBucket{objs: map[string]fakeObject{}}
	for _, p := range paths {
		b.put(p, "body of "+p, day)
	}
	return b
}

func (b *fakeBucket) put(p, body string, updated time.Time) {
	b.objs[p] = fakeObject{body: body, updated: updated}
}

func (b *fakeBucket) List(_ context.Context, prefix string) ([]obj.Info, error) {
	b.lists++
	if b.listErr != nil {
		return nil, b.listErr
	}
	var out []obj.Info
	for p, o := range b.objs {
		if strings.HasPrefix(p, prefix) {
			out = append(out, obj.Info{Path: p, Updated: o.updated, Size: int64(len(o.body))})
		}
	}
	slices.SortFunc(out, func(a, c obj.Info) int { return strings.Compare(a.Path, c.Path) })
	return out, nil
}

func (b *fakeBucket) Prefixes(context.Context) ([]string, error) {
	if b.prefixErr != nil {
		return nil, b.prefixErr
	}
	var out []string
	for p := range b.objs {
		top, _, _ := strings.Cut(p, "/")
		if !slices.Contains(out, top) {
			out = append(out, top)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (b *fakeBucket) Get(_ context.Context, p string) ([]byte, obj.Info, error) {
	b.gets = append(b.gets, p)
	if b.getErr != nil {
		return nil, obj.Info{}, b.getErr
	}
	o, ok := b.objs[p]
	if !ok {
		return nil, obj.Info{}, obj.ErrNotExist
	}
	return []byte(o.body), obj.Info{Path: p, Updated: o.updated, Size: int64(len(o.body))}, nil
}

type fakeManifests struct {
	latest map[string]string
	err    error
	calls  int
}

func (m *fakeManifests) Latest(_ context.Context, dataset, id string) (string, bool, error) {
	m.calls++
	if m.err != nil {
		return "", false, m.err
	}
	p, ok := m.latest[dataset+"/"+id]
	return p, ok, nil
}

type fakeSignals struct {
	last  sigdomain.QueryInput
	calls int
	set   sigdomain.SignalSet
	err   error
}

func (f *fakeSignals) Query(_ context.Context, in sigdomain.QueryInput) (sigdomain.SignalSet, error) {
	f.calls++
	f.last = in
	if f.err != nil {
		return sigdomain.SignalSet{}, f.err
	}
	set := f.set
	set.Dataset, set.ID = in.Dataset, in.Ticker
	return set, nil
}

func (f *fakeSignals) Tickers(context.Context, sigdomain.TickersInput) (sigdomain.TickerPage, error) {
	return sigdomain.TickerPage{}, nil
}

func (f *fakeSignals) Datasets() []string { return policy.Default().VirtualNames() }
