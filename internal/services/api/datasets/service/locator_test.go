package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"profitscout/internal/core/policy"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/platform/metrics"
	"profitscout/internal/platform/testkit"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var aalSet = []string{
	"recommendations/AAL_2025-10-14.md",
	"recommendations/AAL_2025-10-15.md",
	"recommendations/AAL_2025-10-15.json",
}

func newLocator(b *fakeBucket, m *fakeManifests, mx *metrics.Metrics) *Locator {
	if m == nil {
		m = &fakeManifests{}
	}
	l := NewLocator(m, b, policy.Default(), mx)
	l.now = func() time.Time { return day }
	return l
}

func TestResolve_LatestPrefersNewestDateThenJSON(t *testing.T) {
	l := newLocator(newBucket(aalSet...), nil, nil)
	res, err := l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL", AsOf: "latest"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "recommendations/AAL_2025-10-15.json" || res.Via != metrics.PathScan {
		t.Fatalf("got %+v", res)
	}
}

func TestResolve_ExplicitDate(t *testing.T) {
	l := newLocator(newBucket(aalSet...), nil, nil)
	res, err := l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL", AsOf: "2025-10-14"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "recommendations/AAL_2025-10-14.md" {
		t.Fatalf("got %s", res.Ref.Path)
	}
}

func TestResolve_UnmatchedDateIsNotFound(t *testing.T) {
	l := newLocator(newBucket(aalSet...), nil, nil)
	_, err := l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL", AsOf: "2099-01-01"})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestResolve_ManifestHitSkipsCatalog(t *testing.T) {
	b := newBucket(aalSet...)
	m := &fakeManifests{latest: map[string]string{"recommendations/AAL": "recommendations/AAL_2025-10-14.md"}}
	mx := metrics.New()
	l := newLocator(b, m, mx)

	res, err := l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "recommendations/AAL_2025-10-14.md" || res.Via != metrics.PathManifest {
		t.Fatalf("got %+v", res)
	}
	if res.Ref.Date != "2025-10-14" || res.Ref.Ext != "md" {
		t.Fatalf("manifest ref not parsed: %+v", res.Ref)
	}
	if b.lists != 0 {
		t.Fatalf("catalog called %d times on a manifest hit", b.lists)
	}
	if got := testutil.ToFloat64(mx.Resolutions.WithLabelValues("recommendations", metrics.PathManifest, metrics.OutcomeHit)); got != 1 {
		t.Fatalf("manifest hit counter = %v", got)
	}
}

func TestResolve_ExplicitDateIgnoresManifest(t *testing.T) {
	b := newBucket(aalSet...)
	m := &fakeManifests{latest: map[string]string{"recommendations/AAL": "recommendations/AAL_2025-10-15.json"}}
	l := newLocator(b, m, nil)

	res, err := l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL", AsOf: "2025-10-14"})
	if err != nil {
		t.Fatal(err)
	}
	if m.calls != 0 || b.lists != 1 || res.Ref.Path != "recommendations/AAL_2025-10-14.md" {
		t.Fatalf("manifest calls=%d lists=%d got=%s", m.calls, b.lists, res.Ref.Path)
	}
}

func TestResolve_PrefixSiblingsDiscarded(t *testing.T) {
	b := newBucket(append(aalSet, "recommendations/AALX_2025-10-15.json", "recommendations/AALX.json")...)
	l := newLocator(b, nil, nil)
	res, err := l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "recommendations/AAL_2025-10-15.json" {
		t.Fatalf("got %s", res.Ref.Path)
	}
}

func TestResolve_LatestSkipsFutureDates(t *testing.T) {
	b := newBucket(append(aalSet, "recommendations/AAL_2025-12-01.json")...)
	l := newLocator(b, nil, nil)
	res, err := l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "recommendations/AAL_2025-10-15.json" {
		t.Fatalf("got %s", res.Ref.Path)
	}
}

func TestResolve_UndatedOnlyWithoutDated(t *testing.T) {
	b := newBucket("news/AAL.json", "news/AAL_2025-10-01.md")
	l := newLocator(b, nil, nil)
	res, err := l.Resolve(context.Background(), Lookup{Dataset: "news", ID: "AAL"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "news/AAL_2025-10-01.md" {
		t.Fatalf("dated variant should win, got %s", res.Ref.Path)
	}

	l = newLocator(newBucket("news/AAL.json", "news/AAL.md"), nil, nil)
	if res, err = l.Resolve(context.Background(), Lookup{Dataset: "news", ID: "AAL"}); err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "news/AAL.json" {
		t.Fatalf("got %s", res.Ref.Path)
	}

	if _, err := l.Resolve(context.Background(), Lookup{Dataset: "news", ID: "AAL", AsOf: "2025-10-01"}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("undated variants never match an explicit date, got %v", err)
	}
}

func TestResolve_UndatedUsesLastModified(t *testing.T) {
	b := newBucket()
	b.put("news/AAL.json", "old", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	b.put("news/AAL.md", "new", day)
	res, err := newLocator(b, nil, nil).Resolve(context.Background(), Lookup{Dataset: "news", ID: "AAL"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "news/AAL.md" {
		t.Fatalf("newer undated variant should win, got %s", res.Ref.Path)
	}
}

func TestResolve_PerDatasetPreference(t *testing.T) {
	b := newBucket("sec-mda/AAL_2025-08-01.json", "sec-mda/AAL_2025-08-01.md")
	l := newLocator(b, nil, nil)
	res, err := l.Resolve(context.Background(), Lookup{Dataset: "sec-mda", ID: "AAL"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "sec-mda/AAL_2025-08-01.md" {
		t.Fatalf("md should rank first for sec-mda, got %s", res.Ref.Path)
	}
}

func TestResolve_AliasMergesSources(t *testing.T) {
	b := newBucket(
		"technicals-analysis/AAL_2025-10-14.json",
		"technicals/AAL_2025-10-15.json",
	)
	m := &fakeManifests{}
	l := newLocator(b, m, nil)
	res, err := l.Resolve(context.Background(), Lookup{Dataset: "key-levels", ID: "AAL"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ref.Path != "technicals/AAL_2025-10-15.json" || res.Ref.Dataset != "technicals" {
		t.Fatalf("got %+v", res.Ref)
	}
	if m.calls != 2 || b.lists != 2 {
		t.Fatalf("manifest calls=%d lists=%d", m.calls, b.lists)
	}
}

func TestResolve_BackendFailuresAreUnavailable(t *testing.T) {
	b := newBucket(aalSet...)
	b.listErr = errors.New("timeout")
	l := newLocator(b, nil, nil)
	_, err := l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("catalog failure: want unavailable, got %v", err)
	}

	m := &fakeManifests{err: errors.New("manifest store down")}
	l = newLocator(newBucket(aalSet...), m, nil)
	_, err = l.Resolve(context.Background(), Lookup{Dataset: "recommendations", ID: "AAL"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("manifest failure: want unavailable, got %v", err)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	b := newBucket("news/AAL_2025-10-15.txt")
	b.put("news/AAL_2025-10-15.csv", "a", day)
	b.put("news/AAL_2025-10-15.bin", "b", day)
	l := newLocator(b, nil, nil)
	var first string
	for i := 0; i < 5; i++ {
		res, err := l.Resolve(context.Background(), Lookup{Dataset: "news", ID: "AAL"})
		if err != nil {
			t.Fatal(err)
		}
		if first == "" {
			first = res.Ref.Path
		}
		if res.Ref.Path != first {
			t.Fatalf("run %d: %s != %s", i, res.Ref.Path, first)
		}
	}
	if first != "news/AAL_2025-10-15.txt" {
		t.Fatalf("known extension should win, got %s", first)
	}
}

func TestNewLocator_NilCatalogPanics(t *testing.T) {
	testkit.MustPanic(t, func() { NewLocator(nil, nil, policy.Default(), nil) })
}
