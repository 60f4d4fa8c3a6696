package service

import (
	"context"
	"time"

	"profitscout/internal/core/artifact"
	"profitscout/internal/core/policy"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/metrics"
	"profitscout/internal/services/api/datasets/repo"
)

// Lookup addresses one item variant
type Lookup struct {
	Dataset string
	ID      string
	AsOf    string
	// SkipManifest forces the catalog scan
	SkipManifest bool
}

// Resolution is the located artifact and how it was found
type Resolution struct {
	Ref artifact.Ref `json:"ref"`
	// Via is metrics.PathManifest or metrics.PathScan
	Via string `json:"via"`
}

// Locator resolves an item to a single stored artifact: manifest first for
// latest, catalog scan and ranking otherwise
type Locator struct {
	manifests repo.Manifests
	catalog   repo.Catalog
	policy    policy.Policy
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewLocator builds a locator; a nil manifest backend disables the fast path
func NewLocator(m repo.Manifests, c repo.Catalog, p policy.Policy, mx *metrics.Metrics) *Locator {
	if c == nil {
		panic("datasets.Locator requires a non nil Catalog")
	}
	if m == nil {
		m = repo.Disabled{}
	}
	return &Locator{manifests: m, catalog: c, policy: p, metrics: mx, now: time.Now}
}

// Resolve returns the best artifact for the lookup or a NotFound error.
// Backend failures surface as Unavailable and are never reported as NotFound
func (l *Locator) Resolve(ctx context.Context, in Lookup) (Resolution, error) {
	if artifact.IsLatest(in.AsOf) && !in.SkipManifest {
		res, ok, err := l.fromManifest(ctx, in)
		if err != nil {
			l.metrics.Resolved(in.Dataset, metrics.PathManifest, metrics.OutcomeError)
			return Resolution{}, err
		}
		if ok {
			l.metrics.Resolved(in.Dataset, metrics.PathManifest, metrics.OutcomeHit)
			return res, nil
		}
		l.metrics.Resolved(in.Dataset, metrics.PathManifest, metrics.OutcomeMiss)
	}

	cands, err := l.Candidates(ctx, in.Dataset, in.ID)
	if err != nil {
		l.metrics.Resolved(in.Dataset, metrics.PathScan, metrics.OutcomeError)
		return Resolution{}, err
	}
	ref, ok := artifact.Select(cands, artifact.Query{
		AsOf:  in.AsOf,
		Prefs: l.policy.Preference(in.Dataset),
		Now:   l.now(),
	})
	if !ok {
		l.metrics.Resolved(in.Dataset, metrics.PathScan, metrics.OutcomeNotFound)
		return Resolution{}, notFound(in)
	}
	l.metrics.Resolved(in.Dataset, metrics.PathScan, metrics.OutcomeHit)
	logger.C(ctx).Debug().
		Str("dataset", in.Dataset).
		Str("id", in.ID).
		Str("artifact", ref.Path).
		Int("candidates", len(cands)).
		Msg("artifact resolved by scan")
	return Resolution{Ref: ref, Via: metrics.PathScan}, nil
}

// Candidates gathers every variant of an item across the dataset sources
func (l *Locator) Candidates(ctx context.Context, dataset, id string) ([]artifact.Ref, error) {
	var out []artifact.Ref
	for _, src := range l.policy.Sources(dataset) {
		start := time.Now()
		infos, err := l.catalog.List(ctx, artifact.ItemPrefix(src, id))
		l.metrics.Backend("catalog", "list", start, err)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "list %s/%s", src, id)
		}
		for _, info := range infos {
			ref, ok := artifact.Parse(src, id, info.Path)
			if !ok {
				continue
			}
			ref.Updated, ref.Size = info.Updated, info.Size
			out = append(out, ref)
		}
	}
	l.metrics.Scanned(len(out))
	return out, nil
}

func (l *Locator) fromManifest(ctx context.Context, in Lookup) (Resolution, bool, error) {
	for _, src := range l.policy.Sources(in.Dataset) {
		start := time.Now()
		p, ok, err := l.manifests.Latest(ctx, src, in.ID)
		l.metrics.Backend("manifest", "get", start, err)
		if err != nil {
			return Resolution{}, false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "manifest %s/%s", src, in.ID)
		}
		if ok {
			return Resolution{Ref: artifact.FromPath(in.ID, p), Via: metrics.PathManifest}, true, nil
		}
	}
	return Resolution{}, false, nil
}

func notFound(in Lookup) error {
	asOf := in.AsOf
	if artifact.IsLatest(asOf) {
		asOf = artifact.Latest
	}
	return perr.NotFoundf("no artifact for %s/%s as of %s", in.Dataset, in.ID, asOf)
}
