package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"profitscout/internal/core/artifact"
	"profitscout/internal/core/policy"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/metrics"
	"profitscout/internal/services/api/datasets/domain"
	"profitscout/internal/services/api/datasets/repo"
)

// Registry knows every dataset name and its kind
type Registry struct {
	catalog repo.Catalog
	policy  policy.Policy
	metrics *metrics.Metrics
}

// NewRegistry builds a registry; a nil catalog lists configured datasets only
func NewRegistry(c repo.Catalog, p policy.Policy, mx *metrics.Metrics) *Registry {
	return &Registry{catalog: c, policy: p, metrics: mx}
}

// Classify maps a dataset name to its kind without touching any backend.
// Query-backed names win over alias and object names
func (g *Registry) Classify(name string) (domain.Kind, error) {
	if !artifact.ValidDataset(name) {
		return "", perr.WithField(perr.Validationf("dataset %q must contain only lowercase letters, digits and hyphens", name), "dataset")
	}
	if name == artifact.ManifestRoot {
		return "", perr.NotFoundf("dataset %q not found", name)
	}
	if _, ok := g.policy.Table(name); ok {
		return domain.KindQuery, nil
	}
	return domain.KindObject, nil
}

// ListDatasets merges query-backed, alias and discovered object datasets,
// sorted by name
func (g *Registry) ListDatasets(ctx context.Context) ([]domain.Dataset, error) {
	byName := map[string]domain.Dataset{}

	if g.catalog != nil {
		start := time.Now()
		prefixes, err := g.catalog.Prefixes(ctx)
		g.metrics.Backend("catalog", "prefixes", start, err)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "discover datasets")
		}
		for _, p := range prefixes {
			if p == artifact.ManifestRoot || !artifact.ValidDataset(p) {
				continue
			}
			byName[p] = domain.Dataset{Name: p, Kind: domain.KindObject}
		}
	}

	for _, name := range g.policy.AliasNames() {
		d := domain.Dataset{Name: name, Kind: domain.KindObject, Sources: slices.Clone(g.policy.Sources(name))}
		if _, dup := byName[name]; dup {
			d.Shadowed = true
		}
		byName[name] = d
	}

	for _, name := range g.policy.VirtualNames() {
		d := domain.Dataset{Name: name, Kind: domain.KindQuery}
		if prev, dup := byName[name]; dup {
			d.Shadowed = true
			logger.C(ctx).Warn().
				Str("dataset", name).
				Str("shadowed_kind", string(prev.Kind)).
				Msg("query-backed dataset shadows an object dataset of the same name")
		}
		byName[name] = d
	}

	out := make([]domain.Dataset, 0, len(byName))
	for _, d := range byName {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b domain.Dataset) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
