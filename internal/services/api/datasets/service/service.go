// Package service resolves dataset items and listings across object-backed
// and query-backed datasets
package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"profitscout/internal/core/artifact"
	"profitscout/internal/core/policy"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/metrics"
	"profitscout/internal/platform/net/http/bind"
	"profitscout/internal/platform/store/obj"
	"profitscout/internal/services/api/datasets/domain"
	"profitscout/internal/services/api/datasets/repo"
	sigdomain "profitscout/internal/services/api/signals/domain"
)

// Service defines the datasets service contract
type Service interface {
	domain.ServicePort
}

// Bucket is the object store surface the service reads from
type Bucket interface {
	repo.Catalog
	repo.Reader
}

// Options wires the service; every field except Policy may be zero
type Options struct {
	// Bucket is nil when the object store is disabled
	Bucket Bucket
	// Manifests defaults to repo.Disabled
	Manifests repo.Manifests
	// Signals answers query-backed datasets, nil when the analytical store is disabled
	Signals sigdomain.ServicePort
	Policy  policy.Policy
	Metrics *metrics.Metrics
}

// Svc implements the datasets service
type Svc struct {
	bucket   Bucket
	signals  sigdomain.ServicePort
	locator  *Locator
	registry *Registry
	metrics  *metrics.Metrics
}

// New constructs a datasets service
func New(o Options) *Svc {
	s := &Svc{
		signals:  o.Signals,
		registry: NewRegistry(nil, o.Policy, o.Metrics),
		metrics:  o.Metrics,
	}
	if o.Bucket != nil {
		s.bucket = o.Bucket
		s.locator = NewLocator(o.Manifests, o.Bucket, o.Policy, o.Metrics)
		s.registry = NewRegistry(o.Bucket, o.Policy, o.Metrics)
	}
	return s
}

// Locator exposes the artifact locator, nil without an object store
func (s *Svc) Locator() *Locator { return s.locator }

// Datasets lists every known dataset
func (s *Svc) Datasets(ctx context.Context) (domain.DatasetList, error) {
	items, err := s.registry.ListDatasets(ctx)
	if err != nil {
		return domain.DatasetList{}, err
	}
	return domain.DatasetList{Items: items}, nil
}

// List returns the item ids of an object dataset, or the top rows across the
// market for a query-backed one
func (s *Svc) List(ctx context.Context, in domain.ListInput) (domain.Payload, error) {
	f, err := domain.ParseFormat(in.Format)
	if err != nil {
		return domain.Payload{}, err
	}
	if err := bind.Validate(in); err != nil {
		return domain.Payload{}, err
	}
	kind, err := s.registry.Classify(in.Dataset)
	if err != nil {
		return domain.Payload{}, err
	}

	if kind == domain.KindQuery {
		if f != domain.FormatJSON {
			return FormatRows(sigdomain.SignalSet{Dataset: in.Dataset}, f)
		}
		set, err := s.query(ctx, sigdomain.QueryInput{
			Dataset:    in.Dataset,
			Ticker:     sigdomain.MarketID,
			AsOf:       in.AsOf,
			OptionType: in.OptionType,
			TopN:       in.TopN,
		})
		if err != nil {
			return domain.Payload{}, err
		}
		return FormatRows(set, f)
	}

	if f != domain.FormatJSON {
		return domain.Payload{}, perr.UnsupportedFormatf("item listings support json only")
	}
	if s.bucket == nil {
		return domain.Payload{}, perr.Unavailablef("object store disabled")
	}
	ids, err := s.itemIDs(ctx, in.Dataset)
	if err != nil {
		return domain.Payload{}, err
	}
	if len(ids) == 0 {
		return domain.Payload{}, perr.NotFoundf("dataset %q not found", in.Dataset)
	}
	return domain.Payload{JSON: domain.ItemList{Dataset: in.Dataset, Kind: kind, Items: ids}}, nil
}

// Item resolves one item and renders it in the requested format
func (s *Svc) Item(ctx context.Context, in domain.ItemInput) (domain.Payload, error) {
	f, err := domain.ParseFormat(in.Format)
	if err != nil {
		return domain.Payload{}, err
	}
	in.ID = artifact.NormalizeID(in.ID)
	if err := bind.Validate(in); err != nil {
		return domain.Payload{}, err
	}
	kind, err := s.registry.Classify(in.Dataset)
	if err != nil {
		return domain.Payload{}, err
	}

	if kind == domain.KindQuery {
		if f != domain.FormatJSON {
			return FormatRows(sigdomain.SignalSet{Dataset: in.Dataset}, f)
		}
		set, err := s.query(ctx, sigdomain.QueryInput{
			Dataset:        in.Dataset,
			Ticker:         in.ID,
			AsOf:           in.AsOf,
			OptionType:     in.OptionType,
			ExpirationDate: in.ExpirationDate,
			TopN:           in.TopN,
		})
		if err != nil {
			return domain.Payload{}, err
		}
		return FormatRows(set, f)
	}

	if s.bucket == nil {
		return domain.Payload{}, perr.Unavailablef("object store disabled")
	}
	a, err := s.fetch(ctx, Lookup{Dataset: in.Dataset, ID: in.ID, AsOf: in.AsOf})
	if err != nil {
		return domain.Payload{}, err
	}
	if f == domain.FormatMD && !a.Ref.Markdown() {
		md, err := s.sibling(ctx, a.Ref, "md")
		if err != nil {
			return domain.Payload{}, err
		}
		a.Markdown = md
	}
	return FormatArtifact(a, f)
}

// fetch locates and reads an artifact. A manifest pointing at a missing
// object is treated as stale and the lookup is retried through the scan
func (s *Svc) fetch(ctx context.Context, in Lookup) (Artifact, error) {
	res, err := s.locator.Resolve(ctx, in)
	if err != nil {
		return Artifact{}, err
	}
	body, info, err := s.get(ctx, res.Ref.Path)
	if errors.Is(err, obj.ErrNotExist) && res.Via == metrics.PathManifest {
		logger.C(ctx).Warn().
			Str("dataset", in.Dataset).
			Str("id", in.ID).
			Str("artifact", res.Ref.Path).
			Msg("stale manifest, resolving by scan")
		s.metrics.Resolved(in.Dataset, metrics.PathManifest, metrics.OutcomeStale)

		in.SkipManifest = true
		if res, err = s.locator.Resolve(ctx, in); err != nil {
			return Artifact{}, err
		}
		body, info, err = s.get(ctx, res.Ref.Path)
	}
	if errors.Is(err, obj.ErrNotExist) {
		return Artifact{}, perr.NotFoundf("artifact %s vanished", res.Ref.Path)
	}
	if err != nil {
		return Artifact{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read %s", res.Ref.Path)
	}

	ref := res.Ref
	if ref.Updated.IsZero() {
		ref.Updated = info.Updated
	}
	if ref.Size == 0 {
		ref.Size = info.Size
	}
	return Artifact{Ref: ref, Body: body}, nil
}

// sibling reads the same item and date with another extension
func (s *Svc) sibling(ctx context.Context, ref artifact.Ref, ext string) ([]byte, error) {
	p := ref.Sibling(ext)
	body, _, err := s.get(ctx, p)
	if errors.Is(err, obj.ErrNotExist) {
		return nil, perr.UnsupportedFormatf("no %s variant of %s", ext, ref.Path)
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read %s", p)
	}
	return body, nil
}

func (s *Svc) get(ctx context.Context, p string) ([]byte, obj.Info, error) {
	start := time.Now()
	body, info, err := s.bucket.Get(ctx, p)
	if errors.Is(err, obj.ErrNotExist) {
		s.metrics.Backend("catalog", "get", start, nil)
	} else {
		s.metrics.Backend("catalog", "get", start, err)
	}
	return body, info, err
}

// itemIDs lists the distinct ids stored under a dataset and its alias sources
func (s *Svc) itemIDs(ctx context.Context, dataset string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, src := range s.locator.policy.Sources(dataset) {
		start := time.Now()
		infos, err := s.bucket.List(ctx, artifact.DatasetPrefix(src))
		s.metrics.Backend("catalog", "list", start, err)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "list %s", src)
		}
		for _, info := range infos {
			if ref, ok := artifact.ParseAny(src, info.Path); ok {
				seen[ref.ID] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Svc) query(ctx context.Context, in sigdomain.QueryInput) (sigdomain.SignalSet, error) {
	if s.signals == nil {
		return sigdomain.SignalSet{}, perr.Unavailablef("analytical store disabled for %s", in.Dataset)
	}
	return s.signals.Query(ctx, in)
}
