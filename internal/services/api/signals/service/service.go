// Package service resolves query-backed datasets into ranked signal rows
package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"profitscout/internal/core/artifact"
	"profitscout/internal/core/policy"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/metrics"
	"profitscout/internal/platform/net/http/bind"
	"profitscout/internal/services/api/signals/domain"
	"profitscout/internal/services/api/signals/repo"
)

const defaultTickerLimit = 100

// Service defines the signals service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the virtual dataset resolver
type Svc struct {
	repo    repo.Repo
	policy  policy.Policy
	metrics *metrics.Metrics
}

// New constructs a signals service
func New(r repo.Repo, p policy.Policy, m *metrics.Metrics) *Svc {
	if r == nil {
		panic("signals.Service requires a non nil Repo")
	}
	return &Svc{repo: r, policy: p, metrics: m}
}

// Datasets lists the query-backed dataset names
func (s *Svc) Datasets() []string { return s.policy.VirtualNames() }

// Query ranks the signal rows of one run date for a ticker or the whole market
func (s *Svc) Query(ctx context.Context, in domain.QueryInput) (domain.SignalSet, error) {
	in.OptionType = normOptionType(in.OptionType)
	if in.Ticker != domain.MarketID {
		in.Ticker = artifact.NormalizeID(in.Ticker)
	}
	if err := bind.Validate(in); err != nil {
		return domain.SignalSet{}, err
	}
	table, err := s.table(in.Dataset)
	if err != nil {
		return domain.SignalSet{}, err
	}

	market := in.Market()
	set := domain.SignalSet{
		Dataset:    in.Dataset,
		ID:         in.Ticker,
		OptionType: in.OptionType,
		TopN:       s.policy.ClampTopN(in.TopN, market),
		Items:      []domain.Signal{},
	}
	if market {
		set.ID = domain.MarketID
	}

	day, ok, err := s.day(ctx, in.Dataset, table, in.AsOf)
	if err != nil {
		return domain.SignalSet{}, err
	}
	if !ok {
		s.metrics.Resolved(in.Dataset, metrics.PathQuery, metrics.OutcomeMiss)
		return set, nil
	}
	set.AsOf = day

	p := repo.Params{
		Table:          table,
		Day:            day,
		OptionType:     filterOptionType(in.OptionType),
		ExpirationDate: in.ExpirationDate,
	}
	if market {
		p.Limit = set.TopN
	} else {
		p.Ticker = in.Ticker
	}

	start := time.Now()
	rows, err := s.repo.Signals(ctx, p)
	s.metrics.Backend("clickhouse", "signals", start, err)
	if err != nil {
		s.metrics.Resolved(in.Dataset, metrics.PathQuery, metrics.OutcomeError)
		return domain.SignalSet{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "analytical store query failed for %s", in.Dataset)
	}

	items := make([]domain.Signal, 0, len(rows))
	for _, r := range rows {
		items = append(items, toSignal(r))
	}

	if !market {
		set.Expiration = in.ExpirationDate
		if set.Expiration == "" {
			set.Expiration = domain.SelectExpiration(items)
			items = onlyExpiration(items, set.Expiration)
		}
	}

	domain.Rank(items)
	if len(items) > set.TopN {
		items = items[:set.TopN]
	}
	set.Items = items

	outcome := metrics.OutcomeHit
	if len(items) == 0 {
		outcome = metrics.OutcomeMiss
	}
	s.metrics.Resolved(in.Dataset, metrics.PathQuery, outcome)
	return set, nil
}

// Tickers pages through the distinct tickers of one run date
func (s *Svc) Tickers(ctx context.Context, in domain.TickersInput) (domain.TickerPage, error) {
	in.OptionType = normOptionType(in.OptionType)
	in.Prefix = artifact.NormalizeID(in.Prefix)
	if err := bind.Validate(in); err != nil {
		return domain.TickerPage{}, err
	}
	table, err := s.table(in.Dataset)
	if err != nil {
		return domain.TickerPage{}, err
	}
	offset, err := decodeCursor(in.Cursor)
	if err != nil {
		return domain.TickerPage{}, err
	}
	limit := in.Limit
	if limit == 0 {
		limit = defaultTickerLimit
	}

	page := domain.TickerPage{Dataset: in.Dataset, Items: []string{}}
	day, ok, err := s.day(ctx, in.Dataset, table, in.AsOf)
	if err != nil || !ok {
		return page, err
	}
	page.AsOf = day

	start := time.Now()
	names, err := s.repo.Tickers(ctx, repo.TickerParams{
		Table:      table,
		Day:        day,
		Prefix:     in.Prefix,
		OptionType: filterOptionType(in.OptionType),
		Limit:      limit + 1,
		Offset:     offset,
	})
	s.metrics.Backend("clickhouse", "tickers", start, err)
	if err != nil {
		return domain.TickerPage{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "analytical store ticker listing failed for %s", in.Dataset)
	}
	if len(names) > limit {
		names = names[:limit]
		page.NextCursor = encodeCursor(offset + limit)
	}
	page.Items = append(page.Items, names...)
	return page, nil
}

func (s *Svc) table(dataset string) (string, error) {
	t, ok := s.policy.Table(dataset)
	if !ok {
		return "", perr.NotFoundf("unknown query dataset %q", dataset)
	}
	return t, nil
}

// day resolves as_of to a run date; ok is false when latest finds an empty table
func (s *Svc) day(ctx context.Context, dataset, table, asOf string) (string, bool, error) {
	if !artifact.IsLatest(asOf) {
		return asOf, true, nil
	}
	start := time.Now()
	day, ok, err := s.repo.LatestDay(ctx, table)
	s.metrics.Backend("clickhouse", "latest_day", start, err)
	if err != nil {
		s.metrics.Resolved(dataset, metrics.PathQuery, metrics.OutcomeError)
		return "", false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "analytical store unavailable for %s", dataset)
	}
	if !ok {
		logger.C(ctx).Debug().Str("dataset", dataset).Msg("no run dates in table")
	}
	return day, ok, nil
}

func toSignal(r repo.Row) domain.Signal {
	trend, iv := r.TrendAligned != 0, r.IVFavorable != 0
	return domain.Signal{
		Ticker:           r.Ticker,
		RunDate:          r.RunDate,
		OptionType:       r.OptionType,
		ContractSymbol:   r.ContractSymbol,
		ExpirationDate:   r.ExpirationDate,
		Strike:           r.Strike,
		DaysToExpiration: r.DaysToExpiration,
		SetupQuality:     r.SetupQuality,
		TrendAligned:     trend,
		IVFavorable:      iv,
		Score:            domain.Score(r.SetupQuality, trend, iv),
	}
}

func onlyExpiration(items []domain.Signal, exp string) []domain.Signal {
	if exp == "" {
		return items
	}
	out := items[:0]
	for _, it := range items {
		if it.ExpirationDate == exp {
			out = append(out, it)
		}
	}
	return out
}

func normOptionType(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return domain.AnyOptionType
	}
	return s
}

func filterOptionType(s string) string {
	if s == domain.AnyOptionType {
		return ""
	}
	return s
}

type cursor struct {
	Offset int `json:"offset"`
}

func encodeCursor(offset int) string {
	b, _ := json.Marshal(cursor{Offset: offset})
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return 0, perr.WithField(perr.Validationf("cursor is malformed"), "cursor")
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.Offset < 0 {
		return 0, perr.WithField(perr.Validationf("cursor is malformed"), "cursor")
	}
	return c.Offset, nil
}
