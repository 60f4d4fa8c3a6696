package service

import (
	"context"
	"errors"
	"testing"

	"profitscout/internal/core/policy"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/services/api/signals/domain"
	"profitscout/internal/services/api/signals/repo"
)

type fakeRepo struct {
	latest    string
	hasLatest bool
	rows      []repo.Row
	tickers   []string
	err       error

	lastParams  repo.Params
	lastTickers repo.TickerParams
	latestCalls int
}

func (f *fakeRepo) LatestDay(context.Context, string) (string, bool, error) {
	f.latestCalls++
	return f.latest, f.hasLatest, f.err
}

func (f *fakeRepo) Signals(_ context.Context, p repo.Params) ([]repo.Row, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	out := append([]repo.Row(nil), f.rows...)
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (f *fakeRepo) Tickers(_ context.Context, p repo.TickerParams) ([]string, error) {
	f.lastTickers = p
	if f.err != nil {
		return nil, f.err
	}
	end := min(p.Offset+p.Limit, len(f.tickers))
	if p.Offset >= end {
		return nil, nil
	}
	return f.tickers[p.Offset:end], nil
}

func row(ticker, contract, exp string, dte int32, quality string, trend, iv bool) repo.Row {
	b := func(v bool) uint8 {
		if v {
			return 1
		}
		return 0
	}
	return repo.Row{
		Ticker: ticker, RunDate: "2025-10-15", OptionType: "CALL", ContractSymbol: contract,
		ExpirationDate: exp, Strike: 10, DaysToExpiration: dte, SetupQuality: quality,
		TrendAligned: b(trend), IVFavorable: b(iv),
	}
}

func newSvc(f *fakeRepo) *Svc { return New(f, policy.Default(), nil) }

func TestQuery_TickerSelectsExpirationAndRanks(t *testing.T) {
	f := &fakeRepo{latest: "2025-10-15", hasLatest: true, rows: []repo.Row{
		row("AAL", "C1", "2025-11-21", 37, "Low", true, true),
		row("AAL", "C2", "2025-11-21", 37, "High", false, false),
		row("AAL", "C3", "2025-11-21", 37, "High", true, false),
		row("AAL", "C4", "2025-11-21", 37, "Medium", true, true),
		row("AAL", "C9", "2025-12-19", 65, "High", true, true),
	}}
	set, err := newSvc(f).Query(context.Background(), domain.QueryInput{Dataset: "options-signals", Ticker: "aal"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if set.ID != "AAL" || set.AsOf != "2025-10-15" || set.Expiration != "2025-11-21" || set.OptionType != "ANY" {
		t.Fatalf("set header = %+v", set)
	}
	if f.lastParams.Ticker != "AAL" || f.lastParams.Limit != 0 || f.lastParams.OptionType != "" {
		t.Fatalf("params = %+v", f.lastParams)
	}
	want := []string{"C3", "C2", "C4"} // default top_n is 3 for one ticker
	if len(set.Items) != len(want) {
		t.Fatalf("items = %+v", set.Items)
	}
	for i, c := range want {
		if set.Items[i].ContractSymbol != c {
			t.Fatalf("items[%d] = %s, want %s", i, set.Items[i].ContractSymbol, c)
		}
	}
}

func TestQuery_MarketBoundsAndOrdering(t *testing.T) {
	f := &fakeRepo{latest: "2025-10-15", hasLatest: true}
	for i, tk := range []string{"ZZZ", "MSFT", "AAL", "AAPL"} {
		f.rows = append(f.rows, row(tk, tk+"-C", "2025-11-21", int32(30+i), "High", true, false))
	}
	set, err := newSvc(f).Query(context.Background(), domain.QueryInput{Dataset: "options-signals", TopN: 2, OptionType: "call"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if set.ID != domain.MarketID || set.TopN != 2 || f.lastParams.Limit != 2 || f.lastParams.OptionType != "CALL" {
		t.Fatalf("market query = %+v params=%+v", set, f.lastParams)
	}
	if len(set.Items) > 2 {
		t.Fatalf("top_n not enforced: %d", len(set.Items))
	}
	for i := 1; i < len(set.Items); i++ {
		a, b := set.Items[i-1], set.Items[i]
		if a.Score < b.Score || (a.Score == b.Score && a.Ticker > b.Ticker) {
			t.Fatalf("items out of order: %+v", set.Items)
		}
	}
}

func TestQuery_TopNCapped(t *testing.T) {
	f := &fakeRepo{latest: "2025-10-15", hasLatest: true}
	set, err := newSvc(f).Query(context.Background(), domain.QueryInput{Dataset: "options-signals", TopN: 10_000})
	if err != nil {
		t.Fatal(err)
	}
	if set.TopN != 50 || f.lastParams.Limit != 50 {
		t.Fatalf("cap not applied: %d %d", set.TopN, f.lastParams.Limit)
	}
}

func TestQuery_EmptyDayIsEmptyNotError(t *testing.T) {
	f := &fakeRepo{}
	set, err := newSvc(f).Query(context.Background(), domain.QueryInput{Dataset: "options-signals", Ticker: "AAL", AsOf: "2024-01-02"})
	if err != nil {
		t.Fatalf("empty day returned error: %v", err)
	}
	if set.Items == nil || len(set.Items) != 0 || set.AsOf != "2024-01-02" {
		t.Fatalf("set = %+v", set)
	}
	if f.latestCalls != 0 {
		t.Fatalf("explicit as_of should not look up latest")
	}

	empty := &fakeRepo{hasLatest: false}
	set, err = newSvc(empty).Query(context.Background(), domain.QueryInput{Dataset: "options-signals"})
	if err != nil || len(set.Items) != 0 || set.AsOf != "" {
		t.Fatalf("empty table = %+v %v", set, err)
	}
}

func TestQuery_InvalidFilters(t *testing.T) {
	cases := map[string]domain.QueryInput{
		"option type": {Dataset: "options-signals", OptionType: "straddle"},
		"as_of":       {Dataset: "options-signals", AsOf: "2025-13-01"},
		"expiration":  {Dataset: "options-signals", ExpirationDate: "soon"},
		"top_n":       {Dataset: "options-signals", TopN: -1},
	}
	for name, in := range cases {
		_, err := newSvc(&fakeRepo{}).Query(context.Background(), in)
		if !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestQuery_UnknownDatasetAndBackendFailure(t *testing.T) {
	_, err := newSvc(&fakeRepo{}).Query(context.Background(), domain.QueryInput{Dataset: "recommendations"})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown dataset = %v", err)
	}

	boom := errors.New("connection refused")
	_, err = newSvc(&fakeRepo{err: boom}).Query(context.Background(), domain.QueryInput{Dataset: "options-signals"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) || !errors.Is(err, boom) {
		t.Fatalf("backend failure = %v", err)
	}
}

func TestTickers_Paging(t *testing.T) {
	f := &fakeRepo{latest: "2025-10-15", hasLatest: true, tickers: []string{"AAL", "AAPL", "ABNB"}}
	s := newSvc(f)

	p1, err := s.Tickers(context.Background(), domain.TickersInput{Dataset: "options-signals", Limit: 2, Prefix: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(p1.Items) != 2 || p1.NextCursor == "" || f.lastTickers.Prefix != "A" || f.lastTickers.Limit != 3 {
		t.Fatalf("page1 = %+v params=%+v", p1, f.lastTickers)
	}
	p2, err := s.Tickers(context.Background(), domain.TickersInput{Dataset: "options-signals", Limit: 2, Cursor: p1.NextCursor})
	if err != nil {
		t.Fatal(err)
	}
	if len(p2.Items) != 1 || p2.Items[0] != "ABNB" || p2.NextCursor != "" {
		t.Fatalf("page2 = %+v", p2)
	}

	_, err = s.Tickers(context.Background(), domain.TickersInput{Dataset: "options-signals", Cursor: "!!"})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad cursor = %v", err)
	}
}

func TestDatasets(t *testing.T) {
	got := newSvc(&fakeRepo{}).Datasets()
	if len(got) != 1 || got[0] != "options-signals" {
		t.Fatalf("Datasets = %v", got)
	}
}
