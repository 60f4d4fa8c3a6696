package artifact

import (
	"testing"
	"time"
)

var prefs = Preference{"json", "md", "txt"}

func refs(t *testing.T, paths ...string) []Ref {
	t.Helper()
	out := make([]Ref, 0, len(paths))
	for _, p := range paths {
		r, ok := Parse("recommendations", "AAL", p)
		if !ok {
			t.Fatalf("fixture %q does not parse", p)
		}
		out = append(out, r)
	}
	return out
}

func TestSelect_LatestPrefersNewestDateThenExtension(t *testing.T) {
	cands := refs(t,
		"recommendations/AAL_2025-10-14.md",
		"recommendations/AAL_2025-10-15.md",
		"recommendations/AAL_2025-10-15.json",
	)
	got, ok := Select(cands, Query{AsOf: Latest, Prefs: prefs})
	if !ok || got.Path != "recommendations/AAL_2025-10-15.json" {
		t.Fatalf("latest = %+v %v", got, ok)
	}
}

func TestSelect_ExplicitDate(t *testing.T) {
	cands := refs(t,
		"recommendations/AAL_2025-10-14.md",
		"recommendations/AAL_2025-10-15.md",
		"recommendations/AAL_2025-10-15.json",
	)
	got, ok := Select(cands, Query{AsOf: "2025-10-14", Prefs: prefs})
	if !ok || got.Path != "recommendations/AAL_2025-10-14.md" {
		t.Fatalf("as_of 2025-10-14 = %+v %v", got, ok)
	}
	if _, ok := Select(cands, Query{AsOf: "2099-01-01", Prefs: prefs}); ok {
		t.Fatalf("as_of with no match should not select")
	}
}

func TestSelect_UndatedOnlyForLatest(t *testing.T) {
	cands := refs(t, "recommendations/AAL.md", "recommendations/AAL.json")
	got, ok := Select(cands, Query{Prefs: prefs})
	if !ok || got.Ext != "json" {
		t.Fatalf("undated latest = %+v %v", got, ok)
	}
	if _, ok := Select(cands, Query{AsOf: "2025-10-15", Prefs: prefs}); ok {
		t.Fatalf("undated variants must not satisfy an explicit date")
	}
}

func TestSelect_UndatedByLastModifiedDay(t *testing.T) {
	older := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		cands []Ref
		want  string
	}{
		{
			name: "newer day beats preferred extension",
			cands: []Ref{
				{Path: "recommendations/AAL.json", Ext: "json", Updated: older},
				{Path: "recommendations/AAL.md", Ext: "md", Updated: newer},
			},
			want: "recommendations/AAL.md",
		},
		{
			name: "same day falls back to extension",
			cands: []Ref{
				{Path: "recommendations/AAL.md", Ext: "md", Updated: newer.Add(3 * time.Hour)},
				{Path: "recommendations/AAL.json", Ext: "json", Updated: newer},
			},
			want: "recommendations/AAL.json",
		},
		{
			name: "unknown extension still wins on day",
			cands: []Ref{
				{Path: "recommendations/AAL.txt", Ext: "txt", Updated: older},
				{Path: "recommendations/AAL.csv", Ext: "csv", Updated: newer},
			},
			want: "recommendations/AAL.csv",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Select(tc.cands, Query{Prefs: prefs})
			if !ok || got.Path != tc.want {
				t.Fatalf("got %+v %v, want %s", got, ok, tc.want)
			}
		})
	}
}

func TestSelect_DatedBeatsUndated(t *testing.T) {
	cands := refs(t, "recommendations/AAL.json", "recommendations/AAL_2020-01-01.txt")
	got, _ := Select(cands, Query{Prefs: prefs})
	if got.Date != "2020-01-01" {
		t.Fatalf("dated variant should win, got %+v", got)
	}
}

func TestSelect_FutureDatesIgnoredForLatest(t *testing.T) {
	cands := refs(t,
		"recommendations/AAL_2025-10-15.md",
		"recommendations/AAL_2099-01-01.json",
	)
	now := time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)
	got, _ := Select(cands, Query{Prefs: prefs, Now: now})
	if got.Date != "2025-10-15" {
		t.Fatalf("future variant leaked into latest: %+v", got)
	}
	got, ok := Select(cands, Query{AsOf: "2099-01-01", Prefs: prefs, Now: now})
	if !ok || got.Date != "2099-01-01" {
		t.Fatalf("explicit future date should still resolve: %+v", got)
	}
}

func TestRank_TieBreaks(t *testing.T) {
	t1 := time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	cands := []Ref{
		{Path: "r/AAL_2025-10-15.csv", Date: "2025-10-15", Ext: "csv", Updated: t2},
		{Path: "r/AAL_2025-10-15.md", Date: "2025-10-15", Ext: "md", Updated: t1},
		{Path: "b/AAL_2025-10-15.md", Date: "2025-10-15", Ext: "md", Updated: t2},
		{Path: "a/AAL_2025-10-15.md", Date: "2025-10-15", Ext: "md", Updated: t2},
	}
	got := Rank(cands, Query{Prefs: prefs})
	want := []string{"a/AAL_2025-10-15.md", "b/AAL_2025-10-15.md", "r/AAL_2025-10-15.md", "r/AAL_2025-10-15.csv"}
	for i, p := range want {
		if got[i].Path != p {
			t.Fatalf("rank[%d] = %s, want %s", i, got[i].Path, p)
		}
	}
	if cands[0].Ext != "csv" {
		t.Fatalf("input slice was reordered")
	}
}

func TestPreferenceRank(t *testing.T) {
	if prefs.Rank("JSON") != 0 || prefs.Rank("txt") != 2 || prefs.Rank("pdf") != 3 {
		t.Fatalf("unexpected ranks")
	}
}
