package domain

import (
	"cmp"
	"slices"
	"strings"
)

// Expiration window used when a single ticker query names no expiration
const (
	MinDTE    = 30
	MaxDTE    = 45
	TargetDTE = 37
)

// QualityRank maps setup_quality_signal to High=3 Medium=2 Low=1, else 0
func QualityRank(q string) int {
	switch strings.ToLower(strings.TrimSpace(q)) {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	}
	return 0
}

// Score folds quality, trend and iv into one number that preserves their
// lexicographic order: quality dominates, then trend, then iv
func Score(quality string, trend, iv bool) float64 {
	s := QualityRank(quality) * 4
	if trend {
		s += 2
	}
	if iv {
		s++
	}
	return float64(s)
}

// Rank sorts by score desc, then ticker, expiration, strike and contract asc
func Rank(rows []Signal) {
	slices.SortStableFunc(rows, func(a, b Signal) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := strings.Compare(a.Ticker, b.Ticker); c != 0 {
			return c
		}
		if c := strings.Compare(a.ExpirationDate, b.ExpirationDate); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Strike, b.Strike); c != 0 {
			return c
		}
		return strings.Compare(a.ContractSymbol, b.ContractSymbol)
	})
}

// SelectExpiration picks the expiration a single ticker query reports: the
// nearest one inside the 30..45 day window, else the one closest to 37 days.
// Ties go to the earlier date. Empty input yields ""
func SelectExpiration(rows []Signal) string {
	type exp struct {
		date string
		dte  int32
	}
	seen := map[string]int32{}
	for _, r := range rows {
		if r.ExpirationDate == "" {
			continue
		}
		seen[r.ExpirationDate] = r.DaysToExpiration
	}
	exps := make([]exp, 0, len(seen))
	for d, n := range seen {
		exps = append(exps, exp{d, n})
	}
	if len(exps) == 0 {
		return ""
	}
	slices.SortFunc(exps, func(a, b exp) int { return strings.Compare(a.date, b.date) })

	var inWindow []exp
	for _, e := range exps {
		if e.dte >= MinDTE && e.dte <= MaxDTE {
			inWindow = append(inWindow, e)
		}
	}
	if len(inWindow) > 0 {
		best := inWindow[0]
		for _, e := range inWindow[1:] {
			if e.dte < best.dte {
				best = e
			}
		}
		return best.date
	}

	best := exps[0]
	for _, e := range exps[1:] {
		if dist(e.dte) < dist(best.dte) {
			best = e
		}
	}
	return best.date
}

func dist(dte int32) int32 {
	d := dte - TargetDTE
	if d < 0 {
		return -d
	}
	return d
}
