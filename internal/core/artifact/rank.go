package artifact

import (
	"slices"
	"strings"
	"time"
)

// Preference orders extensions; earlier entries win ties on date
type Preference []string

// Rank returns the position of ext in the preference, unknown extensions last
func (p Preference) Rank(ext string) int {
	for i, e := range p {
		if strings.EqualFold(e, ext) {
			return i
		}
	}
	return len(p)
}

// Query selects among the variants of one item
type Query struct {
	// AsOf is "latest" (or empty) or a YYYY-MM-DD date
	AsOf  string
	Prefs Preference
	// Now bounds "latest": dated variants after Now's date are ignored. Zero disables the bound
	Now time.Time
}

// Rank filters candidates by the query and returns them best first.
// Dated variants always come before undated ones, and undated variants only
// qualify for "latest". The input slice is left untouched
func Rank(cands []Ref, q Query) []Ref {
	latest := IsLatest(q.AsOf)
	today := ""
	if !q.Now.IsZero() {
		today = q.Now.UTC().Format(DateLayout)
	}

	var dated, undated []Ref
	for _, c := range cands {
		switch {
		case c.Dated():
			if !latest && c.Date != q.AsOf {
				continue
			}
			if latest && today != "" && c.Date > today {
				continue
			}
			dated = append(dated, c)
		case latest:
			undated = append(undated, c)
		}
	}

	slices.SortStableFunc(dated, func(a, b Ref) int {
		if a.Date != b.Date {
			return strings.Compare(b.Date, a.Date)
		}
		return compareVariant(a, b, q.Prefs)
	})
	// undated variants stand in their last-modified day for the date
	slices.SortStableFunc(undated, func(a, b Ref) int {
		if da, db := a.AsOf(), b.AsOf(); da != db {
			return strings.Compare(db, da)
		}
		return compareVariant(a, b, q.Prefs)
	})
	return append(dated, undated...)
}

// Select returns the single best variant for the query
func Select(cands []Ref, q Query) (Ref, bool) {
	ranked := Rank(cands, q)
	if len(ranked) == 0 {
		return Ref{}, false
	}
	return ranked[0], true
}

// compareVariant orders by extension preference, then newest update, then path
func compareVariant(a, b Ref, prefs Preference) int {
	if ra, rb := prefs.Rank(a.Ext), prefs.Rank(b.Ext); ra != rb {
		return ra - rb
	}
	if c := b.Updated.Compare(a.Updated); c != 0 {
		return c
	}
	return strings.Compare(a.Path, b.Path)
}
