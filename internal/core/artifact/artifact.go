// Package artifact implements the object naming convention for research artifacts
// Layout
// {dataset}/{ID}_{YYYY-MM-DD}.{ext}  dated variant
// {dataset}/{ID}.{ext}               undated variant
// manifests/{dataset}/{ID}.json      latest pointer written by producers
package artifact

import (
	"path"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DateLayout is the calendar date format used in object names and as_of values
const DateLayout = "2006-01-02"

// Latest is the as_of sentinel selecting the newest artifact
const Latest = "latest"

// ManifestRoot is the reserved top level prefix holding manifest pointers
const ManifestRoot = "manifests"

var (
	datasetRe = regexp.MustCompile(`^[a-z0-9-]+$`)
	datedRe   = regexp.MustCompile(`^_([0-9]{4}-[0-9]{2}-[0-9]{2})\.(.+)$`)
	anyDated  = regexp.MustCompile(`^(.+)_([0-9]{4}-[0-9]{2}-[0-9]{2})\.([^.]+)$`)
)

// Ref identifies one stored artifact variant
type Ref struct {
	Path    string    `json:"path"`
	Dataset string    `json:"dataset"`
	ID      string    `json:"id"`
	Ext     string    `json:"ext"`
	Date    string    `json:"date,omitempty"`
	Updated time.Time `json:"updated,omitzero"`
	Size    int64     `json:"size,omitempty"`
}

// Dated reports whether the variant carries a calendar date in its name
func (r Ref) Dated() bool { return r.Date != "" }

// Markdown reports whether the variant is a markdown document
func (r Ref) Markdown() bool { return r.Ext == "md" }

// AsOf returns the effective date of the variant: the name date if present,
// else the storage update date, else empty
func (r Ref) AsOf() string {
	if r.Date != "" {
		return r.Date
	}
	if !r.Updated.IsZero() {
		return r.Updated.UTC().Format(DateLayout)
	}
	return ""
}

// Sibling returns the path of the same item and date with another extension
func (r Ref) Sibling(ext string) string {
	if r.Date != "" {
		return ObjectPath(r.Dataset, r.ID, r.Date, ext)
	}
	return ObjectPath(r.Dataset, r.ID, "", ext)
}

// NormalizeID canonicalizes an item identifier: NFKC, trimmed, upper case
func NormalizeID(id string) string {
	return strings.ToUpper(norm.NFKC.String(strings.TrimSpace(id)))
}

// ValidDataset reports whether name is a well formed dataset name
func ValidDataset(name string) bool { return datasetRe.MatchString(name) }

// IsLatest reports whether asOf selects the newest artifact
func IsLatest(asOf string) bool { return asOf == "" || strings.EqualFold(asOf, Latest) }

// ValidAsOf reports whether asOf is "latest" or a real calendar date
func ValidAsOf(asOf string) bool {
	if IsLatest(asOf) {
		return true
	}
	_, err := time.Parse(DateLayout, asOf)
	return err == nil
}

// ItemPrefix is the listing prefix shared by all variants of an item
func ItemPrefix(dataset, id string) string { return dataset + "/" + id }

// DatasetPrefix is the listing prefix of a whole dataset
func DatasetPrefix(dataset string) string { return dataset + "/" }

// ObjectPath builds a variant path; an empty date yields the undated form
func ObjectPath(dataset, id, date, ext string) string {
	if date == "" {
		return dataset + "/" + id + "." + ext
	}
	return dataset + "/" + id + "_" + date + "." + ext
}

// ManifestPath is where the latest pointer for an item lives
func ManifestPath(dataset, id string) string {
	return ManifestRoot + "/" + dataset + "/" + id + ".json"
}

// Parse matches p against the naming convention for a known dataset and id.
// Paths sharing only a prefix with the id (AALX for AAL) are rejected
func Parse(dataset, id, p string) (Ref, bool) {
	rest, ok := strings.CutPrefix(p, ItemPrefix(dataset, id))
	if !ok || rest == "" {
		return Ref{}, false
	}
	ref := Ref{Path: p, Dataset: dataset, ID: id}
	if m := datedRe.FindStringSubmatch(rest); m != nil {
		if _, err := time.Parse(DateLayout, m[1]); err != nil {
			return Ref{}, false
		}
		ref.Date, ref.Ext = m[1], m[2]
	} else if ext, ok := strings.CutPrefix(rest, "."); ok {
		ref.Ext = ext
	} else {
		return Ref{}, false
	}
	if ref.Ext == "" || strings.Contains(ref.Ext, "/") {
		return Ref{}, false
	}
	ref.Ext = strings.ToLower(ref.Ext)
	return ref, true
}

// ParseAny recovers the id from a path under dataset when the id is unknown.
// The dated form wins; otherwise the last extension is stripped
func ParseAny(dataset, p string) (Ref, bool) {
	base, ok := strings.CutPrefix(p, DatasetPrefix(dataset))
	if !ok || base == "" || strings.Contains(base, "/") {
		return Ref{}, false
	}
	if m := anyDated.FindStringSubmatch(base); m != nil {
		if _, err := time.Parse(DateLayout, m[2]); err == nil {
			return Ref{Path: p, Dataset: dataset, ID: m[1], Date: m[2], Ext: strings.ToLower(m[3])}, true
		}
	}
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return Ref{}, false
	}
	return Ref{
		Path:    p,
		Dataset: dataset,
		ID:      strings.TrimSuffix(base, ext),
		Ext:     strings.ToLower(ext[1:]),
	}, true
}

// FromPath builds a Ref for a path handed out by a manifest. The dataset
// segment of the path wins over the requested one so alias sources resolve
func FromPath(id, p string) Ref {
	ds, _, _ := strings.Cut(p, "/")
	if ref, ok := Parse(ds, id, p); ok {
		return ref
	}
	ref := Ref{Path: p, Dataset: ds, ID: id}
	if ext := path.Ext(p); ext != "" {
		ref.Ext = strings.ToLower(ext[1:])
	}
	return ref
}
