// Package policy holds the resolution rules that are data rather than code:
// extension preferences, dataset aliases, query-backed dataset tables and
// top_n bounds. Policies load from YAML or JSONC and merge onto Default
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"profitscout/internal/core/artifact"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// tableRe accepts db.table identifiers only; tables are interpolated into SQL
var tableRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Virtual maps a query-backed dataset name to its analytical table
type Virtual struct {
	Name  string `yaml:"name" json:"name"`
	Table string `yaml:"table" json:"table"`
}

// TopN bounds the number of rows a query-backed dataset returns
type TopN struct {
	Ticker int `yaml:"ticker" json:"ticker"`
	Market int `yaml:"market" json:"market"`
	Max    int `yaml:"max" json:"max"`
}

// Policy is the full rule set
type Policy struct {
	Extensions []string            `yaml:"extensions" json:"extensions"`
	Datasets   map[string][]string `yaml:"datasets" json:"datasets"`
	Aliases    map[string][]string `yaml:"aliases" json:"aliases"`
	Virtual    []Virtual           `yaml:"virtual" json:"virtual"`
	TopN       TopN                `yaml:"top_n" json:"top_n"`
}

// Default returns the built-in policy
func Default() Policy {
	text := []string{"md", "txt"}
	return Policy{
		Extensions: []string{"json", "md", "txt"},
		Datasets: map[string][]string{
			"sec-business":              text,
			"sec-mda":                   text,
			"sec-risk":                  text,
			"earnings-call-transcripts": text,
		},
		Aliases: map[string][]string{
			"key-levels": {"technicals-analysis", "technicals"},
		},
		Virtual: []Virtual{
			{Name: "options-signals", Table: "profit_scout.options_analysis_signals"},
		},
		TopN: TopN{Ticker: 3, Market: 10, Max: 50},
	}
}

// Load reads a policy file; .yaml/.yml parse as YAML, anything else as JSONC
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	format := "jsonc"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	p, err := Parse(data, format)
	if err != nil {
		return Policy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes data in the given format ("yaml" or "jsonc") and merges it onto Default
func Parse(data []byte, format string) (Policy, error) {
	var over Policy
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &over); err != nil {
			return Policy{}, fmt.Errorf("parse yaml: %w", err)
		}
	case "jsonc", "json":
		if err := json.Unmarshal(jsonc.ToJSON(data), &over); err != nil {
			return Policy{}, fmt.Errorf("parse jsonc: %w", err)
		}
	default:
		return Policy{}, fmt.Errorf("unknown policy format %q", format)
	}
	p := Default().Merge(over)
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Merge overlays non-empty parts of o onto p. Map entries merge per key;
// a virtual entry with the same name replaces the built-in one
func (p Policy) Merge(o Policy) Policy {
	out := p.clone()
	if len(o.Extensions) > 0 {
		out.Extensions = normExts(o.Extensions)
	}
	for k, v := range o.Datasets {
		out.Datasets[k] = normExts(v)
	}
	for k, v := range o.Aliases {
		out.Aliases[k] = slices.Clone(v)
	}
	for _, v := range o.Virtual {
		i := slices.IndexFunc(out.Virtual, func(x Virtual) bool { return x.Name == v.Name })
		if i >= 0 {
			out.Virtual[i] = v
		} else {
			out.Virtual = append(out.Virtual, v)
		}
	}
	if o.TopN.Ticker > 0 {
		out.TopN.Ticker = o.TopN.Ticker
	}
	if o.TopN.Market > 0 {
		out.TopN.Market = o.TopN.Market
	}
	if o.TopN.Max > 0 {
		out.TopN.Max = o.TopN.Max
	}
	return out
}

// Validate checks names, tables and bounds
func (p Policy) Validate() error {
	if len(p.Extensions) == 0 {
		return fmt.Errorf("policy: extensions must not be empty")
	}
	for name, srcs := range p.Aliases {
		if !artifact.ValidDataset(name) {
			return fmt.Errorf("policy: invalid alias name %q", name)
		}
		if len(srcs) == 0 {
			return fmt.Errorf("policy: alias %q has no sources", name)
		}
		for _, s := range srcs {
			if !artifact.ValidDataset(s) || s == name {
				return fmt.Errorf("policy: alias %q has invalid source %q", name, s)
			}
		}
	}
	for _, v := range p.Virtual {
		if !artifact.ValidDataset(v.Name) {
			return fmt.Errorf("policy: invalid virtual dataset name %q", v.Name)
		}
		if !tableRe.MatchString(v.Table) {
			return fmt.Errorf("policy: virtual dataset %q has invalid table %q", v.Name, v.Table)
		}
	}
	if p.TopN.Ticker < 1 || p.TopN.Market < 1 || p.TopN.Max < 1 {
		return fmt.Errorf("policy: top_n values must be positive")
	}
	if p.TopN.Ticker > p.TopN.Max || p.TopN.Market > p.TopN.Max {
		return fmt.Errorf("policy: top_n defaults exceed max %d", p.TopN.Max)
	}
	return nil
}

// Preference returns the extension order for a dataset
func (p Policy) Preference(dataset string) artifact.Preference {
	if exts, ok := p.Datasets[dataset]; ok && len(exts) > 0 {
		return artifact.Preference(exts)
	}
	return artifact.Preference(p.Extensions)
}

// Sources expands an alias into the datasets it reads from, in priority order.
// Non-alias names map to themselves
func (p Policy) Sources(dataset string) []string {
	if srcs, ok := p.Aliases[dataset]; ok {
		return srcs
	}
	return []string{dataset}
}

// Table returns the analytical table of a query-backed dataset
func (p Policy) Table(name string) (string, bool) {
	for _, v := range p.Virtual {
		if v.Name == name {
			return v.Table, true
		}
	}
	return "", false
}

// VirtualNames lists the query-backed dataset names
func (p Policy) VirtualNames() []string {
	out := make([]string, 0, len(p.Virtual))
	for _, v := range p.Virtual {
		out = append(out, v.Name)
	}
	return out
}

// AliasNames lists alias dataset names, sorted
func (p Policy) AliasNames() []string {
	out := make([]string, 0, len(p.Aliases))
	for k := range p.Aliases {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ClampTopN applies defaults and the cap. n < 1 means "use the default"
func (p Policy) ClampTopN(n int, market bool) int {
	if n < 1 {
		n = p.TopN.Ticker
		if market {
			n = p.TopN.Market
		}
	}
	return min(n, p.TopN.Max)
}

func (p Policy) clone() Policy {
	out := Policy{
		Extensions: slices.Clone(p.Extensions),
		Datasets:   make(map[string][]string, len(p.Datasets)),
		Aliases:    make(map[string][]string, len(p.Aliases)),
		Virtual:    slices.Clone(p.Virtual),
		TopN:       p.TopN,
	}
	for k, v := range p.Datasets {
		out.Datasets[k] = slices.Clone(v)
	}
	for k, v := range p.Aliases {
		out.Aliases[k] = slices.Clone(v)
	}
	return out
}

func normExts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// OrDefault returns Default when p is the zero policy
func (p Policy) OrDefault() Policy {
	if len(p.Extensions) == 0 && len(p.Virtual) == 0 && p.TopN == (TopN{}) {
		return Default()
	}
	return p
}
