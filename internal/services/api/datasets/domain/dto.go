// Package domain holds DTOs for the dataset catalog and item retrieval
package domain

import (
	"encoding/json"
	"strings"

	perr "profitscout/internal/platform/errors"
)

// Kind separates object-backed from query-backed datasets
type Kind string

const (
	// KindObject datasets are files in the object store
	KindObject Kind = "object"
	// KindQuery datasets are computed from the analytical store
	KindQuery Kind = "query"
)

// Source and Disclaimer are stamped on every item envelope
const (
	Source     = "ProfitScout"
	Disclaimer = "Educational only; not investment advice."
)

// Dataset is one entry of the registry listing
type Dataset struct {
	Name string `json:"name" example:"recommendations"`
	Kind Kind   `json:"kind" example:"object"`
	// Sources lists the datasets an alias reads from, in priority order
	Sources []string `json:"sources,omitempty" example:"technicals-analysis,technicals"`
	// Shadowed marks a name that exists in more than one family; dispatch uses Kind
	Shadowed bool `json:"shadowed,omitempty" example:"false"`
}

// Format selects the response representation
type Format string

const (
	FormatJSON Format = "json"
	FormatMD   Format = "md"
	FormatRaw  Format = "raw"
)

// ParseFormat maps the format query value; empty means json
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatMD, FormatRaw:
		return f, nil
	default:
		return "", perr.UnsupportedFormatf("format %q is not one of json, md, raw", s)
	}
}

// ItemInput addresses one item of any dataset
type ItemInput struct {
	Dataset        string `json:"dataset" validate:"required,dataset_name" example:"recommendations"`
	ID             string `json:"id" validate:"required,max=64" example:"AAL"`
	AsOf           string `json:"as_of,omitempty" validate:"omitempty,as_of" example:"latest"`
	Format         string `json:"format,omitempty" example:"json"`
	OptionType     string `json:"option_type,omitempty" example:"CALL"`
	ExpirationDate string `json:"expiration_date,omitempty" example:"2025-11-21"`
	TopN           int    `json:"top_n,omitempty" example:"3"`
}

// ListInput addresses a whole dataset
type ListInput struct {
	Dataset    string `json:"dataset" validate:"required,dataset_name" example:"recommendations"`
	AsOf       string `json:"as_of,omitempty" validate:"omitempty,as_of" example:"latest"`
	Format     string `json:"format,omitempty" example:"json"`
	OptionType string `json:"option_type,omitempty" example:"PUT"`
	TopN       int    `json:"top_n,omitempty" example:"10"`
}

// DatasetList is the registry listing
type DatasetList struct {
	Items []Dataset `json:"items"`
}

// ItemList lists the distinct item ids of an object dataset
type ItemList struct {
	Dataset string   `json:"dataset" example:"recommendations"`
	Kind    Kind     `json:"kind" example:"object"`
	Items   []string `json:"items"`
}

// ItemEnvelope wraps a resolved artifact for format=json
type ItemEnvelope struct {
	Dataset     string          `json:"dataset" example:"recommendations"`
	ID          string          `json:"id" example:"AAL"`
	AsOf        string          `json:"as_of,omitempty" example:"2025-10-15T00:00:00Z"`
	Artifact    string          `json:"artifact" example:"recommendations/AAL_2025-10-15.md"`
	ContentType string          `json:"content_type" example:"text/markdown"`
	Title       string          `json:"title,omitempty" example:"AAL recommendation"`
	SummaryMD   string          `json:"summary_md,omitempty"`
	Data        json.RawMessage `json:"data,omitempty" swaggertype:"object"`
	Source      string          `json:"source" example:"ProfitScout"`
	Disclaimer  string          `json:"disclaimer" example:"Educational only; not investment advice."`
}

// Payload is a formatted response: JSON is enveloped by the transport,
// Raw is written as is with ContentType
type Payload struct {
	ContentType string
	JSON        any
	Raw         []byte
}

// IsRaw reports whether the payload bypasses the JSON envelope
func (p Payload) IsRaw() bool { return p.Raw != nil }
