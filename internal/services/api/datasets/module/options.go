package module

import (
	"strings"

	modkit "profitscout/internal/modkit"
	"profitscout/internal/platform/config"
	sigdomain "profitscout/internal/services/api/signals/domain"
)

// Manifest backends
const (
	ManifestsObject = "object"
	ManifestsPG     = "pg"
	ManifestsOff    = "off"
)

// Options controls how items are located
type Options struct {
	// Manifests selects where latest pointers are read from
	Manifests string
}

// FromConfig reads DATASETS_* values from the api config scope
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("DATASETS_")
	return Options{
		Manifests: strings.ToLower(c.MayEnum("MANIFESTS", ManifestsObject, ManifestsObject, ManifestsPG, ManifestsOff)),
	}
}

// WithSignals injects the query-backed dataset port; nil leaves those datasets unavailable
func WithSignals(p sigdomain.ServicePort) modkit.Option {
	return modkit.WithPorts(Ports{Signals: p})
}
