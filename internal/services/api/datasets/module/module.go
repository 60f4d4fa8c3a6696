// Package module wires the dataset catalog and item retrieval into the API
package module

import (
	modkit "profitscout/internal/modkit"
	"profitscout/internal/modkit/httpkit"
	"profitscout/internal/modkit/repokit"

	dhttp "profitscout/internal/services/api/datasets/http"
	drepo "profitscout/internal/services/api/datasets/repo"
	dsvc "profitscout/internal/services/api/datasets/service"
)

// Module serves /datasets
type Module struct {
	modkit.Routes
	exposed Exposed
}

// New builds the datasets service over the object store and the injected signals port
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("datasets", "/datasets", opts...)

	injected, _ := b.Ports.(Ports)
	o := dsvc.Options{
		Signals: injected.Signals,
		Policy:  deps.Policy.OrDefault(),
		Metrics: deps.Metrics,
	}
	if deps.Obj != nil {
		o.Bucket = deps.Obj
		o.Manifests = manifests(deps, FromConfig(deps.Cfg))
	} else {
		deps.Log.Warn().Msg("datasets: object store disabled, object-backed datasets unavailable")
	}
	svc := dsvc.New(o)

	return &Module{
		Routes:  b.Routes(func(r httpkit.Router) { dhttp.Register(r, svc) }),
		exposed: Exposed{Datasets: svc},
	}
}

// manifests picks the manifest backend; pg falls back to off without a database
func manifests(deps modkit.Deps, cfg Options) drepo.Manifests {
	switch cfg.Manifests {
	case ManifestsPG:
		if deps.PG == nil {
			deps.Log.Warn().Msg("datasets: pg manifests requested without postgres, manifests disabled")
			return drepo.Disabled{}
		}
		return repokit.MustBind(drepo.NewPG(), deps.PG)
	case ManifestsOff:
		return drepo.Disabled{}
	default:
		return drepo.NewObjectManifests(deps.Obj)
	}
}
