// Package module wires query-backed signal datasets into the API
package module

import (
	modkit "profitscout/internal/modkit"
	"profitscout/internal/modkit/httpkit"
	sighttp "profitscout/internal/services/api/signals/http"
	sigrepo "profitscout/internal/services/api/signals/repo"
	sigsvc "profitscout/internal/services/api/signals/service"
)

// Module serves /signals
type Module struct {
	modkit.Routes
	ports Ports
}

// New builds the signals service over the analytical store. Without one the
// module mounts no routes and its port is nil
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("signals", "/signals", opts...)
	if deps.CH == nil {
		deps.Log.Warn().Msg("signals: clickhouse disabled, query-backed datasets unavailable")
		return &Module{Routes: b.Routes(nil)}
	}

	svc := sigsvc.New(sigrepo.NewCH(deps.CH), deps.Policy.OrDefault(), deps.Metrics)
	return &Module{
		Routes: b.Routes(func(r httpkit.Router) { sighttp.Register(r, svc) }),
		ports:  Ports{Signals: svc},
	}
}
