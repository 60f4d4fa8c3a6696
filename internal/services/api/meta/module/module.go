// Package module wires the meta endpoints: version, uptime and backend readiness
package module

import (
	"context"
	"time"

	modkit "profitscout/internal/modkit"
	"profitscout/internal/modkit/httpkit"
	"profitscout/internal/platform/store/obj"

	metahttp "profitscout/internal/services/api/meta/http"
)

// Module serves /meta
type Module struct {
	modkit.Routes
}

// New builds the meta module; readiness probes every backend present in deps
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("meta", "/meta", opts...)

	d := metahttp.Deps{
		ServiceName: "profitscout-api",
		StartedAt:   time.Now(),
		PG:          deps.PG,
		CH:          deps.CH,
	}
	if deps.Obj != nil {
		d.Obj = bucketPinger{b: deps.Obj}
	}
	return &Module{Routes: b.Routes(func(r httpkit.Router) { metahttp.Register(r, d) })}
}

// Ports implements modkit.Module; meta exposes nothing
func (*Module) Ports() any { return nil }

// bucketPinger probes the object store by listing its top level
type bucketPinger struct{ b obj.Bucket }

func (p bucketPinger) Ping(ctx context.Context) error {
	_, err := p.b.Prefixes(ctx)
	return err
}
