// Package api provides the HTTP API for the application
package api

import (
	"time"

	"profitscout/internal/core/policy"
	"profitscout/internal/platform/config"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/metrics"
	phttp "profitscout/internal/platform/net/http"
	"profitscout/internal/platform/net/middleware"
	"profitscout/internal/platform/store"

	"profitscout/internal/modkit"
	"profitscout/internal/modkit/httpkit"
	"profitscout/internal/modkit/module"
	"profitscout/internal/modkit/swaggerkit"

	datasetsmod "profitscout/internal/services/api/datasets/module"
	metahttp "profitscout/internal/services/api/meta/http"
	metamod "profitscout/internal/services/api/meta/module"
	signalsmod "profitscout/internal/services/api/signals/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
	// Policy holds the resolution rules; zero means policy.Default
	Policy policy.Policy
	// Metrics is served at /metrics when set
	Metrics        *metrics.Metrics
	EnableSwagger  bool
	EnableProfiler bool
	// CORSOrigins limits cross-origin reads; empty allows any origin
	CORSOrigins []string
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Policy:  opt.Policy.OrDefault(),
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
		deps.Obj = opt.Store.Obj
	}

	// one in-flight budget shared by every route that reaches a backend
	backend := middleware.ThrottleBacklog(
		opt.Config.MayInt("BACKEND_MAX_INFLIGHT", 64),
		opt.Config.MayInt("BACKEND_BACKLOG", 256),
		opt.Config.MayDuration("BACKEND_WAIT", 5*time.Second),
	)

	// signals owns the query-backed datasets; datasets dispatches to it
	signals := signalsmod.New(deps, modkit.WithMiddlewares(backend))
	datasets := datasetsmod.New(
		deps,
		modkit.WithMiddlewares(backend),
		datasetsmod.WithSignals(module.MustPortsOf[signalsmod.Ports](signals).Signals),
	)

	mods := []module.Module{
		metamod.New(deps),
		signals,
		datasets,
	}

	// probes and metrics live outside the versioned api
	r.Get("/healthz", metahttp.Healthz)
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.CORSOrigins...), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		// mount module routes under each Prefix()
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
