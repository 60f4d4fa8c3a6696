// Command profitscout-api serves research artifacts and ranked options signals
// over a read-only HTTP API under /api/v1
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"profitscout/internal/core/policy"
	"profitscout/internal/core/version"
	"profitscout/internal/modkit/repokit"
	"profitscout/internal/platform/config"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/metrics"
	phttp "profitscout/internal/platform/net/http"
	"profitscout/internal/platform/store"

	"profitscout/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	lopt := logger.FromEnv()
	if lopt.Service == "" {
		lopt.Service = version.Service
	}
	logger.Init(lopt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pol := policy.Default()
	if path := apiCfg.MayString("POLICY_FILE", ""); path != "" {
		p, err := policy.Load(path)
		if err != nil {
			l.Panic().Err(err).Str("path", path).Msg("policy load failed")
		}
		pol = p
		l.Info().Str("path", path).Msg("policy loaded")
	}

	// every backend is optional; disabled ones degrade their endpoints
	st, err := store.Open(ctx, store.FromEnv(root, "profitscout", "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// strict boot refuses to start with an unreachable backend
	if apiCfg.MayBool("STRICT_BOOT", false) {
		gctx, cancel := context.WithTimeout(ctx, apiCfg.MayDuration("BOOT_TIMEOUT", 10*time.Second))
		repokit.MustGuard(gctx, st)
		cancel()
	}

	// CORE_API_ADDR, _READ_HEADER_TIMEOUT, _SHUTDOWN_TIMEOUT
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			Policy:         pol,
			Metrics:        metrics.New(),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
