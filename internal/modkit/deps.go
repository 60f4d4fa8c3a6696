// Package modkit provides module wiring and core deps
package modkit

import (
	"profitscout/internal/core/policy"
	"profitscout/internal/modkit/repokit"
	"profitscout/internal/platform/config"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/metrics"
	"profitscout/internal/platform/store"
	"profitscout/internal/platform/store/obj"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.Queryer
	CH  store.Clickhouse
	Obj obj.Bucket

	// Policy is the resolution policy, zero means policy.Default
	Policy policy.Policy
	// Metrics may be nil
	Metrics *metrics.Metrics
}
