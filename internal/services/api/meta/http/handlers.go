// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"profitscout/internal/core/version"
	"profitscout/internal/modkit/httpkit"
)

// Pinger is satisfied by backends that can report readiness
type Pinger interface {
	Ping(context.Context) error
}

// Deps carries the backends readiness probes. A nil backend is disabled
// by configuration and reported as skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Obj         any
}

// readyTimeout bounds the whole readiness probe
const readyTimeout = 2 * time.Second

// Check status values
const (
	StatusOK      = "ok"
	StatusFail    = "fail"
	StatusSkipped = "skipped"
	StatusUnknown = "unknown"
)

// Register mounts /health, /ready and /version
func Register(r httpkit.Router, d Deps) {
	r.Get("/health", httpkit.Handle(func(*http.Request) httpkit.Response { return httpkit.OK(health(d, time.Now())) }))
	r.Get("/ready", httpkit.Handle(func(req *http.Request) httpkit.Response { return ready(req.Context(), d) }))
	r.Get("/version", httpkit.Handle(func(*http.Request) httpkit.Response { return httpkit.OK(version.Info()) }))
}

// Healthz is the bare liveness probe for load balancers
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Health reports process liveness and uptime
type Health struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime_seconds"`
}

func health(d Deps, now time.Time) Health {
	return Health{
		OK:      true,
		Service: d.ServiceName,
		Started: d.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(d.StartedAt) / time.Second),
	}
}

// Check is one backend's readiness
type Check struct {
	Name    string `json:"name"`
	Backend string `json:"backend"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Readiness summarizes backend checks. Status is ok, degraded or fail
type Readiness struct {
	Status string  `json:"status"`
	Checks []Check `json:"checks"`
}

// ready pings each backend; any failure answers 503 so orchestrators pull the instance
func ready(ctx context.Context, d Deps) httpkit.Response {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	out := Readiness{Status: StatusOK, Checks: []Check{
		probe(ctx, "manifests", "pg", d.PG),
		probe(ctx, "signals", "ch", d.CH),
		probe(ctx, "artifacts", "obj", d.Obj),
	}}
	for _, c := range out.Checks {
		switch {
		case c.Status == StatusFail:
			out.Status = StatusFail
		case c.Status == StatusUnknown && out.Status == StatusOK:
			out.Status = "degraded"
		}
	}

	resp := httpkit.OK(out)
	if out.Status == StatusFail {
		resp.Status = http.StatusServiceUnavailable
	}
	return resp
}

func probe(ctx context.Context, name, backend string, b any) Check {
	c := Check{Name: name, Backend: backend}
	switch p := b.(type) {
	case nil:
		c.Status = StatusSkipped
	case Pinger:
		c.Status = StatusOK
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = StatusFail, err.Error()
		}
	default:
		c.Status = StatusUnknown
	}
	return c
}
