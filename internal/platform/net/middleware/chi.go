// Package middleware adapts chi's middleware to the read-only API and adds the
// access log and JSON panic recovery.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Func is an http middleware.
type Func = func(http.Handler) http.Handler

// compressible are the representations the API serves.
var compressible = []string{"application/json", "text/markdown", "text/plain"}

func RequestID() Func    { return chimw.RequestID }
func RealIP() Func       { return chimw.RealIP }
func StripSlashes() Func { return chimw.StripSlashes }

// Timeout cancels the request context after d; backend calls observe it.
func Timeout(d time.Duration) Func { return chimw.Timeout(d) }

// Compress compresses JSON, markdown and text bodies at level.
func Compress(level int) Func {
	return chimw.NewCompressor(level, compressible...).Handler
}

// ThrottleBacklog caps in-flight requests at limit, queueing up to backlog
// more for at most wait before answering 429.
func ThrottleBacklog(limit, backlog int, wait time.Duration) Func {
	return chimw.ThrottleBacklog(limit, backlog, wait)
}

// CORS allows simple cross-origin reads from origins. The request id is
// exposed so dashboards can quote it.
func CORS(origins ...string) Func {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "If-None-Match", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}
