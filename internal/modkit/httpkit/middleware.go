package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"profitscout/internal/platform/net/middleware"
)

// CommonStack is the middleware every module mounts with. Handlers set their
// own Cache-Control. No origins means any origin may read.
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.AccessLog(500 * time.Millisecond),
		middleware.CORS(origins...),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
		middleware.ThrottleBacklog(256, 1024, 10*time.Second),
	}
}
