package pg

import (
	"context"
	"strings"
	"time"

	"profitscout/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished manifest query
type QueryEvent struct {
	SQL     string
	Args    any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives query events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs queries on root at debug, slow or failed ones at warn.
// The level is pinned so PG_LOG_SQL works regardless of the process level
func Tracer(root logger.Logger) QueryTracer {
	return logTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log logger.Logger }

func (t logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	e := t.log.Debug()
	if ev.Slow || ev.Err != nil {
		e = t.log.Warn()
	}
	e.Dur("took", ev.Elapsed).
		Bool("slow", ev.Slow).
		Str("sql", oneLine(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("manifest query")
}

// oneLine collapses whitespace runs so statements log on a single line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
