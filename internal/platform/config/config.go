// Package config reads service settings from prefixed environment variables.
// Scopes compose: config.New().Prefix("SERVICE_").Prefix("PGSQL_") reads
// SERVICE_PGSQL_*. Malformed values log a warning and fall back to the default.
package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"profitscout/internal/platform/logger"
)

// Conf is one scope of the environment.
type Conf struct{ prefix string }

func New() Conf { return Conf{} }

func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key is the full variable name read for k.
func (c Conf) Key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.Key(k))) }

// may parses the variable with parse, falling back to def when it is unset
// or does not parse.
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Named("config").Warn().
			Str("key", c.Key(key)).
			Str("value", s).
			Interface("default", def).
			Msg("unparsable setting, using default")
		return def
	}
	return v
}

func (c Conf) MayString(key, def string) string {
	return may(c, key, def, func(s string) (string, error) { return s, nil })
}

func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration takes Go duration syntax, e.g. 300ms or 2m.
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated list, dropping blanks. An all-blank list means def.
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for part := range strings.SplitSeq(c.lookup(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the lowercased value if it is one of allowed, else def when
// unset. Any other value is a deployment error and panics through the logger.
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := strings.ToLower(c.lookup(key))
	if v == "" {
		return def
	}
	if slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, v) }) {
		return v
	}
	logger.Named("config").Panic().
		Str("key", c.Key(key)).
		Str("value", v).
		Strs("allowed", allowed).
		Msg("setting not in allowed set")
	return def
}
