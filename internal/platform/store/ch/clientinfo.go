package ch

import (
	"cmp"
	"os"
	"strings"

	"profitscout/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo tags queries in system.query_log with the application,
// its role (api, resolve) and the build that sent them.
func BuildClientInfo(app, role string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	info := version.Info()
	label := func(s string) string { return cmp.Or(strings.TrimSpace(s), "unknown") }

	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		{Name: label(app), Version: label(info.Version)},
		{Name: "role", Version: label(role)},
		{Name: "commit", Version: label(info.Commit)},
		{Name: "host", Version: label(host)},
	}}
}
