// Package module holds the module contract and port lookup. It sits below
// modkit so modules can export port types without an import cycle
package module

import (
	phttp "profitscout/internal/platform/net/http"
)

// Module is a mountable unit that may expose ports
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
