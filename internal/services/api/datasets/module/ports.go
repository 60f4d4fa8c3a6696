package module

import (
	"profitscout/internal/services/api/datasets/domain"
	sigdomain "profitscout/internal/services/api/signals/domain"
)

// Ports declares the optional injected port for query-backed datasets
type Ports struct {
	Signals sigdomain.ServicePort
}

// Exposed is what this module offers other modules
type Exposed struct {
	Datasets domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.exposed }
