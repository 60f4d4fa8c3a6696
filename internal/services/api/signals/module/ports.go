package module

import "profitscout/internal/services/api/signals/domain"

// Ports is the port bundle other modules pull from this one
// Signals is nil when the analytical store is disabled
type Ports struct {
	Signals domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
