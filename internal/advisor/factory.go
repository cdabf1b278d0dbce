package advisor

import (
	"fmt"

	"billaudit/internal/config"
	"billaudit/internal/port"
)

// ProviderFactory is a function that creates a BillAdvisor from a provider config.
type ProviderFactory func(cfg *config.AdvisorProviderConfig) (port.BillAdvisor, error)

// registry of advisor provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an advisor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewAdvisor creates a BillAdvisor from a provider config using the registered factory.
func NewAdvisor(cfg *config.AdvisorProviderConfig) (port.BillAdvisor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown advisor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
