package metrics

import (
	"fmt"

	"github.com/kilianp07/monwatch/core/factory"
)

// DefaultAddress is where the metrics server listens unless configured.
const DefaultAddress = ":9464"

// Config defines settings for cycle metrics.
type Config struct {
	// Enabled starts the HTTP server exposing /metrics and /healthz.
	Enabled bool                   `json:"enabled"`
	Address string                 `json:"address"`
	Sinks   []factory.ModuleConfig `json:"sinks"`
}

// SetDefaults fills in the listen address and, when the server is enabled
// without explicit sinks, the prometheus sink.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.Enabled && len(c.Sinks) == 0 {
		c.Sinks = []factory.ModuleConfig{{Type: "prometheus"}}
	}
}

// Validate checks the sink entries.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
