package config

import (
	"fmt"

	"github.com/kilianp07/monwatch/core/factory"
)

// NotifyConfig selects the alert sinks and the alert presentation.
type NotifyConfig struct {
	// Sinks lists the delivery channels ("desktop", "mqtt", "log"). Empty
	// means desktop only.
	Sinks   []factory.ModuleConfig `json:"sinks"`
	IconDir string                 `json:"icon_dir"`
	// Sound and Wait default to true when unset.
	Sound *bool `json:"sound"`
	Wait  *bool `json:"wait"`
	// Dedupe suppresses repeat alerts for a sighting already alerted.
	Dedupe bool `json:"dedupe"`
}

// SetDefaults applies the desktop sink when none is configured and turns
// sound and wait on unless set explicitly.
func (c *NotifyConfig) SetDefaults() {
	if len(c.Sinks) == 0 {
		c.Sinks = []factory.ModuleConfig{{Type: "desktop"}}
	}
	if c.Sound == nil {
		c.Sound = boolPtr(true)
	}
	if c.Wait == nil {
		c.Wait = boolPtr(true)
	}
}

// SoundOn reports whether alerts ask for an audible notification.
func (c NotifyConfig) SoundOn() bool { return c.Sound == nil || *c.Sound }

// WaitOn reports whether alerts ask to stay until dismissed.
func (c NotifyConfig) WaitOn() bool { return c.Wait == nil || *c.Wait }

func boolPtr(b bool) *bool { return &b }

// Validate checks the sink entries.
func (c NotifyConfig) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("sinks[%d]: type is required", i)
		}
	}
	return nil
}
