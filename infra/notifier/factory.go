// Package notifier provides the concrete alert sinks (desktop, MQTT and
// log) and builds them from configuration.
package notifier

import (
	"github.com/kilianp07/monwatch/core/factory"
	"github.com/kilianp07/monwatch/core/notify"
	"github.com/kilianp07/monwatch/infra/mqtt"
)

var registry = factory.NewRegistry[notify.Sink]()

func init() {
	_ = registry.Register("desktop", func(conf map[string]any) (notify.Sink, error) {
		var c DesktopConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewDesktop(c), nil
	})
	_ = registry.Register("log", func(conf map[string]any) (notify.Sink, error) {
		var c LogConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewLog(c, nil), nil
	})
	_ = registry.Register("mqtt", func(conf map[string]any) (notify.Sink, error) {
		var c mqtt.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		c.SetDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		p, err := mqtt.NewAlertPublisher(c)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Register adds a sink factory identified by name.
func Register(name string, f factory.Factory[notify.Sink]) error {
	return registry.Register(name, f)
}

// DefaultSinks is used when no sink is configured.
var DefaultSinks = []factory.ModuleConfig{{Type: "desktop"}}

// New builds the sink described by cfgs. Several entries yield a Multi; if
// any entry fails the sinks already built are closed.
func New(cfgs []factory.ModuleConfig) (notify.Sink, error) {
	if len(cfgs) == 0 {
		cfgs = DefaultSinks
	}
	if len(cfgs) == 1 {
		return registry.Create(cfgs[0])
	}
	m := NewMulti()
	for _, c := range cfgs {
		s, err := registry.Create(c)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		m.Sinks = append(m.Sinks, s)
	}
	return m, nil
}
