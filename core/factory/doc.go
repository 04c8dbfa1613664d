// Package factory is a small generic registry that builds modules from
// configuration. A module is described by a type name and a map of raw
// settings; the registered factory decodes the settings and returns the
// concrete value.
//
//	reg := factory.NewRegistry[notify.Sink]()
//	_ = reg.Register("log", func(conf map[string]any) (notify.Sink, error) {
//	    var c struct{ Level string `json:"level"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newLogSink(c.Level), nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "log"})
package factory
