package metrics

import (
	coremetrics "github.com/kilianp07/monwatch/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers built-in recorders.
func init() {
	_ = coremetrics.RegisterRecorder("prometheus", func(map[string]any) (coremetrics.Recorder, error) {
		s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
