package metrics

import (
	coremetrics "github.com/kilianp07/monwatch/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records cycle events in Prometheus metrics.
type PromSink struct {
	cycles        *prometheus.CounterVec
	found         prometheus.Counter
	feasible      prometheus.Counter
	notifications *prometheus.CounterVec
	duration      prometheus.Histogram
	lastSuccess   prometheus.Gauge
}

// NewPromSink registers cycle metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monwatch_cycles_total",
			Help: "Polling cycles by outcome",
		}, []string{"result"}),
		found: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monwatch_sightings_found_total",
			Help: "Tracked sightings returned by the feed",
		}),
		feasible: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monwatch_sightings_feasible_total",
			Help: "Sightings reachable before despawn",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monwatch_notifications_total",
			Help: "Alerts handed to sinks by outcome",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "monwatch_cycle_duration_seconds",
			Help:    "Wall time of a polling cycle",
			Buckets: prometheus.DefBuckets,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "monwatch_last_success_timestamp_seconds",
			Help: "Unix time of the last cycle that completed without error",
		}),
	}

	var err error
	if s.cycles, err = register(reg, s.cycles); err != nil {
		return nil, err
	}
	if s.found, err = register(reg, s.found); err != nil {
		return nil, err
	}
	if s.feasible, err = register(reg, s.feasible); err != nil {
		return nil, err
	}
	if s.notifications, err = register(reg, s.notifications); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.lastSuccess, err = register(reg, s.lastSuccess); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c was registered
// before on reg.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordCycle updates the counters for ev.
func (s *PromSink) RecordCycle(ev coremetrics.CycleEvent) error {
	s.cycles.WithLabelValues(ev.Result()).Inc()
	s.found.Add(float64(ev.Found))
	s.feasible.Add(float64(ev.Feasible))
	s.notifications.WithLabelValues("sent").Add(float64(ev.Notified))
	s.notifications.WithLabelValues("failed").Add(float64(ev.NotifyFailed))
	s.notifications.WithLabelValues("suppressed").Add(float64(ev.Suppressed))
	s.duration.Observe(ev.Duration.Seconds())
	if ev.Stage == "" && !ev.Time.IsZero() {
		s.lastSuccess.Set(float64(ev.End().Unix()))
	}
	return nil
}
