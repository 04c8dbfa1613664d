package metrics

import (
	"errors"
	"time"
)

// CycleEvent summarises one polling cycle.
type CycleEvent struct {
	CycleID      string
	Found        int
	Feasible     int
	Notified     int
	NotifyFailed int
	Suppressed   int
	// Stage names the step that failed; empty when the cycle succeeded.
	Stage    string
	Duration time.Duration
	// Time is when the cycle started.
	Time time.Time
}

// End returns when the cycle finished.
func (e CycleEvent) End() time.Time { return e.Time.Add(e.Duration) }

// Result is the label value for the cycle outcome.
func (e CycleEvent) Result() string {
	if e.Stage == "" {
		return "ok"
	}
	return e.Stage
}

// Recorder records cycle events.
type Recorder interface {
	RecordCycle(ev CycleEvent) error
}

// NopSink discards every event.
type NopSink struct{}

// RecordCycle is a no-op.
func (NopSink) RecordCycle(CycleEvent) error { return nil }

// MultiRecorder fans events out to several recorders.
type MultiRecorder struct {
	Recorders []Recorder
}

// NewMultiRecorder combines recs.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

// RecordCycle forwards ev to every recorder and joins their errors.
func (m *MultiRecorder) RecordCycle(ev CycleEvent) error {
	var errs []error
	for _, r := range m.Recorders {
		if err := r.RecordCycle(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
