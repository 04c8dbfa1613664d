// Package metrics defines how a polling cycle is reported for observability.
// Recorders such as the Prometheus sink in infra/metrics receive one
// CycleEvent per cycle and can be combined with NewMultiRecorder. The factory
// helpers return a MultiRecorder automatically when several are configured.
package metrics
