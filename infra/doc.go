// Package infra contains the technical adapters: the sightings feed and
// Distance Matrix HTTP clients, the alert sinks, the MQTT publisher and the
// Prometheus exporter. These packages depend only on the interfaces defined
// in the core packages.
package infra
