package notifier

import (
	"context"
	"errors"

	"github.com/kilianp07/monwatch/core/notify"
)

// Multi fans an alert out to several sinks.
type Multi struct {
	Sinks []notify.Sink
}

// NewMulti creates a Multi with the provided sinks.
func NewMulti(sinks ...notify.Sink) *Multi {
	return &Multi{Sinks: sinks}
}

// Send delivers to every sink even if an earlier one fails. The returned
// error joins all failures.
func (m *Multi) Send(ctx context.Context, a notify.Alert) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.Send(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds a connection.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
