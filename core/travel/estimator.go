// Package travel estimates how long it takes to reach sightings by each
// travel mode.
package travel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/monwatch/core/model"
)

// MatrixClient returns one duration per destination for a single origin and
// mode. Destinations with no route must be reported as model.Unreachable;
// an error means the whole query failed.
type MatrixClient interface {
	Durations(ctx context.Context, origin string, destinations []string, mode model.Mode) ([]time.Duration, error)
}

// Estimator queries every mode concurrently from a fixed origin.
type Estimator struct {
	client MatrixClient
	origin string
	modes  []model.Mode
}

// NewEstimator creates an Estimator for origin using client.
func NewEstimator(client MatrixClient, origin string) *Estimator {
	return &Estimator{client: client, origin: origin, modes: model.Modes}
}

// Origin returns the address travel is measured from.
func (e *Estimator) Origin() string { return e.origin }

// Estimate issues one batched query per mode against every sighting and waits
// for all of them. The returned slices are aligned with sightings. If any
// query fails the cycle is abandoned with a model.CycleError.
func (e *Estimator) Estimate(ctx context.Context, sightings []model.Sighting) (model.Estimates, error) {
	est := make(model.Estimates, len(e.modes))
	if len(sightings) == 0 {
		return est, nil
	}
	dest := make([]string, len(sightings))
	for i, s := range sightings {
		dest[i] = s.LatLng()
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, m := range e.modes {
		g.Go(func() error {
			d, err := e.client.Durations(gctx, e.origin, dest, m)
			if err != nil {
				return fmt.Errorf("%s: %w", m, err)
			}
			d = align(d, len(dest))
			mu.Lock()
			est[m] = d
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &model.CycleError{Stage: "estimate", Err: err}
	}
	return est, nil
}

// align pads d with model.Unreachable or trims it to n entries.
func align(d []time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		if i < len(d) {
			out[i] = d[i]
		} else {
			out[i] = model.Unreachable
		}
	}
	return out
}
