// Package feasibility selects the fastest travel mode for each sighting and
// keeps only the sightings that can be reached before they despawn.
package feasibility

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/monwatch/core/model"
)

// Rank returns the fastest mode for the i-th sighting. Modes are compared in
// model.Modes order and the first one reaching the minimum wins, so transit
// beats walking beats cycling on an exact tie. ok is false when no mode has
// an estimate.
func Rank(i int, est model.Estimates) (mode model.Mode, d time.Duration, ok bool) {
	vals := make([]float64, len(model.Modes))
	for k, m := range model.Modes {
		v := est.Duration(m, i)
		if v == model.Unreachable {
			vals[k] = math.Inf(1)
			continue
		}
		vals[k] = float64(v)
	}
	idx := floats.MinIdx(vals)
	if math.IsInf(vals[idx], 1) {
		return model.Modes[0], model.Unreachable, false
	}
	return model.Modes[idx], time.Duration(vals[idx]), true
}

// Feasible reports whether leaving at now and travelling for d arrives
// strictly before despawn.
func Feasible(now time.Time, d time.Duration, despawn time.Time) bool {
	if d == model.Unreachable {
		return false
	}
	return now.Add(d).Before(despawn)
}

// RankAndFilter ranks every sighting and keeps those reachable before their
// despawn time, preserving input order. It never fails.
func RankAndFilter(sightings []model.Sighting, est model.Estimates, now time.Time) []model.RankedSighting {
	out := make([]model.RankedSighting, 0, len(sightings))
	for i, s := range sightings {
		mode, d, ok := Rank(i, est)
		if !ok || !Feasible(now, d, s.DespawnTime()) {
			continue
		}
		out = append(out, model.RankedSighting{Sighting: s, Mode: mode, Duration: d})
	}
	return out
}
