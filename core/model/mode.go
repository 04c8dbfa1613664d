package model

import "time"

// Mode defines a way of travelling to a sighting.
type Mode int

const (
	ModeTransit Mode = iota
	ModeWalking
	ModeCycling
)

// Modes lists every travel mode in priority order. When two modes need the
// same time the one listed first wins.
var Modes = []Mode{ModeTransit, ModeWalking, ModeCycling}

// Unreachable marks a destination for which a mode has no estimate.
const Unreachable time.Duration = 1<<63 - 1

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeTransit:
		return "transit"
	case ModeWalking:
		return "walking"
	case ModeCycling:
		return "cycling"
	default:
		return "unknown"
	}
}

// Estimates holds, for each mode, durations aligned index for index with the
// sightings they were computed for.
type Estimates map[Mode][]time.Duration

// Duration returns the estimate of mode m for the i-th sighting, or
// Unreachable when none is known.
func (e Estimates) Duration(m Mode, i int) time.Duration {
	d := e[m]
	if i < 0 || i >= len(d) {
		return Unreachable
	}
	return d[i]
}
