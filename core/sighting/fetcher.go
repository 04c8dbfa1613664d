// Package sighting fetches the currently active sightings of tracked items.
package sighting

import (
	"context"
	"sort"

	"github.com/kilianp07/monwatch/core/model"
)

// Source queries the feed for active sightings of the given ids.
type Source interface {
	Sightings(ctx context.Context, ids []int) ([]model.Sighting, error)
}

// Fetcher returns the sightings of tracked items on each cycle.
type Fetcher struct {
	src Source
}

// NewFetcher creates a Fetcher backed by src.
func NewFetcher(src Source) *Fetcher { return &Fetcher{src: src} }

// Fetch issues one query with the full tracked set and keeps only sightings
// of tracked items. An empty tracked set yields no sightings without a
// request. Failures are returned as a model.CycleError.
func (f *Fetcher) Fetch(ctx context.Context, tracked model.TrackedIDs) ([]model.Sighting, error) {
	if len(tracked) == 0 {
		return nil, nil
	}
	ids := make([]int, 0, len(tracked))
	for id := range tracked {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	found, err := f.src.Sightings(ctx, ids)
	if err != nil {
		return nil, &model.CycleError{Stage: "fetch", Err: err}
	}
	out := make([]model.Sighting, 0, len(found))
	for _, s := range found {
		if tracked.Has(s.ItemID) {
			out = append(out, s)
		}
	}
	return out, nil
}
