package model

import (
	"strconv"
	"time"
)

// CatalogEntry describes a known item type from the feed.
type CatalogEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TrackedIDs is the set of item ids a user asked to watch.
type TrackedIDs map[int]struct{}

// NewTrackedIDs builds a set from ids.
func NewTrackedIDs(ids ...int) TrackedIDs {
	t := make(TrackedIDs, len(ids))
	for _, id := range ids {
		t[id] = struct{}{}
	}
	return t
}

// Has reports whether id is tracked.
func (t TrackedIDs) Has(id int) bool {
	_, ok := t[id]
	return ok
}

// Sighting is one active occurrence of an item at a location.
type Sighting struct {
	ItemID  int
	Lat     float64
	Lng     float64
	Despawn int64 // epoch seconds
}

// DespawnTime returns the moment the sighting disappears.
func (s Sighting) DespawnTime() time.Time {
	return time.Unix(s.Despawn, 0)
}

// LatLng formats the coordinates as "lat,lng".
func (s Sighting) LatLng() string {
	return strconv.FormatFloat(s.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(s.Lng, 'f', -1, 64)
}

// RankedSighting is a sighting annotated with its fastest travel mode.
type RankedSighting struct {
	Sighting Sighting
	Mode     Mode
	Duration time.Duration
}

// Arrival returns when the observer would reach the sighting if leaving at now.
func (r RankedSighting) Arrival(now time.Time) time.Time {
	return now.Add(r.Duration)
}
