package notify

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/kilianp07/monwatch/core/model"
)

// Deduper remembers sightings already alerted until they despawn. It is safe
// for use by overlapping cycles.
type Deduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper { return &Deduper{seen: map[string]time.Time{}} }

// Key identifies a sighting by item id, despawn minute and rounded position.
func Key(s model.Sighting) string {
	return fmt.Sprintf("%d:%d:%.5f:%.5f", s.ItemID, int64(math.Round(float64(s.Despawn)/60)), s.Lat, s.Lng)
}

// First records s and reports whether it had not been seen before. Entries
// whose despawn time is before now are forgotten.
func (d *Deduper) First(s model.Sighting, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, exp := range d.seen {
		if exp.Before(now) {
			delete(d.seen, k)
		}
	}
	k := Key(s)
	if _, ok := d.seen[k]; ok {
		return false
	}
	d.seen[k] = s.DespawnTime()
	return true
}

// Len returns the number of remembered sightings.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
