// Package catalog holds the immutable lookup between item ids and display
// names. It is built once at startup and only read afterwards, so it is safe
// to share between concurrent cycles.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/kilianp07/monwatch/core/model"
)

// ItemSource returns the full list of known item types.
type ItemSource interface {
	Items(ctx context.Context) ([]model.CatalogEntry, error)
}

// Catalog maps item ids to entries and names back to ids.
type Catalog struct {
	byID   map[int]model.CatalogEntry
	byName map[string]int
}

// New builds a Catalog from entries. Duplicate ids or names are rejected so
// that the two indexes stay exact inverses of each other.
func New(entries []model.CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[int]model.CatalogEntry, len(entries)),
		byName: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, ok := c.byID[e.ID]; ok {
			return nil, fmt.Errorf("duplicate item id %d", e.ID)
		}
		if other, ok := c.byName[e.Name]; ok {
			return nil, fmt.Errorf("duplicate item name %q (ids %d and %d)", e.Name, other, e.ID)
		}
		c.byID[e.ID] = e
		c.byName[e.Name] = e.ID
	}
	return c, nil
}

// Load fetches the item list from src and builds a Catalog. Any failure is
// returned as a model.StartupError.
func Load(ctx context.Context, src ItemSource) (*Catalog, error) {
	entries, err := src.Items(ctx)
	if err != nil {
		return nil, &model.StartupError{Op: "load catalog", Err: err}
	}
	c, err := New(entries)
	if err != nil {
		return nil, &model.StartupError{Op: "build catalog", Err: err}
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.byID) }

// Entry returns the entry for id.
func (c *Catalog) Entry(id int) (model.CatalogEntry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Name returns the display name for id, or "#<id>" when unknown.
func (c *Catalog) Name(id int) string {
	if e, ok := c.byID[id]; ok {
		return e.Name
	}
	return fmt.Sprintf("#%d", id)
}

// ID returns the id registered under name.
func (c *Catalog) ID(name string) (int, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Entries returns all entries sorted by id.
func (c *Catalog) Entries() []model.CatalogEntry {
	out := make([]model.CatalogEntry, 0, len(c.byID))
	for _, e := range c.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve converts names to a set of tracked ids. Names missing from the
// catalog are returned in unknown, in input order.
func (c *Catalog) Resolve(names []string) (model.TrackedIDs, []string) {
	ids := make(model.TrackedIDs, len(names))
	var unknown []string
	for _, n := range names {
		id, ok := c.byName[n]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		ids[id] = struct{}{}
	}
	return ids, unknown
}
