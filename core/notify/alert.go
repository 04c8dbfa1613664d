// Package notify turns feasible sightings into user-facing alerts and hands
// them to a Sink.
package notify

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kilianp07/monwatch/core/model"
)

// Alert is the payload delivered to a notification sink.
type Alert struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    string `json:"icon,omitempty"`
	Sound   bool   `json:"sound"`
	Wait    bool   `json:"wait"`
	OpenURL string `json:"url"`

	ItemID  int    `json:"item_id"`
	Mode    string `json:"mode"`
	Minutes int    `json:"minutes"`
}

// Sink delivers alerts. Delivery is best effort: callers do not retry.
type Sink interface {
	Send(ctx context.Context, a Alert) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, a Alert) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, a Alert) error { return f(ctx, a) }

// Minutes rounds d up to whole minutes.
func Minutes(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}

// Message returns the short alert body, e.g. "14 mins by cycling".
func Message(r model.RankedSighting) string {
	return fmt.Sprintf("%d mins by %s", Minutes(r.Duration), r.Mode)
}

// MapURL returns a map deep link centred on the sighting.
func MapURL(s model.Sighting) string {
	return "http://maps.google.com/maps?q=" +
		strconv.FormatFloat(s.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(s.Lng, 'f', -1, 64) + "&zoom=14"
}

// IconPath returns the icon for item id under dir, or "" when dir is empty.
func IconPath(dir string, id int) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, strconv.Itoa(id)+".png")
}
