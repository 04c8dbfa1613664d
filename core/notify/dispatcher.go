package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/monwatch/core/logger"
	"github.com/kilianp07/monwatch/core/model"
)

// Namer resolves item ids to display names.
type Namer interface {
	Name(id int) string
}

// Options tunes alert construction.
type Options struct {
	IconDir string
	Sound   bool
	Wait    bool
	// Dedupe suppresses alerts for sightings already alerted in an earlier
	// cycle of this process.
	Dedupe bool
}

// Result counts the outcome of one Notify call.
type Result struct {
	Sent       int
	Failed     int
	Suppressed int
}

// Dispatcher emits one alert per ranked sighting.
type Dispatcher struct {
	names Namer
	sink  Sink
	opts  Options
	dedup *Deduper
	log   logger.Logger
	now   func() time.Time
}

// NewDispatcher creates a Dispatcher. A nil log discards messages.
func NewDispatcher(names Namer, sink Sink, opts Options, log logger.Logger) *Dispatcher {
	d := &Dispatcher{names: names, sink: sink, opts: opts, log: logger.OrNop(log), now: time.Now}
	if opts.Dedupe {
		d.dedup = NewDeduper()
	}
	return d
}

// Build constructs the alert for r.
func (d *Dispatcher) Build(r model.RankedSighting) Alert {
	return Alert{
		ID:      uuid.NewString(),
		Title:   d.names.Name(r.Sighting.ItemID),
		Message: Message(r),
		Icon:    IconPath(d.opts.IconDir, r.Sighting.ItemID),
		Sound:   d.opts.Sound,
		Wait:    d.opts.Wait,
		OpenURL: MapURL(r.Sighting),
		ItemID:  r.Sighting.ItemID,
		Mode:    r.Mode.String(),
		Minutes: Minutes(r.Duration),
	}
}

// Notify hands one alert per entry to the sink. Sink failures are logged and
// counted but never retried or returned.
func (d *Dispatcher) Notify(ctx context.Context, ranked []model.RankedSighting) Result {
	var res Result
	for _, r := range ranked {
		if d.dedup != nil && !d.dedup.First(r.Sighting, d.now()) {
			res.Suppressed++
			continue
		}
		a := d.Build(r)
		if err := d.sink.Send(ctx, a); err != nil {
			d.log.Warnf("alert %s for %s not delivered: %v", a.ID, a.Title, err)
			res.Failed++
			continue
		}
		res.Sent++
	}
	return res
}
