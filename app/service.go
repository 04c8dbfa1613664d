package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/monwatch/config"
	"github.com/kilianp07/monwatch/core/catalog"
	"github.com/kilianp07/monwatch/core/feasibility"
	coremetrics "github.com/kilianp07/monwatch/core/metrics"
	"github.com/kilianp07/monwatch/core/model"
	"github.com/kilianp07/monwatch/core/notify"
	"github.com/kilianp07/monwatch/core/scheduler"
	"github.com/kilianp07/monwatch/core/sighting"
	"github.com/kilianp07/monwatch/core/travel"
	"github.com/kilianp07/monwatch/infra/distancematrix"
	"github.com/kilianp07/monwatch/infra/feed"
	"github.com/kilianp07/monwatch/infra/logger"
	"github.com/kilianp07/monwatch/infra/metrics"
	"github.com/kilianp07/monwatch/infra/notifier"
)

// Deps are the outside collaborators of a Service. New fills them from the
// configuration; tests supply fakes through NewWithDeps.
type Deps struct {
	Items     catalog.ItemSource
	Sightings sighting.Source
	Matrix    travel.MatrixClient
	Sink      notify.Sink
	Recorder  coremetrics.Recorder
	Now       func() time.Time
}

// Service wires the catalog, fetcher, estimator and dispatcher into one
// polling cycle and runs it on the scheduler.
type Service struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	tracked    model.TrackedIDs
	fetcher    *sighting.Fetcher
	estimator  *travel.Estimator
	dispatcher *notify.Dispatcher
	sink       notify.Sink
	recorder   coremetrics.Recorder
	scheduler  *scheduler.Scheduler
	now        func() time.Time
	log        logger.Logger

	runningSince atomic.Int64
	lastSuccess  atomic.Int64
}

// New builds a Service from cfg. names are the tracked item names; when
// empty the config's tracked list is used. Failures are model.StartupError.
func New(ctx context.Context, cfg *config.Config, names []string) (*Service, error) {
	feedClient := feed.NewClient(cfg.Feed, logger.New("feed"))
	matrix, err := distancematrix.NewClient(cfg.Maps, logger.New("distancematrix"))
	if err != nil {
		return nil, &model.StartupError{Op: "distance matrix client", Err: err}
	}
	sink, err := notifier.New(cfg.Notify.Sinks)
	if err != nil {
		return nil, &model.StartupError{Op: "notification sink", Err: err}
	}
	rec, err := coremetrics.NewRecorder(cfg.Metrics.Sinks)
	if err != nil {
		closeSink(sink)
		return nil, &model.StartupError{Op: "metrics recorder", Err: err}
	}
	svc, err := NewWithDeps(ctx, cfg, names, Deps{
		Items:     feedClient,
		Sightings: feedClient,
		Matrix:    matrix,
		Sink:      sink,
		Recorder:  rec,
	})
	if err != nil {
		closeSink(sink)
		return nil, err
	}
	return svc, nil
}

// NewWithDeps builds a Service around the given collaborators.
func NewWithDeps(ctx context.Context, cfg *config.Config, names []string, d Deps) (*Service, error) {
	log := logger.New("service")
	cat, err := catalog.Load(ctx, d.Items)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = cfg.Tracked
	}
	tracked, unknown := cat.Resolve(names)
	for _, n := range unknown {
		log.Warnf("unknown item %q ignored", n)
	}
	log.Infof("catalog loaded with %d items, tracking %d", cat.Len(), len(tracked))

	policy, err := scheduler.ParsePolicy(cfg.Scheduler.Overlap)
	if err != nil {
		return nil, &model.StartupError{Op: "scheduler", Err: err}
	}
	if d.Recorder == nil {
		d.Recorder = coremetrics.NopSink{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	s := &Service{
		cfg:       cfg,
		catalog:   cat,
		tracked:   tracked,
		fetcher:   sighting.NewFetcher(d.Sightings),
		estimator: travel.NewEstimator(d.Matrix, cfg.Maps.Origin),
		dispatcher: notify.NewDispatcher(cat, d.Sink, notify.Options{
			IconDir: cfg.Notify.IconDir,
			Sound:   cfg.Notify.SoundOn(),
			Wait:    cfg.Notify.WaitOn(),
			Dedupe:  cfg.Notify.Dedupe,
		}, logger.New("notify")),
		sink:     d.Sink,
		recorder: d.Recorder,
		now:      d.Now,
		log:      log,
	}
	s.scheduler = scheduler.New(cfg.Scheduler.Interval(), s.RunCycle,
		scheduler.WithPolicy(policy),
		scheduler.WithLogger(logger.New("scheduler")),
	)
	return s, nil
}

// Tracked returns the resolved tracked ids.
func (s *Service) Tracked() model.TrackedIDs { return s.tracked }

// Catalog returns the loaded catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Scheduler exposes the scheduler driving the cycles.
func (s *Service) Scheduler() *scheduler.Scheduler { return s.scheduler }

// RunCycle performs one fetch, estimate, filter and notify pass.
func (s *Service) RunCycle(ctx context.Context, id string) (err error) {
	start := s.now()
	ev := coremetrics.CycleEvent{CycleID: id, Time: start}
	defer func() {
		ev.Duration = s.now().Sub(start)
		if err != nil {
			ev.Stage = stageOf(err)
		} else {
			s.lastSuccess.Store(ev.End().Unix())
		}
		if rerr := s.recorder.RecordCycle(ev); rerr != nil {
			s.log.Warnf("record cycle %s: %v", id, rerr)
		}
	}()

	s.log.Debugf("cycle %s start, %d tracked", id, len(s.tracked))
	found, err := s.fetcher.Fetch(ctx, s.tracked)
	if err != nil {
		return err
	}
	ev.Found = len(found)
	s.log.Debugf("cycle %s found %d sightings", id, len(found))
	for _, f := range found {
		s.log.Debugw("sighting", map[string]any{
			"cycle":   id,
			"name":    s.catalog.Name(f.ItemID),
			"at":      f.LatLng(),
			"despawn": humanize.RelTime(start, f.DespawnTime(), "ago", "from now"),
		})
	}
	if len(found) == 0 {
		return nil
	}

	est, err := s.estimator.Estimate(ctx, found)
	if err != nil {
		return err
	}
	for _, m := range model.Modes {
		s.log.Debugf("cycle %s %s durations %v", id, m, est[m])
	}

	now := s.now()
	ranked := feasibility.RankAndFilter(found, est, now)
	ev.Feasible = len(ranked)
	s.log.Debugf("cycle %s %d of %d in range", id, len(ranked), len(found))
	for _, r := range ranked {
		s.log.Debugf("cycle %s %s by %s arrives %s", id, s.catalog.Name(r.Sighting.ItemID), r.Mode,
			humanize.RelTime(now, r.Arrival(now), "ago", "from now"))
	}

	res := s.dispatcher.Notify(ctx, ranked)
	ev.Notified, ev.NotifyFailed, ev.Suppressed = res.Sent, res.Failed, res.Suppressed
	if res.Sent > 0 || res.Failed > 0 {
		s.log.Infof("cycle %s sent %d alerts, %d failed", id, res.Sent, res.Failed)
	}
	return nil
}

func stageOf(err error) string {
	var ce *model.CycleError
	if errors.As(err, &ce) && ce.Stage != "" {
		return ce.Stage
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "unknown"
}

// Health reports an error when no cycle has succeeded for three intervals.
func (s *Service) Health() error {
	since := s.runningSince.Load()
	if since == 0 {
		return nil
	}
	window := 3 * s.cfg.Scheduler.Interval()
	now := s.now()
	last := s.lastSuccess.Load()
	ref := last
	if ref == 0 {
		ref = since
	}
	if now.Sub(time.Unix(ref, 0)) <= window {
		return nil
	}
	if last == 0 {
		return fmt.Errorf("no successful cycle since start %s", humanize.Time(time.Unix(since, 0)))
	}
	return fmt.Errorf("last successful cycle %s", humanize.Time(time.Unix(last, 0)))
}

// Run drives the scheduler and, when enabled, the metrics server until ctx
// is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.runningSince.Store(s.now().Unix())
	if s.cfg.Metrics.Enabled {
		go func() {
			h := metrics.NewRouter(prometheus.DefaultGatherer, s.Health)
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.Address, h); err != nil {
				s.log.Errorf("metrics server: %v", err)
			}
		}()
	}
	return s.scheduler.Run(ctx)
}

// Close releases resources held by the sinks.
func (s *Service) Close() error {
	if c, ok := s.sink.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func closeSink(sink notify.Sink) {
	if c, ok := sink.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
