// Package scheduler triggers the check cycle immediately and then on a fixed
// interval. Cycles are isolated from each other: an error or panic inside one
// cycle is reported and never stops the scheduler.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/monwatch/core/logger"
)

// DefaultInterval is the time between two cycle starts.
const DefaultInterval = 60 * time.Second

// Cycle runs one full check. id identifies the run in logs and metrics.
type Cycle func(ctx context.Context, id string) error

// Policy decides what a tick does while a previous cycle is still running.
type Policy string

const (
	// PolicyAllow starts a new cycle on every tick, overlapping if needed.
	PolicyAllow Policy = "allow"
	// PolicySkip drops a tick while a cycle is in flight.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates a policy name. Empty means PolicyAllow.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyAllow:
		return PolicyAllow, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown overlap policy %q", s)
	}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPolicy sets the overlap policy.
func WithPolicy(p Policy) Option { return func(s *Scheduler) { s.policy = p } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(s *Scheduler) { s.log = logger.OrNop(l) } }

// WithErrorHandler registers a callback for every failed cycle, including
// recovered panics.
func WithErrorHandler(h func(id string, err error)) Option {
	return func(s *Scheduler) { s.onError = h }
}

// WithTicks replaces the interval ticker with an external tick source.
func WithTicks(ticks <-chan time.Time) Option { return func(s *Scheduler) { s.ticks = ticks } }

// Scheduler is a periodic trigger for a Cycle.
type Scheduler struct {
	interval time.Duration
	cycle    Cycle
	policy   Policy
	log      logger.Logger
	onError  func(id string, err error)
	ticks    <-chan time.Time

	inFlight atomic.Int32
	started  atomic.Int64
	skipped  atomic.Int64
	wg       sync.WaitGroup
}

// New creates a Scheduler running cycle every interval. A non-positive
// interval falls back to DefaultInterval.
func New(interval time.Duration, cycle Cycle, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{interval: interval, cycle: cycle, policy: PolicyAllow, log: logger.Nop{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run starts one cycle immediately and another on every tick until ctx is
// cancelled. It waits for in-flight cycles before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	ticks := s.ticks
	if ticks == nil {
		t := time.NewTicker(s.interval)
		defer t.Stop()
		ticks = t.C
	}
	s.log.Infof("scheduler started, interval %s, overlap %s", s.interval, s.policy)
	s.trigger(ctx)
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.log.Infof("scheduler stopped after %d cycles", s.started.Load())
			return nil
		case <-ticks:
			s.trigger(ctx)
		}
	}
}

// Started returns the number of cycles launched so far.
func (s *Scheduler) Started() int64 { return s.started.Load() }

// Skipped returns the number of ticks dropped by PolicySkip.
func (s *Scheduler) Skipped() int64 { return s.skipped.Load() }

// InFlight returns the number of cycles currently running.
func (s *Scheduler) InFlight() int { return int(s.inFlight.Load()) }

func (s *Scheduler) trigger(ctx context.Context) {
	if s.policy == PolicySkip && s.inFlight.Load() > 0 {
		s.skipped.Add(1)
		s.log.Warnf("previous cycle still running, tick skipped")
		return
	}
	id := uuid.NewString()
	s.inFlight.Add(1)
	s.started.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inFlight.Add(-1)
		if err := s.runIsolated(ctx, id); err != nil {
			s.log.Errorf("cycle %s failed: %v", id, err)
			if s.onError != nil {
				s.onError(id, err)
			}
		}
	}()
}

func (s *Scheduler) runIsolated(ctx context.Context, id string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Debugf("cycle %s panic stack: %s", id, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.cycle(ctx, id)
}
