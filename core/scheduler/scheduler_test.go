package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRun(t *testing.T, s *Scheduler) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop")
		}
	}
}

func TestRunsImmediatelyThenOnTicks(t *testing.T) {
	calls := make(chan string, 10)
	ticks := make(chan time.Time)
	s := New(time.Hour, func(_ context.Context, id string) error {
		calls <- id
		return nil
	}, WithTicks(ticks))
	stop := startRun(t, s)

	first := <-calls
	assert.NotEmpty(t, first)
	ticks <- time.Now()
	second := <-calls
	ticks <- time.Now()
	<-calls
	assert.NotEqual(t, first, second)
	stop()
	assert.Equal(t, int64(3), s.Started())
}

func TestFailingCycleDoesNotStopScheduler(t *testing.T) {
	var n atomic.Int32
	var mu sync.Mutex
	var failures []error
	ran := make(chan struct{}, 10)
	ticks := make(chan time.Time)
	s := New(time.Hour, func(context.Context, string) error {
		defer func() { ran <- struct{}{} }()
		switch n.Add(1) {
		case 1:
			return errors.New("fetch failed")
		case 2:
			panic("nil map")
		}
		return nil
	}, WithTicks(ticks), WithErrorHandler(func(_ string, err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}))
	stop := startRun(t, s)
	<-ran
	ticks <- time.Now()
	<-ran
	ticks <- time.Now()
	<-ran
	stop()

	assert.Equal(t, int32(3), n.Load())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, failures, 2)
	msgs := []string{failures[0].Error(), failures[1].Error()}
	assert.Contains(t, msgs, "fetch failed")
	assert.Contains(t, msgs, "panic: nil map")
}

func TestAllowPolicyOverlaps(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 10)
	ticks := make(chan time.Time)
	s := New(time.Hour, func(context.Context, string) error {
		started <- struct{}{}
		<-release
		return nil
	}, WithTicks(ticks))
	stop := startRun(t, s)
	<-started
	ticks <- time.Now()
	<-started
	assert.Equal(t, 2, s.InFlight())
	close(release)
	stop()
	assert.Equal(t, 0, s.InFlight())
}

func TestSkipPolicyDropsTicksWhileBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 10)
	ticks := make(chan time.Time)
	s := New(time.Hour, func(context.Context, string) error {
		started <- struct{}{}
		<-release
		return nil
	}, WithTicks(ticks), WithPolicy(PolicySkip))
	stop := startRun(t, s)
	<-started
	for i := 0; i < 3; i++ {
		ticks <- time.Now()
	}
	assert.Eventually(t, func() bool { return s.Skipped() == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, int64(1), s.Started())
	close(release)
	stop()
}

func TestRealTickerInterval(t *testing.T) {
	var n atomic.Int32
	s := New(20*time.Millisecond, func(context.Context, string) error {
		n.Add(1)
		return nil
	})
	stop := startRun(t, s)
	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, 5*time.Millisecond)
	stop()
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAllow, p)
	p, err = ParsePolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)
	_, err = ParsePolicy("queue")
	assert.Error(t, err)
}

func TestDefaultInterval(t *testing.T) {
	s := New(0, func(context.Context, string) error { return nil })
	assert.Equal(t, DefaultInterval, s.interval)
}
