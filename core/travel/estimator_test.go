package travel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/monwatch/core/model"
)

type fakeMatrix struct {
	mu      sync.Mutex
	calls   map[model.Mode]int
	dests   [][]string
	results map[model.Mode][]time.Duration
	fail    map[model.Mode]error
	// barrier blocks every call until all modes have started.
	barrier *sync.WaitGroup
}

func (f *fakeMatrix) Durations(_ context.Context, origin string, destinations []string, mode model.Mode) ([]time.Duration, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[model.Mode]int{}
	}
	f.calls[mode]++
	f.dests = append(f.dests, destinations)
	f.mu.Unlock()
	if f.barrier != nil {
		f.barrier.Done()
		f.barrier.Wait()
	}
	if err := f.fail[mode]; err != nil {
		return nil, err
	}
	return f.results[mode], nil
}

var sightings = []model.Sighting{
	{ItemID: 1, Lat: 51.5, Lng: -0.1, Despawn: 1000},
	{ItemID: 2, Lat: 51.6, Lng: -0.2, Despawn: 2000},
}

func TestEstimateConcurrentOneQueryPerMode(t *testing.T) {
	var barrier sync.WaitGroup
	barrier.Add(len(model.Modes))
	fm := &fakeMatrix{
		barrier: &barrier,
		results: map[model.Mode][]time.Duration{
			model.ModeTransit: {5 * time.Minute, 7 * time.Minute},
			model.ModeWalking: {10 * time.Minute, model.Unreachable},
			model.ModeCycling: {3 * time.Minute},
		},
	}
	est, err := NewEstimator(fm, "23 Heddon St, London").Estimate(context.Background(), sightings)
	require.NoError(t, err)
	for _, m := range model.Modes {
		assert.Equal(t, 1, fm.calls[m], m.String())
	}
	for _, d := range fm.dests {
		assert.Equal(t, []string{"51.5,-0.1", "51.6,-0.2"}, d)
	}
	assert.Equal(t, 7*time.Minute, est.Duration(model.ModeTransit, 1))
	assert.Equal(t, model.Unreachable, est.Duration(model.ModeWalking, 1))
	// short result padded with unreachable
	assert.Len(t, est[model.ModeCycling], 2)
	assert.Equal(t, model.Unreachable, est.Duration(model.ModeCycling, 1))
}

func TestEstimateQueryFailure(t *testing.T) {
	base := errors.New("REQUEST_DENIED")
	fm := &fakeMatrix{fail: map[model.Mode]error{model.ModeWalking: base}}
	_, err := NewEstimator(fm, "origin").Estimate(context.Background(), sightings)
	require.Error(t, err)
	assert.True(t, model.IsCycle(err))
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "walking")
}

func TestEstimateNoSightings(t *testing.T) {
	fm := &fakeMatrix{}
	est, err := NewEstimator(fm, "origin").Estimate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, est)
	assert.Empty(t, fm.calls)
}

func TestAlign(t *testing.T) {
	assert.Equal(t, []time.Duration{1, 2}, align([]time.Duration{1, 2, 3}, 2))
	assert.Equal(t, []time.Duration{1, model.Unreachable}, align([]time.Duration{1}, 2))
}
