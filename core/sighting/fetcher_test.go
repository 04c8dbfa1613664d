package sighting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/monwatch/core/model"
)

type stubSource struct {
	found []model.Sighting
	err   error
	calls int
	ids   []int
}

func (s *stubSource) Sightings(_ context.Context, ids []int) ([]model.Sighting, error) {
	s.calls++
	s.ids = ids
	return s.found, s.err
}

func TestFetchFiltersUntracked(t *testing.T) {
	src := &stubSource{found: []model.Sighting{
		{ItemID: 149, Lat: 51.5, Lng: -0.1, Despawn: 100},
		{ItemID: 16, Lat: 51.6, Lng: -0.2, Despawn: 200},
		{ItemID: 1, Lat: 51.7, Lng: -0.3, Despawn: 300},
	}}
	f := NewFetcher(src)
	got, err := f.Fetch(context.Background(), model.NewTrackedIDs(149, 1))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 149}, src.ids)
	require.Len(t, got, 2)
	assert.Equal(t, 149, got[0].ItemID)
	assert.Equal(t, 1, got[1].ItemID)
}

func TestFetchEmptyTrackedSet(t *testing.T) {
	src := &stubSource{}
	got, err := NewFetcher(src).Fetch(context.Background(), model.NewTrackedIDs())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, src.calls)
}

func TestFetchNoneActive(t *testing.T) {
	got, err := NewFetcher(&stubSource{}).Fetch(context.Background(), model.NewTrackedIDs(5))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchErrorIsCycleError(t *testing.T) {
	base := errors.New("timeout")
	_, err := NewFetcher(&stubSource{err: base}).Fetch(context.Background(), model.NewTrackedIDs(5))
	require.Error(t, err)
	assert.True(t, model.IsCycle(err))
	assert.ErrorIs(t, err, base)
}
