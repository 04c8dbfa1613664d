package distancematrix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/monwatch/core/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := Config{APIKey: "AIza-test", BaseURL: srv.URL}
	cfg.SetDefaults()
	c, err := NewClient(cfg, nil)
	require.NoError(t, err)
	return c
}

func TestDurations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		assert.Equal(t, "bicycling", q.Get("mode"))
		assert.Equal(t, "23 Heddon St, London", q.Get("origins"))
		assert.Equal(t, "51.5,-0.1|51.6,-0.2|51.7,-0.3", q.Get("destinations"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"origin_addresses": ["23 Heddon St, London"],
			"destination_addresses": ["a", "b", "c"],
			"rows": [{"elements": [
				{"status": "OK", "duration": {"value": 300, "text": "5 mins"}, "distance": {"value": 1200, "text": "1.2 km"}},
				{"status": "ZERO_RESULTS"}
			]}]
		}`))
	})
	got, err := c.Durations(context.Background(), "23 Heddon St, London",
		[]string{"51.5,-0.1", "51.6,-0.2", "51.7,-0.3"}, model.ModeCycling)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Minute, model.Unreachable, model.Unreachable}, got)
}

func TestDurationsQueryFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key", "rows": []}`))
	})
	_, err := c.Durations(context.Background(), "origin", []string{"1,2"}, model.ModeTransit)
	assert.Error(t, err)
}

func TestTravelMode(t *testing.T) {
	for m, want := range map[model.Mode]string{
		model.ModeTransit: "transit",
		model.ModeWalking: "walking",
		model.ModeCycling: "bicycling",
	} {
		got, err := TravelMode(m)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
	_, err := TravelMode(model.Mode(9))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	assert.Error(t, cfg.Validate())
	cfg.APIKey = "k"
	assert.NoError(t, cfg.Validate())
}
