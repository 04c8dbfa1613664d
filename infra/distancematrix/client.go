// Package distancematrix estimates travel durations with the Google Distance
// Matrix API.
package distancematrix

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"googlemaps.github.io/maps"

	"github.com/kilianp07/monwatch/core/logger"
	"github.com/kilianp07/monwatch/core/model"
)

// Config holds the Distance Matrix credentials and transport settings.
type Config struct {
	APIKey         string `json:"api_key"`
	Origin         string `json:"origin"`
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// RequestsPerSecond caps outgoing queries. Zero keeps the library default.
	RequestsPerSecond int `json:"requests_per_second"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.Origin == "" {
		c.Origin = "23 Heddon St, London"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("maps api_key is required")
	}
	if c.Origin == "" {
		return errors.New("maps origin is required")
	}
	if c.TimeoutSeconds < 0 || c.RequestsPerSecond < 0 {
		return errors.New("maps timeout_seconds and requests_per_second must be >= 0")
	}
	return nil
}

// Client implements travel.MatrixClient.
type Client struct {
	maps *maps.Client
	log  logger.Logger
}

// NewClient creates a Distance Matrix client.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, maps.WithRateLimit(cfg.RequestsPerSecond))
	}
	mc, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &Client{maps: mc, log: logger.OrNop(log)}, nil
}

// TravelMode maps a model.Mode to the API's mode name.
func TravelMode(m model.Mode) (maps.Mode, error) {
	switch m {
	case model.ModeTransit:
		return maps.TravelModeTransit, nil
	case model.ModeWalking:
		return maps.TravelModeWalking, nil
	case model.ModeCycling:
		return maps.TravelModeBicycling, nil
	default:
		return "", fmt.Errorf("unsupported mode %d", m)
	}
}

// Durations returns one duration per destination. Destinations without an
// OK element are model.Unreachable.
func (c *Client) Durations(ctx context.Context, origin string, destinations []string, mode model.Mode) ([]time.Duration, error) {
	tm, err := TravelMode(mode)
	if err != nil {
		return nil, err
	}
	resp, err := c.maps.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: destinations,
		Mode:         tm,
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix %s: %w", tm, err)
	}
	if len(resp.Rows) == 0 {
		return nil, fmt.Errorf("distance matrix %s: no rows for origin %q", tm, origin)
	}
	// one origin, so one row
	elems := resp.Rows[0].Elements
	out := make([]time.Duration, len(destinations))
	for i := range out {
		out[i] = model.Unreachable
		if i >= len(elems) || elems[i] == nil {
			continue
		}
		if elems[i].Status != "OK" {
			c.log.Debugf("%s to %s: %s", tm, destinations[i], elems[i].Status)
			continue
		}
		out[i] = elems[i].Duration
	}
	return out, nil
}
