// Package feed is the HTTP client for the sightings map: the item list used
// to build the catalog and the query endpoint listing active sightings.
//
// Both endpoints are only served to requests that look like the map's own
// AJAX calls, so every request carries a referer, a browser user agent and
// an X-Requested-With header.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/kilianp07/monwatch/core/logger"
	"github.com/kilianp07/monwatch/core/model"
)

const (
	DefaultBaseURL   = "https://londonpogomap.com"
	DefaultVersion   = "ver8"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_12_2) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/55.0.2883.95 Safari/537.36"
)

// Config defines how to reach the feed.
type Config struct {
	BaseURL        string  `json:"base_url"`
	ItemListPath   string  `json:"item_list_path"`
	QueryPath      string  `json:"query_path"`
	Version        string  `json:"version"`
	UserAgent      string  `json:"user_agent"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	RatePerSecond  float64 `json:"rate_per_second"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ItemListPath == "" {
		c.ItemListPath = "/json/pokemon_list.json"
	}
	if c.QueryPath == "" {
		c.QueryPath = "/query2.php"
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
	if c.RatePerSecond == 0 {
		c.RatePerSecond = 1
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("feed base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("feed timeout_seconds must be >= 0")
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("feed rate_per_second must be >= 0")
	}
	return nil
}

// Client talks to the feed endpoints.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// NewClient creates a feed Client. cfg must have its defaults applied.
func NewClient(cfg Config, log logger.Logger) *Client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		log:     logger.OrNop(log),
	}
}

type itemRecord struct {
	ID   flexInt `json:"id"`
	Name string  `json:"name"`
}

// Items returns the catalog of known item types.
func (c *Client) Items(ctx context.Context) ([]model.CatalogEntry, error) {
	u := strings.TrimSuffix(c.cfg.BaseURL, "/") + c.cfg.ItemListPath
	if c.cfg.Version != "" {
		u += "?" + c.cfg.Version
	}
	var records []itemRecord
	if err := c.get(ctx, u, &records); err != nil {
		return nil, err
	}
	out := make([]model.CatalogEntry, 0, len(records))
	for _, r := range records {
		out = append(out, model.CatalogEntry{ID: int(r.ID), Name: r.Name})
	}
	c.log.Debugf("loaded %d catalog entries", len(out))
	return out, nil
}

type queryResponse struct {
	Pokemons []struct {
		PokemonID flexInt   `json:"pokemon_id"`
		Lat       flexFloat `json:"lat"`
		Lng       flexFloat `json:"lng"`
		Despawn   flexInt   `json:"despawn"`
	} `json:"pokemons"`
}

// Sightings returns the active sightings for ids.
func (c *Client) Sightings(ctx context.Context, ids []int) ([]model.Sighting, error) {
	mons := make([]string, len(ids))
	for i, id := range ids {
		mons[i] = strconv.Itoa(id)
	}
	params := url.Values{}
	params.Set("since", "0")
	params.Set("mons", strings.Join(mons, ","))
	u := strings.TrimSuffix(c.cfg.BaseURL, "/") + c.cfg.QueryPath + "?" + params.Encode()

	var resp queryResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Sighting, 0, len(resp.Pokemons))
	for _, p := range resp.Pokemons {
		out = append(out, model.Sighting{
			ItemID:  int(p.PokemonID),
			Lat:     float64(p.Lat),
			Lng:     float64(p.Lng),
			Despawn: int64(p.Despawn),
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Referer", strings.TrimSuffix(c.cfg.BaseURL, "/")+"/")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed %s returned %d: %s", req.URL.Path, resp.StatusCode, truncate(body, 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
