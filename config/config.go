package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/monwatch/core/metrics"
	"github.com/kilianp07/monwatch/infra/distancematrix"
	"github.com/kilianp07/monwatch/infra/feed"
)

// DefaultPath is read when no config file is given. It may be absent.
const DefaultPath = "monwatch.yaml"

// EnvPrefix marks environment overrides, e.g. MONWATCH_MAPS__API_KEY.
const EnvPrefix = "MONWATCH_"

type Config struct {
	// Tracked lists item names to watch when none are given on the command line.
	Tracked   []string              `json:"tracked"`
	Feed      feed.Config           `json:"feed"`
	Maps      distancematrix.Config `json:"maps"`
	Notify    NotifyConfig          `json:"notify"`
	Scheduler SchedulerConfig       `json:"scheduler"`
	Metrics   metrics.Config        `json:"metrics"`
	Logging   LoggingConfig         `json:"logging"`
}

// Load reads path (or DefaultPath when empty), applies environment
// overrides and returns the config with defaults applied. It does not
// validate; call Validate once command line overrides are merged.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := loadFile(k, path, explicit); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Feed.SetDefaults()
	c.Maps.SetDefaults()
	c.Notify.SetDefaults()
	c.Scheduler.SetDefaults()
	c.Metrics.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Feed.Validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	if err := c.Maps.Validate(); err != nil {
		return fmt.Errorf("maps: %w", err)
	}
	if err := c.Notify.Validate(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
