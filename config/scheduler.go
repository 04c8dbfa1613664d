package config

import (
	"errors"
	"time"

	"github.com/kilianp07/monwatch/core/scheduler"
)

// SchedulerConfig controls the polling cadence.
type SchedulerConfig struct {
	IntervalSeconds int `json:"interval_seconds"`
	// Overlap is "allow" or "skip".
	Overlap string `json:"overlap"`
}

// SetDefaults applies the one minute cadence.
func (c *SchedulerConfig) SetDefaults() {
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = int(scheduler.DefaultInterval / time.Second)
	}
	if c.Overlap == "" {
		c.Overlap = "allow"
	}
}

// Validate checks the interval and overlap policy.
func (c SchedulerConfig) Validate() error {
	if c.IntervalSeconds <= 0 {
		return errors.New("interval_seconds must be > 0")
	}
	_, err := scheduler.ParsePolicy(c.Overlap)
	return err
}

// Interval returns the cadence as a duration.
func (c SchedulerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
