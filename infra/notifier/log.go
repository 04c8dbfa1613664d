package notifier

import (
	"context"

	"github.com/kilianp07/monwatch/core/notify"
	"github.com/kilianp07/monwatch/infra/logger"
)

// LogConfig selects the component name the log sink writes under.
type LogConfig struct {
	Component string `json:"component"`
}

// Log writes alerts to the structured logger. Useful on headless hosts.
type Log struct {
	log logger.Logger
}

// NewLog returns a log sink.
func NewLog(cfg LogConfig, log logger.Logger) *Log {
	if log == nil {
		name := cfg.Component
		if name == "" {
			name = "alerts"
		}
		log = logger.New(name)
	}
	return &Log{log: log}
}

// Send logs the alert at info level.
func (l *Log) Send(_ context.Context, a notify.Alert) error {
	l.log.Infof("%s: %s %s", a.Title, a.Message, a.OpenURL)
	l.log.Debugw("alert", map[string]any{
		"id":      a.ID,
		"item_id": a.ItemID,
		"mode":    a.Mode,
		"minutes": a.Minutes,
	})
	return nil
}
