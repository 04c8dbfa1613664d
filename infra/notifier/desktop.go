package notifier

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/kilianp07/monwatch/core/notify"
)

// DesktopConfig tunes the desktop sink.
type DesktopConfig struct {
	// HideURL drops the map link from the notification body.
	HideURL bool `json:"hide_url"`
}

type popupFunc func(title, message, icon string) error

var (
	desktopNotify popupFunc = func(title, message, icon string) error { return beeep.Notify(title, message, icon) }
	desktopAlert  popupFunc = func(title, message, icon string) error { return beeep.Alert(title, message, icon) }
)

// Desktop shows alerts as native desktop notifications.
type Desktop struct {
	cfg DesktopConfig
}

// NewDesktop returns a desktop sink.
func NewDesktop(cfg DesktopConfig) *Desktop { return &Desktop{cfg: cfg} }

// Send pops up the alert. Alerts with Sound use the audible variant. Wait is
// not supported by desktop notifications and is ignored here.
func (d *Desktop) Send(ctx context.Context, a notify.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := a.Message
	if !d.cfg.HideURL && a.OpenURL != "" {
		body += "\n" + a.OpenURL
	}
	show := desktopNotify
	if a.Sound {
		show = desktopAlert
	}
	if err := show(a.Title, body, a.Icon); err != nil {
		return fmt.Errorf("desktop notify: %w", err)
	}
	return nil
}
