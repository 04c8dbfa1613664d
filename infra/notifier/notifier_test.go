package notifier

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/monwatch/core/factory"
	"github.com/kilianp07/monwatch/core/notify"
)

type popup struct {
	title, message, icon string
	audible              bool
}

func stubPopups(t *testing.T, err error) *[]popup {
	t.Helper()
	var got []popup
	origNotify, origAlert := desktopNotify, desktopAlert
	desktopNotify = func(title, message, icon string) error {
		got = append(got, popup{title, message, icon, false})
		return err
	}
	desktopAlert = func(title, message, icon string) error {
		got = append(got, popup{title, message, icon, true})
		return err
	}
	t.Cleanup(func() { desktopNotify, desktopAlert = origNotify, origAlert })
	return &got
}

func sampleAlert() notify.Alert {
	return notify.Alert{
		Title:   "Dragonite",
		Message: "7 mins by transit",
		Icon:    "/icons/149.png",
		OpenURL: "http://maps.google.com/maps?q=51.5,-0.1&zoom=14",
	}
}

func TestDesktopSend(t *testing.T) {
	got := stubPopups(t, nil)
	d := NewDesktop(DesktopConfig{})
	require.NoError(t, d.Send(context.Background(), sampleAlert()))
	require.Len(t, *got, 1)
	p := (*got)[0]
	assert.Equal(t, "Dragonite", p.title)
	assert.Equal(t, "7 mins by transit\nhttp://maps.google.com/maps?q=51.5,-0.1&zoom=14", p.message)
	assert.Equal(t, "/icons/149.png", p.icon)
	assert.False(t, p.audible)
}

func TestDesktopSoundAndHideURL(t *testing.T) {
	got := stubPopups(t, nil)
	a := sampleAlert()
	a.Sound = true
	require.NoError(t, NewDesktop(DesktopConfig{HideURL: true}).Send(context.Background(), a))
	require.Len(t, *got, 1)
	assert.True(t, (*got)[0].audible)
	assert.Equal(t, "7 mins by transit", (*got)[0].message)
}

func TestDesktopError(t *testing.T) {
	stubPopups(t, errors.New("no dbus"))
	err := NewDesktop(DesktopConfig{}).Send(context.Background(), sampleAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dbus")
}

func TestDesktopCanceled(t *testing.T) {
	got := stubPopups(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewDesktop(DesktopConfig{}).Send(ctx, sampleAlert()))
	assert.Empty(t, *got)
}

type recLogger struct{ infos []string }

func (r *recLogger) Debugf(string, ...any)         {}
func (r *recLogger) Debugw(string, map[string]any) {}
func (r *recLogger) Infof(f string, a ...any)      { r.infos = append(r.infos, fmt.Sprintf(f, a...)) }
func (r *recLogger) Warnf(string, ...any)          {}
func (r *recLogger) Errorf(string, ...any)         {}

func TestLogSink(t *testing.T) {
	rl := &recLogger{}
	require.NoError(t, NewLog(LogConfig{}, rl).Send(context.Background(), sampleAlert()))
	require.Len(t, rl.infos, 1)
	assert.Contains(t, rl.infos[0], "Dragonite: 7 mins by transit")
}

type countingSink struct {
	calls  int
	err    error
	closed bool
}

func (c *countingSink) Send(context.Context, notify.Alert) error { c.calls++; return c.err }
func (c *countingSink) Close() error                             { c.closed = true; return nil }

func TestMultiDeliversToAll(t *testing.T) {
	a := &countingSink{err: errors.New("first down")}
	b := &countingSink{}
	m := NewMulti(a, b)
	err := m.Send(context.Background(), sampleAlert())
	require.Error(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)

	require.NoError(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestNewFromConfig(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	assert.IsType(t, &Desktop{}, s)

	s, err = New([]factory.ModuleConfig{{Type: "log"}})
	require.NoError(t, err)
	assert.IsType(t, &Log{}, s)

	s, err = New([]factory.ModuleConfig{
		{Type: "desktop", Conf: map[string]any{"hide_url": true}},
		{Type: "log", Conf: map[string]any{"component": "alerts"}},
	})
	require.NoError(t, err)
	m, ok := s.(*Multi)
	require.True(t, ok, "expected Multi, got %T", s)
	require.Len(t, m.Sinks, 2)
	assert.True(t, m.Sinks[0].(*Desktop).cfg.HideURL)
}

func TestNewErrors(t *testing.T) {
	_, err := New([]factory.ModuleConfig{{Type: "pager"}})
	assert.Error(t, err)

	// mqtt without a broker fails validation before dialing
	_, err = New([]factory.ModuleConfig{{Type: "log"}, {Type: "mqtt"}})
	assert.Error(t, err)
}

func TestRegisterCustomSink(t *testing.T) {
	c := &countingSink{}
	require.NoError(t, Register("counting-test", func(map[string]any) (notify.Sink, error) { return c, nil }))
	s, err := New([]factory.ModuleConfig{{Type: "counting-test"}})
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), sampleAlert()))
	assert.Equal(t, 1, c.calls)
}

type mockSink struct{ mock.Mock }

func (m *mockSink) Send(ctx context.Context, a notify.Alert) error {
	return m.Called(ctx, a).Error(0)
}

func TestMultiPassesAlertUnchanged(t *testing.T) {
	a := sampleAlert()
	first, second := &mockSink{}, &mockSink{}
	first.On("Send", mock.Anything, a).Return(nil).Once()
	second.On("Send", mock.Anything, a).Return(errors.New("broker gone")).Once()

	err := NewMulti(first, second).Send(context.Background(), a)
	assert.ErrorContains(t, err, "broker gone")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}
