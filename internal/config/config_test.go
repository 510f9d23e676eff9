package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
device:
  path: /dev/input/by-id/usb-strip-event-if00
axis: ABS_WHEEL
settings:
  velocity_threshold: 120.5
  acceleration: true
  cooldown: 450
  key_delay: 10
  history_size: 7
  grab: false
  command_timeout: 2500
gestures:
  up:
    action:
      keys: [KEY_LEFTCTRL, KEY_PAGEUP]
  down:
    action:
      command: "notify-send down"
`

func TestParseFullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())

	require.NotNil(t, cfg.Device)
	assert.Equal(t, "/dev/input/by-id/usb-strip-event-if00", cfg.Device.Path)
	assert.Equal(t, "ABS_WHEEL", cfg.Axis)

	s := cfg.Settings
	assert.Equal(t, 120.5, s.VelocityThreshold)
	assert.True(t, s.Acceleration)
	assert.Equal(t, 450*time.Millisecond, s.CooldownDuration())
	assert.Equal(t, 10*time.Millisecond, s.KeyDelayDuration())
	assert.Equal(t, 7, s.HistorySize)
	assert.False(t, s.Grab)
	assert.Equal(t, 2500*time.Millisecond, s.CommandTimeoutDuration())

	up := cfg.Gestures[GestureUp].Action
	require.NotNil(t, up.Keys)
	assert.Equal(t, KeyList{"KEY_LEFTCTRL", "KEY_PAGEUP"}, *up.Keys)
	assert.Nil(t, up.Command)

	down := cfg.Gestures[GestureDown].Action
	require.NotNil(t, down.Command)
	assert.Equal(t, "notify-send down", *down.Command)
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
device: {name: "touch strip"}
axis: ABS_RX
gestures:
  up:
    action: {keys: KEY_VOLUMEUP}
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, DefaultSettings(), cfg.Settings)
	assert.Equal(t, 3.0, cfg.Settings.VelocityThreshold)
	assert.Equal(t, 300, cfg.Settings.Cooldown)
	assert.Equal(t, 5, cfg.Settings.KeyDelay)
	assert.Equal(t, 5, cfg.Settings.HistorySize)
	assert.True(t, cfg.Settings.Grab)
	assert.False(t, cfg.Settings.Acceleration)
}

func TestParsePartialSettingsKeepsOtherDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
settings:
  cooldown: 50
`))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Settings.Cooldown)
	assert.Equal(t, 3.0, cfg.Settings.VelocityThreshold)
	assert.Equal(t, 5, cfg.Settings.HistorySize)
}

func TestKeyListForms(t *testing.T) {
	tests := []struct {
		doc  string
		want KeyList
	}{
		{`keys: KEY_A`, KeyList{"KEY_A"}},
		{`keys: 28`, KeyList{"28"}},
		{`keys: [ctrl+alt+t]`, KeyList{"ctrl+alt+t"}},
		{"keys:\n  - KEY_LEFTSHIFT\n  - 30", KeyList{"KEY_LEFTSHIFT", "30"}},
	}

	for _, tt := range tests {
		var a Action
		require.NoError(t, yamlUnmarshal(tt.doc, &a), tt.doc)
		require.NotNil(t, a.Keys, tt.doc)
		assert.Equal(t, tt.want, *a.Keys, tt.doc)
	}
}

func TestKeyListRejectsMapping(t *testing.T) {
	var a Action
	err := yamlUnmarshal("keys: {a: b}", &a)
	assert.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("axis: [unterminated"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestValidateMissingSections(t *testing.T) {
	cfg, err := Parse([]byte(`settings: {cooldown: 100}`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Missing 'device' section",
		"Missing 'axis' field",
		"Missing 'gestures' section",
	}, cfg.Validate())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg, err := Parse([]byte(`
device: {}
axis: ABS_THROTTLE
settings:
  velocity_threshold: 0
  history_size: 1
  cooldown: -1
  key_delay: -5
  command_timeout: 0
gestures:
  down: {}
  left:
    action: {keys: KEY_LEFT}
  up:
    action: {}
`))
	require.NoError(t, err)

	errs := cfg.Validate()
	assert.Contains(t, errs, "Device: specify either 'path' or 'name'")
	assert.Contains(t, errs, "Gesture 'down': missing 'action'")
	assert.Contains(t, errs, "Unknown gesture 'left' (expected 'up' or 'down')")
	assert.Contains(t, errs, "Action for gesture 'up': missing 'keys/command'")
	assert.Contains(t, errs, "Settings: 'velocity_threshold' must be positive, got 0")
	assert.Contains(t, errs, "Settings: 'history_size' must be at least 2, got 1")
	assert.Contains(t, errs, "Settings: 'cooldown' must not be negative, got -1")
	assert.Contains(t, errs, "Settings: 'key_delay' must not be negative, got -5")
	assert.Contains(t, errs, "Settings: 'command_timeout' must be positive, got 0")
	assert.Contains(t, errs, "Axis: unknown axis: ABS_THROTTLE. Supported: ABS_RX, ABS_RY, ABS_WHEEL")
}

func TestValidateActionShapes(t *testing.T) {
	cfg, err := Parse([]byte(`
device: {path: /dev/null}
axis: ABS_RY
gestures:
  up:
    action: {keys: []}
  down:
    action: {keys: KEY_A, command: "true"}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Action for gesture 'down': use either 'keys' or 'command', not both",
		"Action for gesture 'up': 'keys' is empty",
	}, cfg.Validate())
}

func TestValidateEmptyGesturesIsAllowed(t *testing.T) {
	cfg, err := Parse([]byte(`
device: {path: /dev/null}
axis: ABS_RY
gestures: {}
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())
}

func TestManagerLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0644))

	m, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path())

	require.NoError(t, m.Load())
	assert.Equal(t, "ABS_WHEEL", m.Get().Axis)
}

func TestManagerLoadMissingFile(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	err = m.Load()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, DefaultSettings(), m.Get().Settings)
}

func TestDefaultPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "absmap", "config.yaml"), p)

	m, err := NewManager("")
	require.NoError(t, err)
	assert.Equal(t, p, m.Path())
}
