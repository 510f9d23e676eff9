// Package config provides configuration loading and validation for absmap.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"absmap/internal/input"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the config file does not exist
	ErrNotFound = errors.New("config file not found")

	// ErrParse is returned when the config file is not valid YAML
	ErrParse = errors.New("config parse error")
)

// Config represents the application configuration
type Config struct {
	// Device selects the input device to listen to
	Device *DeviceConfig `yaml:"device"`

	// Axis is the absolute axis to track (e.g. "ABS_WHEEL")
	Axis string `yaml:"axis"`

	// Settings contains detection and dispatch tuning
	Settings Settings `yaml:"settings"`

	// Gestures maps a gesture name ("up", "down") to its action
	Gestures map[string]*Gesture `yaml:"gestures"`
}

// DeviceConfig identifies the input device by path or by name
type DeviceConfig struct {
	// Path is the event node or a stable link (e.g. "/dev/input/by-id/...")
	Path string `yaml:"path,omitempty"`

	// Name is a case-insensitive substring of the device name
	Name string `yaml:"name,omitempty"`
}

// Settings contains detection and dispatch tuning
type Settings struct {
	// VelocityThreshold is the minimum speed in axis units per second
	VelocityThreshold float64 `yaml:"velocity_threshold"`

	// Acceleration enables the acceleration-dependent threshold multiplier
	Acceleration bool `yaml:"acceleration"`

	// Cooldown is the minimum time between gestures in milliseconds
	Cooldown int `yaml:"cooldown"`

	// KeyDelay is the time keys are held down in milliseconds
	KeyDelay int `yaml:"key_delay"`

	// HistorySize is the number of samples velocity is averaged over
	HistorySize int `yaml:"history_size"`

	// Grab takes exclusive access to the device
	Grab bool `yaml:"grab"`

	// CommandTimeout bounds how long a command action may run, in milliseconds
	CommandTimeout int `yaml:"command_timeout"`
}

// Gesture holds the configuration of one gesture
type Gesture struct {
	Action *Action `yaml:"action"`
}

// Action is either a key sequence or a shell command
type Action struct {
	Keys    *KeyList `yaml:"keys,omitempty"`
	Command *string  `yaml:"command,omitempty"`
}

// KeyList is a list of key identifiers. In YAML it may be written as a
// sequence or as a single scalar.
type KeyList []string

// UnmarshalYAML accepts `keys: KEY_A`, `keys: 28` and `keys: [KEY_A, 28]`.
func (k *KeyList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*k = KeyList{value.Value}
		return nil
	case yaml.SequenceNode:
		list := make(KeyList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: key must be a name or a code", item.Line)
			}
			list = append(list, item.Value)
		}
		*k = list
		return nil
	default:
		return fmt.Errorf("line %d: keys must be a key or a list of keys", value.Line)
	}
}

// Gesture names understood by the engine
const (
	GestureUp   = "up"
	GestureDown = "down"
)

// DefaultSettings returns the settings used for keys absent from the file
func DefaultSettings() Settings {
	return Settings{
		VelocityThreshold: 3.0,
		Acceleration:      false,
		Cooldown:          300,
		KeyDelay:          5,
		HistorySize:       5,
		Grab:              true,
		CommandTimeout:    1000,
	}
}

// DefaultConfig returns a new Config with default settings and nothing else
func DefaultConfig() *Config {
	return &Config{
		Settings: DefaultSettings(),
	}
}

// CooldownDuration returns the cooldown as a duration
func (s Settings) CooldownDuration() time.Duration {
	return time.Duration(s.Cooldown) * time.Millisecond
}

// KeyDelayDuration returns the key delay as a duration
func (s Settings) KeyDelayDuration() time.Duration {
	return time.Duration(s.KeyDelay) * time.Millisecond
}

// CommandTimeoutDuration returns the command timeout as a duration
func (s Settings) CommandTimeoutDuration() time.Duration {
	return time.Duration(s.CommandTimeout) * time.Millisecond
}

// Parse decodes a YAML document on top of the defaults
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return cfg, nil
}

// Validate returns every problem found, as human-readable messages
func (c *Config) Validate() []string {
	var errs []string

	if c.Device == nil {
		errs = append(errs, "Missing 'device' section")
	}
	if c.Axis == "" {
		errs = append(errs, "Missing 'axis' field")
	}
	if c.Gestures == nil {
		errs = append(errs, "Missing 'gestures' section")
	}
	if len(errs) > 0 {
		return errs
	}

	if c.Device.Path == "" && c.Device.Name == "" {
		errs = append(errs, "Device: specify either 'path' or 'name'")
	}

	if _, err := input.ParseAxis(c.Axis); err != nil {
		errs = append(errs, "Axis: "+err.Error())
	}

	names := make([]string, 0, len(c.Gestures))
	for name := range c.Gestures {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name != GestureUp && name != GestureDown {
			errs = append(errs, fmt.Sprintf("Unknown gesture '%s' (expected '%s' or '%s')", name, GestureUp, GestureDown))
			continue
		}
		errs = append(errs, validateGesture(name, c.Gestures[name])...)
	}

	s := c.Settings
	if s.VelocityThreshold <= 0 {
		errs = append(errs, fmt.Sprintf("Settings: 'velocity_threshold' must be positive, got %v", s.VelocityThreshold))
	}
	if s.HistorySize < 2 {
		errs = append(errs, fmt.Sprintf("Settings: 'history_size' must be at least 2, got %d", s.HistorySize))
	}
	if s.Cooldown < 0 {
		errs = append(errs, fmt.Sprintf("Settings: 'cooldown' must not be negative, got %d", s.Cooldown))
	}
	if s.KeyDelay < 0 {
		errs = append(errs, fmt.Sprintf("Settings: 'key_delay' must not be negative, got %d", s.KeyDelay))
	}
	if s.CommandTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("Settings: 'command_timeout' must be positive, got %d", s.CommandTimeout))
	}

	return errs
}

func validateGesture(name string, g *Gesture) []string {
	if g == nil || g.Action == nil {
		return []string{fmt.Sprintf("Gesture '%s': missing 'action'", name)}
	}

	a := g.Action
	switch {
	case a.Keys == nil && a.Command == nil:
		return []string{fmt.Sprintf("Action for gesture '%s': missing 'keys/command'", name)}
	case a.Keys != nil && a.Command != nil:
		return []string{fmt.Sprintf("Action for gesture '%s': use either 'keys' or 'command', not both", name)}
	case a.Keys != nil && len(*a.Keys) == 0:
		return []string{fmt.Sprintf("Action for gesture '%s': 'keys' is empty", name)}
	case a.Command != nil && strings.TrimSpace(*a.Command) == "":
		return []string{fmt.Sprintf("Action for gesture '%s': 'command' is empty", name)}
	}
	return nil
}

// Manager handles locating and loading the configuration file
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
}

// NewManager creates a configuration manager for path. An empty path
// selects the default location.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/absmap/config.yaml, falling back
// to ~/.config/absmap/config.yaml
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "absmap", "config.yaml"), nil
}

// Path returns the configuration file path
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk. It does not validate it.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, m.configPath)
	}
	if err != nil {
		return err
	}

	cfg, err := Parse(data)
	if err != nil {
		return err
	}

	log.Printf("Config: Loaded %s (%d bytes)", m.configPath, len(data))
	m.config = cfg
	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}
