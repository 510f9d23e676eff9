// Package autostart installs absmap as a systemd user service.
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// UnitName is the systemd user unit file name
const UnitName = "absmap.service"

const unitTemplate = `[Unit]
Description=absmap gesture daemon
After=graphical-session.target

[Service]
Type=simple
ExecStart={{.ExecutablePath}} {{.ConfigPath}}
Restart=on-failure
RestartSec=2

[Install]
WantedBy=default.target
`

// Unit describes what the service runs
type Unit struct {
	ExecutablePath string
	ConfigPath     string
}

// UnitPath returns the location of the user unit file
func UnitPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "systemd", "user", UnitName), nil
}

// Enable writes the unit for the running executable and configPath.
// Run `systemctl --user enable --now absmap` afterwards to start it.
func Enable(configPath string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	return write(Unit{ExecutablePath: execPath, ConfigPath: absConfig})
}

func write(u Unit) error {
	unitPath, err := UnitPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(unitPath), 0755); err != nil {
		return err
	}

	tmpl, err := template.New("unit").Parse(unitTemplate)
	if err != nil {
		return err
	}

	f, err := os.Create(unitPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, u)
}

// Disable removes the unit file
func Disable() error {
	unitPath, err := UnitPath()
	if err != nil {
		return err
	}
	if err := os.Remove(unitPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// IsEnabled checks if the unit file exists
func IsEnabled() bool {
	unitPath, err := UnitPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(unitPath)
	return err == nil
}
