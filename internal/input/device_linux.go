//go:build linux

package input

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"
)

// Device is an opened evdev device filtered to one absolute axis.
type Device struct {
	dev  *evdev.InputDevice
	path string
	name string
	axis Axis

	mu      sync.Mutex
	grabbed bool
	closed  bool
}

// Find resolves the device to open. A path wins over a name; symlinks such
// as /dev/input/by-id/* are resolved to the event node.
func Find(path, name string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("device path not found: %s: %w", path, ErrDeviceNotFound)
		}
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		return resolved, nil
	}

	if name != "" {
		paths, err := evdev.ListDevicePaths()
		if err != nil {
			return "", fmt.Errorf("failed to list input devices: %w", err)
		}
		needle := strings.ToLower(name)
		for _, p := range paths {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				log.Printf("Input: Found device: %s at %s", p.Name, p.Path)
				return p.Path, nil
			}
		}
		return "", fmt.Errorf("no device found matching name %q: %w", name, ErrDeviceNotFound)
	}

	return "", ErrNoDeviceSelector
}

// OpenDevice opens the event node at path and filters it to axis.
func OpenDevice(path string, axis Axis) (*Device, error) {
	if err := unix.Access(path, unix.R_OK); err != nil {
		return nil, fmt.Errorf("cannot read %s (is the user in the 'input' group?): %w", path, err)
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	name, err := dev.Name()
	if err != nil {
		name = filepath.Base(path)
	}

	return &Device{
		dev:  dev,
		path: path,
		name: name,
		axis: axis,
	}, nil
}

// Name returns the device name reported by the kernel.
func (d *Device) Name() string {
	return d.name
}

// Path returns the event node path.
func (d *Device) Path() string {
	return d.path
}

// Grab takes exclusive access so the axis events do not reach other
// clients (e.g. the desktop scrolling on the same strip).
func (d *Device) Grab() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.dev.Grab(); err != nil {
		return fmt.Errorf("could not grab %s: %w", d.name, err)
	}
	d.grabbed = true
	return nil
}

// Next blocks until the next event on the tracked axis.
func (d *Device) Next() (Sample, error) {
	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			if d.isClosed() {
				return Sample{}, ErrClosed
			}
			return Sample{}, fmt.Errorf("read %s: %w", d.path, err)
		}
		if ev.Type != evdev.EV_ABS || uint16(ev.Code) != uint16(d.axis) {
			continue
		}
		return Sample{
			Time:  float64(ev.Time.Sec) + float64(ev.Time.Usec)/1e6,
			Value: ev.Value,
		}, nil
	}
}

// Close releases the grab and closes the device. It is safe to call more
// than once and from another goroutine to unblock Next.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.grabbed {
		if err := d.dev.Ungrab(); err != nil {
			errs = append(errs, fmt.Errorf("ungrab: %w", err))
		}
		d.grabbed = false
	}
	if err := d.dev.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close: %w", err))
	}
	return errors.Join(errs...)
}

func (d *Device) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// ListDevices returns every readable input device and the absolute axes
// it reports.
func ListDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to list input devices: %w", err)
	}

	infos := make([]DeviceInfo, 0, len(paths))
	for _, p := range paths {
		info := DeviceInfo{Path: p.Path, Name: p.Name}

		dev, err := evdev.Open(p.Path)
		if err == nil {
			for _, code := range dev.CapableEvents(evdev.EV_ABS) {
				name, ok := evdev.ABSToString[code]
				if !ok {
					name = Axis(code).String()
				}
				info.Axes = append(info.Axes, name)
			}
			dev.Close()
		}
		sort.Strings(info.Axes)
		infos = append(infos, info)
	}
	return infos, nil
}
