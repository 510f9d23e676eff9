package input

import "errors"

var (
	// ErrUnsupportedPlatform is returned when running on a system without evdev/uinput
	ErrUnsupportedPlatform = errors.New("input devices are only supported on Linux")

	// ErrDeviceNotFound is returned when no device matches the configured path or name
	ErrDeviceNotFound = errors.New("device not found")

	// ErrNoDeviceSelector is returned when neither a path nor a name is given
	ErrNoDeviceSelector = errors.New("config must specify either 'device.path' or 'device.name'")

	// ErrClosed is returned by Next after the device has been closed
	ErrClosed = errors.New("device closed")
)
