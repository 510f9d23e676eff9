//go:build !linux

package input

// Device is a stub for platforms without evdev
type Device struct{}

// Find is not supported on this platform
func Find(path, name string) (string, error) {
	return "", ErrUnsupportedPlatform
}

// OpenDevice is not supported on this platform
func OpenDevice(path string, axis Axis) (*Device, error) {
	return nil, ErrUnsupportedPlatform
}

// Name returns an empty name (stub)
func (d *Device) Name() string { return "" }

// Path returns an empty path (stub)
func (d *Device) Path() string { return "" }

// Grab is not supported on this platform
func (d *Device) Grab() error { return ErrUnsupportedPlatform }

// Next is not supported on this platform
func (d *Device) Next() (Sample, error) { return Sample{}, ErrUnsupportedPlatform }

// Close is a no-op (stub)
func (d *Device) Close() error { return nil }

// ListDevices is not supported on this platform
func ListDevices() ([]DeviceInfo, error) {
	return nil, ErrUnsupportedPlatform
}
