//go:build !linux

package input

// DefaultInjectorName is the name of the virtual keyboard shown to the system.
const DefaultInjectorName = "absmap virtual keyboard"

// Injector represents a stub key injector
type Injector struct{}

// NewInjector is not supported on this platform
func NewInjector(name string, codes []uint16) (*Injector, error) {
	return nil, ErrUnsupportedPlatform
}

// Press injects a key press (stub)
func (i *Injector) Press(code uint16) error { return ErrUnsupportedPlatform }

// Release injects a key release (stub)
func (i *Injector) Release(code uint16) error { return ErrUnsupportedPlatform }

// Sync flushes pending events (stub)
func (i *Injector) Sync() error { return ErrUnsupportedPlatform }

// Close is a no-op (stub)
func (i *Injector) Close() error { return nil }
