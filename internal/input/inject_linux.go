//go:build linux

package input

import (
	"fmt"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// DefaultInjectorName is the name of the virtual keyboard shown to the system.
const DefaultInjectorName = "absmap virtual keyboard"

// Injector is a uinput virtual keyboard.
type Injector struct {
	mu  sync.Mutex
	dev *evdev.InputDevice
}

// NewInjector creates a virtual keyboard able to emit the given key codes.
func NewInjector(name string, codes []uint16) (*Injector, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("virtual keyboard needs at least one key code")
	}

	keys := make([]evdev.EvCode, 0, len(codes))
	for _, c := range codes {
		keys = append(keys, evdev.EvCode(c))
	}

	dev, err := evdev.CreateDevice(name, evdev.InputID{
		BusType: 0x06, // BUS_VIRTUAL
		Vendor:  0x1,
		Product: 0x1,
		Version: 1,
	}, map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uinput device (is /dev/uinput writable?): %w", err)
	}
	return &Injector{dev: dev}, nil
}

// Press emits a key-down event.
func (i *Injector) Press(code uint16) error {
	return i.write(evdev.EV_KEY, evdev.EvCode(code), 1)
}

// Release emits a key-up event.
func (i *Injector) Release(code uint16) error {
	return i.write(evdev.EV_KEY, evdev.EvCode(code), 0)
}

// Sync emits a SYN_REPORT so the pending events are delivered.
func (i *Injector) Sync() error {
	return i.write(evdev.EV_SYN, evdev.SYN_REPORT, 0)
}

func (i *Injector) write(t evdev.EvType, code evdev.EvCode, value int32) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.dev == nil {
		return ErrClosed
	}
	return i.dev.WriteOne(&evdev.InputEvent{Type: t, Code: code, Value: value})
}

// Close destroys the virtual keyboard.
func (i *Injector) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.dev == nil {
		return nil
	}
	err := i.dev.Close()
	i.dev = nil
	return err
}
