// Package input reads absolute-axis samples from Linux input devices and
// emits synthetic key events through uinput.
package input

// Sample is one reading of the tracked axis.
type Sample struct {
	Time  float64 // seconds, from the kernel event timestamp
	Value int32
}

// SampleSource delivers axis samples, blocking until one is available.
type SampleSource interface {
	Next() (Sample, error)
}

// KeyEmitter defines the interface for injecting key events
type KeyEmitter interface {
	Press(code uint16) error
	Release(code uint16) error
	Sync() error
}

// DeviceInfo describes an input device found on the system
type DeviceInfo struct {
	Path string
	Name string
	Axes []string // absolute axes the device reports
}
