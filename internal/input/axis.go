package input

import (
	"fmt"
	"sort"
	"strings"
)

// Axis is a Linux absolute-axis code (ABS_*).
type Axis uint16

// Supported axes, values from linux/input-event-codes.h
const (
	AxisRX    Axis = 0x03
	AxisRY    Axis = 0x04
	AxisWheel Axis = 0x08
)

var axisNames = map[string]Axis{
	"ABS_RX":    AxisRX,
	"ABS_RY":    AxisRY,
	"ABS_WHEEL": AxisWheel,
}

// ParseAxis converts an axis name such as "ABS_WHEEL" to its code.
func ParseAxis(name string) (Axis, error) {
	a, ok := axisNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown axis: %s. Supported: %s", name, strings.Join(SupportedAxes(), ", "))
	}
	return a, nil
}

// SupportedAxes returns the accepted axis names, sorted.
func SupportedAxes() []string {
	names := make([]string, 0, len(axisNames))
	for n := range axisNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a Axis) String() string {
	for n, v := range axisNames {
		if v == a {
			return n
		}
	}
	return fmt.Sprintf("ABS_0x%02x", uint16(a))
}
