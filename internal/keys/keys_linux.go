//go:build linux

package keys

import evdev "github.com/holoplot/go-evdev"

func lookupName(name string) (Code, bool) {
	c, ok := evdev.KEYFromString[name]
	return Code(c), ok
}

func codeName(c Code) (string, bool) {
	name, ok := evdev.KEYToString[evdev.EvCode(c)]
	return name, ok
}
