// Package keys resolves configured key identifiers to Linux key codes.
package keys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code is a Linux key code (KEY_*).
type Code uint16

// maxCode is KEY_MAX from linux/input-event-codes.h
const maxCode = 0x2ff

// ErrUnknownKey is returned for identifiers that match no key.
var ErrUnknownKey = errors.New("unknown key")

// aliases maps the short names people write in configs to KEY_* names.
var aliases = map[string]string{
	"CTRL":    "KEY_LEFTCTRL",
	"CONTROL": "KEY_LEFTCTRL",
	"ALT":     "KEY_LEFTALT",
	"ALTGR":   "KEY_RIGHTALT",
	"SHIFT":   "KEY_LEFTSHIFT",
	"SUPER":   "KEY_LEFTMETA",
	"META":    "KEY_LEFTMETA",
	"WIN":     "KEY_LEFTMETA",
	"CMD":     "KEY_LEFTMETA",
	"ESC":     "KEY_ESC",
	"RETURN":  "KEY_ENTER",
	"DEL":     "KEY_DELETE",
	"INS":     "KEY_INSERT",
	"PGUP":    "KEY_PAGEUP",
	"PGDN":    "KEY_PAGEDOWN",
}

// Lookup resolves a single key: a numeric code ("28"), a KEY_ constant
// ("KEY_ENTER") or a name without the prefix ("enter", "ctrl").
func Lookup(name string) (Code, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownKey)
	}

	if n, err := strconv.Atoi(key); err == nil {
		if n < 0 || n > maxCode {
			return 0, fmt.Errorf("%w: code %d out of range", ErrUnknownKey, n)
		}
		return Code(n), nil
	}

	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if !strings.HasPrefix(key, "KEY_") {
		key = "KEY_" + key
	}

	code, ok := lookupName(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return code, nil
}

// Parse resolves one configured entry, which may be a chord such as
// "Ctrl+Alt+T".
func Parse(entry string) ([]Code, error) {
	parts := []string{entry}
	if len(strings.TrimSpace(entry)) > 1 && strings.Contains(entry, "+") {
		parts = strings.Split(entry, "+")
	}

	codes := make([]Code, 0, len(parts))
	for _, p := range parts {
		c, err := Lookup(p)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, nil
}

// Resolve resolves a whole key sequence, keeping the configured order.
func Resolve(entries []string) ([]Code, error) {
	var codes []Code
	for _, e := range entries {
		c, err := Parse(e)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c...)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: no keys given", ErrUnknownKey)
	}
	return codes, nil
}

// String returns the KEY_* name for a code, or its number when unknown.
func (c Code) String() string {
	if name, ok := codeName(c); ok {
		return name
	}
	return strconv.Itoa(int(c))
}
