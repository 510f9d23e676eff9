// Package action turns a gesture's configured action into key presses or
// a shell command.
package action

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"absmap/internal/config"
	"absmap/internal/gesture"
	"absmap/internal/keys"
)

// Kind tags which variant an Action holds
type Kind int

const (
	KindKeys Kind = iota + 1
	KindCommand
)

// Action is a resolved gesture action: a key chord or a shell command.
type Action struct {
	Kind    Kind
	Keys    []keys.Code
	Command string
}

// Keys builds a key action.
func Keys(codes ...keys.Code) Action {
	return Action{Kind: KindKeys, Keys: codes}
}

// Command builds a command action.
func Command(cmd string) Action {
	return Action{Kind: KindCommand, Command: cmd}
}

func (a Action) String() string {
	switch a.Kind {
	case KindKeys:
		names := make([]string, len(a.Keys))
		for i, k := range a.Keys {
			names[i] = k.String()
		}
		return "keys " + strings.Join(names, "+")
	case KindCommand:
		return fmt.Sprintf("command %q", a.Command)
	default:
		return "invalid action"
	}
}

// Sink executes actions. Implementations report failures as errors and
// must not panic.
type Sink interface {
	Dispatch(a Action, keyDelay time.Duration) error
}

// Bindings maps gestures to their actions. Gestures without an entry are
// unbound.
type Bindings map[gesture.Gesture]Action

// FromConfig resolves the configured gesture actions. Key names are looked
// up here, once, so a typo fails at startup rather than on first use. The
// config is expected to have passed Validate.
func FromConfig(cfg *config.Config) (Bindings, []string) {
	b := make(Bindings)
	var errs []string

	for name, g := range cfg.Gestures {
		var gest gesture.Gesture
		switch name {
		case config.GestureUp:
			gest = gesture.Up
		case config.GestureDown:
			gest = gesture.Down
		default:
			errs = append(errs, fmt.Sprintf("Unknown gesture '%s'", name))
			continue
		}
		if g == nil || g.Action == nil {
			errs = append(errs, fmt.Sprintf("Gesture '%s': missing 'action'", name))
			continue
		}

		switch {
		case g.Action.Keys != nil:
			codes, err := keys.Resolve(*g.Action.Keys)
			if err != nil {
				errs = append(errs, fmt.Sprintf("Action for gesture '%s': %v", name, err))
				continue
			}
			b[gest] = Keys(codes...)
		case g.Action.Command != nil:
			b[gest] = Command(*g.Action.Command)
		default:
			errs = append(errs, fmt.Sprintf("Action for gesture '%s': missing 'keys/command'", name))
		}
	}

	sort.Strings(errs)
	return b, errs
}

// KeyCodes returns every distinct key code used by key actions, sorted.
func (b Bindings) KeyCodes() []uint16 {
	seen := make(map[uint16]bool)
	var codes []uint16
	for _, a := range b {
		if a.Kind != KindKeys {
			continue
		}
		for _, k := range a.Keys {
			if !seen[uint16(k)] {
				seen[uint16(k)] = true
				codes = append(codes, uint16(k))
			}
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
