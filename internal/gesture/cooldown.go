package gesture

import "time"

// CooldownGate enforces a minimum interval between dispatched gestures.
type CooldownGate struct {
	interval time.Duration
	last     time.Time
	primed   bool
}

// NewCooldownGate creates a gate with the given minimum interval.
func NewCooldownGate(interval time.Duration) *CooldownGate {
	return &CooldownGate{interval: interval}
}

// Allowed reports whether a gesture may be dispatched at now. The first
// gesture is always allowed.
func (g *CooldownGate) Allowed(now time.Time) bool {
	if !g.primed {
		return true
	}
	return now.Sub(g.last) >= g.interval
}

// Mark records a dispatched gesture at now.
func (g *CooldownGate) Mark(now time.Time) {
	g.last = now
	g.primed = true
}

// Interval returns the configured cooldown.
func (g *CooldownGate) Interval() time.Duration {
	return g.interval
}
