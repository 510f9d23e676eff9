package gesture

import (
	"fmt"
	"math"
)

// Gesture is a classified directional motion.
type Gesture int

const (
	None Gesture = iota
	Up
	Down
)

// String returns the name used for the gesture in the config file.
func (g Gesture) String() string {
	switch g {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Hysteresis multipliers applied to the base velocity threshold when
// acceleration tracking is on.
const (
	DeceleratingMultiplier = 1.5
	AcceleratingMultiplier = 0.7
	NeutralMultiplier      = 1.0
)

// Decision is the outcome of one classification attempt along with the
// motion state it was based on. Velocity and Acceleration are always
// freshly computed; Acceleration is 0 whenever it did not take part.
type Decision struct {
	Gesture      Gesture
	Velocity     float64
	Acceleration float64
	Multiplier   float64
	Threshold    float64 // effective threshold after the multiplier
}

func (d Decision) String() string {
	return fmt.Sprintf("%s (v=%.1f, a=%.1f, threshold=%.2f)",
		d.Gesture, d.Velocity, d.Acceleration, d.Threshold)
}

// Classifier turns estimator output into gestures. It keeps no state of
// its own between calls.
type Classifier struct {
	buf       *Buffer
	est       *Estimator
	threshold float64
}

// NewClassifier creates a classifier with the given base velocity
// threshold in value units per second.
func NewClassifier(buf *Buffer, est *Estimator, threshold float64) *Classifier {
	return &Classifier{buf: buf, est: est, threshold: threshold}
}

// Threshold returns the base velocity threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Decide classifies the current buffer contents.
func (c *Classifier) Decide() Decision {
	d := Decision{Multiplier: NeutralMultiplier, Threshold: c.threshold}
	if c.buf.Len() < 2 {
		return d
	}

	d.Velocity = c.est.Velocity()
	speed := math.Abs(d.Velocity)
	if speed < c.threshold {
		return d
	}

	if c.est.AccelerationEnabled() {
		d.Acceleration = c.est.Acceleration()
		d.Multiplier = multiplier(d.Velocity, d.Acceleration)
	}

	d.Threshold = c.threshold * d.Multiplier
	if speed < d.Threshold {
		return d
	}

	if d.Velocity > 0 {
		d.Gesture = Up
	} else {
		d.Gesture = Down
	}
	return d
}

// multiplier raises the bar for a motion that is dying out and lowers it
// for one that is still speeding up. Zero acceleration is neutral.
func multiplier(velocity, accel float64) float64 {
	switch {
	case velocity > 0 && accel < 0, velocity < 0 && accel > 0:
		return DeceleratingMultiplier
	case velocity > 0 && accel > 0, velocity < 0 && accel < 0:
		return AcceleratingMultiplier
	default:
		return NeutralMultiplier
	}
}
