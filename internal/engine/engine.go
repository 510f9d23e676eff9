// Package engine drives gesture detection from a sample stream and hands
// recognised gestures to an action sink.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync/atomic"
	"time"

	"absmap/internal/action"
	"absmap/internal/gesture"
	"absmap/internal/input"
)

// Options configures a Loop
type Options struct {
	VelocityThreshold float64
	Acceleration      bool
	HistorySize       int
	Cooldown          time.Duration
	KeyDelay          time.Duration

	// Debug logs every recognised gesture with the motion that produced it
	Debug bool

	// Now is the clock used for the cooldown; defaults to time.Now
	Now func() time.Time
}

// Stats counts what the loop has seen since it started
type Stats struct {
	Samples      uint64
	Detected     uint64 // gestures recognised by the classifier
	Dispatched   uint64
	Suppressed   uint64 // dropped by the cooldown
	Unbound      uint64 // recognised but no action configured
	ActionErrors uint64
	Paused       uint64 // dropped while paused
}

// Loop owns the per-axis detection state. It is not safe for concurrent
// use except for SetPaused, Paused and Stats.
type Loop struct {
	buf        *gesture.Buffer
	classifier *gesture.Classifier
	gate       *gesture.CooldownGate
	bindings   action.Bindings
	sink       action.Sink
	keyDelay   time.Duration
	debug      bool
	now        func() time.Time

	paused atomic.Bool
	stats  struct {
		samples, detected, dispatched, suppressed, unbound, actionErrors, paused atomic.Uint64
	}
}

// New creates a loop dispatching bound gestures to sink.
func New(opts Options, bindings action.Bindings, sink action.Sink) *Loop {
	buf := gesture.NewBuffer(opts.HistorySize)
	est := gesture.NewEstimator(buf, opts.Acceleration)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Loop{
		buf:        buf,
		classifier: gesture.NewClassifier(buf, est, opts.VelocityThreshold),
		gate:       gesture.NewCooldownGate(opts.Cooldown),
		bindings:   bindings,
		sink:       sink,
		keyDelay:   opts.KeyDelay,
		debug:      opts.Debug,
		now:        now,
	}
}

// Run processes samples from src until it fails. A read error after ctx is
// done is treated as a normal shutdown and Run returns nil.
func (l *Loop) Run(ctx context.Context, src input.SampleSource) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Engine: panic in dispatch loop: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("dispatch loop panic: %v", r)
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		s, err := src.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, input.ErrClosed) {
				return nil
			}
			return fmt.Errorf("reading samples: %w", err)
		}

		l.Process(s)
	}
}

// Process feeds one sample through detection and dispatch. It returns the
// gesture that was dispatched, or gesture.None.
func (l *Loop) Process(s input.Sample) gesture.Gesture {
	l.stats.samples.Add(1)
	l.buf.Add(s.Time, s.Value)

	d := l.classifier.Decide()
	if d.Gesture == gesture.None {
		return gesture.None
	}
	l.stats.detected.Add(1)
	if l.debug {
		log.Printf("Engine: Gesture: %s", d)
	}

	if l.paused.Load() {
		l.stats.paused.Add(1)
		return gesture.None
	}

	now := l.now()
	if !l.gate.Allowed(now) {
		// keep the buffer: the motion may still qualify once the cooldown lapses
		l.stats.suppressed.Add(1)
		return gesture.None
	}

	a, ok := l.bindings[d.Gesture]
	if !ok {
		l.stats.unbound.Add(1)
		return gesture.None
	}

	l.gate.Mark(now)
	if err := l.sink.Dispatch(a, l.keyDelay); err != nil {
		l.stats.actionErrors.Add(1)
		log.Printf("Engine: %s action failed: %v", d.Gesture, err)
	}
	l.stats.dispatched.Add(1)

	// the next gesture needs fresh evidence, not leftover momentum
	l.buf.Clear()
	return d.Gesture
}

// SetPaused stops (or resumes) dispatching. Samples are still buffered
// while paused.
func (l *Loop) SetPaused(p bool) {
	l.paused.Store(p)
}

// Paused reports whether dispatch is paused
func (l *Loop) Paused() bool {
	return l.paused.Load()
}

// Stats returns a snapshot of the counters
func (l *Loop) Stats() Stats {
	return Stats{
		Samples:      l.stats.samples.Load(),
		Detected:     l.stats.detected.Load(),
		Dispatched:   l.stats.dispatched.Load(),
		Suppressed:   l.stats.suppressed.Load(),
		Unbound:      l.stats.unbound.Load(),
		ActionErrors: l.stats.actionErrors.Load(),
		Paused:       l.stats.paused.Load(),
	}
}

// BufferLen returns the number of buffered samples
func (l *Loop) BufferLen() int {
	return l.buf.Len()
}
