package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"absmap/internal/action"
	"absmap/internal/gesture"
	"absmap/internal/input"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatch struct {
	action   action.Action
	keyDelay time.Duration
}

type fakeSink struct {
	calls []dispatch
	err   error
	explode bool
}

func (f *fakeSink) Dispatch(a action.Action, keyDelay time.Duration) error {
	if f.explode {
		panic("sink exploded")
	}
	f.calls = append(f.calls, dispatch{a, keyDelay})
	return f.err
}

type fakeSource struct {
	samples []input.Sample
	err     error
}

func (f *fakeSource) Next() (input.Sample, error) {
	if len(f.samples) == 0 {
		return input.Sample{}, f.err
	}
	s := f.samples[0]
	f.samples = f.samples[1:]
	return s, nil
}

// clock follows the sample timestamps so cooldown and motion share a timeline
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

var (
	upAction   = action.Command("echo up")
	downAction = action.Command("echo down")
)

func newTestLoop(t *testing.T, bindings action.Bindings, sink action.Sink) (*Loop, *clock) {
	t.Helper()
	clk := &clock{now: time.UnixMilli(0)}
	l := New(Options{
		VelocityThreshold: 100,
		HistorySize:       5,
		Cooldown:          300 * time.Millisecond,
		KeyDelay:          5 * time.Millisecond,
		Now:               clk.Now,
	}, bindings, sink)
	return l, clk
}

func feed(l *Loop, clk *clock, samples ...input.Sample) []gesture.Gesture {
	var fired []gesture.Gesture
	for _, s := range samples {
		clk.now = time.UnixMilli(int64(math.Round(s.Time * 1000)))
		if g := l.Process(s); g != gesture.None {
			fired = append(fired, g)
		}
	}
	return fired
}

// rise is a monotonic 10 -> 50 motion over five samples 10ms apart.
func rise(start float64) []input.Sample {
	out := make([]input.Sample, 5)
	for i := range out {
		out[i] = input.Sample{Time: start + float64(i)*0.01, Value: int32(10 * (i + 1))}
	}
	return out
}

func fall(start float64) []input.Sample {
	out := rise(start)
	for i := range out {
		out[i].Value = 60 - out[i].Value
	}
	return out
}

func TestLoopOneDispatchPerMotion(t *testing.T) {
	sink := &fakeSink{}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction, gesture.Down: downAction}, sink)

	fired := feed(l, clk, rise(0)...)
	assert.Equal(t, []gesture.Gesture{gesture.Up}, fired)
	require.Len(t, sink.calls, 1)
	assert.Equal(t, upAction, sink.calls[0].action)
	assert.Equal(t, 5*time.Millisecond, sink.calls[0].keyDelay)

	// finger lifts, then the same motion again after the cooldown
	feed(l, clk, input.Sample{Time: 0.5, Value: 0})
	assert.Equal(t, 0, l.BufferLen())

	fired = feed(l, clk, rise(1.0)...)
	assert.Equal(t, []gesture.Gesture{gesture.Up}, fired)
	assert.Len(t, sink.calls, 2)

	st := l.Stats()
	assert.Equal(t, uint64(11), st.Samples)
	assert.Equal(t, uint64(2), st.Dispatched)
	assert.Equal(t, uint64(4), st.Suppressed)
}

func TestLoopDown(t *testing.T) {
	sink := &fakeSink{}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction, gesture.Down: downAction}, sink)

	fired := feed(l, clk, fall(0)...)
	assert.Equal(t, []gesture.Gesture{gesture.Down}, fired)
	assert.Equal(t, downAction, sink.calls[0].action)
}

func TestLoopClearsBufferAfterDispatch(t *testing.T) {
	sink := &fakeSink{}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	samples := rise(0)
	feed(l, clk, samples[0])
	assert.Equal(t, 1, l.BufferLen())

	fired := feed(l, clk, samples[1])
	assert.Equal(t, []gesture.Gesture{gesture.Up}, fired)
	assert.Equal(t, 0, l.BufferLen())
}

func TestLoopCooldownSuppressionKeepsBuffer(t *testing.T) {
	sink := &fakeSink{}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	samples := rise(0)
	feed(l, clk, samples[:2]...)
	require.Len(t, sink.calls, 1)

	// still inside the 300ms cooldown: detected but suppressed, buffer grows
	feed(l, clk, samples[2:]...)
	assert.Len(t, sink.calls, 1)
	assert.Equal(t, 3, l.BufferLen())
	assert.Equal(t, uint64(2), l.Stats().Suppressed)

	// once the cooldown lapses the accumulated motion fires
	fired := feed(l, clk, input.Sample{Time: 0.31, Value: 80})
	assert.Equal(t, []gesture.Gesture{gesture.Up}, fired)
	assert.Equal(t, 0, l.BufferLen())
}

func TestLoopCooldownBoundary(t *testing.T) {
	sink := &fakeSink{}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	// first gesture at 0ms
	l.buf.Add(-0.01, 5)
	assert.Equal(t, gesture.Up, l.Process(input.Sample{Time: 0, Value: 10}))

	// second at 250ms is suppressed
	l.buf.Add(0.24, 5)
	clk.now = time.UnixMilli(250)
	assert.Equal(t, gesture.None, l.Process(input.Sample{Time: 0.25, Value: 10}))

	// a qualifying gesture at 301ms is accepted
	l.buf.Clear()
	l.buf.Add(0.30, 5)
	clk.now = time.UnixMilli(301)
	assert.Equal(t, gesture.Up, l.Process(input.Sample{Time: 0.301, Value: 10}))
	assert.Len(t, sink.calls, 2)
}

// An unbound gesture neither clears the buffer nor starts the cooldown.
func TestLoopUnboundGestureKeepsBuffer(t *testing.T) {
	sink := &fakeSink{}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	fired := feed(l, clk, fall(0)...)
	assert.Empty(t, fired)
	assert.Empty(t, sink.calls)
	assert.Equal(t, 5, l.BufferLen())
	assert.Equal(t, uint64(4), l.Stats().Unbound)

	// reversing straight away fires: no cooldown was started
	feed(l, clk, input.Sample{Time: 0.1, Value: 0})
	fired = feed(l, clk, rise(0.11)[:2]...)
	assert.Equal(t, []gesture.Gesture{gesture.Up}, fired)
}

func TestLoopActionErrorStillCountsAsDispatched(t *testing.T) {
	sink := &fakeSink{err: errors.New("command failed")}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	fired := feed(l, clk, rise(0)[:2]...)
	assert.Equal(t, []gesture.Gesture{gesture.Up}, fired)
	assert.Equal(t, 0, l.BufferLen())

	st := l.Stats()
	assert.Equal(t, uint64(1), st.ActionErrors)
	assert.Equal(t, uint64(1), st.Dispatched)

	// the cooldown was started despite the failure
	fired = feed(l, clk, rise(0.02)[:2]...)
	assert.Empty(t, fired)
}

func TestLoopPaused(t *testing.T) {
	sink := &fakeSink{}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	l.SetPaused(true)
	assert.True(t, l.Paused())
	assert.Empty(t, feed(l, clk, rise(0)...))
	assert.Empty(t, sink.calls)
	assert.Equal(t, uint64(4), l.Stats().Paused)

	l.SetPaused(false)
	feed(l, clk, input.Sample{Time: 0.5, Value: 0})
	assert.Equal(t, []gesture.Gesture{gesture.Up}, feed(l, clk, rise(1)...))
}

func TestLoopSlowMotionDoesNotFire(t *testing.T) {
	sink := &fakeSink{}
	l, clk := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	// 10 units per second, well under the 100 threshold
	var samples []input.Sample
	for i := 0; i < 20; i++ {
		samples = append(samples, input.Sample{Time: float64(i) * 0.1, Value: int32(100 + i)})
	}
	assert.Empty(t, feed(l, clk, samples...))
	assert.Equal(t, uint64(0), l.Stats().Detected)
}

func TestRunDispatchesUntilSourceCloses(t *testing.T) {
	sink := &fakeSink{}
	l, _ := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	src := &fakeSource{samples: rise(0), err: input.ErrClosed}
	require.NoError(t, l.Run(context.Background(), src))
	assert.Len(t, sink.calls, 1)
	assert.Equal(t, uint64(5), l.Stats().Samples)
}

func TestRunReturnsReadErrors(t *testing.T) {
	l, _ := newTestLoop(t, action.Bindings{}, &fakeSink{})

	boom := errors.New("device unplugged")
	err := l.Run(context.Background(), &fakeSource{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRunTreatsErrorAfterCancelAsShutdown(t *testing.T) {
	l, _ := newTestLoop(t, action.Bindings{}, &fakeSink{})

	ctx, cancel := context.WithCancel(context.Background())
	src := &cancelingSource{cancel: cancel}
	assert.NoError(t, l.Run(ctx, src))
}

type cancelingSource struct{ cancel func() }

func (c *cancelingSource) Next() (input.Sample, error) {
	c.cancel()
	return input.Sample{}, errors.New("file already closed")
}

func TestRunRecoversPanics(t *testing.T) {
	sink := &fakeSink{explode: true}
	l, _ := newTestLoop(t, action.Bindings{gesture.Up: upAction}, sink)

	err := l.Run(context.Background(), &fakeSource{samples: rise(0), err: input.ErrClosed})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink exploded")
}
