// Package gesture classifies single-axis motion into directional gestures.
package gesture

// Point is one buffered axis reading.
type Point struct {
	Time  float64 // seconds
	Value int32
}

// Buffer is a bounded, time-ordered history of axis readings.
type Buffer struct {
	points []Point
	max    int
}

// NewBuffer creates a buffer holding at most size points.
func NewBuffer(size int) *Buffer {
	if size < 2 {
		size = 2
	}
	return &Buffer{
		points: make([]Point, 0, size+1),
		max:    size,
	}
}

// Add appends a reading and evicts the oldest one when over capacity.
// A zero value means the finger left the strip (or the axis is at rest),
// so the history is dropped instead.
func (b *Buffer) Add(t float64, value int32) {
	if value == 0 {
		b.Clear()
		return
	}

	b.points = append(b.points, Point{Time: t, Value: value})
	if len(b.points) > b.max {
		copy(b.points, b.points[1:])
		b.points = b.points[:len(b.points)-1]
	}
}

// Clear drops all readings.
func (b *Buffer) Clear() {
	b.points = b.points[:0]
}

// Len returns the number of buffered readings.
func (b *Buffer) Len() int {
	return len(b.points)
}

// Cap returns the configured history size.
func (b *Buffer) Cap() int {
	return b.max
}

// Samples returns a copy of the buffered readings, oldest first.
func (b *Buffer) Samples() []Point {
	out := make([]Point, len(b.points))
	copy(out, b.points)
	return out
}

func (b *Buffer) first() Point  { return b.points[0] }
func (b *Buffer) middle() Point { return b.points[len(b.points)/2] }
func (b *Buffer) last() Point   { return b.points[len(b.points)-1] }
