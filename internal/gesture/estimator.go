package gesture

// Estimator derives velocity and acceleration from a Buffer.
//
// Velocity is the average over the whole window (first to last reading),
// so the history size trades smoothing against responsiveness.
type Estimator struct {
	buf          *Buffer
	acceleration bool
}

// NewEstimator creates an estimator over buf. Acceleration is only
// computed when accel is true.
func NewEstimator(buf *Buffer, accel bool) *Estimator {
	return &Estimator{buf: buf, acceleration: accel}
}

// Velocity returns value units per second, signed. Zero with fewer than
// two readings or when the window has no duration.
func (e *Estimator) Velocity() float64 {
	if e.buf.Len() < 2 {
		return 0
	}
	return rate(e.buf.first(), e.buf.last())
}

// Acceleration returns value units per second squared, signed. Zero when
// disabled, with fewer than three readings, or when either half of the
// window has no duration.
func (e *Estimator) Acceleration() float64 {
	if !e.acceleration || e.buf.Len() < 3 {
		return 0
	}

	p1, p2, p3 := e.buf.first(), e.buf.middle(), e.buf.last()
	dt1 := p2.Time - p1.Time
	dt2 := p3.Time - p2.Time
	if dt1 == 0 || dt2 == 0 {
		return 0
	}

	vel1 := rate(p1, p2)
	vel2 := rate(p2, p3)
	return (vel2 - vel1) / ((dt1 + dt2) / 2)
}

// AccelerationEnabled reports whether acceleration tracking is on.
func (e *Estimator) AccelerationEnabled() bool {
	return e.acceleration
}

func rate(from, to Point) float64 {
	dt := to.Time - from.Time
	if dt == 0 {
		return 0
	}
	return (float64(to.Value) - float64(from.Value)) / dt
}
