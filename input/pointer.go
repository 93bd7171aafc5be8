package input

import (
	"time"

	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/vecmath"
)

// Sample is a pointer position and the moment it was observed.
type Sample struct {
	Pos r2.Point
	At  time.Time
}

// PointerTracker remembers the last two pointer positions.
type PointerTracker struct {
	current  Sample
	previous Sample
	samples  int
	now      func() time.Time
}

// NewPointerTracker creates a tracker timestamping samples with time.Now.
func NewPointerTracker() *PointerTracker {
	return NewPointerTrackerWithClock(time.Now)
}

// NewPointerTrackerWithClock creates a tracker with a custom clock. A nil
// clock means time.Now.
func NewPointerTrackerWithClock(now func() time.Time) *PointerTracker {
	if now == nil {
		now = time.Now
	}
	return &PointerTracker{now: now}
}

// SetCurrentPosition shifts the current sample to previous and records p.
func (p *PointerTracker) SetCurrentPosition(pos r2.Point) {
	p.previous = p.current
	p.current = Sample{Pos: pos, At: p.now()}
	if p.samples < 2 {
		p.samples++
	}
}

// Current returns the latest pointer position.
func (p *PointerTracker) Current() r2.Point {
	return p.current.Pos
}

// Previous returns the pointer position before the latest one.
func (p *PointerTracker) Previous() r2.Point {
	return p.previous.Pos
}

// Variation returns current - previous.
func (p *PointerTracker) Variation() r2.Point {
	return vecmath.Delta(p.current.Pos, p.previous.Pos)
}

// Velocity returns the displacement between the last two samples in pixels
// per second.
func (p *PointerTracker) Velocity() (r2.Point, error) {
	if p.samples < 2 {
		return r2.Point{}, ErrNoTimeBase
	}
	dt := p.current.At.Sub(p.previous.At).Seconds()
	if dt <= 0 {
		return r2.Point{}, ErrNoTimeBase
	}
	return vecmath.Scale(1/dt, p.Variation()), nil
}
