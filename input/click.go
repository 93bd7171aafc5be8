package input

import (
	"time"

	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/vecmath"
)

// Multi-click detection defaults.
const (
	DefaultClickInterval = 400 * time.Millisecond
	DefaultClickSlop     = 4.0 // pixels
)

// ClickCounter turns button releases into click counts: a click close in
// time and space to the previous one extends the series, anything else
// starts a new one.
type ClickCounter struct {
	interval time.Duration
	slop     float64
	now      func() time.Time

	last  Sample
	count int
}

// NewClickCounter creates a counter with the default interval and slop. A nil
// clock means time.Now.
func NewClickCounter(now func() time.Time) *ClickCounter {
	if now == nil {
		now = time.Now
	}
	return &ClickCounter{interval: DefaultClickInterval, slop: DefaultClickSlop, now: now}
}

// Click records a click at pos and returns its rank in the current series,
// 1 for a single click, 2 for a double click and so on.
func (c *ClickCounter) Click(pos r2.Point) int {
	at := c.now()
	if c.count > 0 && at.Sub(c.last.At) <= c.interval && vecmath.Distance(pos, c.last.Pos) <= c.slop {
		c.count++
	} else {
		c.count = 1
	}
	c.last = Sample{Pos: pos, At: at}
	return c.count
}

// IsClick reports whether a press at from released at to is a click rather
// than the end of a drag.
func (c *ClickCounter) IsClick(from, to r2.Point) bool {
	return vecmath.Distance(from, to) <= c.slop
}
