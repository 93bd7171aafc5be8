package telemetry

import "github.com/pthm-cable/wormhole/display"

// Collector accumulates draws and gestures within frame windows and
// produces WindowStats.
type Collector struct {
	windowFrames int64

	// Current window tracking
	windowStartFrame int64

	counts   [numEventTypes]int
	visible  []float64
	links    []float64
	lastDraw display.DrawStats
}

// NewCollector creates a collector flushing every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: int64(windowFrames),
		visible:      make([]float64, 0, windowFrames),
		links:        make([]float64, 0, windowFrames),
	}
}

// Record counts one gesture.
func (c *Collector) Record(e EventType) {
	if e < numEventTypes {
		c.counts[e]++
	}
}

// RecordDraw records the outcome of one draw pass.
func (c *Collector) RecordDraw(s display.DrawStats) {
	c.visible = append(c.visible, float64(s.Visible))
	c.links = append(c.links, float64(s.Links))
	c.lastDraw = s
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// view is the viewport state at window end.
func (c *Collector) Flush(frame int64, view display.ViewState) WindowStats {
	visMean, visP10, visP50, visP90 := ComputeStats(c.visible)
	linksMean, _, _, _ := ComputeStats(c.links)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		Step:             c.lastDraw.Step,
		SimTimeSec:       c.lastDraw.Time,

		Nodes:     c.lastDraw.Nodes,
		Obstacles: c.lastDraw.Obstacles,

		VisibleMean: visMean,
		VisibleP10:  visP10,
		VisibleP50:  visP50,
		VisibleP90:  visP90,
		LinksMean:   linksMean,

		Pans:        c.counts[EventPan],
		Zooms:       c.counts[EventZoom],
		Rotations:   c.counts[EventRotate],
		Hooks:       c.counts[EventHook],
		Tracks:      c.counts[EventTrack],
		Fits:        c.counts[EventFit],
		ModeChanges: c.counts[EventModeChange],
	}
	if view.Ready {
		stats.Mode = view.Mode.String()
		stats.Zoom = view.Zoom
		stats.Rotation = view.Rotation
		stats.PositionX = view.Position.X
		stats.PositionY = view.Position.Y
	}

	// Reset for next window
	c.windowStartFrame = frame
	c.counts = [numEventTypes]int{}
	c.visible = c.visible[:0]
	c.links = c.links[:0]

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}
