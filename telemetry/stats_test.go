package telemetry

import (
	"testing"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/pthm-cable/wormhole/display"
	"github.com/pthm-cable/wormhole/viewport"
)

func TestComputeStats(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, p10, p50, p90 := ComputeStats(values)

	if !scalar.EqualWithinAbs(mean, 5.5, 1e-12) {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if p10 != 1 || p50 != 5 || p90 != 9 {
		t.Errorf("percentiles = %v/%v/%v, want 1/5/9", p10, p50, p90)
	}
	if values[0] != 10 {
		t.Error("input slice should not be reordered")
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeStats(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(3)

	for i, visible := range []int{10, 20, 30} {
		c.RecordDraw(display.DrawStats{Step: int64(i), Time: float64(i) / 2, Nodes: 40, Visible: visible, Links: 2 * visible, Obstacles: 1})
	}
	c.Record(EventPan)
	c.Record(EventPan)
	c.Record(EventZoom)
	c.Record(EventModeChange)

	if c.ShouldFlush(2) {
		t.Error("window of 3 frames should not flush at frame 2")
	}
	if !c.ShouldFlush(3) {
		t.Fatal("window of 3 frames should flush at frame 3")
	}

	view := display.ViewState{Ready: true, Mode: viewport.Settable, Zoom: 2, Rotation: 0.5, Position: r2.Point{X: 1, Y: 2}}
	stats := c.Flush(3, view)

	if stats.WindowStartFrame != 0 || stats.WindowEndFrame != 3 {
		t.Errorf("window = [%d, %d]", stats.WindowStartFrame, stats.WindowEndFrame)
	}
	if stats.Step != 2 || stats.SimTimeSec != 1 || stats.Nodes != 40 || stats.Obstacles != 1 {
		t.Errorf("last draw not carried: %+v", stats)
	}
	if stats.VisibleMean != 20 || stats.VisibleP50 != 20 || stats.LinksMean != 40 {
		t.Errorf("visible mean/p50 = %v/%v, links mean = %v", stats.VisibleMean, stats.VisibleP50, stats.LinksMean)
	}
	if stats.Pans != 2 || stats.Zooms != 1 || stats.ModeChanges != 1 || stats.Rotations != 0 {
		t.Errorf("gesture counts = %+v", stats)
	}
	if stats.Mode != "settable" || stats.Zoom != 2 || stats.PositionY != 2 {
		t.Errorf("view state = %s %v %v", stats.Mode, stats.Zoom, stats.PositionY)
	}

	next := c.Flush(6, display.ViewState{})
	if next.Pans != 0 || next.VisibleMean != 0 || next.WindowStartFrame != 3 || next.Mode != "" {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventRotate.String() != "rotate" || numEventTypes.String() != "unknown" {
		t.Errorf("got %q and %q", EventRotate, numEventTypes)
	}
}
