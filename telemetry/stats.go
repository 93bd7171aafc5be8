package telemetry

import (
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/wormhole/logger"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	Step             int64   `csv:"step"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Snapshot size at window end
	Nodes     int `csv:"nodes"`
	Obstacles int `csv:"obstacles"`

	// Per-frame distributions over the window
	VisibleMean float64 `csv:"visible_mean"`
	VisibleP10  float64 `csv:"visible_p10"`
	VisibleP50  float64 `csv:"visible_p50"`
	VisibleP90  float64 `csv:"visible_p90"`
	LinksMean   float64 `csv:"links_mean"`

	// Gestures during window
	Pans        int `csv:"pans"`
	Zooms       int `csv:"zooms"`
	Rotations   int `csv:"rotations"`
	Hooks       int `csv:"hooks"`
	Tracks      int `csv:"tracks"`
	Fits        int `csv:"fits"`
	ModeChanges int `csv:"mode_changes"`

	// Viewport at window end
	Mode      string  `csv:"mode"`
	Zoom      float64 `csv:"zoom"`
	Rotation  float64 `csv:"rotation"`
	PositionX float64 `csv:"position_x"`
	PositionY float64 `csv:"position_y"`
}

// ComputeStats returns the mean and the empirical 10th, 50th and 90th
// percentiles of values. Returns zeros for an empty slice.
func ComputeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

// LogStats logs the window stats.
func (s WindowStats) LogStats() {
	logger.Named("telemetry").Info("window",
		zap.Int64("window_end", s.WindowEndFrame),
		zap.Int64("step", s.Step),
		zap.Float64("sim_time", s.SimTimeSec),
		zap.Int("nodes", s.Nodes),
		zap.Float64("visible_mean", s.VisibleMean),
		zap.Float64("visible_p50", s.VisibleP50),
		zap.Float64("links_mean", s.LinksMean),
		zap.Int("pans", s.Pans),
		zap.Int("zooms", s.Zooms),
		zap.Int("rotations", s.Rotations),
		zap.String("mode", s.Mode),
		zap.Float64("zoom", s.Zoom),
		zap.Float64("rotation", s.Rotation),
	)
}
