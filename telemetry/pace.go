package telemetry

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/wormhole/display"
	"github.com/pthm-cable/wormhole/logger"
)

// PaceCollector keeps the last window of realtime waits. It is fed from the
// simulation goroutine and read from the viewer.
type PaceCollector struct {
	mu       sync.Mutex
	slept    []float64 // milliseconds, ring buffer
	next     int
	count    int
	observed int64
	step     int64
	simTime  float64
}

var _ display.PaceObserver = (*PaceCollector)(nil)

// NewPaceCollector creates a collector over the last window paced steps.
func NewPaceCollector(window int) *PaceCollector {
	if window < 1 {
		window = 60
	}
	return &PaceCollector{slept: make([]float64, window)}
}

// ObservePace implements display.PaceObserver.
func (p *PaceCollector) ObservePace(step int64, simTime float64, slept time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slept[p.next] = float64(slept) / float64(time.Millisecond)
	p.next = (p.next + 1) % len(p.slept)
	if p.count < len(p.slept) {
		p.count++
	}
	p.observed++
	p.step, p.simTime = step, simTime
}

// PaceStats summarizes the waits of the current window, in milliseconds.
type PaceStats struct {
	Step     int64   `csv:"step"`
	SimTime  float64 `csv:"sim_time"`
	Observed int64   `csv:"observed"`
	Window   int     `csv:"window"`
	MeanMS   float64 `csv:"mean_ms"`
	StdMS    float64 `csv:"std_ms"`
	P50MS    float64 `csv:"p50_ms"`
	P90MS    float64 `csv:"p90_ms"`
	MaxMS    float64 `csv:"max_ms"`
}

// Stats computes the summary of the current window.
func (p *PaceCollector) Stats() PaceStats {
	p.mu.Lock()
	values := slices.Clone(p.slept[:p.count])
	s := PaceStats{Step: p.step, SimTime: p.simTime, Observed: p.observed, Window: p.count}
	p.mu.Unlock()

	if len(values) == 0 {
		return s
	}
	slices.Sort(values)
	s.MeanMS, _, s.P50MS, s.P90MS = ComputeStats(values)
	if len(values) > 1 {
		s.StdMS = stat.StdDev(values, nil)
	}
	s.MaxMS = values[len(values)-1]
	return s
}

// LogStats logs the pacing summary.
func (s PaceStats) LogStats() {
	logger.Named("pace").Info("pace",
		zap.Int64("step", s.Step),
		zap.Float64("sim_time", s.SimTime),
		zap.Int("window", s.Window),
		zap.Float64("mean_ms", s.MeanMS),
		zap.Float64("std_ms", s.StdMS),
		zap.Float64("p90_ms", s.P90MS),
		zap.Float64("max_ms", s.MaxMS),
	)
}
