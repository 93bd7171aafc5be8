package telemetry

import (
	"github.com/pthm-cable/wormhole/config"
	"github.com/pthm-cable/wormhole/display"
)

// Recorder feeds the collectors once per frame and writes their windows
// through an output manager. out may be nil.
type Recorder struct {
	Collector *Collector
	Perf      *PerfCollector
	Pace      *PaceCollector

	out      *OutputManager
	logStats bool
	frame    int64
}

// NewRecorder creates a recorder sized from cfg.
func NewRecorder(cfg config.TelemetryConfig, out *OutputManager, logStats bool) *Recorder {
	return &Recorder{
		Collector: NewCollector(cfg.FlushEvery),
		Perf:      NewPerfCollector(cfg.PerfWindow),
		Pace:      NewPaceCollector(cfg.PerfWindow),
		out:       out,
		logStats:  logStats,
	}
}

// Record counts a gesture in the current window.
func (r *Recorder) Record(e EventType) {
	r.Collector.Record(e)
}

// Frame records one draw pass and flushes the window when it is full.
func (r *Recorder) Frame(draw display.DrawStats, view display.ViewState) error {
	r.frame++
	r.Collector.RecordDraw(draw)
	if !r.Collector.ShouldFlush(r.frame) {
		return nil
	}
	return r.flush(view)
}

func (r *Recorder) flush(view display.ViewState) error {
	window := r.Collector.Flush(r.frame, view)
	perf := r.Perf.Stats()
	pace := r.Pace.Stats()
	if r.logStats {
		window.LogStats()
		perf.LogStats()
		if pace.Window > 0 {
			pace.LogStats()
		}
	}

	if err := r.out.WriteWindow(window); err != nil {
		return err
	}
	if err := r.out.WritePerf(perf, r.frame); err != nil {
		return err
	}
	if pace.Window > 0 {
		return r.out.WritePace(pace)
	}
	return nil
}

// Frames returns the number of frames recorded.
func (r *Recorder) Frames() int64 {
	return r.frame
}
