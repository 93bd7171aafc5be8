package display

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pthm-cable/wormhole/logger"
)

const (
	// DefaultFrameRate is the number of frames per simulated second drawn in
	// realtime mode.
	DefaultFrameRate = 25

	// DefaultPauseThreshold is how far wall-clock time may run ahead of
	// simulated time before the lag is treated as a pause and forgotten.
	DefaultPauseThreshold = 200 * time.Millisecond
)

// SleepFunc blocks for d or until ctx is done. It may return early.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer slows a simulation down so that simulated time follows wall-clock
// time. Not safe for concurrent use.
type Pacer struct {
	frame          time.Duration
	pauseThreshold time.Duration
	now            func() time.Time
	sleep          SleepFunc

	start time.Time
	last  float64 // simulated seconds of the last paced step
}

// NewPacer creates a pacer drawing frameRate frames per simulated second.
// A nil clock or sleep uses the real ones.
func NewPacer(frameRate float64, pauseThreshold time.Duration, now func() time.Time, sleep SleepFunc) *Pacer {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	if pauseThreshold <= 0 {
		pauseThreshold = DefaultPauseThreshold
	}
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = sleepContext
	}
	p := &Pacer{
		frame:          time.Duration(float64(time.Second) / frameRate),
		pauseThreshold: pauseThreshold,
		now:            now,
		sleep:          sleep,
	}
	p.Reset()
	return p
}

// Frame returns the frame interval.
func (p *Pacer) Frame() time.Duration { return p.frame }

// Reset restarts wall-clock tracking from now.
func (p *Pacer) Reset() {
	p.start = p.now()
	p.last = -p.frame.Seconds()
}

// Wait paces the step at simulated time t. It returns false without
// blocking when t is less than one frame after the last paced step, so the
// step should not be drawn. Otherwise it sleeps until wall-clock time catches
// up with t, for at most one frame, and returns how long it slept.
func (p *Pacer) Wait(ctx context.Context, t float64) (time.Duration, bool, error) {
	if p.last+p.frame.Seconds() > t {
		return 0, false, nil
	}
	p.last = t

	simulated := time.Duration(t * float64(time.Second))
	now := p.now()
	if simulated == 0 {
		p.start = now
	}
	passed := now.Sub(p.start)
	if lag := passed - simulated; lag > p.pauseThreshold {
		logger.Named("display").Debug("pause detected", zap.Duration("lag", lag))
		p.start = p.start.Add(lag)
		passed = simulated
	}
	if simulated <= passed {
		return 0, true, nil
	}

	began := now
	until := now.Add(min(simulated-passed, p.frame))
	for {
		remaining := until.Sub(p.now())
		if remaining <= 0 {
			break
		}
		if err := p.sleep(ctx, remaining); err != nil {
			return p.now().Sub(began), false, err
		}
	}
	return p.now().Sub(began), true, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
