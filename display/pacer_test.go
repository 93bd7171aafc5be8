package display

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock only moves when something sleeps on it.
type fakeClock struct {
	t        time.Time
	sleeps   []time.Duration
	spurious bool // the first sleep wakes up halfway
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	if c.spurious && len(c.sleeps) == 1 {
		d /= 2
	}
	c.t = c.t.Add(d)
	return nil
}

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func near(a, b time.Duration) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < time.Millisecond
}

func TestPacerSkipsFramesCloserThanOneInterval(t *testing.T) {
	c := newFakeClock()
	p := NewPacer(25, DefaultPauseThreshold, c.Now, c.Sleep)
	ctx := context.Background()

	if _, ok, err := p.Wait(ctx, 0); !ok || err != nil {
		t.Fatalf("first frame should be drawn: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := p.Wait(ctx, 0.01); ok {
		t.Error("a step 10ms after the last frame should be skipped")
	}
	if len(c.sleeps) != 0 {
		t.Errorf("skipped steps must not sleep, got %v", c.sleeps)
	}
}

func TestPacerSleepsAtMostOneFrame(t *testing.T) {
	c := newFakeClock()
	p := NewPacer(25, DefaultPauseThreshold, c.Now, c.Sleep)
	ctx := context.Background()

	p.Wait(ctx, 0)
	slept, ok, err := p.Wait(ctx, 0.04)
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !near(slept, 40*time.Millisecond) {
		t.Errorf("slept %v, want 40ms", slept)
	}

	// Simulated time is far ahead: only one frame is waited.
	slept, _, _ = p.Wait(ctx, 1)
	if !near(slept, p.Frame()) {
		t.Errorf("slept %v, want at most one frame (%v)", slept, p.Frame())
	}
}

func TestPacerReSleepsAfterEarlyWakeUp(t *testing.T) {
	c := newFakeClock()
	c.spurious = true
	p := NewPacer(25, DefaultPauseThreshold, c.Now, c.Sleep)
	ctx := context.Background()

	p.Wait(ctx, 0)
	slept, ok, err := p.Wait(ctx, 0.04)
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if len(c.sleeps) != 2 {
		t.Errorf("expected a second sleep after the early wake-up, got %v", c.sleeps)
	}
	if !near(slept, 40*time.Millisecond) {
		t.Errorf("slept %v in total, want 40ms", slept)
	}
}

func TestPacerForgetsPauses(t *testing.T) {
	c := newFakeClock()
	p := NewPacer(25, DefaultPauseThreshold, c.Now, c.Sleep)
	ctx := context.Background()

	p.Wait(ctx, 0)
	p.Wait(ctx, 1)
	c.advance(5 * time.Second)

	slept, ok, _ := p.Wait(ctx, 2)
	if !ok || slept != 0 {
		t.Errorf("after a pause the step should run at once: ok=%v slept=%v", ok, slept)
	}

	// The lag is forgotten, so the next frame is paced again.
	slept, _, _ = p.Wait(ctx, 2.5)
	if !near(slept, 40*time.Millisecond) {
		t.Errorf("slept %v, want 40ms", slept)
	}
}

func TestPacerHonorsCancellation(t *testing.T) {
	c := newFakeClock()
	p := NewPacer(25, DefaultPauseThreshold, c.Now, c.Sleep)
	ctx, cancel := context.WithCancel(context.Background())

	p.Wait(ctx, 0)
	cancel()
	if _, ok, err := p.Wait(ctx, 0.04); ok || !errors.Is(err, context.Canceled) {
		t.Errorf("ok=%v err=%v, want context.Canceled", ok, err)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if err := sleepContext(context.Background(), time.Microsecond); err != nil {
		t.Errorf("got %v", err)
	}
}
