package telemetry

import (
	"sync"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestPaceCollectorStats(t *testing.T) {
	p := NewPaceCollector(4)
	if s := p.Stats(); s.Window != 0 || s.MeanMS != 0 {
		t.Errorf("empty collector stats = %+v", s)
	}

	// The first sample falls out of the window.
	for i, ms := range []int{100, 10, 20, 30, 40} {
		p.ObservePace(int64(i+1), float64(i)*0.04, time.Duration(ms)*time.Millisecond)
	}

	s := p.Stats()
	if s.Step != 5 || s.Observed != 5 || s.Window != 4 {
		t.Errorf("step=%d observed=%d window=%d", s.Step, s.Observed, s.Window)
	}
	if !scalar.EqualWithinAbs(s.MeanMS, 25, 1e-9) {
		t.Errorf("mean = %v, want 25", s.MeanMS)
	}
	if s.MaxMS != 40 || s.P50MS != 20 {
		t.Errorf("max = %v, p50 = %v", s.MaxMS, s.P50MS)
	}
	// Sample standard deviation of 10, 20, 30, 40.
	if !scalar.EqualWithinAbs(s.StdMS, 12.909944487358056, 1e-9) {
		t.Errorf("std = %v", s.StdMS)
	}
}

func TestPaceCollectorConcurrentUse(t *testing.T) {
	p := NewPaceCollector(16)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			p.ObservePace(int64(i), 0, time.Millisecond)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			p.Stats()
		}
	}()
	wg.Wait()

	if s := p.Stats(); s.Observed != 500 || s.MeanMS != 1 {
		t.Errorf("stats = %+v", s)
	}
}
