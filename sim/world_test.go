package sim

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/config"
	"github.com/pthm-cable/wormhole/display"
	"github.com/pthm-cable/wormhole/viewport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Sim.Nodes = 50
	cfg.Sim.Obstacles = 3
	cfg.Sim.Workers = 1
	cfg.Derived.EnvSize = viewport.Size{W: 400, H: 200}
	cfg.Derived.EnvOffset = r2.Point{X: -100, Y: 50}
	return cfg
}

func envBounds(w *World) r2.Rect {
	lo := w.Offset()
	bounds := r2.RectFromPoints(lo, r2.Point{X: lo.X + w.Size().W, Y: lo.Y + w.Size().H})
	return bounds.ExpandedByMargin(1e-9)
}

func TestNewValidates(t *testing.T) {
	testCases := map[string]func(*config.Config){
		"dt":    func(c *config.Config) { c.Sim.DT = 0 },
		"nodes": func(c *config.Config) { c.Sim.Nodes = -1 },
		"size":  func(c *config.Config) { c.Derived.EnvSize = viewport.Size{W: 0, H: 10} },
	}
	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			mutate(cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInitialSnapshot(t *testing.T) {
	w, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	snap := w.Snapshot()
	if snap.Step != 0 || snap.Time != 0 {
		t.Errorf("initial snapshot at step %d time %f", snap.Step, snap.Time)
	}
	if len(snap.Positions) != 50 {
		t.Errorf("got %d nodes, want 50", len(snap.Positions))
	}
	if ids := snap.IDs(); ids[0] != 1 || ids[len(ids)-1] != 50 {
		t.Errorf("ids run from %d to %d, want 1 to 50", ids[0], ids[len(ids)-1])
	}
	if got := len(w.Obstacles()); got != 3 {
		t.Errorf("got %d obstacles, want 3", got)
	}
	if w.HasMobileObstacles() {
		t.Error("obstacles should be static by default")
	}
}

func TestNodesStayInBounds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sim.Speed = 500
	w, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	bounds := envBounds(w)

	for i := 0; i < 300; i++ {
		w.Step()
		for id, p := range w.Snapshot().Positions {
			if !bounds.ContainsPoint(p) {
				t.Fatalf("step %d: node %d escaped to %v", i, id, p)
			}
		}
	}
}

func TestClockAdvances(t *testing.T) {
	w, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		w.Step()
	}

	tm, step := w.Clock()
	if step != 10 {
		t.Errorf("step = %d, want 10", step)
	}
	if want := 10 * 0.04; tm < want-1e-9 || tm > want+1e-9 {
		t.Errorf("time = %f, want %f", tm, want)
	}
	if snap := w.Snapshot(); snap.Step != step || snap.Time != tm {
		t.Errorf("snapshot at %d/%f, clock at %d/%f", snap.Step, snap.Time, step, tm)
	}
}

func TestNeighborsMatchBruteForce(t *testing.T) {
	for _, workers := range []int{1, 4} {
		cfg := testConfig(t)
		cfg.Sim.Nodes = 200
		cfg.Sim.Workers = workers
		cfg.Sim.NeighborRadius = 40
		w, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		w.Step()

		snap := w.Snapshot()
		r2max := cfg.Sim.NeighborRadius * cfg.Sim.NeighborRadius
		for _, id := range snap.IDs() {
			var want []display.NodeID
			for _, other := range snap.IDs() {
				if other == id {
					continue
				}
				if d := snap.Positions[other].Sub(snap.Positions[id]); d.Dot(d) <= r2max {
					want = append(want, other)
				}
			}
			if got := snap.Neighbors[id]; !slices.Equal(got, want) {
				t.Errorf("workers=%d node %d: neighbors %v, want %v", workers, id, got, want)
			}
		}
	}
}

func TestNoRadiusNoNeighbors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sim.NeighborRadius = 0
	w, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	w.Step()
	if n := len(w.Snapshot().Neighbors); n != 0 {
		t.Errorf("got %d neighborhoods without a radius", n)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() display.Snapshot {
		w, err := New(testConfig(t))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 20; i++ {
			w.Step()
		}
		return w.Snapshot()
	}

	a, b := run(), run()
	for id, p := range a.Positions {
		if b.Positions[id] != p {
			t.Fatalf("node %d diverged: %v vs %v", id, p, b.Positions[id])
		}
	}
}

func TestPublishedSnapshotIsImmutable(t *testing.T) {
	w, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	before := w.Snapshot()
	saved := make(map[display.NodeID]r2.Point, len(before.Positions))
	for id, p := range before.Positions {
		saved[id] = p
	}

	w.Step()
	for id, p := range before.Positions {
		if saved[id] != p {
			t.Fatalf("node %d changed in an already published snapshot", id)
		}
	}
}

func TestMobileObstaclesMoveInsideBounds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sim.MobileObstacles = true
	cfg.Sim.Speed = 2000
	w, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !w.HasMobileObstacles() {
		t.Fatal("obstacles should be mobile")
	}
	bounds := envBounds(w)
	start := w.Obstacles()

	for i := 0; i < 100; i++ {
		w.Step()
		for _, r := range w.Obstacles() {
			if !bounds.Contains(r) {
				t.Fatalf("step %d: obstacle %v left %v", i, r, bounds)
			}
		}
	}
	if slices.Equal(start, w.Obstacles()) {
		t.Error("mobile obstacles did not move")
	}
}

type recorder struct {
	initialized int
	steps       []int64
	finished    int64
	cancelAt    int64
	cancel      context.CancelFunc
}

func (r *recorder) Initialized(context.Context, display.Environment) error {
	r.initialized++
	return nil
}

func (r *recorder) StepDone(_ context.Context, _ display.Environment, _ float64, step int64) error {
	r.steps = append(r.steps, step)
	if step == r.cancelAt && r.cancel != nil {
		r.cancel()
	}
	return nil
}

func (r *recorder) Finished(_ display.Environment, _ float64, step int64) {
	r.finished = step
}

func TestRunNotifiesMonitors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sim.Steps = 5
	w, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	if err := w.Run(context.Background(), rec); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.initialized != 1 {
		t.Errorf("initialized %d times", rec.initialized)
	}
	if !slices.Equal(rec.steps, []int64{1, 2, 3, 4, 5}) {
		t.Errorf("steps = %v", rec.steps)
	}
	if rec.finished != 5 {
		t.Errorf("finished at step %d, want 5", rec.finished)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, err := New(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{cancelAt: 3, cancel: cancel}
	if err := w.Run(ctx, rec); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if len(rec.steps) != 3 || rec.finished != 3 {
		t.Errorf("steps = %v, finished at %d", rec.steps, rec.finished)
	}
}

func TestRunDrivesDisplay(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sim.Steps = 10
	w, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	d := display.New(display.Options{ViewSize: viewport.Size{W: 800, H: 400}, Step: 2})
	if err := w.Run(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	if got := d.Snapshot().Step; got != 10 {
		t.Errorf("display holds step %d, want 10", got)
	}
	if vs := d.ViewState(); !vs.Ready || vs.Zoom != 2 {
		t.Errorf("view state = %+v, want a ready viewport at zoom 2", vs)
	}
}

func TestReflect(t *testing.T) {
	testCases := []struct {
		x, v, lo, hi float64
		wantX, wantV float64
	}{
		{5, 1, 0, 10, 5, 1},
		{-2, -1, 0, 10, 2, 1},
		{12, 1, 0, 10, 8, -1},
		{25, 1, 0, 10, 10, -1},
		{3, 1, 4, 4, 4, 0},
	}
	for _, tc := range testCases {
		x, v := reflect(tc.x, tc.v, tc.lo, tc.hi)
		if x != tc.wantX || v != tc.wantV {
			t.Errorf("reflect(%v, %v, %v, %v) = %v, %v; want %v, %v",
				tc.x, tc.v, tc.lo, tc.hi, x, v, tc.wantX, tc.wantV)
		}
	}
}
