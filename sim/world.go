package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"slices"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/mlange-42/ark/ecs"
	"go.uber.org/zap"

	"github.com/pthm-cable/wormhole/config"
	"github.com/pthm-cable/wormhole/display"
	"github.com/pthm-cable/wormhole/logger"
	"github.com/pthm-cable/wormhole/viewport"
)

// maxTurn is the largest heading change of a node in one step, in radians.
const maxTurn = 0.4

// World is the demo environment. Step and Run must be called from one
// goroutine; the display methods are safe from any goroutine.
type World struct {
	size    viewport.Size
	offset  r2.Point
	radius  float64
	speed   float64
	dt      float64
	steps   int64
	mobile  bool
	workers int

	world     *ecs.World
	nodeMap   *ecs.Map3[Node, Position, Velocity]
	nodes     *ecs.Filter3[Node, Position, Velocity]
	obstMap   *ecs.Map3[Obstacle, Position, Velocity]
	obstacles *ecs.Filter3[Obstacle, Position, Velocity]
	rng       *rand.Rand
	grid      *spatialGrid

	// Per-step scratch, indexed like the node query
	ids       []display.NodeID
	points    []r2.Point
	neighbors [][]display.NodeID
	count     int64

	mu    sync.Mutex
	snap  display.Snapshot
	rects []r2.Rect
	step  int64
	t     float64
}

var _ display.Environment = (*World)(nil)

// New creates a world from the sim section of cfg and publishes its step 0
// snapshot.
func New(cfg *config.Config) (*World, error) {
	sc := cfg.Sim
	if sc.Nodes < 0 || sc.Obstacles < 0 {
		return nil, fmt.Errorf("sim: negative node or obstacle count")
	}
	if sc.DT <= 0 {
		return nil, fmt.Errorf("sim: dt must be positive, got %f", sc.DT)
	}
	size := cfg.Derived.EnvSize
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("sim: environment size %vx%v is not positive", size.W, size.H)
	}

	workers := sc.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	world := ecs.NewWorld()
	w := &World{
		size:      size,
		offset:    cfg.Derived.EnvOffset,
		radius:    sc.NeighborRadius,
		speed:     sc.Speed,
		dt:        sc.DT,
		steps:     sc.Steps,
		mobile:    sc.MobileObstacles,
		workers:   workers,
		world:     world,
		nodeMap:   ecs.NewMap3[Node, Position, Velocity](world),
		nodes:     ecs.NewFilter3[Node, Position, Velocity](world),
		obstMap:   ecs.NewMap3[Obstacle, Position, Velocity](world),
		obstacles: ecs.NewFilter3[Obstacle, Position, Velocity](world),
		rng:       rand.New(rand.NewSource(sc.Seed)),
	}
	if w.radius > 0 {
		w.grid = newSpatialGrid(size, w.offset, w.radius)
	}

	for i := 0; i < sc.Obstacles; i++ {
		w.spawnObstacle()
	}
	for i := 0; i < sc.Nodes; i++ {
		w.spawnNode(display.NodeID(i + 1))
	}
	w.publish(0)

	logger.Named("sim").Info("world created",
		zap.Int("nodes", sc.Nodes),
		zap.Int("obstacles", sc.Obstacles),
		zap.Float64("width", size.W),
		zap.Float64("height", size.H),
		zap.Int("workers", workers),
	)
	return w, nil
}

func (w *World) spawnNode(id display.NodeID) {
	pos := Position{
		X: w.offset.X + w.rng.Float64()*w.size.W,
		Y: w.offset.Y + w.rng.Float64()*w.size.H,
	}
	heading := w.rng.Float64() * 2 * math.Pi
	vel := Velocity{X: w.speed * math.Cos(heading), Y: w.speed * math.Sin(heading)}
	node := Node{ID: id}
	w.nodeMap.NewEntity(&node, &pos, &vel)
}

func (w *World) spawnObstacle() {
	obst := Obstacle{
		W: w.size.W * (0.02 + 0.06*w.rng.Float64()),
		H: w.size.H * (0.02 + 0.06*w.rng.Float64()),
	}
	pos := Position{
		X: w.offset.X + w.rng.Float64()*(w.size.W-obst.W),
		Y: w.offset.Y + w.rng.Float64()*(w.size.H-obst.H),
	}
	var vel Velocity
	if w.mobile {
		heading := w.rng.Float64() * 2 * math.Pi
		vel = Velocity{X: w.speed / 4 * math.Cos(heading), Y: w.speed / 4 * math.Sin(heading)}
	}
	w.obstMap.NewEntity(&obst, &pos, &vel)
}

// Size implements display.Environment.
func (w *World) Size() viewport.Size { return w.size }

// Offset implements display.Environment.
func (w *World) Offset() r2.Point { return w.offset }

// Snapshot implements display.Environment. The returned snapshot is shared
// and must not be mutated.
func (w *World) Snapshot() display.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snap
}

// Obstacles implements display.Environment.
func (w *World) Obstacles() []r2.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.rects)
}

// HasMobileObstacles implements display.Environment.
func (w *World) HasMobileObstacles() bool { return w.mobile }

// Clock returns the simulated time and the number of steps run.
func (w *World) Clock() (float64, int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.t, w.step
}

// Step advances the world by one dt and publishes a new snapshot.
func (w *World) Step() {
	w.moveNodes()
	if w.mobile {
		w.moveObstacles()
	}
	w.count++
	w.publish(w.count)
}

// Run notifies monitors of the initial state, then steps until the
// configured step count is reached or ctx is done. Finished is always sent.
func (w *World) Run(ctx context.Context, monitors ...display.Monitor) error {
	for _, m := range monitors {
		if err := m.Initialized(ctx, w); err != nil {
			return fmt.Errorf("initializing monitor: %w", err)
		}
	}
	defer func() {
		t, step := w.Clock()
		for _, m := range monitors {
			m.Finished(w, t, step)
		}
	}()

	for w.steps <= 0 || w.count < w.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.Step()
		t, step := w.Clock()
		for _, m := range monitors {
			if err := m.StepDone(ctx, w, t, step); err != nil {
				return fmt.Errorf("notifying step %d: %w", step, err)
			}
		}
	}
	return nil
}

// moveNodes turns every node by a random angle and moves it, reflecting it
// off the environment edges.
func (w *World) moveNodes() {
	query := w.nodes.Query()
	for query.Next() {
		_, pos, vel := query.Get()

		turn := (w.rng.Float64()*2 - 1) * maxTurn
		sin, cos := math.Sincos(turn)
		vel.X, vel.Y = vel.X*cos-vel.Y*sin, vel.X*sin+vel.Y*cos

		pos.X, vel.X = reflect(pos.X+vel.X*w.dt, vel.X, w.offset.X, w.offset.X+w.size.W)
		pos.Y, vel.Y = reflect(pos.Y+vel.Y*w.dt, vel.Y, w.offset.Y, w.offset.Y+w.size.H)
	}
}

// moveObstacles drifts obstacles, keeping them inside the environment.
func (w *World) moveObstacles() {
	query := w.obstacles.Query()
	for query.Next() {
		obst, pos, vel := query.Get()
		pos.X, vel.X = reflect(pos.X+vel.X*w.dt, vel.X, w.offset.X, w.offset.X+w.size.W-obst.W)
		pos.Y, vel.Y = reflect(pos.Y+vel.Y*w.dt, vel.Y, w.offset.Y, w.offset.Y+w.size.H-obst.H)
	}
}

// reflect folds x back into [lo, hi], flipping v when it bounced.
func reflect(x, v, lo, hi float64) (float64, float64) {
	if hi <= lo {
		return lo, 0
	}
	if x < lo {
		x, v = 2*lo-x, -v
	} else if x > hi {
		x, v = 2*hi-x, -v
	}
	return min(max(x, lo), hi), v
}

// publish rebuilds neighborhoods and swaps in a fresh snapshot for step.
func (w *World) publish(step int64) {
	w.ids = w.ids[:0]
	w.points = w.points[:0]
	query := w.nodes.Query()
	for query.Next() {
		node, pos, _ := query.Get()
		w.ids = append(w.ids, node.ID)
		w.points = append(w.points, pos.Point())
	}
	w.computeNeighbors()

	positions := make(map[display.NodeID]r2.Point, len(w.ids))
	neighbors := make(map[display.NodeID][]display.NodeID, len(w.ids))
	for i, id := range w.ids {
		positions[id] = w.points[i]
		if len(w.neighbors[i]) > 0 {
			neighbors[id] = w.neighbors[i]
		}
	}

	var rects []r2.Rect
	obstQuery := w.obstacles.Query()
	for obstQuery.Next() {
		obst, pos, _ := obstQuery.Get()
		rects = append(rects, obst.Rect(*pos))
	}

	w.mu.Lock()
	w.step = step
	w.t = float64(step) * w.dt
	w.snap = display.Snapshot{
		Step:      w.step,
		Time:      w.t,
		Positions: positions,
		Neighbors: neighbors,
	}
	w.rects = rects
	w.mu.Unlock()
}
