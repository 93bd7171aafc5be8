// Package display connects a simulation to a viewport: it keeps the latest
// environment snapshot for drawing, paces the simulation against wall-clock
// time, and turns pointer gestures into pan, zoom and rotation changes.
package display

import (
	"context"
	"slices"

	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/viewport"
)

// NodeID identifies a node of the simulated environment.
type NodeID int64

// Snapshot is the drawable state of an environment at one step. A Snapshot
// handed to the display must not be mutated afterwards.
type Snapshot struct {
	Step      int64
	Time      float64
	Positions map[NodeID]r2.Point
	Neighbors map[NodeID][]NodeID
}

// IDs returns the node ids in ascending order.
func (s Snapshot) IDs() []NodeID {
	ids := make([]NodeID, 0, len(s.Positions))
	for id := range s.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Environment is the simulation side seen by a display.
type Environment interface {
	// Size returns the environment bounding box dimensions.
	Size() viewport.Size
	// Offset returns the lower-left corner of the environment bounding box.
	Offset() r2.Point
	// Snapshot returns a copy of the current node positions and neighborhoods.
	Snapshot() Snapshot
	// Obstacles returns the obstacle bounds, in environment coordinates.
	Obstacles() []r2.Rect
	// HasMobileObstacles reports whether Obstacles must be reloaded every step.
	HasMobileObstacles() bool
}

// Monitor receives simulation lifecycle notifications.
type Monitor interface {
	Initialized(ctx context.Context, env Environment) error
	StepDone(ctx context.Context, env Environment, t float64, step int64) error
	Finished(env Environment, t float64, step int64)
}

// Renderer draws display primitives, in view coordinates.
type Renderer interface {
	DrawObstacle(corners [4]r2.Point)
	DrawLink(from, to r2.Point)
	DrawNode(id NodeID, at r2.Point)
	DrawNearest(id NodeID, at r2.Point)
}

// corners returns the four corners of r, counter-clockwise from its low corner.
func corners(r r2.Rect) [4]r2.Point {
	return [4]r2.Point{
		r.Lo(),
		{X: r.X.Hi, Y: r.Y.Lo},
		r.Hi(),
		{X: r.X.Lo, Y: r.Y.Hi},
	}
}
