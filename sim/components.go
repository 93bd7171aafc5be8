// Package sim runs a demo environment for the viewer: nodes random-walk
// inside the environment bounds, bounce off its edges and link to every node
// within a radius, around a few rectangular obstacles.
package sim

import (
	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/display"
)

// Node marks a walking node.
type Node struct {
	ID display.NodeID
}

// Position is an environment position. For obstacles it is the low corner.
type Position struct {
	X, Y float64
}

// Point returns p as an r2.Point.
func (p Position) Point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Velocity is in environment units per second.
type Velocity struct {
	X, Y float64
}

// Obstacle is an axis-aligned box anchored at its Position.
type Obstacle struct {
	W, H float64
}

// Rect returns the bounds of an obstacle anchored at p.
func (o Obstacle) Rect(p Position) r2.Rect {
	return r2.RectFromPoints(p.Point(), r2.Point{X: p.X + o.W, Y: p.Y + o.H})
}
