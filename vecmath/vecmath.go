// Package vecmath provides stateless 2D vector helpers shared by the viewport
// and input packages.
package vecmath

import (
	"math"

	"github.com/golang/geo/r2"
)

// FullTurn is a complete rotation in radians.
const FullTurn = 2 * math.Pi

// Add returns a + b.
func Add(a, b r2.Point) r2.Point {
	return a.Add(b)
}

// Sub returns a - b.
func Sub(a, b r2.Point) r2.Point {
	return a.Sub(b)
}

// Negate returns -p.
func Negate(p r2.Point) r2.Point {
	return r2.Point{X: -p.X, Y: -p.Y}
}

// Scale returns k*p.
func Scale(k float64, p r2.Point) r2.Point {
	return p.Mul(k)
}

// Dot returns the scalar product a.x*b.x + a.y*b.y.
func Dot(a, b r2.Point) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Delta returns the vector going from start to end.
func Delta(end, start r2.Point) r2.Point {
	return r2.Point{X: end.X - start.X, Y: end.Y - start.Y}
}

// NormalizeAngle maps rad into [0, 2π). Non-finite input yields 0.
func NormalizeAngle(rad float64) float64 {
	if math.IsNaN(rad) || math.IsInf(rad, 0) {
		return 0
	}
	a := math.Mod(rad, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	// Mod of a tiny negative value can round back up to exactly FullTurn.
	if a >= FullTurn {
		a = 0
	}
	return a
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b r2.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
