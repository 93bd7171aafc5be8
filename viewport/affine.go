package viewport

import (
	"math"

	"github.com/golang/geo/r2"
)

// Affine is a 2D affine transform acting on column vectors:
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
//
// so x' = A*x + C*y + E and y' = B*x + D*y + F.
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity leaves points unchanged.
var Identity = Affine{A: 1, D: 1}

// singularEpsilon is the determinant magnitude below which a transform is
// treated as non-invertible.
const singularEpsilon = 1e-300

// Scale returns a non-uniform scale.
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// Rotate returns a rotation by th radians. Positive angles turn +x into +y.
func Rotate(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{A: cos, B: sin, C: -sin, D: cos}
}

// Translate returns a translation by p.
func Translate(p r2.Point) Affine {
	return Affine{A: 1, D: 1, E: p.X, F: p.Y}
}

// Mul returns the composition t∘o: o is applied first.
func (t Affine) Mul(o Affine) Affine {
	return Affine{
		A: t.A*o.A + t.C*o.B,
		B: t.B*o.A + t.D*o.B,
		C: t.A*o.C + t.C*o.D,
		D: t.B*o.C + t.D*o.D,
		E: t.A*o.E + t.C*o.F + t.E,
		F: t.B*o.E + t.D*o.F + t.F,
	}
}

// Apply transforms p.
func (t Affine) Apply(p r2.Point) r2.Point {
	return r2.Point{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// Det returns the determinant of the linear part.
func (t Affine) Det() float64 {
	return t.A*t.D - t.B*t.C
}

// Invert returns the inverse transform, or ErrSingularTransform.
func (t Affine) Invert() (Affine, error) {
	det := t.Det()
	if math.Abs(det) < singularEpsilon || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity, ErrSingularTransform
	}
	inv := 1 / det
	a := t.D * inv
	b := -t.B * inv
	c := -t.C * inv
	d := t.A * inv
	return Affine{
		A: a,
		B: b,
		C: c,
		D: d,
		E: -(a*t.E + c*t.F),
		F: -(b*t.E + d*t.F),
	}, nil
}
