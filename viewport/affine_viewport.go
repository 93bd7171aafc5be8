package viewport

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/pthm-cable/wormhole/logger"
	"github.com/pthm-cable/wormhole/vecmath"
)

// MinScale is the smallest per-axis scale used when a singular transform has
// to be inverted anyway.
const MinScale = 1e-12

// AffineViewport maps env to view with scale, vertical flip, rotation and
// translation to the pan anchor.
type AffineViewport struct {
	State
}

// NewAffine creates an isometric viewport with zoom 1, anchored at the
// bottom-left corner of the view, showing env point offset there.
func NewAffine(view, env Size, offset r2.Point) *AffineViewport {
	return &AffineViewport{State: newState(view, env, offset)}
}

// Transform returns the env→view transform for the current state, applied to
// env points already shifted by -offset.
func (v *AffineViewport) Transform() Affine {
	h, vr := v.stretch.rates()
	return v.transformWithScale(v.zoom*h, v.zoom*vr)
}

func (v *AffineViewport) transformWithScale(sx, sy float64) Affine {
	return Translate(v.position).Mul(Scale(sx, -sy)).Mul(Rotate(v.rotation))
}

// InverseTransform returns the view→env transform (before adding the offset),
// or ErrSingularTransform when the zoom or a stretch rate is zero.
func (v *AffineViewport) InverseTransform() (Affine, error) {
	inv, err := v.Transform().Invert()
	if err != nil {
		return inv, fmt.Errorf("zoom %g, rates %g/%g: %w", v.zoom, v.HRate(), v.VRate(), err)
	}
	return inv, nil
}

// EnvToView converts an environment point into view pixels.
func (v *AffineViewport) EnvToView(p r2.Point) r2.Point {
	return v.Transform().Apply(vecmath.Sub(p, v.offset))
}

// ViewToEnv converts view pixels into an environment point. A singular
// transform is logged and inverted with its scales raised to MinScale, so the
// result stays finite and deterministic.
func (v *AffineViewport) ViewToEnv(p r2.Point) r2.Point {
	inv, err := v.InverseTransform()
	if err != nil {
		logger.Named("viewport").Debug("inverting degenerate transform", zap.Error(err))
		h, vr := v.stretch.rates()
		inv, err = v.transformWithScale(atLeast(v.zoom*h, MinScale), atLeast(v.zoom*vr, MinScale)).Invert()
		if err != nil {
			inv = Identity
		}
	}
	return vecmath.Add(inv.Apply(p), v.offset)
}

// atLeast keeps the sign of x but raises its magnitude to min.
func atLeast(x, min float64) float64 {
	if math.IsNaN(x) || math.Abs(x) < min {
		if x < 0 {
			return -min
		}
		return min
	}
	return x
}

// ViewPosition returns the pan anchor.
func (v *AffineViewport) ViewPosition() r2.Point { return v.position }

// SetViewPosition moves the pan anchor, dragging the content along.
func (v *AffineViewport) SetViewPosition(p r2.Point) { v.position = p }

// TranslateViewPosition moves the pan anchor by delta.
func (v *AffineViewport) TranslateViewPosition(delta r2.Point) {
	v.position = vecmath.Add(v.position, delta)
}

// EnvPosition returns the env point under the pan anchor.
func (v *AffineViewport) EnvPosition() r2.Point {
	return v.ViewToEnv(v.position)
}

// SetEnvPosition moves the pan anchor onto the current view point of p.
func (v *AffineViewport) SetEnvPosition(p r2.Point) {
	v.SetViewPosition(v.EnvToView(p))
}

// SetZoom sets the zoom, clamped to be non-negative.
func (v *AffineViewport) SetZoom(z float64) {
	v.setZoom(z, math.MaxFloat64)
}

// SetRotation sets the rotation, normalized into [0, 2π).
func (v *AffineViewport) SetRotation(rad float64) error {
	v.setRotation(rad)
	return nil
}

// RotateAroundPoint rotates by angle around view point p: the anchor moves to
// p without moving the content, the rotation is applied, then the anchor is
// moved back onto the original offset.
func (v *AffineViewport) RotateAroundPoint(p r2.Point, angle float64) error {
	v.anchorAt(p)
	v.setRotation(v.rotation + angle)
	v.anchorAtEnv(v.originalOffset)
	return nil
}

// ZoomOnPoint sets the zoom to z keeping the content under view point p still.
func (v *AffineViewport) ZoomOnPoint(p r2.Point, z float64) {
	v.anchorAt(p)
	v.SetZoom(z)
	v.anchorAtEnv(v.originalOffset)
}

// SetOptimalZoomRate fits the whole environment in the view without cropping.
// Degenerate sizes leave the zoom unchanged.
func (v *AffineViewport) SetOptimalZoomRate() {
	env, view := v.envSize, v.viewSize
	if env.W <= 0 || env.H <= 0 || view.W <= 0 || view.H <= 0 {
		logger.Named("viewport").Debug("optimal zoom skipped on degenerate size",
			zap.Float64("env_w", env.W), zap.Float64("env_h", env.H),
			zap.Float64("view_w", view.W), zap.Float64("view_h", view.H))
		return
	}
	v.SetZoom(math.Min(view.W/env.W, view.H/env.H))
}

// SetMode switches between Isometric, AdaptToView and Settable. Entering
// AdaptToView captures the current view/env ratios; entering Settable keeps
// the rates currently in effect. Map is a migration: use NewGeographic.
func (v *AffineViewport) SetMode(m Mode) error {
	switch m {
	case Isometric:
		v.stretch = IsometricStretch{}
	case AdaptToView:
		v.stretch = adaptRates(v.viewSize, v.envSize)
	case Settable:
		h, vr := v.stretch.rates()
		v.stretch = SettableStretch{H: h, V: vr}
	case Map:
		return fmt.Errorf("entering map mode on an affine viewport: %w", ErrUnsupported)
	default:
		return fmt.Errorf("mode %d: %w", int(m), ErrInvalidMode)
	}
	return nil
}

// SetRates changes the stretch rates. Settable stores them verbatim,
// AdaptToView recomputes them from the sizes and Isometric ignores them.
func (v *AffineViewport) SetRates(h, vr float64) error {
	switch v.stretch.(type) {
	case SettableStretch:
		v.stretch = SettableStretch{H: h, V: vr}
	case AdaptStretch:
		v.stretch = adaptRates(v.viewSize, v.envSize)
	}
	return nil
}

// RefreshStretch recomputes AdaptToView rates after a resize. Other modes are
// left untouched.
func (v *AffineViewport) RefreshStretch() {
	if _, ok := v.stretch.(AdaptStretch); ok {
		v.stretch = adaptRates(v.viewSize, v.envSize)
	}
}

// anchorAt moves the pan anchor to view point p without moving the content.
// A singular transform collapses the content onto the anchor, so the anchor
// and offset are kept as they are.
func (v *AffineViewport) anchorAt(p r2.Point) {
	inv, err := v.InverseTransform()
	if err != nil {
		return
	}
	envDelta := vecmath.Sub(inv.Apply(vecmath.Delta(p, v.position)), inv.Apply(r2.Point{}))
	v.position = p
	v.offset = vecmath.Add(v.offset, envDelta)
}

// anchorAtEnv moves the pan anchor onto env point p without moving the content.
func (v *AffineViewport) anchorAtEnv(p r2.Point) {
	v.anchorAt(v.EnvToView(p))
}
