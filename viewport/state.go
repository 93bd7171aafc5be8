package viewport

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/vecmath"
)

// State is the data shared by every viewport variant.
type State struct {
	viewSize       Size
	envSize        Size
	position       r2.Point // pan anchor, view space
	offset         r2.Point // env point drawn on the anchor
	originalOffset r2.Point
	zoom           float64
	rotation       float64
	stretch        Stretch
}

// newState creates a state anchored at the bottom-left corner of the view,
// so that with the default transform env y grows upwards from there.
func newState(view, env Size, offset r2.Point) State {
	return State{
		viewSize:       view,
		envSize:        env,
		position:       r2.Point{X: 0, Y: view.H},
		offset:         offset,
		originalOffset: offset,
		zoom:           1,
		stretch:        IsometricStretch{},
	}
}

// ViewSize returns the view dimensions in pixels.
func (s *State) ViewSize() Size { return s.viewSize }

// SetViewSize stores new view dimensions. AdaptToView rates are not refreshed.
func (s *State) SetViewSize(size Size) { s.viewSize = size }

// EnvSize returns the environment dimensions.
func (s *State) EnvSize() Size { return s.envSize }

// SetEnvSize stores new environment dimensions.
func (s *State) SetEnvSize(size Size) { s.envSize = size }

// EnvOffset returns the env point drawn on the pan anchor.
func (s *State) EnvOffset() r2.Point { return s.offset }

// SetEnvOffset changes the env point drawn on the pan anchor.
func (s *State) SetEnvOffset(p r2.Point) { s.offset = p }

// OriginalOffset returns the offset the viewport was created with.
func (s *State) OriginalOffset() r2.Point { return s.originalOffset }

// EnvRatio returns env width / env height.
func (s *State) EnvRatio() float64 { return s.envSize.Ratio() }

// ViewRatio returns view width / view height.
func (s *State) ViewRatio() float64 { return s.viewSize.Ratio() }

// Zoom returns the scale factor.
func (s *State) Zoom() float64 { return s.zoom }

// Rotation returns the rotation in radians.
func (s *State) Rotation() float64 { return s.rotation }

// Stretch returns the current stretch variant.
func (s *State) Stretch() Stretch { return s.stretch }

// Mode returns the mode of the current stretch variant.
func (s *State) Mode() Mode { return s.stretch.Mode() }

// HRate returns the horizontal stretch factor.
func (s *State) HRate() float64 {
	h, _ := s.stretch.rates()
	return h
}

// VRate returns the vertical stretch factor.
func (s *State) VRate() float64 {
	_, v := s.stretch.rates()
	return v
}

// IsInsideView reports whether p lies in [0, w] x [0, h].
func (s *State) IsInsideView(p r2.Point) bool {
	bounds := r2.RectFromPoints(r2.Point{}, r2.Point{X: s.viewSize.W, Y: s.viewSize.H})
	return bounds.ContainsPoint(p)
}

func (s *State) setZoom(z, max float64) {
	s.zoom = clampZoom(z, max)
}

func (s *State) setRotation(rad float64) {
	s.rotation = vecmath.NormalizeAngle(rad)
}

// clampZoom restricts z to [0, max]; NaN becomes 0.
func clampZoom(z, max float64) float64 {
	if math.IsNaN(z) || z < 0 {
		return 0
	}
	if z > max {
		return max
	}
	return z
}
