// Package viewport maps points between an environment space (the simulated
// world, y growing upwards, possibly geographic) and a view space (pixels,
// y growing downwards), and applies pan, zoom and rotation gestures to that
// mapping.
package viewport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
)

var (
	// ErrUnsupported is returned for operations a viewport variant cannot
	// honor, such as rotating a geographic map.
	ErrUnsupported = errors.New("viewport: unsupported operation")

	// ErrSingularTransform is returned when an affine transform has no inverse.
	ErrSingularTransform = errors.New("viewport: singular transform")

	// ErrInvalidMode is returned when a mode name cannot be parsed.
	ErrInvalidMode = errors.New("viewport: invalid mode")
)

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Ratio returns W / H, or 0 for a zero height.
func (s Size) Ratio() float64 {
	if s.H == 0 {
		return 0
	}
	return s.W / s.H
}

// Viewport converts points between environment and view space.
// Implementations are not safe for concurrent use.
type Viewport interface {
	// EnvToView converts an environment point into view pixels.
	EnvToView(p r2.Point) r2.Point
	// ViewToEnv converts view pixels into an environment point.
	ViewToEnv(p r2.Point) r2.Point
	// IsInsideView reports whether a view point lies within the view bounds.
	IsInsideView(p r2.Point) bool

	ViewSize() Size
	SetViewSize(s Size)
	EnvSize() Size
	SetEnvSize(s Size)
	EnvOffset() r2.Point
	SetEnvOffset(p r2.Point)
	EnvRatio() float64
	ViewRatio() float64

	// ViewPosition returns the pan anchor in view space.
	ViewPosition() r2.Point
	SetViewPosition(p r2.Point)
	// TranslateViewPosition moves the content by delta pixels.
	TranslateViewPosition(delta r2.Point)
	// EnvPosition returns the pan anchor in environment space.
	EnvPosition() r2.Point
	// SetEnvPosition moves the content so that env point p sits on the anchor.
	SetEnvPosition(p r2.Point)

	Zoom() float64
	SetZoom(z float64)
	// ZoomOnPoint sets the zoom to z keeping the content under view point p still.
	ZoomOnPoint(p r2.Point, z float64)
	// SetOptimalZoomRate picks the zoom that shows the whole environment.
	SetOptimalZoomRate()

	// Rotation returns the rotation in radians, in [0, 2π).
	Rotation() float64
	SetRotation(rad float64) error
	// RotateAroundPoint rotates by angle radians keeping the content under
	// view point p still.
	RotateAroundPoint(p r2.Point, angle float64) error

	Mode() Mode
	Stretch() Stretch
	HRate() float64
	VRate() float64
}

var (
	_ Viewport = (*AffineViewport)(nil)
	_ Viewport = (*GeographicViewport)(nil)
)

// Mode names the stretch policy of a viewport.
type Mode int

const (
	// Isometric applies no stretch.
	Isometric Mode = iota
	// AdaptToView stretches the environment to the view proportions.
	AdaptToView
	// Settable uses caller-provided stretch rates.
	Settable
	// Map uses a geographic projection and no stretch.
	Map
)

var modeNames = [...]string{"isometric", "adapt_to_view", "settable", "map"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses a mode name as written by Mode.String.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return Isometric, fmt.Errorf("%q: %w", s, ErrInvalidMode)
}
