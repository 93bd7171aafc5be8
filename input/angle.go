package input

import "math"

const (
	// DefaultDegPerWheelClick is the rotation applied per wheel click.
	DefaultDegPerWheelClick = 5.0

	// DefaultTurnsPerScreen is how many full rotations a drag across the whole
	// screen width produces.
	DefaultTurnsPerScreen = 3.0

	degreesInCircle = 360.0
)

// DegPerPixel returns the degrees-per-pixel unit that turns a drag across
// screenWidth pixels into the given number of full rotations.
// A non-positive width falls back to one degree per pixel.
func DegPerPixel(screenWidth, turns float64) float64 {
	if screenWidth <= 0 {
		return 1
	}
	return turns * degreesInCircle / screenWidth
}

// AngleManager maps slides to a rotation angle.
type AngleManager struct {
	SlideManager
	degPerSlide float64
	phaseDeg    float64
}

// NewAngleManager creates an angle manager where one slide is degPerSlide
// degrees and zero slides is phaseDeg degrees.
func NewAngleManager(degPerSlide, phaseDeg float64) *AngleManager {
	return &AngleManager{degPerSlide: degPerSlide, phaseDeg: phaseDeg}
}

// Radians returns the current angle.
func (a *AngleManager) Radians() float64 {
	return (a.value*a.degPerSlide + a.phaseDeg) * math.Pi / 180
}

// DegPerSlide returns the degrees produced by one slide.
func (a *AngleManager) DegPerSlide() float64 {
	return a.degPerSlide
}

// SetDegPerSlide changes the unit without touching the accumulated slides.
func (a *AngleManager) SetDegPerSlide(deg float64) {
	a.degPerSlide = deg
}

// Phase returns the initial rotation in degrees.
func (a *AngleManager) Phase() float64 {
	return a.phaseDeg
}

// SetPhase changes the initial rotation in degrees.
func (a *AngleManager) SetPhase(deg float64) {
	a.phaseDeg = deg
}
