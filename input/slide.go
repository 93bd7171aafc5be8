// Package input converts raw user gestures (drag distance, wheel clicks,
// pointer motion) into the zoom, angle and displacement values that drive a
// viewport.
package input

import "errors"

var (
	// ErrInvalidRate is returned when a linear zoom rate cannot be inverted.
	ErrInvalidRate = errors.New("input: zoom rate must be a positive normal number")

	// ErrInvalidBase is returned when an exponential zoom base is not usable.
	ErrInvalidBase = errors.New("input: zoom base must be positive, finite and different from 1")

	// ErrInvalidZoom is returned when an initial zoom cannot be expressed as slides.
	ErrInvalidZoom = errors.New("input: initial zoom must be positive")

	// ErrNoTimeBase is returned by PointerTracker.Velocity when fewer than two
	// timed samples are available.
	ErrNoTimeBase = errors.New("input: velocity needs two samples taken at different times")
)

// SlideManager accumulates "slides", the abstract unit of user input.
// Derived managers compute their output as a pure function of Value.
type SlideManager struct {
	value float64
}

// NewSlideManager creates a manager whose accumulator starts at initial.
func NewSlideManager(initial float64) *SlideManager {
	return &SlideManager{value: initial}
}

// Increment adds amount slides.
func (s *SlideManager) Increment(amount float64) {
	s.value += amount
}

// Decrement removes amount slides.
func (s *SlideManager) Decrement(amount float64) {
	s.value -= amount
}

// Value returns the current amount of slides.
func (s *SlideManager) Value() float64 {
	return s.value
}

// SetValue overwrites the accumulator.
func (s *SlideManager) SetValue(v float64) {
	s.value = v
}
