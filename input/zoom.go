package input

import (
	"fmt"
	"math"
)

const (
	// DefaultExpBase is the per-slide multiplier used by wheel zooming.
	DefaultExpBase = 1.1

	// MinExpZoom is the smallest zoom an ExpZoom will accept from SetZoom.
	// base^slides is never 0, so lower requests are clamped here.
	MinExpZoom = 1e-9

	// minNormal is the smallest positive normal float64.
	minNormal = 0x1p-1022
)

// ZoomManager maps accumulated slides to a zoom factor and back.
type ZoomManager interface {
	Increment(amount float64)
	Decrement(amount float64)
	Value() float64

	// Zoom returns the zoom factor for the current slides.
	Zoom() float64
	// SetZoom recomputes the slides that produce z, so later relative
	// increments continue from z.
	SetZoom(z float64)
}

var (
	_ ZoomManager = (*LinearZoom)(nil)
	_ ZoomManager = (*ExpZoom)(nil)
)

// LinearZoom computes zoom = rate * slides.
type LinearZoom struct {
	SlideManager
	rate float64
}

// NewLinearZoom creates a linear zoom manager starting at zoom.
// A rate that is zero, negative, subnormal or not finite is a configuration
// error, since SetZoom has to divide by it.
func NewLinearZoom(zoom, rate float64) (*LinearZoom, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < minNormal {
		return nil, fmt.Errorf("linear zoom rate %g: %w", rate, ErrInvalidRate)
	}
	return &LinearZoom{
		SlideManager: SlideManager{value: zoom / rate},
		rate:         rate,
	}, nil
}

// Rate returns the zoom gained per slide.
func (z *LinearZoom) Rate() float64 {
	return z.rate
}

// Zoom returns rate * slides.
func (z *LinearZoom) Zoom() float64 {
	return z.rate * z.value
}

// SetZoom sets slides to zoom / rate.
func (z *LinearZoom) SetZoom(zoom float64) {
	z.value = zoom / z.rate
}

// ExpZoom computes zoom = base ^ slides, so each slide multiplies the zoom by
// a constant factor.
type ExpZoom struct {
	SlideManager
	base    float64
	logBase float64
}

// NewExpZoom creates an exponential zoom manager starting at zoom.
func NewExpZoom(zoom, base float64) (*ExpZoom, error) {
	if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 || base == 1 {
		return nil, fmt.Errorf("exponential zoom base %g: %w", base, ErrInvalidBase)
	}
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom <= 0 {
		return nil, fmt.Errorf("exponential zoom start %g: %w", zoom, ErrInvalidZoom)
	}
	z := &ExpZoom{base: base, logBase: math.Log(base)}
	z.SetZoom(zoom)
	return z, nil
}

// Base returns the per-slide multiplier.
func (z *ExpZoom) Base() float64 {
	return z.base
}

// Zoom returns base ^ slides.
func (z *ExpZoom) Zoom() float64 {
	return math.Pow(z.base, z.value)
}

// SetZoom sets slides to log_base(zoom). Non-positive zooms clamp to MinExpZoom.
func (z *ExpZoom) SetZoom(zoom float64) {
	if math.IsNaN(zoom) || zoom < MinExpZoom {
		zoom = MinExpZoom
	}
	z.value = math.Log(zoom) / z.logBase
}
