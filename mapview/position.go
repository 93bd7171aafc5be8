package mapview

import (
	"sync"

	"github.com/golang/geo/s2"
)

// Position is the live center and zoom level of a rendered map. It is shared
// between the viewport and whatever draws the tiles, so it is guarded.
type Position struct {
	mu     sync.RWMutex
	center s2.LatLng
	zoom   uint8
}

// NewPosition creates a map position.
func NewPosition(center s2.LatLng, zoom uint8) *Position {
	if zoom > MaxZoomLevel {
		zoom = MaxZoomLevel
	}
	return &Position{center: center, zoom: zoom}
}

// Center returns the coordinates at the middle of the map view.
func (p *Position) Center() s2.LatLng {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.center
}

// SetCenter moves the middle of the map view.
func (p *Position) SetCenter(ll s2.LatLng) {
	p.mu.Lock()
	p.center = ll
	p.mu.Unlock()
}

// ZoomLevel returns the current pyramid level.
func (p *Position) ZoomLevel() uint8 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.zoom
}

// SetZoomLevel changes the pyramid level, clamped to MaxZoomLevel.
func (p *Position) SetZoomLevel(z uint8) {
	if z > MaxZoomLevel {
		z = MaxZoomLevel
	}
	p.mu.Lock()
	p.zoom = z
	p.mu.Unlock()
}

// MoveCenter shifts the center by (dx, dy) pixels at the current zoom level,
// so that map content appears to move by (-dx, -dy).
func (p *Position) MoveCenter(dx, dy float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	x, y := Project(p.center, p.zoom)
	p.center = Unproject(x+dx, y+dy, p.zoom)
}
