package viewport

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	"go.uber.org/zap"

	"github.com/pthm-cable/wormhole/logger"
	"github.com/pthm-cable/wormhole/mapview"
	"github.com/pthm-cable/wormhole/vecmath"
)

// MaxMapZoom is the deepest zoom level of the tile pyramid.
const MaxMapZoom = mapview.MaxZoomLevel

// MapModel is the live state of the map renderer a GeographicViewport drives.
type MapModel interface {
	Center() s2.LatLng
	SetCenter(ll s2.LatLng)
	ZoomLevel() uint8
	SetZoomLevel(z uint8)
}

// GeographicViewport maps longitude/latitude (env x/y, in degrees) to view
// pixels through the Mercator tile pyramid. The pan anchor is always the
// view center, which shows the map model's center.
type GeographicViewport struct {
	State
	model MapModel
}

// NewGeographic migrates the sizes and offset of prev into a geographic
// viewport driving model.
func NewGeographic(prev Viewport, model MapModel) *GeographicViewport {
	g := &GeographicViewport{
		State: newState(prev.ViewSize(), prev.EnvSize(), prev.EnvOffset()),
		model: model,
	}
	g.stretch = MapStretch{}
	g.zoom = float64(model.ZoomLevel())
	return g
}

// Model returns the driven map model.
func (g *GeographicViewport) Model() MapModel { return g.model }

// ZoomLevel returns the integer pyramid level currently in use.
func (g *GeographicViewport) ZoomLevel() uint8 { return g.model.ZoomLevel() }

// centerPixel returns the projected pixel position of the map center.
func (g *GeographicViewport) centerPixel(z uint8) r2.Point {
	x, y := mapview.Project(g.model.Center(), z)
	return r2.Point{X: x, Y: y}
}

// EnvToView projects a (lon, lat) point into view pixels.
func (g *GeographicViewport) EnvToView(p r2.Point) r2.Point {
	z := g.model.ZoomLevel()
	px := r2.Point{X: mapview.LongitudeToPixelX(p.X, z), Y: mapview.LatitudeToPixelY(p.Y, z)}
	return vecmath.Add(g.ViewPosition(), vecmath.Delta(px, g.centerPixel(z)))
}

// ViewToEnv unprojects view pixels into a (lon, lat) point.
func (g *GeographicViewport) ViewToEnv(p r2.Point) r2.Point {
	z := g.model.ZoomLevel()
	px := vecmath.Add(vecmath.Delta(p, g.ViewPosition()), g.centerPixel(z))
	return r2.Point{X: mapview.PixelXToLongitude(px.X, z), Y: mapview.PixelYToLatitude(px.Y, z)}
}

// ViewPosition returns the view center.
func (g *GeographicViewport) ViewPosition() r2.Point {
	return r2.Point{X: g.viewSize.W / 2, Y: g.viewSize.H / 2}
}

// SetViewPosition drags the content so that what was at the view center
// ends up at p.
func (g *GeographicViewport) SetViewPosition(p r2.Point) {
	g.TranslateViewPosition(vecmath.Delta(p, g.ViewPosition()))
}

// TranslateViewPosition moves the map content by delta pixels.
func (g *GeographicViewport) TranslateViewPosition(delta r2.Point) {
	z := g.model.ZoomLevel()
	c := vecmath.Sub(g.centerPixel(z), delta)
	g.model.SetCenter(mapview.Unproject(c.X, c.Y, z))
}

// EnvPosition returns the map center as (lon, lat).
func (g *GeographicViewport) EnvPosition() r2.Point {
	c := g.model.Center()
	return r2.Point{X: c.Lng.Degrees(), Y: c.Lat.Degrees()}
}

// SetEnvPosition centers the map on (lon, lat). Coordinates outside the
// valid range center the map on (0, 0) instead.
func (g *GeographicViewport) SetEnvPosition(p r2.Point) {
	ll := s2.LatLngFromDegrees(p.Y, p.X)
	if !ll.IsValid() {
		logger.Named("viewport").Warn("invalid map center, falling back to origin",
			zap.Float64("lon", p.X), zap.Float64("lat", p.Y))
		ll = s2.LatLng{}
	}
	g.model.SetCenter(ll)
}

// SetZoom clamps z to [0, MaxMapZoom] and moves the map to the integer level
// below it.
func (g *GeographicViewport) SetZoom(z float64) {
	g.setZoom(z, MaxMapZoom)
	g.model.SetZoomLevel(uint8(g.zoom))
}

// ZoomOnPoint changes the zoom level keeping the location under p still.
func (g *GeographicViewport) ZoomOnPoint(p r2.Point, z float64) {
	env := g.ViewToEnv(p)
	g.SetZoom(z)
	g.TranslateViewPosition(vecmath.Delta(p, g.EnvToView(env)))
}

// SetOptimalZoomRate searches the deepest zoom level that still shows the
// original offset. The search starts at level 1 at most and is bounded by
// MaxMapZoom.
func (g *GeographicViewport) SetOptimalZoomRate() {
	target := g.originalOffset
	if g.zoom > 1 {
		g.SetZoom(1)
	}
	steps := 0
	for g.IsInsideView(g.EnvToView(target)) && g.zoom < MaxMapZoom {
		g.SetZoom(g.zoom + 1)
		steps++
	}
	g.SetZoom(g.zoom - 1)
	logger.Named("viewport").Debug("optimal map zoom",
		zap.Float64("zoom", g.zoom), zap.Int("steps", steps))
}

// SetRotation always fails: maps are drawn north-up.
func (g *GeographicViewport) SetRotation(float64) error {
	return fmt.Errorf("rotating a geographic viewport: %w", ErrUnsupported)
}

// RotateAroundPoint always fails: maps are drawn north-up.
func (g *GeographicViewport) RotateAroundPoint(r2.Point, float64) error {
	return fmt.Errorf("rotating a geographic viewport: %w", ErrUnsupported)
}

// SetRates always fails: the projection defines the scale.
func (g *GeographicViewport) SetRates(float64, float64) error {
	return fmt.Errorf("stretching a geographic viewport: %w", ErrUnsupported)
}
