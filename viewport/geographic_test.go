package viewport

import (
	"errors"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/floats/scalar"
)

// fakeMap records how often the viewport changes the zoom level.
type fakeMap struct {
	center    s2.LatLng
	zoom      uint8
	zoomCalls int
}

func (m *fakeMap) Center() s2.LatLng      { return m.center }
func (m *fakeMap) SetCenter(ll s2.LatLng) { m.center = ll }
func (m *fakeMap) ZoomLevel() uint8       { return m.zoom }
func (m *fakeMap) SetZoomLevel(z uint8) {
	m.zoom = z
	m.zoomCalls++
}

func newGeographic(view Size, offset r2.Point, model *fakeMap) *GeographicViewport {
	prev := NewAffine(view, Size{W: 360, H: 170}, offset)
	return NewGeographic(prev, model)
}

func TestGeographicMigratesState(t *testing.T) {
	prev := NewAffine(Size{W: 640, H: 480}, Size{W: 30, H: 20}, r2.Point{X: 12, Y: 44})
	g := NewGeographic(prev, &fakeMap{zoom: 4})

	if g.ViewSize() != prev.ViewSize() || g.EnvSize() != prev.EnvSize() || g.EnvOffset() != prev.EnvOffset() {
		t.Error("sizes and offset should be carried over from the previous viewport")
	}
	if g.Mode() != Map {
		t.Errorf("mode = %v, want map", g.Mode())
	}
	if g.Zoom() != 4 {
		t.Errorf("zoom = %f, want the model level 4", g.Zoom())
	}
	if want := (r2.Point{X: 320, Y: 240}); g.ViewPosition() != want {
		t.Errorf("pan anchor = %v, want the view center %v", g.ViewPosition(), want)
	}
}

func TestGeographicCenterMapsToViewCenter(t *testing.T) {
	m := &fakeMap{center: s2.LatLngFromDegrees(44, 12), zoom: 9}
	g := newGeographic(Size{W: 800, H: 600}, r2.Point{}, m)

	got := g.EnvToView(r2.Point{X: 12, Y: 44})
	if !pointsEqual(got, r2.Point{X: 400, Y: 300}, 1e-6) {
		t.Errorf("map center drawn at %v, want view center", got)
	}

	east := g.EnvToView(r2.Point{X: 12.01, Y: 44})
	north := g.EnvToView(r2.Point{X: 12, Y: 44.01})
	if east.X <= got.X {
		t.Errorf("east should be to the right: %v vs %v", east, got)
	}
	if north.Y >= got.Y {
		t.Errorf("north should be up: %v vs %v", north, got)
	}
}

func TestGeographicRoundTrip(t *testing.T) {
	m := &fakeMap{center: s2.LatLngFromDegrees(10, 45), zoom: 3}
	g := newGeographic(Size{W: 800, H: 600}, r2.Point{}, m)

	for _, p := range []r2.Point{{X: 45, Y: 10}, {X: 12, Y: 44}, {X: 60, Y: -5}} {
		got := g.ViewToEnv(g.EnvToView(p))
		if !pointsEqual(got, p, 1e-9) {
			t.Errorf("round trip of %v gave %v", p, got)
		}
	}
}

func TestGeographicTranslate(t *testing.T) {
	m := &fakeMap{center: s2.LatLngFromDegrees(0, 0), zoom: 5}
	g := newGeographic(Size{W: 800, H: 600}, r2.Point{}, m)
	env := r2.Point{X: 3, Y: 2}
	before := g.EnvToView(env)

	g.TranslateViewPosition(r2.Point{X: 25, Y: -40})

	if got := g.EnvToView(env); !pointsEqual(got, before.Add(r2.Point{X: 25, Y: -40}), 1e-6) {
		t.Errorf("content moved to %v, want %v", got, before.Add(r2.Point{X: 25, Y: -40}))
	}

	under := g.ViewToEnv(g.ViewPosition())
	target := r2.Point{X: 100, Y: 500}
	g.SetViewPosition(target)
	if got := g.EnvToView(under); !pointsEqual(got, target, 1e-6) {
		t.Errorf("content of the view center moved to %v, want %v", got, target)
	}
}

func TestGeographicZoomOnPoint(t *testing.T) {
	m := &fakeMap{center: s2.LatLngFromDegrees(44, 12), zoom: 4}
	g := newGeographic(Size{W: 800, H: 600}, r2.Point{}, m)
	p := r2.Point{X: 600, Y: 150}
	under := g.ViewToEnv(p)

	g.ZoomOnPoint(p, 7)

	if m.zoom != 7 {
		t.Errorf("model zoom = %d, want 7", m.zoom)
	}
	if got := g.EnvToView(under); !pointsEqual(got, p, 1e-6) {
		t.Errorf("content under %v moved to %v", p, got)
	}
}

func TestGeographicSetZoomClamps(t *testing.T) {
	m := &fakeMap{}
	g := newGeographic(Size{W: 100, H: 100}, r2.Point{}, m)

	g.SetZoom(300)
	if g.Zoom() != MaxMapZoom || m.zoom != MaxMapZoom {
		t.Errorf("zoom = %f/%d, want %d", g.Zoom(), m.zoom, MaxMapZoom)
	}
	g.SetZoom(-2)
	if g.Zoom() != 0 || m.zoom != 0 {
		t.Errorf("zoom = %f/%d, want 0", g.Zoom(), m.zoom)
	}
	g.SetZoom(3.7)
	if m.zoom != 3 {
		t.Errorf("model level = %d, want 3", m.zoom)
	}
}

func TestGeographicOptimalZoom(t *testing.T) {
	// (10°E, 10°N) leaves a 512 px view centered on (0, 0) above level 5.
	m := &fakeMap{center: s2.LatLngFromDegrees(0, 0), zoom: 10}
	g := newGeographic(Size{W: 512, H: 512}, r2.Point{X: 10, Y: 10}, m)

	g.SetOptimalZoomRate()

	if g.Zoom() != 5 || m.zoom != 5 {
		t.Errorf("zoom = %f/%d, want 5", g.Zoom(), m.zoom)
	}
	if !g.IsInsideView(g.EnvToView(r2.Point{X: 10, Y: 10})) {
		t.Error("reference point should stay visible")
	}
}

func TestGeographicOptimalZoomTerminates(t *testing.T) {
	// The reference point is the map center, so it never leaves the view.
	m := &fakeMap{center: s2.LatLngFromDegrees(0, 0)}
	g := newGeographic(Size{W: 512, H: 512}, r2.Point{}, m)

	g.SetOptimalZoomRate()

	if g.Zoom() != MaxMapZoom-1 {
		t.Errorf("zoom = %f, want %d", g.Zoom(), MaxMapZoom-1)
	}
	if m.zoomCalls > MaxMapZoom+1 {
		t.Errorf("search took %d steps", m.zoomCalls)
	}
}

func TestGeographicOptimalZoomNeverNegative(t *testing.T) {
	// Already off screen at level 0.
	m := &fakeMap{center: s2.LatLngFromDegrees(0, 0)}
	g := newGeographic(Size{W: 10, H: 10}, r2.Point{X: 170, Y: 0}, m)

	g.SetOptimalZoomRate()

	if g.Zoom() != 0 || m.zoom != 0 {
		t.Errorf("zoom = %f/%d, want 0", g.Zoom(), m.zoom)
	}
}

func TestGeographicRejectsRotation(t *testing.T) {
	g := newGeographic(Size{W: 100, H: 100}, r2.Point{}, &fakeMap{})

	if err := g.SetRotation(1); !errors.Is(err, ErrUnsupported) {
		t.Errorf("SetRotation: got %v, want ErrUnsupported", err)
	}
	if err := g.RotateAroundPoint(r2.Point{X: 5, Y: 5}, 1); !errors.Is(err, ErrUnsupported) {
		t.Errorf("RotateAroundPoint: got %v, want ErrUnsupported", err)
	}
	if err := g.SetRates(2, 2); !errors.Is(err, ErrUnsupported) {
		t.Errorf("SetRates: got %v, want ErrUnsupported", err)
	}
	if g.Rotation() != 0 {
		t.Errorf("rotation = %f, want 0", g.Rotation())
	}
}

func TestGeographicEnvPosition(t *testing.T) {
	m := &fakeMap{center: s2.LatLngFromDegrees(5, 5)}
	g := newGeographic(Size{W: 100, H: 100}, r2.Point{}, m)

	g.SetEnvPosition(r2.Point{X: 12.25, Y: 44.5})
	got := g.EnvPosition()
	if !scalar.EqualWithinAbs(got.X, 12.25, 1e-9) || !scalar.EqualWithinAbs(got.Y, 44.5, 1e-9) {
		t.Errorf("EnvPosition = %v, want (12.25, 44.5)", got)
	}

	g.SetEnvPosition(r2.Point{X: 200, Y: 95})
	if m.center != (s2.LatLng{}) {
		t.Errorf("invalid coordinates should fall back to the origin, got %v", m.center)
	}
}
