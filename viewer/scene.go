package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/display"
)

// scene draws display primitives with raylib.
type scene struct {
	theme     *Theme
	hooked    display.NodeID
	hasHooked bool
}

var _ display.Renderer = (*scene)(nil)

func vec(p r2.Point) rl.Vector2 {
	return rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
}

// DrawObstacle fills the quad and outlines it. The view transform may flip
// orientation and raylib culls clockwise triangles, so both windings are
// submitted and exactly one of each pair is rasterized.
func (s *scene) DrawObstacle(c [4]r2.Point) {
	v0, v1, v2, v3 := vec(c[0]), vec(c[1]), vec(c[2]), vec(c[3])
	rl.DrawTriangle(v0, v1, v2, s.theme.Obstacle)
	rl.DrawTriangle(v0, v2, v1, s.theme.Obstacle)
	rl.DrawTriangle(v0, v2, v3, s.theme.Obstacle)
	rl.DrawTriangle(v0, v3, v2, s.theme.Obstacle)

	for i := range c {
		rl.DrawLineV(vec(c[i]), vec(c[(i+1)%4]), s.theme.ObstacleEdge)
	}
}

func (s *scene) DrawLink(from, to r2.Point) {
	rl.DrawLineV(vec(from), vec(to), s.theme.Link)
}

func (s *scene) DrawNode(id display.NodeID, at r2.Point) {
	color := s.theme.Node
	if s.hasHooked && id == s.hooked {
		color = s.theme.Hooked
	}
	rl.DrawCircleV(vec(at), s.theme.NodeRadius, color)
}

func (s *scene) DrawNearest(_ display.NodeID, at r2.Point) {
	rl.DrawCircleLines(int32(at.X), int32(at.Y), s.theme.NearestRadius, s.theme.Nearest)
}
