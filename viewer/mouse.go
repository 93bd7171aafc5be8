package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/geo/r2"

	"github.com/pthm-cable/wormhole/display"
	"github.com/pthm-cable/wormhole/telemetry"
)

var buttons = [...]struct {
	rl rl.MouseButton
	d  display.Button
}{
	{rl.MouseButtonLeft, display.ButtonLeft},
	{rl.MouseButtonMiddle, display.ButtonMiddle},
	{rl.MouseButtonRight, display.ButtonRight},
}

// mouseState tracks presses that started over the scene.
type mouseState struct {
	last    r2.Point
	pressed [len(buttons)]bool
	pressAt [len(buttons)]r2.Point
}

func (m *mouseState) dragging(i int) bool {
	return m.pressed[i] && rl.IsMouseButtonDown(buttons[i].rl)
}

// handleMouse forwards pointer gestures to the display. Presses that start
// over the control panel belong to raygui.
func (v *Viewer) handleMouse() {
	mp := rl.GetMousePosition()
	p := r2.Point{X: float64(mp.X), Y: float64(mp.Y)}
	overPanel := v.panel.Contains(mp)
	m := &v.mouse

	for i, b := range buttons {
		if rl.IsMouseButtonPressed(b.rl) {
			m.pressed[i] = !overPanel
			m.pressAt[i] = p
		}
	}

	if p != m.last {
		switch {
		case m.dragging(0):
			v.d.MouseDragged(p, display.ButtonLeft)
			v.rec.Record(telemetry.EventPan)
		case m.dragging(2):
			v.d.MouseDragged(p, display.ButtonRight)
			v.rec.Record(telemetry.EventRotate)
		default:
			v.d.MouseMoved(p)
		}
		m.last = p
	}

	for i, b := range buttons {
		if !rl.IsMouseButtonReleased(b.rl) {
			continue
		}
		if m.pressed[i] && v.clicks.IsClick(m.pressAt[i], p) {
			v.click(p, b.d)
		}
		m.pressed[i] = false
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
			v.rotate(float64(wheel))
			return
		}
		// raylib reports positive values away from the user
		v.d.MouseWheel(p, -float64(wheel))
		v.rec.Record(telemetry.EventZoom)
	}
}

func (v *Viewer) click(p r2.Point, b display.Button) {
	clicks := 1
	if b == display.ButtonLeft {
		clicks = v.clicks.Click(p)
	}
	v.d.MouseClicked(p, b, clicks)

	switch {
	case b == display.ButtonMiddle:
		v.rec.Record(telemetry.EventHook)
	case b == display.ButtonLeft && clicks == 2:
		v.rec.Record(telemetry.EventTrack)
	}
}
