package viewer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	panelWidth  = 200
	buttonH     = 26
	maxStepSlot = 50
)

// PanelState is what the control panel shows.
type PanelState struct {
	Mode      string
	MapMode   bool
	DrawLinks bool
	RealTime  bool
	Step      int
}

// PanelActions are the controls used during one frame.
type PanelActions struct {
	Fit            bool
	ResetRotation  bool
	ToggleLinks    bool
	ToggleRealTime bool
	CycleMode      bool
	Step           int // new step filter, 0 if unchanged
}

// ControlPanel renders the right-side raygui panel.
type ControlPanel struct {
	theme   *Theme
	visible bool
}

// NewControlPanel creates a visible panel.
func NewControlPanel(theme *Theme) *ControlPanel {
	return &ControlPanel{theme: theme, visible: true}
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

func (c *ControlPanel) bounds() rl.Rectangle {
	return rl.Rectangle{
		X:      float32(rl.GetScreenWidth() - panelWidth - int(c.theme.Padding)),
		Y:      float32(c.theme.Padding),
		Width:  panelWidth,
		Height: 7*(buttonH+6) + 3*float32(c.theme.LineHeight),
	}
}

// Contains reports whether p is over the visible panel.
func (c *ControlPanel) Contains(p rl.Vector2) bool {
	return c.visible && rl.CheckCollisionPointRec(p, c.bounds())
}

// Draw renders the panel and returns the controls used.
func (c *ControlPanel) Draw(s PanelState) PanelActions {
	var a PanelActions
	if !c.visible {
		return a
	}

	t := c.theme
	b := c.bounds()
	rl.DrawRectangleRec(b, t.PanelBg)
	rl.DrawRectangleLinesEx(b, 1, t.PanelBorder)

	x := b.X + float32(t.Padding)
	y := b.Y + float32(t.Padding)
	w := b.Width - 2*float32(t.Padding)
	button := func(text string) bool {
		pressed := gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonH}, text)
		y += buttonH + 6
		return pressed
	}

	rl.DrawText("View", int32(x), int32(y), t.HeaderFontSize, t.Header)
	y += float32(t.LineHeight)

	a.Fit = button("Fit environment")
	a.ResetRotation = button("Reset rotation")
	if !s.MapMode {
		a.CycleMode = button("Mode: " + s.Mode)
	} else {
		rl.DrawText("Mode: map", int32(x), int32(y)+6, t.FontSize, t.Label)
		y += buttonH + 6
	}
	a.ToggleLinks = button(toggleText(s.DrawLinks, "Hide links", "Show links"))

	rl.DrawText("Simulation", int32(x), int32(y), t.HeaderFontSize, t.Header)
	y += float32(t.LineHeight)

	a.ToggleRealTime = button(toggleText(s.RealTime, "Realtime: on", "Realtime: off"))

	rl.DrawText(fmt.Sprintf("Refresh every %d steps", max(s.Step, 1)), int32(x), int32(y), t.FontSize, t.Label)
	y += float32(t.LineHeight)
	current := float32(max(s.Step, 1))
	next := gui.SliderBar(rl.Rectangle{X: x + 20, Y: y, Width: w - 40, Height: 18}, "1", fmt.Sprint(maxStepSlot), current, 1, maxStepSlot)
	if step := int(next + 0.5); step != int(current) {
		a.Step = step
	}
	return a
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
