package viewer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wormhole/display"
)

const controlsLegend = "Drag: pan | Right drag: rotate | Wheel: zoom | Shift+Wheel, Q/E: rotate | " +
	"Middle: hook | Double click: track | F fit | R reset | L links | T realtime | M mode | H panel"

// HUDData holds everything the status lines show.
type HUDData struct {
	Title   string
	Stats   display.DrawStats
	View    display.ViewState
	Hooked  display.NodeID
	Hooking bool
	FPS     int32
	Tooltip string
	Mouse   rl.Vector2
}

// HUD renders the status lines, the pointer tooltip and the legend.
type HUD struct {
	theme *Theme
}

// NewHUD creates a HUD drawn with theme.
func NewHUD(theme *Theme) *HUD {
	return &HUD{theme: theme}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	t := h.theme
	x, y := t.Padding, t.Padding

	rl.DrawText(data.Title, x, y, t.HeaderFontSize+4, rl.White)
	y += t.LineHeight + 8

	lines := []string{
		fmt.Sprintf("Step: %d | Time: %.2f | FPS: %d", data.Stats.Step, data.Stats.Time, data.FPS),
		fmt.Sprintf("Nodes: %d (visible %d) | Links: %d | Obstacles: %d",
			data.Stats.Nodes, data.Stats.Visible, data.Stats.Links, data.Stats.Obstacles),
	}
	if data.View.Ready {
		lines = append(lines, fmt.Sprintf("Mode: %s | Zoom: %.4g | Rotation: %.1f deg",
			data.View.Mode, data.View.Zoom, data.View.Rotation*180/math.Pi))
	}
	if data.Hooking {
		lines = append(lines, fmt.Sprintf("Following node %d", data.Hooked))
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, t.FontSize, t.Label)
		y += t.LineHeight
	}

	if data.Tooltip != "" {
		h.drawTooltip(data.Tooltip, data.Mouse)
	}
	rl.DrawText(controlsLegend, t.Padding, int32(rl.GetScreenHeight())-t.LineHeight-4, t.FontSize-2, rl.Gray)
}

// drawTooltip draws text next to the pointer, kept on screen.
func (h *HUD) drawTooltip(text string, at rl.Vector2) {
	t := h.theme
	w := rl.MeasureText(text, t.FontSize) + 2*4
	x := int32(at.X) + 14
	y := int32(at.Y) + 14
	if sw := int32(rl.GetScreenWidth()); x+w > sw {
		x = sw - w
	}
	rl.DrawRectangle(x, y, w, t.LineHeight+4, t.TooltipBg)
	rl.DrawText(text, x+4, y+3, t.FontSize, t.Value)
}
