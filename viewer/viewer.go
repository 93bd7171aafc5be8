package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/pthm-cable/wormhole/display"
	"github.com/pthm-cable/wormhole/input"
	"github.com/pthm-cable/wormhole/logger"
	"github.com/pthm-cable/wormhole/telemetry"
	"github.com/pthm-cable/wormhole/viewport"
)

// modeCycle is the order the mode control walks through affine modes.
var modeCycle = []viewport.Mode{viewport.Isometric, viewport.AdaptToView, viewport.Settable}

// Viewer drives one display from a raylib window. The window must be open
// before New is called; Update and Draw run on the window's goroutine.
type Viewer struct {
	d       *display.Display
	rec     *telemetry.Recorder
	title   string
	mapMode bool

	theme  Theme
	scene  *scene
	hud    *HUD
	panel  *ControlPanel
	clicks *input.ClickCounter
	mouse  mouseState
}

// New creates a viewer for d. rec receives frame and gesture telemetry.
func New(title string, d *display.Display, rec *telemetry.Recorder, mapMode bool) *Viewer {
	v := &Viewer{
		d:       d,
		rec:     rec,
		title:   title,
		mapMode: mapMode,
		theme:   DefaultTheme(),
		clicks:  input.NewClickCounter(nil),
	}
	v.scene = &scene{theme: &v.theme}
	v.hud = NewHUD(&v.theme)
	v.panel = NewControlPanel(&v.theme)
	d.Resized(screenSize())
	return v
}

func screenSize() viewport.Size {
	return viewport.Size{W: float64(rl.GetScreenWidth()), H: float64(rl.GetScreenHeight())}
}

// Update processes window, keyboard and mouse input.
func (v *Viewer) Update() {
	v.rec.Perf.StartFrame()
	v.rec.Perf.StartPhase(telemetry.PhaseInput)

	if rl.IsWindowResized() {
		v.d.Resized(screenSize())
	}
	v.handleKeys()
	v.handleMouse()
}

// Draw renders one frame and records it.
func (v *Viewer) Draw() {
	v.rec.Perf.StartPhase(telemetry.PhaseDraw)
	rl.BeginDrawing()
	rl.ClearBackground(v.theme.Background)

	v.scene.hooked, v.scene.hasHooked = v.d.Hooked()
	stats := v.d.Draw(v.scene)
	view := v.d.ViewState()

	v.rec.Perf.StartPhase(telemetry.PhaseUI)
	v.hud.Draw(HUDData{
		Title:   v.title,
		Stats:   stats,
		View:    view,
		Hooked:  v.scene.hooked,
		Hooking: v.scene.hasHooked,
		FPS:     rl.GetFPS(),
		Tooltip: v.d.Tooltip(),
		Mouse:   rl.GetMousePosition(),
	})
	actions := v.panel.Draw(PanelState{
		Mode:      view.Mode.String(),
		MapMode:   v.mapMode,
		DrawLinks: v.d.DrawLinks(),
		RealTime:  v.d.RealTime(),
		Step:      v.d.Step(),
	})
	rl.EndDrawing()
	v.apply(actions)

	v.rec.Perf.StartPhase(telemetry.PhaseTelemetry)
	if err := v.rec.Frame(stats, view); err != nil {
		logger.Named("viewer").Warn("telemetry write failed", zap.Error(err))
	}
	v.rec.Perf.EndFrame()
}

func (v *Viewer) apply(a PanelActions) {
	if a.Fit {
		v.fit()
	}
	if a.ResetRotation {
		v.resetRotation()
	}
	if a.CycleMode {
		v.cycleMode()
	}
	if a.ToggleLinks {
		v.d.SetDrawLinks(!v.d.DrawLinks())
	}
	if a.ToggleRealTime {
		v.d.SetRealTime(!v.d.RealTime())
	}
	if a.Step > 0 {
		v.d.SetStep(a.Step)
	}
}

func (v *Viewer) handleKeys() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		v.fit()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.resetRotation()
	}
	if rl.IsKeyPressed(rl.KeyM) {
		v.cycleMode()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		v.d.SetDrawLinks(!v.d.DrawLinks())
	}
	if rl.IsKeyPressed(rl.KeyT) {
		v.d.SetRealTime(!v.d.RealTime())
	}
	if rl.IsKeyPressed(rl.KeyQ) {
		v.rotate(-1)
	}
	if rl.IsKeyPressed(rl.KeyE) {
		v.rotate(1)
	}
}

func (v *Viewer) fit() {
	v.d.Fit()
	v.rec.Record(telemetry.EventFit)
}

func (v *Viewer) resetRotation() {
	if err := v.d.ResetRotation(); err != nil {
		logger.Named("viewer").Debug("reset rotation rejected", zap.Error(err))
		return
	}
	v.rec.Record(telemetry.EventRotate)
}

func (v *Viewer) rotate(clicks float64) {
	if err := v.d.RotateClicks(clicks); err != nil {
		logger.Named("viewer").Debug("rotation rejected", zap.Error(err))
		return
	}
	v.rec.Record(telemetry.EventRotate)
}

// cycleMode moves an affine display to the next stretch mode.
func (v *Viewer) cycleMode() {
	if v.mapMode {
		return
	}
	current := v.d.ViewState().Mode
	next := modeCycle[0]
	for i, m := range modeCycle {
		if m == current {
			next = modeCycle[(i+1)%len(modeCycle)]
			break
		}
	}
	if err := v.d.SetMode(next); err != nil {
		logger.Named("viewer").Warn("mode change failed", zap.Stringer("mode", next), zap.Error(err))
		return
	}
	v.rec.Record(telemetry.EventModeChange)
	logger.Named("viewer").Info("mode changed", zap.Stringer("mode", next))
}
