package display

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/pthm-cable/wormhole/input"
	"github.com/pthm-cable/wormhole/logger"
	"github.com/pthm-cable/wormhole/vecmath"
	"github.com/pthm-cable/wormhole/viewport"
)

// DefaultFreedomRadius is how far, in pixels, a hooked node may drift from
// the view center before the view follows it.
const DefaultFreedomRadius = 1.0

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// PaceObserver is told how long each realtime step was held back.
type PaceObserver interface {
	ObservePace(step int64, simTime float64, slept time.Duration)
}

// ZoomFactory builds the zoom manager of a freshly created viewport, starting
// at its current zoom.
type ZoomFactory func(zoom float64) (input.ZoomManager, error)

// Options configures a Display.
type Options struct {
	// ViewSize is the initial size of the drawing surface.
	ViewSize viewport.Size
	// Step refreshes the snapshot every Step notifications; values below 1
	// refresh on every notification.
	Step int
	// RealTime paces the simulation against wall-clock time.
	RealTime       bool
	FrameRate      float64
	PauseThreshold time.Duration
	FreedomRadius  float64
	DrawLinks      bool
	// Mode is the stretch mode of affine viewports.
	Mode viewport.Mode
	// HRate and VRate are the stretch rates of Settable mode; zero means 1.
	HRate, VRate float64
	// Map switches to a geographic viewport driving this model.
	Map viewport.MapModel
	// Zoom builds the zoom manager of affine viewports. Defaults to an
	// exponential manager with input.DefaultExpBase.
	Zoom ZoomFactory
	// DegPerPixel is the rotation applied per pixel of right drag.
	DegPerPixel float64
	// DegPerWheelClick is the rotation applied per RotateClicks unit.
	DegPerWheelClick float64
	// OnTrack is called with the node under a double left click.
	OnTrack func(NodeID)
	Pace    PaceObserver
	Now     func() time.Time
	Sleep   SleepFunc
}

// DrawStats counts what a Draw pass produced.
type DrawStats struct {
	Step      int64
	Time      float64
	Nodes     int
	Visible   int
	Links     int
	Obstacles int
}

// Display keeps the latest environment snapshot and the viewport it is drawn
// through. The simulation goroutine notifies it through the Monitor methods
// while the rendering goroutine draws and forwards gestures; both sides take
// the same short-held lock, so a draw never mixes two steps.
type Display struct {
	opts  Options
	pacer *Pacer

	mu        sync.Mutex
	firstTime bool
	fitted    bool
	viewSize  viewport.Size
	vp        viewport.Viewport
	zoom      input.ZoomManager
	angle     *input.AngleManager
	pointer   *input.PointerTracker
	snap      Snapshot
	obstacles []r2.Rect
	drawLinks bool
	realTime  bool
	step      int

	mouse      r2.Point
	nearest    NodeID
	hasNearest bool
	hooked     NodeID
	hasHooked  bool
}

var _ Monitor = (*Display)(nil)

// New creates a display. The viewport is built on the first notification.
func New(opts Options) *Display {
	if opts.FreedomRadius <= 0 {
		opts.FreedomRadius = DefaultFreedomRadius
	}
	if opts.DegPerPixel == 0 {
		opts.DegPerPixel = input.DegPerPixel(opts.ViewSize.W, input.DefaultTurnsPerScreen)
	}
	if opts.HRate == 0 {
		opts.HRate = 1
	}
	if opts.VRate == 0 {
		opts.VRate = 1
	}
	if opts.DegPerWheelClick == 0 {
		opts.DegPerWheelClick = input.DefaultDegPerWheelClick
	}
	if opts.Zoom == nil {
		opts.Zoom = func(z float64) (input.ZoomManager, error) {
			return input.NewExpZoom(z, input.DefaultExpBase)
		}
	}
	return &Display{
		opts:      opts,
		pacer:     NewPacer(opts.FrameRate, opts.PauseThreshold, opts.Now, opts.Sleep),
		firstTime: true,
		viewSize:  opts.ViewSize,
		pointer:   input.NewPointerTrackerWithClock(opts.Now),
		drawLinks: opts.DrawLinks,
		realTime:  opts.RealTime,
		step:      opts.Step,
	}
}

// Initialized builds the viewport for env and loads its first snapshot.
func (d *Display) Initialized(ctx context.Context, env Environment) error {
	return d.StepDone(ctx, env, 0, 0)
}

// StepDone refreshes the snapshot from env. The first call after creation or
// after Finished builds a new viewport; later calls honor the step filter
// and, in realtime mode, block until wall-clock time catches up with t.
func (d *Display) StepDone(ctx context.Context, env Environment, t float64, step int64) error {
	d.mu.Lock()
	if d.firstTime {
		err := d.initLocked(env, t, step)
		d.mu.Unlock()
		return err
	}
	every, realTime := d.step, d.realTime
	d.mu.Unlock()

	if every >= 1 && step%int64(every) != 0 {
		return nil
	}
	if realTime {
		slept, ok, err := d.pacer.Wait(ctx, t)
		if err != nil {
			return fmt.Errorf("pacing step %d: %w", step, err)
		}
		if !ok {
			return nil
		}
		if d.opts.Pace != nil {
			d.opts.Pace.ObservePace(step, t, slept)
		}
	}
	d.update(env, t, step)
	return nil
}

// Finished makes the next notification rebuild the viewport.
func (d *Display) Finished(env Environment, t float64, step int64) {
	d.mu.Lock()
	d.firstTime = true
	d.mu.Unlock()
	logger.Named("display").Info("simulation finished",
		zap.Int64("step", step), zap.Float64("time", t))
}

func (d *Display) initLocked(env Environment, t float64, step int64) error {
	affine := viewport.NewAffine(d.viewSize, env.Size(), env.Offset())
	if d.opts.Map == nil {
		if err := d.applyMode(affine, d.opts.Mode); err != nil {
			return fmt.Errorf("display mode: %w", err)
		}
	}

	var (
		vp   viewport.Viewport = affine
		zoom input.ZoomManager
		err  error
	)
	if d.opts.Map != nil {
		vp = viewport.NewGeographic(affine, d.opts.Map)
		zoom, err = input.NewLinearZoom(1, 1)
	} else {
		zoom, err = d.opts.Zoom(affine.Zoom())
	}
	if err != nil {
		return fmt.Errorf("display zoom manager: %w", err)
	}
	angle := input.NewAngleManager(d.opts.DegPerPixel, 0)

	d.vp, d.zoom, d.angle = vp, zoom, angle
	d.fitted = false
	d.hasHooked, d.hasNearest = false, false
	d.snap = env.Snapshot()
	d.snap.Step, d.snap.Time = step, t
	d.obstacles = env.Obstacles()
	if d.viewSize.W > 0 && d.viewSize.H > 0 {
		d.fitLocked()
	}
	d.firstTime = false
	d.pacer.Reset()

	logger.Named("display").Info("viewport created",
		zap.Stringer("mode", vp.Mode()),
		zap.Float64("env_w", env.Size().W), zap.Float64("env_h", env.Size().H),
		zap.Float64("zoom", vp.Zoom()))
	return nil
}

func (d *Display) update(env Environment, t float64, step int64) {
	snap := env.Snapshot()
	var obstacles []r2.Rect
	mobile := env.HasMobileObstacles()
	if mobile {
		obstacles = env.Obstacles()
	}

	d.mu.Lock()
	d.snap = snap
	d.snap.Step, d.snap.Time = step, t
	if mobile {
		d.obstacles = obstacles
	}
	d.mu.Unlock()
}

// fitLocked shows the whole environment: affine views anchor the env offset
// at the bottom-left corner, geographic views center on the environment.
func (d *Display) fitLocked() {
	switch vp := d.vp.(type) {
	case *viewport.GeographicViewport:
		off, size := vp.EnvOffset(), vp.EnvSize()
		vp.SetEnvPosition(r2.Point{X: off.X + size.W/2, Y: off.Y + size.H/2})
	default:
		vp.SetViewPosition(r2.Point{X: 0, Y: d.viewSize.H})
	}
	d.vp.SetOptimalZoomRate()
	d.zoom.SetZoom(d.vp.Zoom())
	d.fitted = true
}

// Fit resets pan and zoom so the whole environment is visible.
func (d *Display) Fit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vp != nil {
		d.fitLocked()
	}
}

// Resized updates the view size. The first resize with a viewport in place
// fits the environment in the view.
func (d *Display) Resized(size viewport.Size) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewSize = size
	if d.vp == nil {
		return
	}
	d.vp.SetViewSize(size)
	if a, ok := d.vp.(*viewport.AffineViewport); ok {
		a.RefreshStretch()
	}
	if !d.fitted && size.W > 0 && size.H > 0 {
		d.fitLocked()
	}
}

func (d *Display) center() r2.Point {
	return r2.Point{X: d.viewSize.W / 2, Y: d.viewSize.H / 2}
}

// MouseMoved records the pointer position.
func (d *Display) MouseMoved(p r2.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mouse = p
	d.pointer.SetCurrentPosition(p)
}

// MouseDragged pans with the left button (unless a node is hooked) and
// rotates around the view center with the right one.
func (d *Display) MouseDragged(p r2.Point, b Button) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mouse = p
	d.pointer.SetCurrentPosition(p)
	if d.vp == nil {
		return
	}
	variation := d.pointer.Variation()
	switch b {
	case ButtonLeft:
		if !d.hasHooked {
			d.vp.TranslateViewPosition(variation)
		}
	case ButtonRight:
		if d.vp.Mode() == viewport.Map {
			return
		}
		before := d.angle.Radians()
		d.angle.Increment(variation.X)
		if err := d.vp.RotateAroundPoint(d.center(), d.angle.Radians()-before); err != nil {
			logger.Named("display").Debug("rotation rejected", zap.Error(err))
		}
	}
}

// MouseClicked hooks or unhooks the nearest node with the middle button and
// tracks it on a double left click.
func (d *Display) MouseClicked(p r2.Point, b Button, clicks int) {
	d.mu.Lock()
	d.mouse = p
	if !d.hasNearest {
		d.mu.Unlock()
		return
	}
	nearest := d.nearest
	track := b == ButtonLeft && clicks == 2
	if b == ButtonMiddle {
		if d.hasHooked {
			d.hasHooked = false
		} else {
			d.hooked, d.hasHooked = nearest, true
		}
	}
	d.mu.Unlock()

	if track && d.opts.OnTrack != nil {
		d.opts.OnTrack(nearest)
	}
}

// MouseWheel zooms on p. Positive rotation, towards the user, zooms out.
func (d *Display) MouseWheel(p r2.Point, rotation float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mouse = p
	if d.vp == nil || d.zoom == nil {
		return
	}
	d.zoom.Decrement(rotation)
	d.vp.ZoomOnPoint(p, d.zoom.Zoom())
	if z := d.vp.Zoom(); z != d.zoom.Zoom() {
		d.zoom.SetZoom(z)
	}
}

// RotateClicks rotates the view around its center by clicks wheel clicks.
func (d *Display) RotateClicks(clicks float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vp == nil {
		return nil
	}
	deg := clicks * d.opts.DegPerWheelClick
	if err := d.vp.RotateAroundPoint(d.center(), deg*math.Pi/180); err != nil {
		return err
	}
	if unit := d.angle.DegPerSlide(); unit != 0 {
		d.angle.Increment(deg / unit)
	}
	return nil
}

// Draw renders the current snapshot through r. Obstacles come first, then
// links, then every node inside the view, then the node nearest to the
// pointer. A hooked node is kept near the view center.
func (d *Display) Draw(r Renderer) DrawStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vp == nil {
		return DrawStats{}
	}
	stats := DrawStats{Step: d.snap.Step, Time: d.snap.Time, Nodes: len(d.snap.Positions)}

	if d.hasHooked {
		if pos, ok := d.snap.Positions[d.hooked]; ok {
			c := d.center()
			hp := d.vp.EnvToView(pos)
			if vecmath.Distance(hp, c) > d.opts.FreedomRadius {
				d.vp.TranslateViewPosition(vecmath.Delta(c, hp))
			}
		} else {
			d.hasHooked = false
		}
	}

	for _, o := range d.obstacles {
		var view [4]r2.Point
		for i, c := range corners(o) {
			view[i] = d.vp.EnvToView(c)
		}
		r.DrawObstacle(view)
		stats.Obstacles++
	}

	ids := d.snap.IDs()
	if d.drawLinks {
		for _, id := range ids {
			from := d.vp.EnvToView(d.snap.Positions[id])
			for _, n := range d.snap.Neighbors[id] {
				pos, ok := d.snap.Positions[n]
				if !ok {
					continue
				}
				r.DrawLink(from, d.vp.EnvToView(pos))
				stats.Links++
			}
		}
	}

	best := math.Inf(1)
	d.hasNearest = false
	var nearestAt r2.Point
	for _, id := range ids {
		s := d.vp.EnvToView(d.snap.Positions[id])
		if !d.vp.IsInsideView(s) {
			continue
		}
		stats.Visible++
		r.DrawNode(id, s)
		if dist := vecmath.Distance(s, d.mouse); dist < best {
			best = dist
			d.nearest, d.hasNearest, nearestAt = id, true, s
		}
	}
	if d.hasNearest {
		r.DrawNearest(d.nearest, nearestAt)
	}
	return stats
}

// Tooltip describes the environment point under the pointer and the nearest
// node found by the last Draw.
func (d *Display) Tooltip() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vp == nil {
		return ""
	}
	env := d.vp.ViewToEnv(d.mouse)
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(strconv.FormatFloat(env.X, 'g', -1, 64))
	sb.WriteString(", ")
	sb.WriteString(strconv.FormatFloat(env.Y, 'g', -1, 64))
	sb.WriteByte(']')
	if d.hasNearest {
		sb.WriteString(" -- nearest node: ")
		sb.WriteString(strconv.FormatInt(int64(d.nearest), 10))
	}
	return sb.String()
}

// Nearest returns the node nearest to the pointer in the last Draw.
func (d *Display) Nearest() (NodeID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nearest, d.hasNearest
}

// Hooked returns the node the view follows, if any.
func (d *Display) Hooked() (NodeID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hooked, d.hasHooked
}

// Snapshot returns the snapshot currently drawn.
func (d *Display) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}

// ViewState is a copy of the viewport parameters for status lines.
type ViewState struct {
	Ready    bool
	Mode     viewport.Mode
	Zoom     float64
	Rotation float64
	Position r2.Point
}

// ViewState returns the current viewport parameters.
func (d *Display) ViewState() ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vp == nil {
		return ViewState{}
	}
	return ViewState{
		Ready:    true,
		Mode:     d.vp.Mode(),
		Zoom:     d.vp.Zoom(),
		Rotation: d.vp.Rotation(),
		Position: d.vp.ViewPosition(),
	}
}

// SetMode changes the stretch mode of an affine viewport.
func (d *Display) SetMode(m viewport.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vp == nil {
		if m == viewport.Map {
			return fmt.Errorf("changing display to %s: %w", m, viewport.ErrUnsupported)
		}
		d.opts.Mode = m
		return nil
	}
	a, ok := d.vp.(*viewport.AffineViewport)
	if !ok {
		return fmt.Errorf("changing %s display to %s: %w", d.vp.Mode(), m, viewport.ErrUnsupported)
	}
	if err := d.applyMode(a, m); err != nil {
		return err
	}
	d.opts.Mode = m
	return nil
}

// applyMode switches a to m, loading the configured rates into Settable.
func (d *Display) applyMode(a *viewport.AffineViewport, m viewport.Mode) error {
	if err := a.SetMode(m); err != nil {
		return err
	}
	if m == viewport.Settable {
		return a.SetRates(d.opts.HRate, d.opts.VRate)
	}
	return nil
}

// ResetRotation turns the view back to north-up around its center.
func (d *Display) ResetRotation() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vp == nil {
		return nil
	}
	if err := d.vp.RotateAroundPoint(d.center(), -d.vp.Rotation()); err != nil {
		return err
	}
	d.angle.SetValue(0)
	return nil
}

// SetDrawLinks toggles drawing of neighbor links.
func (d *Display) SetDrawLinks(on bool) {
	d.mu.Lock()
	d.drawLinks = on
	d.mu.Unlock()
}

// DrawLinks reports whether links are drawn.
func (d *Display) DrawLinks() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drawLinks
}

// SetRealTime toggles wall-clock pacing.
func (d *Display) SetRealTime(on bool) {
	d.mu.Lock()
	d.realTime = on
	d.mu.Unlock()
}

// SetStep changes the notification filter.
func (d *Display) SetStep(step int) {
	d.mu.Lock()
	d.step = step
	d.mu.Unlock()
}

// RealTime reports whether steps are paced against wall-clock time.
func (d *Display) RealTime() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.realTime
}

// Step returns the notification filter.
func (d *Display) Step() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.step
}
