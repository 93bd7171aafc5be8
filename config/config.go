// Package config provides configuration loading and access for the viewer.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/wormhole/input"
	"github.com/pthm-cable/wormhole/viewport"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Zoom manager kinds.
const (
	ZoomExponential = "exp"
	ZoomLinear      = "linear"
)

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Input     InputConfig     `yaml:"input"`
	Display   DisplayConfig   `yaml:"display"`
	Map       MapConfig       `yaml:"map"`
	Sim       SimConfig       `yaml:"sim"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// ViewportConfig holds the initial stretch policy.
type ViewportConfig struct {
	Mode  string  `yaml:"mode"`   // isometric, adapt_to_view, settable or map
	HRate float64 `yaml:"h_rate"` // settable only
	VRate float64 `yaml:"v_rate"` // settable only
}

// InputConfig holds the gesture to parameter conversions.
type InputConfig struct {
	Zoom             string  `yaml:"zoom"`      // exp or linear
	ZoomBase         float64 `yaml:"zoom_base"` // exp only
	ZoomRate         float64 `yaml:"zoom_rate"` // linear only
	DegPerWheelClick float64 `yaml:"deg_per_wheel_click"`
	TurnsPerScreen   float64 `yaml:"turns_per_screen"` // full turns for a drag across the screen width
}

// DisplayConfig holds snapshot refresh and pacing settings.
type DisplayConfig struct {
	Step             int     `yaml:"step"` // refresh every N steps, < 1 = every step
	RealTime         bool    `yaml:"realtime"`
	FrameRate        float64 `yaml:"frame_rate"`
	PauseThresholdMS int     `yaml:"pause_threshold_ms"`
	FreedomRadius    float64 `yaml:"freedom_radius"`
	DrawLinks        bool    `yaml:"draw_links"`
}

// MapConfig holds the geographic display settings.
type MapConfig struct {
	Enabled   bool    `yaml:"enabled"`
	CenterLat float64 `yaml:"center_lat"`
	CenterLng float64 `yaml:"center_lng"`
	Zoom      int     `yaml:"zoom"`
}

// SimConfig holds the demo simulation parameters. In map mode positions and
// sizes are degrees (x = longitude, y = latitude).
type SimConfig struct {
	Nodes           int     `yaml:"nodes"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	OffsetX         float64 `yaml:"offset_x"`
	OffsetY         float64 `yaml:"offset_y"`
	NeighborRadius  float64 `yaml:"neighbor_radius"`
	Speed           float64 `yaml:"speed"` // env units per second
	DT              float64 `yaml:"dt"`
	Steps           int64   `yaml:"steps"` // 0 = run until stopped
	Seed            int64   `yaml:"seed"`
	Obstacles       int     `yaml:"obstacles"`
	MobileObstacles bool    `yaml:"mobile_obstacles"`
	Workers         int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// TelemetryConfig holds CSV output settings.
type TelemetryConfig struct {
	OutputDir  string `yaml:"output_dir"` // empty disables output
	PerfWindow int    `yaml:"perf_window"`
	FlushEvery int    `yaml:"flush_every"` // frames between perf rows
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	Mode           viewport.Mode
	ViewSize       viewport.Size
	EnvSize        viewport.Size
	EnvOffset      r2.Point
	PauseThreshold time.Duration
	DegPerPixel    float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the loaded values and fills Derived.
func (c *Config) computeDerived() error {
	mode, err := viewport.ParseMode(c.Viewport.Mode)
	if err != nil {
		return fmt.Errorf("viewport.mode: %w", err)
	}
	// map is a display kind rather than a stretch policy
	if mode == viewport.Map {
		c.Map.Enabled = true
		mode = viewport.Isometric
	}
	c.Derived.Mode = mode
	for _, r := range []struct {
		name string
		v    float64
	}{{"h_rate", c.Viewport.HRate}, {"v_rate", c.Viewport.VRate}} {
		if !(r.v > 0) || math.IsInf(r.v, 0) {
			return fmt.Errorf("viewport.%s: %g is not a positive finite rate", r.name, r.v)
		}
	}

	c.Input.Zoom = strings.ToLower(strings.TrimSpace(c.Input.Zoom))
	switch c.Input.Zoom {
	case ZoomExponential, ZoomLinear:
	default:
		return fmt.Errorf("input.zoom: unknown zoom manager %q", c.Input.Zoom)
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > viewport.MaxMapZoom {
		return fmt.Errorf("map.zoom: %d outside [0, %d]", c.Map.Zoom, viewport.MaxMapZoom)
	}

	c.Derived.ViewSize = viewport.Size{W: float64(c.Screen.Width), H: float64(c.Screen.Height)}

	// Environment defaults to the screen size if not specified
	w, h := c.Sim.Width, c.Sim.Height
	if w <= 0 {
		w = float64(c.Screen.Width)
	}
	if h <= 0 {
		h = float64(c.Screen.Height)
	}
	c.Derived.EnvSize = viewport.Size{W: w, H: h}
	c.Derived.EnvOffset = r2.Point{X: c.Sim.OffsetX, Y: c.Sim.OffsetY}
	if c.Map.Enabled {
		// env x/y are longitude/latitude in degrees
		lo := c.Derived.EnvOffset
		hi := r2.Point{X: lo.X + w, Y: lo.Y + h}
		if !s2.LatLngFromDegrees(lo.Y, lo.X).IsValid() || !s2.LatLngFromDegrees(hi.Y, hi.X).IsValid() {
			return fmt.Errorf("sim: environment [%g, %g]..[%g, %g] is not a longitude/latitude box", lo.X, lo.Y, hi.X, hi.Y)
		}
	}

	c.Derived.PauseThreshold = time.Duration(c.Display.PauseThresholdMS) * time.Millisecond
	turns := c.Input.TurnsPerScreen
	if turns <= 0 {
		turns = input.DefaultTurnsPerScreen
	}
	c.Derived.DegPerPixel = input.DegPerPixel(float64(c.Screen.Width), turns)
	return nil
}

// ZoomManager builds the configured zoom manager starting at zoom.
func (c *Config) ZoomManager(zoom float64) (input.ZoomManager, error) {
	if c.Input.Zoom == ZoomLinear {
		return input.NewLinearZoom(zoom, c.Input.ZoomRate)
	}
	return input.NewExpZoom(zoom, c.Input.ZoomBase)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
