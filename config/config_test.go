package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/wormhole/input"
	"github.com/pthm-cable/wormhole/viewport"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 800 {
		t.Errorf("screen = %dx%d, want 1280x800", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Derived.Mode != viewport.Isometric {
		t.Errorf("mode = %v, want isometric", cfg.Derived.Mode)
	}
	if cfg.Input.Zoom != ZoomExponential || cfg.Input.ZoomBase != input.DefaultExpBase {
		t.Errorf("zoom = %s/%f", cfg.Input.Zoom, cfg.Input.ZoomBase)
	}
	if cfg.Display.FrameRate != 25 {
		t.Errorf("frame rate = %f, want 25", cfg.Display.FrameRate)
	}
	if cfg.Derived.PauseThreshold != 200*time.Millisecond {
		t.Errorf("pause threshold = %v, want 200ms", cfg.Derived.PauseThreshold)
	}
	if cfg.Derived.EnvSize != (viewport.Size{W: 1000, H: 600}) {
		t.Errorf("env size = %v", cfg.Derived.EnvSize)
	}
	if want := 3 * 360.0 / 1280; cfg.Derived.DegPerPixel != want {
		t.Errorf("deg per pixel = %f, want %f", cfg.Derived.DegPerPixel, want)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %s", cfg.Logging.Level)
	}
	if cfg.Map.Enabled {
		t.Error("map should be disabled by default")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
viewport:
  mode: adapt_to_view
input:
  zoom: Linear
  zoom_rate: 0.5
sim:
  width: 0
display:
  realtime: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Derived.Mode != viewport.AdaptToView {
		t.Errorf("mode = %v, want adapt_to_view", cfg.Derived.Mode)
	}
	if cfg.Input.Zoom != ZoomLinear {
		t.Errorf("zoom kind = %q, want linear", cfg.Input.Zoom)
	}
	if !cfg.Display.RealTime {
		t.Error("realtime should be overridden")
	}
	if cfg.Display.FrameRate != 25 {
		t.Error("untouched keys should keep their defaults")
	}
	if cfg.Derived.EnvSize.W != 1280 {
		t.Errorf("zero env width should fall back to the screen, got %f", cfg.Derived.EnvSize.W)
	}

	zm, err := cfg.ZoomManager(2)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := zm.(*input.LinearZoom); !ok || zm.Zoom() != 2 {
		t.Errorf("zoom manager = %T at %f", zm, zm.Zoom())
	}
}

func TestMapModeEnablesMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
viewport:
  mode: map
sim:
  width: 2
  height: 1.5
  offset_x: 11.5
  offset_y: 43.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Map.Enabled || cfg.Derived.Mode != viewport.Isometric {
		t.Errorf("map enabled = %v, mode = %v", cfg.Map.Enabled, cfg.Derived.Mode)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := map[string]string{
		"mode":     "viewport:\n  mode: fisheye\n",
		"zoom":     "input:\n  zoom: cubic\n",
		"map zoom": "map:\n  zoom: 200\n",
		"map env":  "viewport:\n  mode: map\n",
		"h_rate":   "viewport:\n  h_rate: 0\n",
		"v_rate":   "viewport:\n  v_rate: -2\n",
		"syntax":   "screen: [",
	}

	for name, content := range testCases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("viewport:\n  mode: fisheye\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, viewport.ErrInvalidMode) {
		t.Errorf("got %v, want ErrInvalidMode", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want os.ErrNotExist", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sim.Nodes = 42
	cfg.Viewport.Mode = "settable"

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Sim.Nodes != 42 || back.Derived.Mode != viewport.Settable {
		t.Errorf("round trip lost values: nodes=%d mode=%v", back.Sim.Nodes, back.Derived.Mode)
	}
}

func TestInitAndCfg(t *testing.T) {
	defer func() { global = nil }()

	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	if Cfg().Screen.TargetFPS != 60 {
		t.Errorf("target fps = %d", Cfg().Screen.TargetFPS)
	}
}
