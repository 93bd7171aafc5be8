package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	"go.uber.org/zap"

	"github.com/pthm-cable/wormhole/config"
	"github.com/pthm-cable/wormhole/display"
	"github.com/pthm-cable/wormhole/logger"
	"github.com/pthm-cable/wormhole/mapview"
	"github.com/pthm-cable/wormhole/sim"
	"github.com/pthm-cable/wormhole/telemetry"
	"github.com/pthm-cable/wormhole/viewer"
	"github.com/pthm-cable/wormhole/viewport"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logLevel := flag.String("log-level", "", "Log level override (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Log file override (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Log telemetry windows")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed override (0 = use config)")
	maxSteps := flag.Int64("max-steps", -1, "Stop after N simulation steps (0 = unlimited, -1 = use config)")
	realTime := flag.Bool("realtime", false, "Pace the simulation against wall-clock time")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if *maxSteps >= 0 {
		cfg.Sim.Steps = *maxSteps
	}
	if *realTime {
		cfg.Display.RealTime = true
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}

	fileCfg := logger.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}
	if err := logger.Init(cfg.Logging.Level, fileCfg, cfg.Logging.Console); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *headless, *logStats); err != nil {
		logger.Named("main").Error("run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, headless, logStats bool) error {
	log := logger.Named("main")

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}
	rec := telemetry.NewRecorder(cfg.Telemetry, out, logStats)

	world, err := sim.New(cfg)
	if err != nil {
		return err
	}

	var mapModel viewport.MapModel
	if cfg.Map.Enabled {
		center := s2.LatLngFromDegrees(cfg.Map.CenterLat, cfg.Map.CenterLng)
		mapModel = mapview.NewPosition(center, uint8(cfg.Map.Zoom))
	}

	d := display.New(display.Options{
		ViewSize:         cfg.Derived.ViewSize,
		Step:             cfg.Display.Step,
		RealTime:         cfg.Display.RealTime,
		FrameRate:        cfg.Display.FrameRate,
		PauseThreshold:   cfg.Derived.PauseThreshold,
		FreedomRadius:    cfg.Display.FreedomRadius,
		DrawLinks:        cfg.Display.DrawLinks,
		Mode:             cfg.Derived.Mode,
		HRate:            cfg.Viewport.HRate,
		VRate:            cfg.Viewport.VRate,
		Map:              mapModel,
		Zoom:             cfg.ZoomManager,
		DegPerPixel:      cfg.Derived.DegPerPixel,
		DegPerWheelClick: cfg.Input.DegPerWheelClick,
		OnTrack: func(id display.NodeID) {
			logger.Named("main").Info("tracking node", zap.Int64("node", int64(id)))
		},
		Pace: rec.Pace,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	simDone := make(chan error, 1)
	go func() {
		simDone <- world.Run(ctx, d)
	}()

	log.Info("starting",
		zap.Bool("headless", headless),
		zap.Bool("map", cfg.Map.Enabled),
		zap.Stringer("mode", cfg.Derived.Mode),
		zap.Int64("seed", cfg.Sim.Seed),
		zap.Int64("max_steps", cfg.Sim.Steps),
	)

	if headless {
		err = runHeadless(ctx, cfg, d, rec, simDone)
	} else {
		runWindowed(cfg, d, rec)
	}
	cancel()
	if err == nil {
		err = <-simDone
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	t, step := world.Clock()
	log.Info("stopped", zap.Int64("step", step), zap.Float64("sim_time", t), zap.Int64("frames", rec.Frames()))
	return err
}

// runWindowed opens the window and draws until it is closed. The last
// snapshot stays on screen once the simulation has finished.
func runWindowed(cfg *config.Config, d *display.Display, rec *telemetry.Recorder) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := viewer.New(cfg.Screen.Title, d, rec, cfg.Map.Enabled)
	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
	}
}

// runHeadless draws into a counting renderer at the target frame rate so
// telemetry matches a windowed run.
func runHeadless(ctx context.Context, cfg *config.Config, d *display.Display, rec *telemetry.Recorder, simDone chan error) error {
	if cfg.Sim.Steps <= 0 {
		logger.Named("main").Warn("headless run without a step limit, stop it with an interrupt")
	}
	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-simDone:
			simDone <- err
			return nil
		case <-ticker.C:
		}
		rec.Perf.StartFrame()
		rec.Perf.StartPhase(telemetry.PhaseDraw)
		stats := d.Draw(nullRenderer{})
		rec.Perf.StartPhase(telemetry.PhaseTelemetry)
		if err := rec.Frame(stats, d.ViewState()); err != nil {
			return err
		}
		rec.Perf.EndFrame()
	}
}

// nullRenderer discards primitives; Draw still counts them.
type nullRenderer struct{}

func (nullRenderer) DrawObstacle([4]r2.Point) {}

func (nullRenderer) DrawLink(_, _ r2.Point) {}

func (nullRenderer) DrawNode(display.NodeID, r2.Point) {}

func (nullRenderer) DrawNearest(display.NodeID, r2.Point) {}
