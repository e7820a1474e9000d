package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ember/config"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	opts := Options{
		Seed:           rngSeed,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
		Headless:       *headless,
	}

	if *headless {
		scene, err := NewScene(cfg, opts)
		if err != nil {
			slog.Error("failed to build scene", "error", err)
			os.Exit(1)
		}
		defer scene.Unload()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"effects", len(cfg.Effects),
			"stats_window", statsWindowSec,
			"max_frames", *maxFrames,
		)

		for {
			if err := scene.Step(); err != nil {
				slog.Error("step failed", "error", err)
				os.Exit(1)
			}
			if *maxFrames > 0 && scene.Tick() >= *maxFrames {
				slog.Info("max frames reached", "frame", scene.Tick())
				return
			}
		}
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ember")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	scene, err := NewScene(cfg, opts)
	if err != nil {
		slog.Error("failed to build scene", "error", err)
		os.Exit(1)
	}
	defer scene.Unload()

	for !rl.WindowShouldClose() {
		if err := scene.Step(); err != nil {
			slog.Error("step failed", "error", err)
			break
		}
		scene.Draw()

		if *maxFrames > 0 && scene.Tick() >= *maxFrames {
			break
		}
	}
}
