package main

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ember/config"
	"github.com/pthm-cable/ember/particle"
	"github.com/pthm-cable/ember/renderer"
	"github.com/pthm-cable/ember/telemetry"
)

// Position is an emitter entity's world offset.
type Position struct {
	X, Y, Z float32
}

// Velocity moves an emitter entity through the world each tick.
type Velocity struct {
	X, Y, Z float32
}

// Effect binds an entity to its particle system and stats collector.
type Effect struct {
	Name      string
	System    *particle.System
	Collector *telemetry.Collector
}

// Options configures scene construction.
type Options struct {
	Seed           int64
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
}

// Scene hosts one entity per configured effect and steps them in lockstep.
type Scene struct {
	world  *ecs.World
	mapper *ecs.Map3[Position, Velocity, Effect]
	filter *ecs.Filter3[Position, Velocity, Effect]

	particles *renderer.ParticleRenderer
	output    *telemetry.OutputManager

	dt   float32
	tick int
}

// NewScene builds one particle system per effect in cfg and places each on
// its own entity. Effects get distinct seeds by list index so runs stay
// reproducible per effect.
func NewScene(cfg *config.Config, opts Options) (*Scene, error) {
	world := ecs.NewWorld()

	s := &Scene{
		world:  world,
		mapper: ecs.NewMap3[Position, Velocity, Effect](world),
		filter: ecs.NewFilter3[Position, Velocity, Effect](world),
		dt:     float32(cfg.Simulation.DT),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = output
	if err := output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	if !opts.Headless {
		s.particles = renderer.NewParticleRenderer(cfg.Screen.Width, cfg.Screen.Height, 60)
	}

	// Lay effects out left to right so they do not overdraw each other.
	spacing := float32(8)
	startX := -spacing * float32(len(cfg.Effects)-1) / 2
	for i := range cfg.Effects {
		eff := &cfg.Effects[i]
		sys, err := config.BuildSystem(eff, opts.Seed+int64(i), cfg.Simulation.Parallel)
		if err != nil {
			return nil, fmt.Errorf("building effect %q: %w", eff.Name, err)
		}
		sys.Start()

		pos := Position{X: startX + spacing*float32(i)}
		vel := Velocity{}
		fx := Effect{
			Name:      eff.Name,
			System:    sys,
			Collector: telemetry.NewCollector(eff.Name, opts.StatsWindowSec, s.dt),
		}
		s.mapper.NewEntity(&pos, &vel, &fx)
	}

	return s, nil
}

// Step advances every effect by one tick and flushes finished telemetry
// windows.
func (s *Scene) Step() error {
	s.tick++

	query := s.filter.Query()
	for query.Next() {
		pos, vel, fx := query.Get()

		pos.X += vel.X * s.dt
		pos.Y += vel.Y * s.dt
		pos.Z += vel.Z * s.dt

		start := time.Now()
		if err := fx.System.Update(s.dt); err != nil {
			return fmt.Errorf("updating effect %q: %w", fx.Name, err)
		}
		fx.Collector.RecordFrame(fx.System.LastFrame(), fx.System.LiveCount(), time.Since(start))

		if fx.Collector.ShouldFlush(s.tick) {
			ws := fx.Collector.Flush(s.tick)
			ws.LogSummary()
			if err := s.output.WriteTelemetry(ws); err != nil {
				return err
			}
		}
	}
	return nil
}

// Draw renders every effect's extracted geometry.
func (s *Scene) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 12, B: 18, A: 255})

	query := s.filter.Query()
	for query.Next() {
		pos, _, fx := query.Get()
		buf := fx.System.ExtractGeometry()
		s.particles.Draw(buf, particle.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z})
	}

	rl.DrawFPS(10, 10)
	rl.EndDrawing()
}

// Tick returns the scene's tick counter.
func (s *Scene) Tick() int {
	return s.tick
}

// Unload stops worker pools and closes output files.
func (s *Scene) Unload() {
	query := s.filter.Query()
	for query.Next() {
		_, _, fx := query.Get()
		fx.System.Close()
	}
	if err := s.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
