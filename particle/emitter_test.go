package particle

import (
	"math"
	"testing"
)

func baseEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Rate:     10,
		Shape:    PointShape{},
		Speed:    Range{Min: 1, Max: 1},
		Size:     Range{Min: 1, Max: 1},
		Lifetime: Range{Min: 100, Max: 100},
		Color:    Color{R: 1, G: 1, B: 1, A: 1},
	}
}

func TestEmitterStateMachine(t *testing.T) {
	e, err := NewEmitter(baseEmitterConfig())
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}

	if e.State() != Stopped {
		t.Fatalf("initial state = %v, want stopped", e.State())
	}

	e.Start()
	if e.State() != Emitting {
		t.Errorf("after Start: %v, want emitting", e.State())
	}

	e.Pause()
	if e.State() != Paused {
		t.Errorf("after Pause: %v, want paused", e.State())
	}

	e.Resume()
	if e.State() != Emitting {
		t.Errorf("after Resume: %v, want emitting", e.State())
	}

	e.Stop()
	if e.State() != Stopped {
		t.Errorf("after Stop: %v, want stopped", e.State())
	}

	// Pause from Stopped is a no-op.
	e.Pause()
	if e.State() != Stopped {
		t.Errorf("Pause from stopped moved to %v", e.State())
	}

	// Start from Paused resumes without resetting.
	e.Start()
	e.Pause()
	e.Start()
	if e.State() != Emitting {
		t.Errorf("Start from paused: %v, want emitting", e.State())
	}
}

func TestEmitterRateAccuracy(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 10
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(200)
	rng := NewSource(1)

	e.Start()
	total := 0
	for i := 0; i < 100; i++ {
		spawned, dropped := e.update(0.1, pool, rng)
		total += spawned
		if dropped != 0 {
			t.Fatalf("unexpected drop at frame %d", i)
		}
	}

	// rate * frames * dt = 10 * 100 * 0.1 = 100, exact up to the
	// accumulator's one-particle carry.
	if total < 99 || total > 100 {
		t.Errorf("spawned %d over 10s at 10/s, want 99-100", total)
	}
}

func TestEmitterAccumulatorCarry(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 3
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(100)
	rng := NewSource(1)

	e.Start()
	// dt = 0.1 at rate 3: 0.3 particles/frame. Over 10 frames exactly 3.
	total := 0
	for i := 0; i < 10; i++ {
		s, _ := e.update(0.1, pool, rng)
		total += s
	}
	if total < 2 || total > 3 {
		t.Errorf("spawned %d, want 2-3 (fractional carry)", total)
	}
}

func TestEmitterBurstFiresOnce(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 0
	cfg.Bursts = []Burst{{Time: 0, Count: 50}}
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(100)
	rng := NewSource(1)

	e.Start()
	spawned, _ := e.update(0.016, pool, rng)
	if spawned != 50 {
		t.Fatalf("burst spawned %d, want 50", spawned)
	}

	for i := 0; i < 10; i++ {
		if s, _ := e.update(0.016, pool, rng); s != 0 {
			t.Fatalf("burst refired on frame %d", i)
		}
	}
}

func TestEmitterBurstMidRun(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 0
	cfg.Bursts = []Burst{{Time: 0.5, Count: 10}}
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(100)
	rng := NewSource(1)

	e.Start()
	total := 0
	var firedAt float32 = -1
	var clock float32
	for i := 0; i < 20; i++ {
		s, _ := e.update(0.1, pool, rng)
		if s > 0 && firedAt < 0 {
			firedAt = clock
		}
		total += s
		clock += 0.1
	}

	if total != 10 {
		t.Fatalf("burst spawned %d total, want 10", total)
	}
	// Scheduled at 0.5s; float32 clock accumulation can land it in the
	// frame starting at ~0.4 or ~0.5.
	if firedAt < 0.35 || firedAt > 0.6 {
		t.Errorf("burst fired at t=%g, want ~0.5", firedAt)
	}
}

func TestEmitterBurstRearmsAfterStop(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 0
	cfg.Bursts = []Burst{{Time: 0, Count: 5}}
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(100)
	rng := NewSource(1)

	e.Start()
	if s, _ := e.update(0.016, pool, rng); s != 5 {
		t.Fatal("first burst did not fire")
	}

	e.Stop()
	e.Start()
	if s, _ := e.update(0.016, pool, rng); s != 5 {
		t.Error("burst did not re-arm after stop/start")
	}
}

func TestEmitterSaturationDropsSpawns(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 0
	cfg.Bursts = []Burst{{Time: 0, Count: 50}}
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(20)
	rng := NewSource(1)

	e.Start()
	spawned, dropped := e.update(0.016, pool, rng)
	if spawned != 20 {
		t.Errorf("spawned %d, want 20 (pool capacity)", spawned)
	}
	if dropped != 30 {
		t.Errorf("dropped %d, want 30", dropped)
	}
	if pool.Count() != 20 {
		t.Errorf("live = %d, want 20", pool.Count())
	}
}

func TestEmitterStoppedSpawnsNothing(t *testing.T) {
	e, _ := NewEmitter(baseEmitterConfig())
	pool, _ := NewPool(10)
	rng := NewSource(1)

	if s, _ := e.update(1, pool, rng); s != 0 {
		t.Error("stopped emitter spawned particles")
	}

	e.Start()
	e.Pause()
	if s, _ := e.update(1, pool, rng); s != 0 {
		t.Error("paused emitter spawned particles")
	}
}

func TestEmitterRateCurve(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 100
	cfg.RateCurve = MustCurve(
		Keyframe{Time: 0, Value: 1},
		Keyframe{Time: 1, Value: 0},
	)
	cfg.RatePeriod = 10
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(2000)
	rng := NewSource(1)

	e.Start()
	early := 0
	for i := 0; i < 10; i++ { // first second: rate near 100
		s, _ := e.update(0.1, pool, rng)
		early += s
	}
	for i := 0; i < 80; i++ { // skip ahead
		e.update(0.1, pool, rng)
	}
	late := 0
	for i := 0; i < 10; i++ { // last second: rate near 0
		s, _ := e.update(0.1, pool, rng)
		late += s
	}

	if early <= late {
		t.Errorf("rate curve ignored: early=%d late=%d", early, late)
	}
	if late > 10 {
		t.Errorf("late spawns = %d, want near zero at curve end", late)
	}
}

func TestEmitterInitialConditions(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 0
	cfg.Bursts = []Burst{{Time: 0, Count: 100}}
	cfg.Shape = SphereShape{Radius: 2, Thickness: 1}
	cfg.Speed = Range{Min: 3, Max: 5}
	cfg.Size = Range{Min: 0.5, Max: 1.5}
	cfg.Lifetime = Range{Min: 1, Max: 2}
	cfg.Color = Color{R: 1, G: 0.5, B: 0, A: 1}
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(100)
	rng := NewSource(42)

	e.Start()
	e.update(0.016, pool, rng)

	for _, idx := range pool.Live() {
		p := pool.At(idx)
		if p.Age != 0 {
			t.Fatalf("fresh particle age = %g, want 0", p.Age)
		}
		if p.Lifetime < 1 || p.Lifetime > 2 {
			t.Fatalf("lifetime %g outside [1, 2]", p.Lifetime)
		}
		if speed := p.Velocity.Length(); speed < 2.999 || speed > 5.001 {
			t.Fatalf("speed %g outside [3, 5]", speed)
		}
		if p.Size < 0.5 || p.Size > 1.5 {
			t.Fatalf("size %g outside [0.5, 1.5]", p.Size)
		}
		if p.Color != cfg.Color {
			t.Fatalf("color %+v, want %+v", p.Color, cfg.Color)
		}
		if p.Position.Length() > 2.001 {
			t.Fatalf("position outside spawn sphere: %+v", p.Position)
		}
	}
}

func TestEmitterConfigValidation(t *testing.T) {
	bad := []func(*EmitterConfig){
		func(c *EmitterConfig) { c.Rate = -1 },
		func(c *EmitterConfig) { c.Shape = nil },
		func(c *EmitterConfig) { c.Shape = SphereShape{Radius: -1} },
		func(c *EmitterConfig) { c.Lifetime = Range{Min: 0, Max: 1} },
		func(c *EmitterConfig) { c.Lifetime = Range{Min: 2, Max: 1} },
		func(c *EmitterConfig) { c.Size = Range{Min: -1, Max: 1} },
		func(c *EmitterConfig) { c.Speed = Range{Min: 2, Max: 1} },
		func(c *EmitterConfig) { c.RandomizeDirection = 1.5 },
		func(c *EmitterConfig) { c.SpherizeDirection = -0.5 },
		func(c *EmitterConfig) { c.Bursts = []Burst{{Time: -1, Count: 5}} },
		func(c *EmitterConfig) { c.Bursts = []Burst{{Time: 0, Count: -5}} },
	}
	for i, mutate := range bad {
		cfg := baseEmitterConfig()
		mutate(&cfg)
		if _, err := NewEmitter(cfg); err == nil {
			t.Errorf("case %d: expected config error", i)
		}
	}
}

func TestEmitterStopAlwaysClearsAccumulator(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 5
	cfg.PreserveAccumulator = true
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(100)
	rng := NewSource(1)

	e.Start()
	// One frame at rate 5, dt 0.1 accrues 0.5 debt, spawns nothing.
	if s, _ := e.update(0.1, pool, rng); s != 0 {
		t.Fatalf("spawned %d before any whole particle accrued", s)
	}

	e.Stop()
	e.Start()
	// Had Stop kept the debt, this frame would reach 1.0 and spawn.
	if s, _ := e.update(0.1, pool, rng); s != 0 {
		t.Errorf("spawned %d after Stop/Start, debt survived Stop", s)
	}
}

func TestEmitterPauseKeepsAccumulator(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 5
	e, _ := NewEmitter(cfg)
	pool, _ := NewPool(100)
	rng := NewSource(1)

	e.Start()
	e.update(0.1, pool, rng) // 0.5 debt
	e.Pause()
	e.Resume()
	if s, _ := e.update(0.1, pool, rng); s != 1 {
		t.Errorf("spawned %d after Pause/Resume, want 1 (debt kept)", s)
	}
}

func spreadEmitterConfig(spread EmissionSpread) EmitterConfig {
	cfg := baseEmitterConfig()
	cfg.Rate = 0
	cfg.Shape = CircleShape{Radius: 1, Thickness: 0}
	cfg.Spread = &spread
	return cfg
}

// spawnAngles runs one burst through the emitter and returns each particle's
// azimuth as a fraction of a full turn.
func spawnAngles(t *testing.T, cfg EmitterConfig, count int) []float64 {
	t.Helper()
	cfg.Bursts = []Burst{{Time: 0, Count: count}}
	e, err := NewEmitter(cfg)
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}
	pool, _ := NewPool(count)
	rng := NewSource(7)

	e.Start()
	s, _ := e.update(0.016, pool, rng)
	if s != count {
		t.Fatalf("spawned %d, want %d", s, count)
	}

	angles := make([]float64, 0, count)
	for _, idx := range pool.Live() {
		p := pool.At(idx)
		a := math.Atan2(float64(p.Position.Z), float64(p.Position.X)) / (2 * math.Pi)
		if a < 0 {
			a++
		}
		angles = append(angles, a)
	}
	return angles
}

func TestEmitterSpreadUniformIntervals(t *testing.T) {
	cfg := spreadEmitterConfig(EmissionSpread{Amount: 0.25, LoopMode: SpreadLoop, Uniform: true})
	angles := spawnAngles(t, cfg, 4)

	// Index steps 0.25, 0.5, 0.75, 1.0; the last lands back at angle 0.
	want := []float64{0.25, 0.5, 0.75, 0}
	for i, a := range angles {
		diff := math.Abs(a - want[i])
		if diff > 0.5 {
			diff = 1 - diff
		}
		if diff > 1e-3 {
			t.Errorf("spawn %d at angle %.4f of a turn, want %.2f", i, a, want[i])
		}
	}
}

func TestEmitterSpreadNonUniformStaysInInterval(t *testing.T) {
	cfg := spreadEmitterConfig(EmissionSpread{Amount: 0.25, LoopMode: SpreadLoop, Uniform: false})
	angles := spawnAngles(t, cfg, 3)

	for i, a := range angles {
		lo := float64(i) * 0.25
		hi := lo + 0.25
		if a < lo-1e-3 || a > hi+1e-3 {
			t.Errorf("spawn %d at angle %.4f, want within [%.2f, %.2f]", i, a, lo, hi)
		}
	}
}

func TestEmitterSpreadPingPongReverses(t *testing.T) {
	cfg := spreadEmitterConfig(EmissionSpread{Amount: 0.4, LoopMode: SpreadPingPong, Uniform: true})
	e, _ := NewEmitter(cfg)
	e.Start()

	// 0 -> 0.4 -> 0.8, then 1.2 is out of range so the direction flips and
	// the index holds at 0.8 before walking back down.
	want := []float32{0.4, 0.8, 0.8, 0.4, 0, 0}
	for i, w := range want {
		_, cur := e.advanceSpread()
		if absf(cur-w) > 1e-5 {
			t.Errorf("step %d: index %.4f, want %.4f", i, cur, w)
		}
	}
}

func TestEmitterSpreadLoopWraps(t *testing.T) {
	cfg := spreadEmitterConfig(EmissionSpread{Amount: 0.4, LoopMode: SpreadLoop, Uniform: true})
	e, _ := NewEmitter(cfg)
	e.Start()

	// 0 -> 0.4 -> 0.8, then 1.2 wraps to 1 - 1.2 = -0.2 and climbs again.
	want := []float32{0.4, 0.8, -0.2, 0.2, 0.6, 1.0}
	for i, w := range want {
		_, cur := e.advanceSpread()
		if absf(cur-w) > 1e-5 {
			t.Errorf("step %d: index %.4f, want %.4f", i, cur, w)
		}
	}
}

func TestEmitterSpreadRearmsOnStart(t *testing.T) {
	cfg := spreadEmitterConfig(EmissionSpread{Amount: 0.25, LoopMode: SpreadLoop, Uniform: true})
	e, _ := NewEmitter(cfg)

	e.Start()
	e.advanceSpread()
	e.advanceSpread()
	e.Stop()
	e.Start()
	if _, cur := e.advanceSpread(); absf(cur-0.25) > 1e-5 {
		t.Errorf("first index after restart = %.4f, want 0.25", cur)
	}
}

func TestEmitterFixedDirection(t *testing.T) {
	cfg := baseEmitterConfig()
	cfg.Rate = 0
	cfg.Bursts = []Burst{{Time: 0, Count: 10}}
	cfg.Speed = Range{Min: 3, Max: 3}
	cfg.FixedDirection = &Vec3{X: 1, Y: 2, Z: 2} // normalizes to (1/3, 2/3, 2/3)
	e, err := NewEmitter(cfg)
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}
	pool, _ := NewPool(10)
	rng := NewSource(3)

	e.Start()
	e.update(0.016, pool, rng)

	want := Vec3{X: 1, Y: 2, Z: 2}
	for _, idx := range pool.Live() {
		v := pool.At(idx).Velocity
		if absf(v.X-want.X) > 1e-5 || absf(v.Y-want.Y) > 1e-5 || absf(v.Z-want.Z) > 1e-5 {
			t.Fatalf("velocity %+v, want %+v", v, want)
		}
	}
}

func TestEmitterSpreadAndDirectionValidation(t *testing.T) {
	bad := []func(*EmitterConfig){
		func(c *EmitterConfig) { c.Spread = &EmissionSpread{Amount: 0} },
		func(c *EmitterConfig) { c.Spread = &EmissionSpread{Amount: 1.5} },
		func(c *EmitterConfig) { c.Spread = &EmissionSpread{Amount: 0.5, LoopMode: 9} },
		func(c *EmitterConfig) { c.FixedDirection = &Vec3{} },
	}
	for i, mutate := range bad {
		cfg := baseEmitterConfig()
		mutate(&cfg)
		if _, err := NewEmitter(cfg); err == nil {
			t.Errorf("case %d: expected config error", i)
		}
	}
}
