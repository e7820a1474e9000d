package particle

import "math"

// SystemConfig assembles a System: pool capacity, spawn behavior, the
// ordered modifier pipeline, an optional shared noise field, and the seed
// for the system's random stream.
type SystemConfig struct {
	Capacity  int
	Emitter   EmitterConfig
	Modifiers []Modifier
	// Noise is the field NoiseForce modifiers fall back to when they carry
	// none of their own. May be nil if no modifier needs it.
	Noise *NoiseField
	Seed  int64
	// Parallel applies the modifier pipeline across worker goroutines when
	// the live count is large enough. Results are identical to the
	// sequential pass: the pipeline draws no randomness per particle.
	Parallel bool
}

// FrameStats reports what the most recent Update did.
type FrameStats struct {
	Spawned int
	Dropped int
	Reaped  int
}

// System owns one emitter, one pool, and one modifier pipeline, and exposes
// the per-frame Update/ExtractGeometry entry points. Systems are
// independent; several may coexist with separate seeds. Not safe for
// concurrent use by multiple goroutines.
type System struct {
	pool      *Pool
	emitter   *Emitter
	modifiers []Modifier
	rng       *Source
	noise     *NoiseField

	time    float32
	last    FrameStats
	geom    GeometryBuffer
	workers *modifierWorkers
}

// NewSystem validates cfg and builds a fully allocated system. All pool,
// geometry, and worker memory is claimed here; Update never allocates.
func NewSystem(cfg SystemConfig) (*System, error) {
	pool, err := NewPool(cfg.Capacity)
	if err != nil {
		return nil, err
	}
	emitter, err := NewEmitter(cfg.Emitter)
	if err != nil {
		return nil, err
	}
	if err := validateModifiers(cfg.Modifiers); err != nil {
		return nil, err
	}

	s := &System{
		pool:      pool,
		emitter:   emitter,
		modifiers: cfg.Modifiers,
		rng:       NewSource(cfg.Seed),
		noise:     cfg.Noise,
	}
	s.geom.grow(cfg.Capacity)
	if cfg.Parallel {
		s.workers = newModifierWorkers()
	}
	return s, nil
}

// Update advances the simulation one frame: spawn, modifiers in declared
// order, aging, then reaping. Spawned particles are simulated the same
// frame, so after Update their age is exactly dt. dt must be finite and
// >= 0; anything else returns ErrInvalidTimestep and changes nothing.
func (s *System) Update(dt float32) error {
	if dt < 0 || math.IsNaN(float64(dt)) || math.IsInf(float64(dt), 0) {
		return ErrInvalidTimestep
	}

	spawned, dropped := s.emitter.update(dt, s.pool, s.rng)
	s.time += dt

	ctx := ModContext{Time: s.time, Noise: s.noise, Rng: s.rng}
	live := s.pool.Live()
	if s.workers != nil && len(live) >= parallelThreshold {
		s.workers.run(s, live, dt, &ctx)
	} else {
		s.applyModifiers(live, dt, &ctx)
	}

	for _, idx := range live {
		s.pool.At(idx).Age += dt
	}
	reaped := s.pool.reapExpired()

	s.last = FrameStats{Spawned: spawned, Dropped: dropped, Reaped: reaped}
	return nil
}

// applyModifiers runs the pipeline over the given slot indices.
func (s *System) applyModifiers(live []int, dt float32, ctx *ModContext) {
	for _, idx := range live {
		p := s.pool.At(idx)
		for _, m := range s.modifiers {
			m.Apply(p, dt, ctx)
		}
	}
}

// ExtractGeometry regenerates the vertex/index buffer from live particles
// and returns it. Read-only over simulation state and idempotent: calling
// it twice in a frame yields the same buffer, so multi-pass rendering is
// fine. The returned buffer is owned by the system and overwritten by the
// next call.
func (s *System) ExtractGeometry() *GeometryBuffer {
	s.geom.fill(s.pool)
	return &s.geom
}

// Reset clears the pool, stops the emitter, and rewinds the system clock.
// The random stream is not reseeded.
func (s *System) Reset() {
	s.pool.Clear()
	s.emitter.Stop()
	s.time = 0
	s.last = FrameStats{}
}

// Start begins (or resumes) emission.
func (s *System) Start() { s.emitter.Start() }

// Stop halts emission; live particles age out normally.
func (s *System) Stop() { s.emitter.Stop() }

// Pause suspends emission, preserving accumulator and burst progress.
func (s *System) Pause() { s.emitter.Pause() }

// Resume continues a paused emitter.
func (s *System) Resume() { s.emitter.Resume() }

// LiveCount returns the number of live particles.
func (s *System) LiveCount() int { return s.pool.Count() }

// Capacity returns the fixed pool capacity.
func (s *System) Capacity() int { return s.pool.Capacity() }

// EmitterState returns the spawn controller's state.
func (s *System) EmitterState() EmitterState { return s.emitter.State() }

// Time returns the elapsed simulated seconds.
func (s *System) Time() float32 { return s.time }

// LastFrame returns stats for the most recent Update.
func (s *System) LastFrame() FrameStats { return s.last }

// Close releases the worker pool if parallel application was enabled. The
// system remains usable afterwards on the sequential path.
func (s *System) Close() {
	if s.workers != nil {
		s.workers.stop()
		s.workers = nil
	}
}
