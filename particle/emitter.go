package particle

// EmitterState is the spawn controller's state machine position.
type EmitterState uint8

const (
	// Stopped emitters spawn nothing and hold no pending debt.
	Stopped EmitterState = iota
	// Emitting emitters accumulate spawn debt every frame.
	Emitting
	// Paused emitters spawn nothing but keep accumulator and burst state.
	Paused
)

func (s EmitterState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Emitting:
		return "emitting"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Range is a [Min, Max] sampling interval for an initial particle property.
type Range struct {
	Min, Max float32
}

func (r Range) sample(rng *Source) float32 {
	if r.Min == r.Max {
		return r.Min
	}
	return rng.Range(r.Min, r.Max)
}

// Burst schedules Count extra particles at Time seconds after Start,
// independent of the rate accumulator. Each burst fires once per run.
type Burst struct {
	Time  float32
	Count int
}

// SpreadLoopMode selects how spread emission behaves at the ends of its
// [0, 1] index range.
type SpreadLoopMode uint8

const (
	// SpreadLoop wraps back through the start after passing 1.
	SpreadLoop SpreadLoopMode = iota
	// SpreadPingPong reverses the stepping direction at either end.
	SpreadPingPong
)

// EmissionSpread emits at discrete intervals around the spawn shape instead
// of anywhere in it: every spawn advances an index through [0, 1] by Amount
// and the shape maps the index onto its sweep coordinate (azimuth for the
// round shapes, the X axis for boxes).
type EmissionSpread struct {
	// Amount is the index step per spawn, in (0, 1]. 0.1 emits at 10%
	// intervals around the shape.
	Amount float32
	// LoopMode wraps or reverses when the index leaves [0, 1].
	LoopMode SpreadLoopMode
	// Uniform places each spawn exactly at the stepped index. When false
	// the spawn lands randomly inside the interval the step covered.
	Uniform bool
}

// EmitterConfig describes spawn behavior and initial particle conditions.
type EmitterConfig struct {
	// Rate is the base spawn rate in particles per second.
	Rate float32
	// RateCurve optionally shapes the rate over the emitter's run: the
	// effective rate is Rate * RateCurve(t / RatePeriod). Nil means constant.
	RateCurve *Curve
	// RatePeriod is the span in seconds the rate curve covers. Defaults to 1;
	// past the end the curve clamps at its last value.
	RatePeriod float32
	// Bursts fire their full count the frame their time falls in.
	Bursts []Burst

	// Shape samples initial positions and base directions.
	Shape Shape
	// Spread switches position sampling to discrete intervals around the
	// shape. Nil spawns anywhere in the shape.
	Spread *EmissionSpread
	// FixedDirection overrides the shape's base direction with a constant
	// vector (normalized at construction). Nil takes directions from the
	// shape. Randomize/spherize blending applies on top either way.
	FixedDirection *Vec3
	// RandomizeDirection blends the shape direction toward a fully random
	// unit vector, 0 = shape direction, 1 = random.
	RandomizeDirection float32
	// SpherizeDirection blends the direction toward the outward ray from
	// the emitter origin through the spawn position.
	SpherizeDirection float32

	Speed    Range
	Size     Range
	Lifetime Range // seconds; Min must be > 0
	Color    Color

	// PreserveAccumulator keeps fractional spawn debt when Start is called
	// on a Stopped emitter. Stop itself always clears the accumulator, so
	// this only matters for debt accrued before Start.
	PreserveAccumulator bool
}

func (c *EmitterConfig) validate() error {
	if c.Rate < 0 {
		return configErr("emitter.rate", "must be >= 0, got %g", c.Rate)
	}
	if c.Shape == nil {
		return configErr("emitter.shape", "missing")
	}
	if err := c.Shape.Validate(); err != nil {
		return err
	}
	if c.Spread != nil {
		if c.Spread.Amount <= 0 || c.Spread.Amount > 1 {
			return configErr("emitter.spread.amount", "must be in (0,1], got %g", c.Spread.Amount)
		}
		if c.Spread.LoopMode > SpreadPingPong {
			return configErr("emitter.spread.loop_mode", "unknown mode %d", c.Spread.LoopMode)
		}
	}
	if c.FixedDirection != nil && c.FixedDirection.Length() < 1e-6 {
		return configErr("emitter.fixed_direction", "must be non-zero")
	}
	if c.Lifetime.Min <= 0 || c.Lifetime.Max < c.Lifetime.Min {
		return configErr("emitter.lifetime", "need 0 < min <= max, got [%g, %g]",
			c.Lifetime.Min, c.Lifetime.Max)
	}
	if c.Speed.Max < c.Speed.Min {
		return configErr("emitter.speed", "max %g below min %g", c.Speed.Max, c.Speed.Min)
	}
	if c.Size.Min < 0 || c.Size.Max < c.Size.Min {
		return configErr("emitter.size", "need 0 <= min <= max, got [%g, %g]",
			c.Size.Min, c.Size.Max)
	}
	if c.RandomizeDirection < 0 || c.RandomizeDirection > 1 {
		return configErr("emitter.randomize_direction", "must be in [0,1], got %g", c.RandomizeDirection)
	}
	if c.SpherizeDirection < 0 || c.SpherizeDirection > 1 {
		return configErr("emitter.spherize_direction", "must be in [0,1], got %g", c.SpherizeDirection)
	}
	for i, b := range c.Bursts {
		if b.Time < 0 {
			return configErr("emitter.bursts", "burst %d time %g negative", i, b.Time)
		}
		if b.Count < 0 {
			return configErr("emitter.bursts", "burst %d count %d negative", i, b.Count)
		}
	}
	return nil
}

// Emitter is the spawn controller: it turns a rate into whole particles via
// a fractional accumulator, fires scheduled bursts, and initializes new
// particles from the spawn shape.
type Emitter struct {
	cfg   EmitterConfig
	state EmitterState

	time        float32 // emitter-local clock; runs while Emitting
	accumulator float32
	burstFired  []bool

	spreadIndex float32
	spreadUp    bool
}

// NewEmitter validates cfg and returns an emitter in the Stopped state.
func NewEmitter(cfg EmitterConfig) (*Emitter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.RatePeriod <= 0 {
		cfg.RatePeriod = 1
	}
	if cfg.FixedDirection != nil {
		d := cfg.FixedDirection.Normalized(Up)
		cfg.FixedDirection = &d
	}
	return &Emitter{
		cfg:        cfg,
		state:      Stopped,
		burstFired: make([]bool, len(cfg.Bursts)),
		spreadUp:   true,
	}, nil
}

// State returns the current state machine position.
func (e *Emitter) State() EmitterState {
	return e.state
}

// Start moves Stopped or Paused to Emitting. From Stopped the emitter clock
// restarts at zero and bursts re-arm; the accumulator resets unless the
// config preserves it. From Paused this is equivalent to Resume.
func (e *Emitter) Start() {
	if e.state == Paused {
		e.state = Emitting
		return
	}
	if e.state == Stopped {
		e.time = 0
		if !e.cfg.PreserveAccumulator {
			e.accumulator = 0
		}
		for i := range e.burstFired {
			e.burstFired[i] = false
		}
		e.spreadIndex = 0
		e.spreadUp = true
		e.state = Emitting
	}
}

// Stop halts spawning, clears the accumulator, and discards pending bursts.
// Live particles are unaffected; they age out normally.
func (e *Emitter) Stop() {
	e.state = Stopped
	e.accumulator = 0
	e.time = 0
}

// Pause suspends spawning without losing accumulator or burst progress.
func (e *Emitter) Pause() {
	if e.state == Emitting {
		e.state = Paused
	}
}

// Resume continues an emitter paused by Pause.
func (e *Emitter) Resume() {
	if e.state == Paused {
		e.state = Emitting
	}
}

// rate returns the effective spawn rate at emitter-local time t.
func (e *Emitter) rate(t float32) float32 {
	if e.cfg.RateCurve == nil {
		return e.cfg.Rate
	}
	return e.cfg.Rate * e.cfg.RateCurve.Evaluate(t/e.cfg.RatePeriod)
}

// update advances the emitter by dt and spawns into pool. Returns how many
// particles spawned and how many were dropped against a saturated pool.
// Whole particles spawned from rate = floor(accumulator); the fraction
// carries to the next frame so the long-run rate is exact regardless of
// frame-time jitter.
func (e *Emitter) update(dt float32, pool *Pool, rng *Source) (spawned, dropped int) {
	if e.state != Emitting {
		return 0, 0
	}

	e.accumulator += e.rate(e.time) * dt
	want := int(e.accumulator)
	e.accumulator -= float32(want)

	// Bursts scheduled inside [time, time+dt) fire in full.
	for i, b := range e.cfg.Bursts {
		if e.burstFired[i] {
			continue
		}
		if b.Time >= e.time && b.Time < e.time+dt {
			want += b.Count
			e.burstFired[i] = true
		}
	}

	e.time += dt

	for n := 0; n < want; n++ {
		idx, ok := pool.Allocate()
		if !ok {
			// Saturated: drop the rest of this frame's requests. Particles
			// are best-effort visuals, not a guaranteed-delivery channel.
			dropped = want - n
			break
		}
		e.initParticle(pool.At(idx), rng)
		spawned++
	}
	return spawned, dropped
}

// advanceSpread steps the spread index by the configured amount and applies
// the loop mode, returning the index before and after the step.
func (e *Emitter) advanceSpread() (prev, cur float32) {
	sp := e.cfg.Spread
	prev = e.spreadIndex
	if e.spreadUp {
		e.spreadIndex += sp.Amount
	} else {
		e.spreadIndex -= sp.Amount
	}
	switch sp.LoopMode {
	case SpreadLoop:
		if e.spreadIndex > 1 {
			e.spreadIndex = 1 - e.spreadIndex
		}
	case SpreadPingPong:
		if e.spreadIndex < 0 || e.spreadIndex > 1 {
			e.spreadUp = !e.spreadUp
			e.spreadIndex = prev
		}
	}
	return prev, e.spreadIndex
}

// initParticle samples the initial conditions for a freshly allocated slot.
func (e *Emitter) initParticle(p *Particle, rng *Source) {
	cfg := &e.cfg

	var pos Vec3
	if cfg.Spread != nil {
		prev, cur := e.advanceSpread()
		idx := cur
		if !cfg.Spread.Uniform {
			lo, hi := prev, cur
			if lo > hi {
				lo, hi = hi, lo
			}
			idx = rng.Range(lo, hi)
		}
		pos = cfg.Shape.SpreadPosition(rng, idx)
	} else {
		pos = cfg.Shape.SamplePosition(rng)
	}

	var dir Vec3
	if cfg.FixedDirection != nil {
		dir = *cfg.FixedDirection
	} else {
		dir = cfg.Shape.SampleDirection(rng, pos)
	}

	if cfg.RandomizeDirection > 0 {
		r := rng.UnitVector()
		dir = r.Scale(cfg.RandomizeDirection).
			Add(dir.Scale(1 - cfg.RandomizeDirection)).
			Normalized(Up)
	}
	if cfg.SpherizeDirection > 0 {
		outward := pos.Normalized(Up)
		dir = outward.Scale(cfg.SpherizeDirection).
			Add(dir.Scale(1 - cfg.SpherizeDirection)).
			Normalized(Up)
	}

	p.Position = pos
	p.Velocity = dir.Scale(cfg.Speed.sample(rng))
	p.Size = cfg.Size.sample(rng)
	p.Lifetime = cfg.Lifetime.sample(rng)
	p.Color = cfg.Color
	p.Age = 0
}
