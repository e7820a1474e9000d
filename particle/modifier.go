package particle

// ModContext is the read-only frame context handed to every modifier:
// the system's elapsed time plus the shared noise field and random source.
type ModContext struct {
	Time  float32
	Noise *NoiseField
	Rng   *Source
}

// Modifier mutates one particle for one frame. Modifiers run in the order
// the system was configured with; the pipeline never reorders them, and
// order is part of the observable contract (gravity-then-drag differs from
// drag-then-gravity).
type Modifier interface {
	Apply(p *Particle, dt float32, ctx *ModContext)
}

// Gravity adds a constant acceleration to velocity.
type Gravity struct {
	Accel Vec3
}

func (g Gravity) Apply(p *Particle, dt float32, _ *ModContext) {
	p.Velocity = p.Velocity.Add(g.Accel.Scale(dt))
}

// Drag decays velocity toward zero. The decay factor is clamped to [0, 1]
// so an oversized dt can stop a particle but never reverse it.
type Drag struct {
	Coefficient float32 // per-second decay fraction
}

func (d Drag) Apply(p *Particle, dt float32, _ *ModContext) {
	factor := 1 - clamp01(d.Coefficient*dt)
	p.Velocity = p.Velocity.Scale(factor)
}

// NoiseForce perturbs velocity with the noise field sampled at the
// particle's position and the current system time, scaled by a strength
// curve over the particle's normalized age. Field may be nil to use the
// system's shared field from the context.
type NoiseForce struct {
	Field    *NoiseField
	Strength *Curve
}

func (n NoiseForce) Apply(p *Particle, dt float32, ctx *ModContext) {
	field := n.Field
	if field == nil {
		field = ctx.Noise
	}
	if field == nil {
		return
	}
	strength := n.Strength.Evaluate(p.Progress())
	turb := field.Sample(p.Position, ctx.Time)
	p.Velocity = p.Velocity.Add(turb.Scale(strength * dt))
}

// SizeOverLife overwrites size from a curve at the normalized age. It is a
// terminal writer for size; place it after anything reading the old value.
type SizeOverLife struct {
	Curve *Curve
}

func (s SizeOverLife) Apply(p *Particle, _ float32, _ *ModContext) {
	p.Size = s.Curve.Evaluate(p.Progress())
}

// ColorOverLife overwrites color from a gradient at the normalized age.
// Terminal writer for color, same placement rule as SizeOverLife.
type ColorOverLife struct {
	Gradient *Gradient
}

func (c ColorOverLife) Apply(p *Particle, _ float32, _ *ModContext) {
	p.Color = c.Gradient.Evaluate(p.Progress())
}

// PositionIntegrator applies explicit Euler integration, position +=
// velocity * dt. Place it after every velocity-affecting modifier so the
// step uses the frame's final velocity. Euler is a known stability
// tradeoff, chosen for cost; lifetimes here are short.
type PositionIntegrator struct{}

func (PositionIntegrator) Apply(p *Particle, dt float32, _ *ModContext) {
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
}

// validateModifiers rejects modifiers with missing curve references before
// the system ever runs.
func validateModifiers(mods []Modifier) error {
	for i, m := range mods {
		switch v := m.(type) {
		case NoiseForce:
			if v.Strength == nil {
				return configErr("modifiers", "noise force at %d has no strength curve", i)
			}
		case SizeOverLife:
			if v.Curve == nil {
				return configErr("modifiers", "size-over-life at %d has no curve", i)
			}
		case ColorOverLife:
			if v.Gradient == nil {
				return configErr("modifiers", "color-over-life at %d has no gradient", i)
			}
		case nil:
			return configErr("modifiers", "nil modifier at %d", i)
		}
	}
	return nil
}
