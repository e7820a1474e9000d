// Package particle implements a fixed-capacity particle simulation core:
// a slot-reuse pool, a rate/burst emitter with pluggable spawn shapes, an
// ordered per-frame modifier pipeline driven by lifetime curves and noise
// fields, and geometry extraction for a host renderer.
//
// The package allocates everything up front. Per-frame work touches no heap;
// a saturated pool drops spawn requests instead of growing.
package particle

// Particle is one simulated element. Records live in the pool's arena and
// are only valid to hold during the frame they were obtained in.
type Particle struct {
	Position Vec3
	Velocity Vec3
	Color    Color
	Size     float32
	Age      float32 // seconds since spawn
	Lifetime float32 // total seconds to live; fixed at spawn
	Alive    bool
}

// Progress returns the normalized age in [0, 1]. Lifetimes are validated
// positive at construction, so the division is always defined.
func (p *Particle) Progress() float32 {
	return clamp01(p.Age / p.Lifetime)
}
