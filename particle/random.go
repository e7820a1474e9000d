package particle

import "math/rand"

// Source is a seeded random stream. Every stochastic operation in the
// simulation draws from a Source, so a run is reproducible from its seed.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a Source seeded with seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Reseed resets the stream to the state of a fresh Source with seed.
func (s *Source) Reseed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Float returns a uniform value in [0, 1).
func (s *Source) Float() float32 {
	return s.rng.Float32()
}

// Range returns a uniform value in [lo, hi).
func (s *Source) Range(lo, hi float32) float32 {
	return lo + (hi-lo)*s.rng.Float32()
}

// UnitVector returns a uniformly distributed point on the unit sphere.
// Three gaussians normalized; no rejection loop.
func (s *Source) UnitVector() Vec3 {
	v := Vec3{
		X: float32(s.rng.NormFloat64()),
		Y: float32(s.rng.NormFloat64()),
		Z: float32(s.rng.NormFloat64()),
	}
	return v.Normalized(Up)
}
