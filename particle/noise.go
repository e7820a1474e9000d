package particle

import "github.com/ojrac/opensimplex-go"

// NoiseField is a deterministic turbulence sampler: a pure function of
// (position, time) built on 4D simplex noise. One independent noise stream
// per output axis keeps the displacement vector decorrelated. Safe for
// concurrent sampling; there is no mutable state past construction.
type NoiseField struct {
	x, y, z    opensimplex.Noise
	frequency  float32
	timeScale  float32
	octaves    int
	lacunarity float32
	gain       float32
	norm       float32 // 1 / max FBM amplitude, keeps output in ~[-1,1]
}

// NoiseConfig configures a NoiseField.
type NoiseConfig struct {
	Frequency  float32 // spatial frequency; > 0
	TimeScale  float32 // how fast the field evolves; 0 freezes it
	Octaves    int     // FBM octave count; >= 1
	Lacunarity float32 // frequency multiplier per octave; defaults to 2
	Gain       float32 // amplitude multiplier per octave; defaults to 0.5
}

// NewNoiseField builds a NoiseField from cfg, seeded with seed.
func NewNoiseField(seed int64, cfg NoiseConfig) (*NoiseField, error) {
	if cfg.Frequency <= 0 {
		return nil, configErr("noise.frequency", "must be > 0, got %g", cfg.Frequency)
	}
	if cfg.Octaves < 1 {
		return nil, configErr("noise.octaves", "must be >= 1, got %d", cfg.Octaves)
	}
	lac := cfg.Lacunarity
	if lac == 0 {
		lac = 2
	}
	gain := cfg.Gain
	if gain == 0 {
		gain = 0.5
	}

	// Geometric series of octave amplitudes.
	amp := float32(1)
	var total float32
	for o := 0; o < cfg.Octaves; o++ {
		total += amp
		amp *= gain
	}

	return &NoiseField{
		x:          opensimplex.New(seed),
		y:          opensimplex.New(seed + 1),
		z:          opensimplex.New(seed + 2),
		frequency:  cfg.Frequency,
		timeScale:  cfg.TimeScale,
		octaves:    cfg.Octaves,
		lacunarity: lac,
		gain:       gain,
		norm:       1 / total,
	}, nil
}

// Sample returns the turbulence vector at pos and time t. Each component is
// bounded to roughly [-1, 1]; callers scale by their own strength.
func (n *NoiseField) Sample(pos Vec3, t float32) Vec3 {
	return Vec3{
		X: n.fbm(n.x, pos, t),
		Y: n.fbm(n.y, pos, t),
		Z: n.fbm(n.z, pos, t),
	}
}

// fbm layers octaves of 4D simplex noise, frequency climbing by lacunarity
// and amplitude falling by gain per octave.
func (n *NoiseField) fbm(src opensimplex.Noise, pos Vec3, t float32) float32 {
	freq := float64(n.frequency)
	amp := float32(1)
	w := float64(t * n.timeScale)

	var sum float32
	for o := 0; o < n.octaves; o++ {
		sum += amp * float32(src.Eval4(
			float64(pos.X)*freq,
			float64(pos.Y)*freq,
			float64(pos.Z)*freq,
			w,
		))
		freq *= float64(n.lacunarity)
		amp *= n.gain
	}
	return sum * n.norm
}
