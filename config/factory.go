package config

import (
	"fmt"

	"github.com/pthm-cable/ember/particle"
)

// BuildSystem assembles a particle.System from an effect config. The seed
// and parallel flag come from the simulation config so every effect in a
// scene shares one deterministic run setup; effects get distinct streams
// by offsetting the seed with their index in the effect list.
func BuildSystem(effect *EffectConfig, seed int64, parallel bool) (*particle.System, error) {
	if effect.Capacity <= 0 {
		return nil, fmt.Errorf("effect %q: capacity must be > 0, got %d", effect.Name, effect.Capacity)
	}

	shape, err := buildShape(effect.Emitter.Shape)
	if err != nil {
		return nil, fmt.Errorf("effect %q: %w", effect.Name, err)
	}

	emitter := particle.EmitterConfig{
		Rate:                float32(effect.Emitter.Rate),
		RatePeriod:          float32(effect.Emitter.RatePeriod),
		Shape:               shape,
		RandomizeDirection:  float32(effect.Emitter.RandomizeDirection),
		SpherizeDirection:   float32(effect.Emitter.SpherizeDirection),
		Speed:               buildRange(effect.Emitter.Speed),
		Size:                buildRange(effect.Emitter.Size),
		Lifetime:            buildRange(effect.Emitter.Lifetime),
		Color:               buildColor(effect.Emitter.Color),
		PreserveAccumulator: effect.Emitter.PreserveAccumulator,
	}
	if sc := effect.Emitter.Spread; sc != nil {
		spread, err := buildSpread(sc)
		if err != nil {
			return nil, fmt.Errorf("effect %q: spread: %w", effect.Name, err)
		}
		emitter.Spread = spread
	}
	if fd := effect.Emitter.FixedDirection; len(fd) > 0 {
		if len(fd) != 3 {
			return nil, fmt.Errorf("effect %q: fixed_direction needs 3 components, got %d",
				effect.Name, len(fd))
		}
		dir := particle.Vec3{X: float32(fd[0]), Y: float32(fd[1]), Z: float32(fd[2])}
		emitter.FixedDirection = &dir
	}
	if len(effect.Emitter.RateCurve) > 0 {
		curve, err := buildCurve(effect.Emitter.RateCurve)
		if err != nil {
			return nil, fmt.Errorf("effect %q: rate curve: %w", effect.Name, err)
		}
		emitter.RateCurve = curve
	}
	for _, b := range effect.Emitter.Bursts {
		emitter.Bursts = append(emitter.Bursts, particle.Burst{
			Time:  float32(b.Time),
			Count: b.Count,
		})
	}

	var noise *particle.NoiseField
	if effect.Noise != nil {
		noise, err = particle.NewNoiseField(seed, particle.NoiseConfig{
			Frequency:  float32(effect.Noise.Frequency),
			TimeScale:  float32(effect.Noise.TimeScale),
			Octaves:    effect.Noise.Octaves,
			Lacunarity: float32(effect.Noise.Lacunarity),
			Gain:       float32(effect.Noise.Gain),
		})
		if err != nil {
			return nil, fmt.Errorf("effect %q: %w", effect.Name, err)
		}
	}

	mods := make([]particle.Modifier, 0, len(effect.Modifiers))
	for i, mc := range effect.Modifiers {
		mod, err := buildModifier(mc)
		if err != nil {
			return nil, fmt.Errorf("effect %q: modifier %d: %w", effect.Name, i, err)
		}
		mods = append(mods, mod)
	}

	return particle.NewSystem(particle.SystemConfig{
		Capacity:  effect.Capacity,
		Emitter:   emitter,
		Modifiers: mods,
		Noise:     noise,
		Seed:      seed,
		Parallel:  parallel,
	})
}

func buildSpread(sc *SpreadConfig) (*particle.EmissionSpread, error) {
	spread := &particle.EmissionSpread{
		Amount:  float32(sc.Amount),
		Uniform: sc.Uniform,
	}
	switch sc.Loop {
	case "", "loop":
		spread.LoopMode = particle.SpreadLoop
	case "ping_pong":
		spread.LoopMode = particle.SpreadPingPong
	default:
		return nil, fmt.Errorf("unknown loop mode %q", sc.Loop)
	}
	return spread, nil
}

func buildShape(sc ShapeConfig) (particle.Shape, error) {
	switch sc.Type {
	case "", "point":
		return particle.PointShape{}, nil
	case "sphere":
		return particle.SphereShape{
			Radius:    float32(sc.Radius),
			Thickness: float32(sc.Thickness),
		}, nil
	case "box":
		return particle.BoxShape{
			HalfExtents: particle.Vec3{
				X: float32(sc.HalfExtents[0]),
				Y: float32(sc.HalfExtents[1]),
				Z: float32(sc.HalfExtents[2]),
			},
			Thickness: float32(sc.Thickness),
		}, nil
	case "cone":
		return particle.ConeShape{
			Angle:  float32(sc.Angle),
			Height: float32(sc.Height),
		}, nil
	case "circle":
		return particle.CircleShape{
			Radius:    float32(sc.Radius),
			Thickness: float32(sc.Thickness),
		}, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", sc.Type)
}

func buildModifier(mc ModifierConfig) (particle.Modifier, error) {
	switch mc.Type {
	case "gravity":
		return particle.Gravity{Accel: particle.Vec3{
			X: float32(mc.Accel[0]),
			Y: float32(mc.Accel[1]),
			Z: float32(mc.Accel[2]),
		}}, nil
	case "drag":
		return particle.Drag{Coefficient: float32(mc.Drag)}, nil
	case "noise_force":
		curve, err := buildCurve(mc.Strength)
		if err != nil {
			return nil, fmt.Errorf("strength: %w", err)
		}
		return particle.NoiseForce{Strength: curve}, nil
	case "size_over_life":
		curve, err := buildCurve(mc.Curve)
		if err != nil {
			return nil, fmt.Errorf("curve: %w", err)
		}
		return particle.SizeOverLife{Curve: curve}, nil
	case "color_over_life":
		grad, err := buildGradient(mc.Gradient)
		if err != nil {
			return nil, fmt.Errorf("gradient: %w", err)
		}
		return particle.ColorOverLife{Gradient: grad}, nil
	case "integrate":
		return particle.PositionIntegrator{}, nil
	}
	return nil, fmt.Errorf("unknown modifier type %q", mc.Type)
}

func buildCurve(pairs [][2]float64) (*particle.Curve, error) {
	keys := make([]particle.Keyframe, len(pairs))
	for i, p := range pairs {
		keys[i] = particle.Keyframe{Time: float32(p[0]), Value: float32(p[1])}
	}
	return particle.NewCurve(keys)
}

func buildGradient(keys []GradientKeyConfig) (*particle.Gradient, error) {
	gk := make([]particle.GradientKey, len(keys))
	for i, k := range keys {
		gk[i] = particle.GradientKey{
			Time:  float32(k.Time),
			Color: buildColor(k.Color),
		}
	}
	return particle.NewGradient(gk)
}

func buildRange(r RangeConfig) particle.Range {
	return particle.Range{Min: float32(r.Min), Max: float32(r.Max)}
}

func buildColor(c [4]float64) particle.Color {
	return particle.Color{
		R: float32(c[0]),
		G: float32(c[1]),
		B: float32(c[2]),
		A: float32(c[3]),
	}
}
