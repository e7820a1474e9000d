package particle

import "math"

// Shape samples initial particle positions and directions for an emitter.
// Positions are emitter-relative; directions are unit vectors. All entropy
// comes from the supplied Source so spawns replay from a seed.
//
// Thickness on the volumetric shapes follows the emitter convention:
// 0 emits from the outer surface only, 1 from the entire volume, values in
// between from the outer shell of that fractional depth.
// SpreadPosition samples a position for spread emission: index in [0, 1]
// fixes the shape's sweep coordinate (azimuth for the round shapes, the X
// axis for boxes) while the remaining coordinates stay random.
type Shape interface {
	SamplePosition(rng *Source) Vec3
	SpreadPosition(rng *Source, index float32) Vec3
	SampleDirection(rng *Source, pos Vec3) Vec3
	Validate() error
}

// PointShape emits everything from the emitter origin with fully random
// directions.
type PointShape struct{}

func (PointShape) SamplePosition(*Source) Vec3 { return Vec3{} }

func (PointShape) SpreadPosition(*Source, float32) Vec3 { return Vec3{} }

func (PointShape) SampleDirection(rng *Source, _ Vec3) Vec3 {
	return rng.UnitVector()
}

func (PointShape) Validate() error { return nil }

// SphereShape emits from a sphere volume or shell. Directions point outward
// from the center.
type SphereShape struct {
	Radius    float32
	Thickness float32
}

func (s SphereShape) SamplePosition(rng *Source) Vec3 {
	dir := rng.UnitVector()
	// cbrt gives a volume-uniform radial CDF; thickness narrows it to the
	// outer shell.
	f := 1 - s.Thickness + s.Thickness*cbrtf(rng.Float())
	return dir.Scale(s.Radius * f)
}

func (s SphereShape) SpreadPosition(rng *Source, index float32) Vec3 {
	phi := index * 2 * math.Pi
	cosT := rng.Range(-1, 1)
	sinT := sqrtf(1 - cosT*cosT)
	dir := Vec3{sinT * cosf(phi), cosT, sinT * sinf(phi)}
	f := 1 - s.Thickness + s.Thickness*cbrtf(rng.Float())
	return dir.Scale(s.Radius * f)
}

func (s SphereShape) SampleDirection(rng *Source, pos Vec3) Vec3 {
	return pos.Normalized(rng.UnitVector())
}

func (s SphereShape) Validate() error {
	if s.Radius < 0 {
		return configErr("sphere.radius", "must be >= 0, got %g", s.Radius)
	}
	if s.Thickness < 0 || s.Thickness > 1 {
		return configErr("sphere.thickness", "must be in [0,1], got %g", s.Thickness)
	}
	return nil
}

// BoxShape emits uniformly inside an axis-aligned box given by half extents.
// Thickness < 1 renormalizes samples toward the faces; shell uniformity for
// the box is approximate (corner regions are slightly favored).
type BoxShape struct {
	HalfExtents Vec3
	Thickness   float32
}

func (b BoxShape) SamplePosition(rng *Source) Vec3 {
	p := Vec3{
		X: rng.Range(-1, 1),
		Y: rng.Range(-1, 1),
		Z: rng.Range(-1, 1),
	}
	if b.Thickness < 1 {
		m := maxf(maxf(absf(p.X), absf(p.Y)), absf(p.Z))
		if m > 1e-6 {
			target := 1 - b.Thickness + b.Thickness*m
			p = p.Scale(target / m)
		}
	}
	return Vec3{p.X * b.HalfExtents.X, p.Y * b.HalfExtents.Y, p.Z * b.HalfExtents.Z}
}

func (b BoxShape) SpreadPosition(rng *Source, index float32) Vec3 {
	p := Vec3{
		X: -1 + 2*fracf(index),
		Y: rng.Range(-1, 1),
		Z: rng.Range(-1, 1),
	}
	if b.Thickness < 1 {
		m := maxf(maxf(absf(p.X), absf(p.Y)), absf(p.Z))
		if m > 1e-6 {
			target := 1 - b.Thickness + b.Thickness*m
			p = p.Scale(target / m)
		}
	}
	return Vec3{p.X * b.HalfExtents.X, p.Y * b.HalfExtents.Y, p.Z * b.HalfExtents.Z}
}

func (b BoxShape) SampleDirection(rng *Source, pos Vec3) Vec3 {
	return pos.Normalized(rng.UnitVector())
}

func (b BoxShape) Validate() error {
	if b.HalfExtents.X < 0 || b.HalfExtents.Y < 0 || b.HalfExtents.Z < 0 {
		return configErr("box.half_extents", "must be >= 0, got (%g, %g, %g)",
			b.HalfExtents.X, b.HalfExtents.Y, b.HalfExtents.Z)
	}
	if b.Thickness < 0 || b.Thickness > 1 {
		return configErr("box.thickness", "must be in [0,1], got %g", b.Thickness)
	}
	return nil
}

// ConeShape emits from a cone opening along +Y. Angle is the half-angle in
// radians. Positions sample the cone volume up to Height; directions sample
// the spherical cap of the half-angle uniformly by solid angle.
type ConeShape struct {
	Angle  float32
	Height float32
}

func (c ConeShape) SamplePosition(rng *Source) Vec3 {
	if c.Height <= 0 {
		return Vec3{}
	}
	y := c.Height * rng.Float()
	rim := float32(math.Tan(float64(c.Angle))) * y
	r := rim * sqrtf(rng.Float())
	phi := rng.Range(0, 2*math.Pi)
	return Vec3{r * cosf(phi), y, r * sinf(phi)}
}

func (c ConeShape) SpreadPosition(rng *Source, index float32) Vec3 {
	if c.Height <= 0 {
		return Vec3{}
	}
	y := c.Height * rng.Float()
	rim := float32(math.Tan(float64(c.Angle))) * y
	r := rim * sqrtf(rng.Float())
	phi := index * 2 * math.Pi
	return Vec3{r * cosf(phi), y, r * sinf(phi)}
}

func (c ConeShape) SampleDirection(rng *Source, _ Vec3) Vec3 {
	// Uniform over the cap: cos(theta) uniform in [cos(angle), 1].
	cosMax := cosf(c.Angle)
	cosT := rng.Range(cosMax, 1)
	sinT := sqrtf(1 - cosT*cosT)
	phi := rng.Range(0, 2*math.Pi)
	return Vec3{sinT * cosf(phi), cosT, sinT * sinf(phi)}
}

func (c ConeShape) Validate() error {
	if c.Angle < 0 || c.Angle > math.Pi/2 {
		return configErr("cone.angle", "must be in [0, pi/2], got %g", c.Angle)
	}
	if c.Height < 0 {
		return configErr("cone.height", "must be >= 0, got %g", c.Height)
	}
	return nil
}

// CircleShape emits from a disc on the XZ plane. Directions point radially
// outward in the plane; a center sample falls back to +Y.
type CircleShape struct {
	Radius    float32
	Thickness float32
}

func (c CircleShape) SamplePosition(rng *Source) Vec3 {
	// sqrt gives an area-uniform radial CDF on the disc.
	f := 1 - c.Thickness + c.Thickness*sqrtf(rng.Float())
	r := c.Radius * f
	phi := rng.Range(0, 2*math.Pi)
	return Vec3{r * cosf(phi), 0, r * sinf(phi)}
}

func (c CircleShape) SpreadPosition(rng *Source, index float32) Vec3 {
	f := 1 - c.Thickness + c.Thickness*sqrtf(rng.Float())
	r := c.Radius * f
	phi := index * 2 * math.Pi
	return Vec3{r * cosf(phi), 0, r * sinf(phi)}
}

func (c CircleShape) SampleDirection(rng *Source, pos Vec3) Vec3 {
	return Vec3{pos.X, 0, pos.Z}.Normalized(Up)
}

func (c CircleShape) Validate() error {
	if c.Radius < 0 {
		return configErr("circle.radius", "must be >= 0, got %g", c.Radius)
	}
	if c.Thickness < 0 || c.Thickness > 1 {
		return configErr("circle.thickness", "must be in [0,1], got %g", c.Thickness)
	}
	return nil
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// fracf wraps x into [0, 1). Spread indices can step slightly outside the
// range in loop mode.
func fracf(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}
