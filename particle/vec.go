package particle

import "math"

// Vec3 is a float32 3-vector used for particle positions and velocities.
type Vec3 struct {
	X, Y, Z float32
}

// Color is an RGBA color with float32 channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Length() float32 {
	return sqrtf(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns the unit vector along v, or fallback when v is too
// short to normalize safely.
func (v Vec3) Normalized(fallback Vec3) Vec3 {
	l := v.Length()
	if l < 1e-6 {
		return fallback
	}
	return v.Scale(1 / l)
}

// Lerp interpolates component-wise between a and b.
func (a Color) Lerp(b Color, t float32) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// Up is the fallback direction when a sampled vector degenerates to zero.
var Up = Vec3{0, 1, 0}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func cosf(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cbrtf(x float32) float32 {
	return float32(math.Cbrt(float64(x)))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
