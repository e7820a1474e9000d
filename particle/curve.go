package particle

// Keyframe is a (time, value) pair on a Curve. Time is normalized lifetime
// progress in [0, 1].
type Keyframe struct {
	Time  float32
	Value float32
}

// Curve is an immutable piecewise-linear scalar function over [0, 1].
// Lookup is a linear scan over the keyframes; curves in practice carry a
// handful of keys, so a scan beats binary search on the hot path.
type Curve struct {
	keys []Keyframe
}

// NewCurve builds a Curve from keyframes. Keyframes must be non-empty and
// strictly increasing in time within [0, 1].
func NewCurve(keys []Keyframe) (*Curve, error) {
	if len(keys) == 0 {
		return nil, configErr("curve", "no keyframes")
	}
	for i, k := range keys {
		if k.Time < 0 || k.Time > 1 {
			return nil, configErr("curve", "keyframe %d time %.3f outside [0,1]", i, k.Time)
		}
		if i > 0 && k.Time <= keys[i-1].Time {
			return nil, configErr("curve", "keyframe %d time %.3f not after %.3f", i, k.Time, keys[i-1].Time)
		}
	}
	c := &Curve{keys: make([]Keyframe, len(keys))}
	copy(c.keys, keys)
	return c, nil
}

// MustCurve is NewCurve that panics on invalid keyframes. For literals.
func MustCurve(keys ...Keyframe) *Curve {
	c, err := NewCurve(keys)
	if err != nil {
		panic(err)
	}
	return c
}

// ConstantCurve returns a single-key curve that always evaluates to v.
func ConstantCurve(v float32) *Curve {
	return &Curve{keys: []Keyframe{{Time: 0, Value: v}}}
}

// Evaluate samples the curve at t, clamped to [0, 1]. Linear interpolation
// between the bracketing keys, clamped to the first/last value at the ends.
func (c *Curve) Evaluate(t float32) float32 {
	t = clamp01(t)
	keys := c.keys
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		if t <= keys[i].Time {
			a, b := keys[i-1], keys[i]
			f := (t - a.Time) / (b.Time - a.Time)
			return a.Value + (b.Value-a.Value)*f
		}
	}
	return last.Value
}

// GradientKey is a (time, color) pair on a Gradient.
type GradientKey struct {
	Time  float32
	Color Color
}

// Gradient is the color analogue of Curve: piecewise-linear RGBA over [0, 1].
type Gradient struct {
	keys []GradientKey
}

// NewGradient builds a Gradient under the same keyframe rules as NewCurve.
func NewGradient(keys []GradientKey) (*Gradient, error) {
	if len(keys) == 0 {
		return nil, configErr("gradient", "no keyframes")
	}
	for i, k := range keys {
		if k.Time < 0 || k.Time > 1 {
			return nil, configErr("gradient", "keyframe %d time %.3f outside [0,1]", i, k.Time)
		}
		if i > 0 && k.Time <= keys[i-1].Time {
			return nil, configErr("gradient", "keyframe %d time %.3f not after %.3f", i, k.Time, keys[i-1].Time)
		}
	}
	g := &Gradient{keys: make([]GradientKey, len(keys))}
	copy(g.keys, keys)
	return g, nil
}

// MustGradient is NewGradient that panics on invalid keyframes.
func MustGradient(keys ...GradientKey) *Gradient {
	g, err := NewGradient(keys)
	if err != nil {
		panic(err)
	}
	return g
}

// Evaluate samples the gradient at t, clamped to [0, 1].
func (g *Gradient) Evaluate(t float32) Color {
	t = clamp01(t)
	keys := g.keys
	if t <= keys[0].Time {
		return keys[0].Color
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Color
	}
	for i := 1; i < len(keys); i++ {
		if t <= keys[i].Time {
			a, b := keys[i-1], keys[i]
			f := (t - a.Time) / (b.Time - a.Time)
			return a.Color.Lerp(b.Color, f)
		}
	}
	return last.Color
}
