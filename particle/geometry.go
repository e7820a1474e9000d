package particle

// Geometry layout constants. These are the wire contract a host renderer
// binds against; they do not change between calls.
const (
	// VerticesPerParticle is the quad corner count.
	VerticesPerParticle = 4
	// IndicesPerParticle is two triangles per quad.
	IndicesPerParticle = 6
	// VertexStride is floats per vertex: position(3) uv(2) rgba(4) size(1).
	VertexStride = 10
)

// quadUV holds the corner UVs in counter-clockwise winding order.
var quadUV = [VerticesPerParticle][2]float32{
	{0, 0}, {1, 0}, {1, 1}, {0, 1},
}

// GeometryBuffer is the packed quad output of geometry extraction.
//
// Every live particle contributes four vertices and six indices. All four
// vertices carry the particle's center position; the UV pair doubles as the
// billboard corner hint, letting the host expand the quad camera-facing
// (offset = (uv - 0.5) * size in view space). Vertices are interleaved
// float32 at VertexStride; indices are uint32 triangles, counter-clockwise.
//
// The buffer is regenerated from scratch on every fill. Particle state
// churns wholesale each frame, so incremental patching buys nothing.
type GeometryBuffer struct {
	Vertices []float32
	Indices  []uint32

	particles int
}

// ParticleCount returns how many particles the buffer currently packs.
func (g *GeometryBuffer) ParticleCount() int {
	return g.particles
}

// VertexCount returns the packed vertex count, always 4 * ParticleCount.
func (g *GeometryBuffer) VertexCount() int {
	return g.particles * VerticesPerParticle
}

// grow pre-sizes the buffer for capacity particles so per-frame fills never
// allocate.
func (g *GeometryBuffer) grow(capacity int) {
	wantV := capacity * VerticesPerParticle * VertexStride
	if cap(g.Vertices) < wantV {
		g.Vertices = make([]float32, 0, wantV)
	}
	wantI := capacity * IndicesPerParticle
	if cap(g.Indices) < wantI {
		g.Indices = make([]uint32, 0, wantI)
	}
}

// fill repacks the buffer from the pool's live particles.
func (g *GeometryBuffer) fill(pool *Pool) {
	g.Vertices = g.Vertices[:0]
	g.Indices = g.Indices[:0]
	g.particles = 0

	for _, idx := range pool.Live() {
		p := pool.At(idx)
		base := uint32(g.particles * VerticesPerParticle)

		for c := 0; c < VerticesPerParticle; c++ {
			g.Vertices = append(g.Vertices,
				p.Position.X, p.Position.Y, p.Position.Z,
				quadUV[c][0], quadUV[c][1],
				p.Color.R, p.Color.G, p.Color.B, p.Color.A,
				p.Size,
			)
		}
		g.Indices = append(g.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
		g.particles++
	}
}
