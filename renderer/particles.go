// Package renderer draws extracted particle geometry with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ember/particle"
)

// ParticleRenderer projects extracted quads onto the screen. It consumes
// the packed geometry buffer directly; the quad expansion the UV corner
// hint describes happens here, in screen space.
type ParticleRenderer struct {
	originX float32 // screen px of world origin
	originY float32
	scale   float32 // px per world unit
}

// NewParticleRenderer creates a renderer mapping world space onto a
// screen of the given size. World +Y maps to screen up.
func NewParticleRenderer(screenW, screenH int, scale float32) *ParticleRenderer {
	return &ParticleRenderer{
		originX: float32(screenW) / 2,
		originY: float32(screenH) * 0.75,
		scale:   scale,
	}
}

// Draw renders every quad in the buffer, shifted by the emitter's world
// offset. Corner offsets come from the packed UV hint and size, so the
// draw stays faithful to what a GPU billboard expansion would produce.
func (r *ParticleRenderer) Draw(buf *particle.GeometryBuffer, offset particle.Vec3) {
	stride := particle.VertexStride
	for p := 0; p < buf.ParticleCount(); p++ {
		base := p * particle.VerticesPerParticle * stride

		// All corners carry the particle center and color; read them once.
		cx := r.originX + (offset.X+buf.Vertices[base])*r.scale
		cy := r.originY - (offset.Y+buf.Vertices[base+1])*r.scale
		size := buf.Vertices[base+9] * r.scale
		color := rl.Color{
			R: packChannel(buf.Vertices[base+5]),
			G: packChannel(buf.Vertices[base+6]),
			B: packChannel(buf.Vertices[base+7]),
			A: packChannel(buf.Vertices[base+8]),
		}

		var corners [particle.VerticesPerParticle]rl.Vector2
		for c := 0; c < particle.VerticesPerParticle; c++ {
			v := base + c*stride
			u := buf.Vertices[v+3]
			w := buf.Vertices[v+4]
			corners[c] = rl.Vector2{
				X: cx + (u-0.5)*size,
				Y: cy - (w-0.5)*size,
			}
		}

		// Two triangles per quad, same winding as the index buffer.
		rl.DrawTriangle(corners[0], corners[1], corners[2], color)
		rl.DrawTriangle(corners[0], corners[2], corners[3], color)
	}
}

func packChannel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
