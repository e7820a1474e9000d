// Spawn shape preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/shapepreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ember/particle"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 640
	panelWidth   = windowWidth - previewSize - 30
)

var shapeNames = []string{"point", "sphere", "box", "cone", "circle"}

// ShapeParams holds the adjustable shape parameters.
type ShapeParams struct {
	Shape     int
	Radius    float32
	Thickness float32
	Angle     float32
	Height    float32
	Samples   int
	Seed      int64
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Spawn Shape Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := ShapeParams{
		Shape:     1,
		Radius:    1.0,
		Thickness: 1.0,
		Angle:     0.4,
		Height:    1.0,
		Samples:   2000,
		Seed:      42,
	}

	type sample struct {
		pos particle.Vec3
		dir particle.Vec3
	}
	samples := make([]sample, 0, 8192)

	regen := func() {
		shape := buildShape(params)
		rng := particle.NewSource(params.Seed)
		samples = samples[:0]
		for i := 0; i < params.Samples; i++ {
			p := shape.SamplePosition(rng)
			d := shape.SampleDirection(rng, p)
			samples = append(samples, sample{pos: p, dir: d})
		}
	}
	regen()
	needsRegen := false

	for !rl.WindowShouldClose() {
		if needsRegen {
			regen()
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 12, G: 12, B: 18, A: 255})

		// Scatter plot, XY plane projection, world origin at preview center.
		originX := float32(10 + previewSize/2)
		originY := float32(10 + previewSize/2)
		scale := float32(previewSize) / 5

		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		rl.DrawLine(int32(originX), 10, int32(originX), 10+previewSize, rl.Color{R: 40, G: 40, B: 50, A: 255})
		rl.DrawLine(10, int32(originY), 10+previewSize, int32(originY), rl.Color{R: 40, G: 40, B: 50, A: 255})

		for i := range samples {
			s := &samples[i]
			x := originX + s.pos.X*scale
			y := originY - s.pos.Y*scale
			// Depth cue: nearer samples brighter
			depth := uint8(clampf(160+s.pos.Z*60, 60, 255))
			rl.DrawPixel(int32(x), int32(y), rl.Color{R: depth, G: depth, B: 255, A: 255})

			// Direction rays for a thin subset, full set is unreadable
			if i%40 == 0 {
				rl.DrawLine(int32(x), int32(y),
					int32(x+s.dir.X*scale*0.2), int32(y-s.dir.Y*scale*0.2),
					rl.Color{R: 255, G: 140, B: 60, A: 160})
			}
		}

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("%s  samples: %d  seed: %d",
			shapeNames[params.Shape], params.Samples, params.Seed), 15, statsY, 16, rl.Gray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Spawn Shape Parameters", int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 35

		panelY, changed := slider(panelX, panelY, "Shape (point/sphere/box/cone/circle)",
			float32(params.Shape), 0, 4, "%.0f")
		if int(changed) != params.Shape {
			params.Shape = int(changed)
			needsRegen = true
		}

		panelY, changed = slider(panelX, panelY, "Radius", params.Radius, 0.1, 2.0, "%.2f")
		if changed != params.Radius {
			params.Radius = changed
			needsRegen = true
		}

		panelY, changed = slider(panelX, panelY, "Thickness (0 = surface, 1 = volume)",
			params.Thickness, 0, 1, "%.2f")
		if changed != params.Thickness {
			params.Thickness = changed
			needsRegen = true
		}

		panelY, changed = slider(panelX, panelY, "Cone angle (radians)", params.Angle, 0.05, 1.5, "%.2f")
		if changed != params.Angle {
			params.Angle = changed
			needsRegen = true
		}

		panelY, changed = slider(panelX, panelY, "Cone height", params.Height, 0.1, 2.0, "%.2f")
		if changed != params.Height {
			params.Height = changed
			needsRegen = true
		}

		panelY, changed = slider(panelX, panelY, "Samples", float32(params.Samples), 100, 8000, "%.0f")
		if int(changed) != params.Samples {
			params.Samples = int(changed)
			needsRegen = true
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY + 10, Width: 120, Height: 28}, "Reseed") {
			params.Seed++
			needsRegen = true
		}

		rl.EndDrawing()
	}
}

// slider draws one labeled SliderBar row and returns the next row's Y.
func slider(x, y float32, label string, value, min, max float32, format string) (float32, float32) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, min), fmt.Sprintf(format, max),
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.RayWhite)
	return y + 35, v
}

func buildShape(p ShapeParams) particle.Shape {
	switch p.Shape {
	case 1:
		return particle.SphereShape{Radius: p.Radius, Thickness: p.Thickness}
	case 2:
		return particle.BoxShape{
			HalfExtents: particle.Vec3{X: p.Radius, Y: p.Radius * 0.6, Z: p.Radius * 0.6},
			Thickness:   p.Thickness,
		}
	case 3:
		return particle.ConeShape{Angle: p.Angle, Height: p.Height}
	case 4:
		return particle.CircleShape{Radius: p.Radius, Thickness: p.Thickness}
	}
	return particle.PointShape{}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
