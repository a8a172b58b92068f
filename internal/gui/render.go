package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/render"
)

// transform centers the model on the origin, scales it to a unit-ish extent
// and swaps z-up model coordinates into raylib's y-up world.
type transform struct {
	center mesh.Vec3
	scale  float64
}

func fit(b mesh.Bounds) transform {
	t := transform{center: b.Center(), scale: 1}
	if e := b.Extent(); e > 0 {
		t.scale = 10 / e
	}
	return t
}

func (t transform) apply(p mesh.Vec3) rl.Vector3 {
	q := p.Sub(t.center).Scale(t.scale)
	return rl.NewVector3(float32(q.X), float32(q.Z), float32(-q.Y))
}

func toColor(c colormap.RGB) rl.Color {
	rgba := c.RGBA()
	return rl.NewColor(rgba.R, rgba.G, rgba.B, rgba.A)
}

func (a *App) drawGrid(slices int, spacing float32) {
	half := float32(slices) * spacing / 2
	floor := a.floor
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, floor, -half), rl.NewVector3(pos, floor, half), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-half, floor, pos), rl.NewVector3(half, floor, pos), ColGrid)
	}
}

func (a *App) drawFrame(f *render.Frame) {
	for _, q := range f.Quads {
		var v [4]rl.Vector3
		for k, c := range q.Corners {
			v[k] = a.view.apply(c)
		}
		if a.Wire {
			col := toColor(q.Color)
			for k := range v {
				rl.DrawLine3D(v[k], v[(k+1)%4], col)
			}
			continue
		}
		col := toColor(q.Color)
		// both windings so the deck is visible from below
		rl.DrawTriangle3D(v[0], v[1], v[2], col)
		rl.DrawTriangle3D(v[0], v[2], v[3], col)
		rl.DrawTriangle3D(v[2], v[1], v[0], col)
		rl.DrawTriangle3D(v[3], v[2], v[0], col)
	}
	for _, s := range f.Segments {
		rl.DrawLine3D(a.view.apply(s.Ends[0]), a.view.apply(s.Ends[1]), toColor(s.Color))
	}
	if len(f.Segments) == 0 && len(f.Quads) == 0 {
		for _, p := range f.Points {
			rl.DrawSphere(a.view.apply(p.Pos), 0.05, toColor(p.Color))
		}
	}
}

func (a *App) drawSensors() {
	for _, s := range a.Sensors {
		rl.DrawSphere(a.view.apply(s.Pos), 0.12, toColor(s.Kind.Color()))
	}
}

func (a *App) drawSelection(f *render.Frame) {
	if a.selected < 0 {
		return
	}
	if p, ok := f.Point(a.selected); ok {
		rl.DrawSphereWires(a.view.apply(p.Pos), 0.15, 8, 8, ColSelect)
	}
}

// DrawHistory plots every variable of the selected node across all steps,
// marking the current one.
func (a *App) DrawHistory(x, y, width, height int) {
	if len(a.history) == 0 {
		return
	}
	step := a.r.Step()
	for i, s := range a.history {
		pts := linePoints(s.Values, x, y+i*(height+8), width, height)
		if len(pts) < 2 {
			continue
		}
		rl.DrawLineStrip(pts, ColAccent)
		if step < len(pts) {
			rl.DrawCircleV(pts[step], 3, ColSelect)
		}
		a.drawText(s.Variable, x+width+10, y+i*(height+8)+height/2-7, 14, ColText)
	}
}

// linePoints scales values into the given screen rectangle, left to right.
func linePoints(vals []float64, x, y, width, height int) []rl.Vector2 {
	if len(vals) == 0 {
		return nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	n := max(len(vals)-1, 1)
	out := make([]rl.Vector2, len(vals))
	for i, v := range vals {
		px := float32(x) + float32(i)/float32(n)*float32(width)
		py := float32(y+height) - float32((v-lo)/(hi-lo))*float32(height)
		out[i] = rl.NewVector2(px, py)
	}
	return out
}
