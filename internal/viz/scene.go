package viz

import (
	"sort"
	"strconv"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

// Scene holds what is drawn besides the frame itself.
type Scene struct {
	Sensors []sensor.Sensor
	// Selected is the node id to highlight, 0 for none.
	Selected int
	Labels   bool
	Wire     bool
}

type primitive struct {
	depth float64
	draw  func(c *Canvas)
	onTop bool
}

// RenderFrame draws a frame onto the canvas using a painter's algorithm:
// quads, segments and node dots are sorted far to near.
func RenderFrame(c *Canvas, f *render.Frame, cam *Camera, sc Scene) {
	if c == nil || f == nil || cam == nil {
		return
	}
	sw, sh := c.SubWidth(), c.SubHeight()
	proj := func(p mesh.Vec3) ([2]int, float64, bool) {
		fx, fy, d, ok := cam.ProjectF(p, sw, sh)
		return [2]int{int(fx + 0.5), int(fy + 0.5)}, d, ok
	}
	var prims []primitive

	for _, q := range f.Quads {
		var pts [4][2]int
		depth, visible := 0.0, true
		for k, p := range q.Corners {
			pt, d, ok := proj(p)
			if !ok {
				visible = false
				break
			}
			pts[k], depth = pt, depth+d/4
		}
		if !visible {
			continue
		}
		col, wire := q.Color, sc.Wire
		prims = append(prims, primitive{depth: depth, draw: func(c *Canvas) {
			if wire {
				for k := range 4 {
					a, b := pts[k], pts[(k+1)%4]
					c.DrawLine(a[0], a[1], b[0], b[1], col)
				}
				return
			}
			c.FillTriangle(pts[0], pts[1], pts[2], col)
			c.FillTriangle(pts[0], pts[2], pts[3], col)
		}})
	}

	for _, s := range f.Segments {
		a, da, okA := proj(s.Ends[0])
		b, db, okB := proj(s.Ends[1])
		if !okA || !okB {
			continue
		}
		col := s.Color
		prims = append(prims, primitive{depth: (da + db) / 2, draw: func(c *Canvas) {
			c.DrawLine(a[0], a[1], b[0], b[1], col)
		}})
	}

	if len(f.Quads)+len(f.Segments) == 0 {
		for _, p := range f.Points {
			pt, d, ok := proj(p.Pos)
			if !ok {
				continue
			}
			col := p.Color
			prims = append(prims, primitive{depth: d, draw: func(c *Canvas) { c.Set(pt[0], pt[1], col) }})
		}
	}

	if sc.Selected != 0 {
		if p, ok := f.Point(sc.Selected); ok {
			if pt, d, ok := proj(p.Pos); ok {
				label := "#" + strconv.Itoa(p.Node)
				prims = append(prims, primitive{depth: d, onTop: true, draw: func(c *Canvas) {
					drawMarker(c, pt, colormap.RGB{R: 1, G: 1, B: 1})
					c.Label(pt[0]+4, pt[1], label, colormap.RGB{R: 1, G: 1, B: 1})
				}})
			}
		}
	}

	for _, s := range sc.Sensors {
		pt, d, ok := proj(s.Pos)
		if !ok {
			continue
		}
		col, name, labels := s.Color(), s.Name, sc.Labels
		prims = append(prims, primitive{depth: d, onTop: true, draw: func(c *Canvas) {
			drawMarker(c, pt, col)
			if labels {
				c.Label(pt[0]+4, pt[1], name, col)
			}
		}})
	}

	sort.SliceStable(prims, func(i, j int) bool {
		if prims[i].onTop != prims[j].onTop {
			return !prims[i].onTop
		}
		return prims[i].depth < prims[j].depth
	})
	for _, p := range prims {
		p.draw(c)
	}
}

func drawMarker(c *Canvas, p [2]int, col colormap.RGB) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.Set(p[0]+dx, p[1]+dy, col)
		}
	}
}

// Projector adapts the camera to render.PickNearest for a canvas of the given
// size in character cells. Coordinates are in cells.
func (cam *Camera) Projector(cols, rows int) render.Projector {
	return func(p mesh.Vec3) (float64, float64, bool) {
		x, y, _, ok := cam.ProjectF(p, cols*2, rows*4)
		return x / 2, y / 4, ok
	}
}
