package render

import (
	"image/color"
	"math"

	"github.com/san-kum/bridgeviz/internal/mesh"
)

// MaxPickable is the number of nodes a 24-bit pick color can address. Color 0
// is reserved for background.
const MaxPickable = 1<<24 - 1

// PickColor encodes a zero-based node index as a unique opaque color.
func PickColor(index int) color.RGBA {
	id := index + 1
	return color.RGBA{R: uint8(id >> 16), G: uint8(id >> 8), B: uint8(id), A: 0xff}
}

// DecodePickColor reverses PickColor. Background black yields false.
func DecodePickColor(c color.RGBA) (int, bool) {
	id := int(c.R)<<16 | int(c.G)<<8 | int(c.B)
	if id == 0 {
		return 0, false
	}
	return id - 1, true
}

// Projector maps a world position to screen coordinates. ok is false when the
// point is not visible.
type Projector func(p mesh.Vec3) (x, y float64, ok bool)

// PickNearest returns the visible point whose projection lies closest to
// (x, y), provided it is within radius.
func PickNearest(f *Frame, project Projector, x, y, radius float64) (Point, bool) {
	if f == nil || project == nil {
		return Point{}, false
	}
	best, bestDist := -1, math.Inf(1)
	for i, p := range f.Points {
		px, py, ok := project(p.Pos)
		if !ok {
			continue
		}
		if d := math.Hypot(px-x, py-y); d <= radius && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Point{}, false
	}
	return f.Points[best], true
}
