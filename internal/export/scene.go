// Package export writes rendered frames to files: SVG and PNG images, JSON
// frame dumps, and PNG pick buffers for locating nodes by pixel color.
package export

import (
	"sort"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
	"github.com/san-kum/bridgeviz/internal/viz"
)

const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

// Options control image output.
type Options struct {
	Width, Height int
	Background    string
	Sensors       []sensor.Sensor
	Legend        bool
	Title         string
	// LineWidth is the stroke width of segments in pixels.
	LineWidth float64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Background == "" {
		o.Background = "#0a0a0a"
	}
	if o.LineWidth <= 0 {
		o.LineWidth = 2
	}
	return o
}

type shapeKind int

const (
	shapeQuad shapeKind = iota
	shapeSegment
	shapeSensor
)

// shape is a projected primitive in pixel coordinates.
type shape struct {
	kind  shapeKind
	pts   [][2]float64
	depth float64
	color colormap.RGB
	label string
}

// project projects a frame and its sensors far to near. Primitives with a
// corner behind the camera are left out.
func project(f *render.Frame, cam *viz.Camera, o Options) []shape {
	var out []shape
	proj := func(ps ...mesh.Vec3) ([][2]float64, float64, bool) {
		pts := make([][2]float64, len(ps))
		depth := 0.0
		for i := range ps {
			x, y, d, ok := cam.ProjectF(ps[i], o.Width, o.Height)
			if !ok {
				return nil, 0, false
			}
			pts[i] = [2]float64{x, y}
			depth += d / float64(len(ps))
		}
		return pts, depth, true
	}

	for _, q := range f.Quads {
		if pts, d, ok := proj(q.Corners[:]...); ok {
			out = append(out, shape{kind: shapeQuad, pts: pts, depth: d, color: q.Color})
		}
	}
	for _, s := range f.Segments {
		if pts, d, ok := proj(s.Ends[:]...); ok {
			out = append(out, shape{kind: shapeSegment, pts: pts, depth: d, color: s.Color})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].depth < out[j].depth })

	for _, s := range o.Sensors {
		if pts, d, ok := proj(s.Pos); ok {
			out = append(out, shape{kind: shapeSensor, pts: pts, depth: d, color: s.Color(), label: s.Name})
		}
	}
	return out
}
