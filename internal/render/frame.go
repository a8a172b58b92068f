package render

import (
	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/mesh"
)

type Point struct {
	Node  int          `json:"node"`
	Pos   mesh.Vec3    `json:"pos"`
	Value float64      `json:"value"`
	Color colormap.RGB `json:"color"`
}

type Segment struct {
	Element int          `json:"element"`
	Nodes   [2]int       `json:"nodes"`
	Ends    [2]mesh.Vec3 `json:"ends"`
	Value   float64      `json:"value"`
	Color   colormap.RGB `json:"color"`
}

type Quad struct {
	Element int          `json:"element"`
	Nodes   [4]int       `json:"nodes"`
	Corners [4]mesh.Vec3 `json:"corners"`
	Value   float64      `json:"value"`
	Color   colormap.RGB `json:"color"`
}

// Frame is the colored scene for one (variable, step) pair.
type Frame struct {
	Variable string      `json:"variable"`
	Step     int         `json:"step"`
	Steps    int         `json:"steps"`
	Range    field.Range `json:"range"`
	Points   []Point     `json:"points"`
	Segments []Segment   `json:"segments"`
	Quads    []Quad      `json:"quads"`
}

// Values returns every node, edge and quad value in the frame.
func (f *Frame) Values() []float64 {
	out := make([]float64, 0, len(f.Points)+len(f.Segments)+len(f.Quads))
	for _, p := range f.Points {
		out = append(out, p.Value)
	}
	for _, s := range f.Segments {
		out = append(out, s.Value)
	}
	for _, q := range f.Quads {
		out = append(out, q.Value)
	}
	return out
}

// Point returns the colored point of a node.
func (f *Frame) Point(node int) (Point, bool) {
	for _, p := range f.Points {
		if p.Node == node {
			return p, true
		}
	}
	return Point{}, false
}

// Observer receives every frame the renderer produces.
type Observer interface {
	OnFrame(f *Frame)
}

type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnFrame(f *Frame) { fn(f) }
