package source

import (
	"fmt"
	"math"

	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

const FormatDemo = "demo"

const (
	demoSpan  = 40.0
	demoWidth = 8.0
	demoRise  = 10.0
	demoBays  = 16
)

// Demo builds a synthetic tied-arch bridge: a quad deck, two arches and
// hangers, with every variable a travelling wave over the span.
func Demo(l Layout) (*Dataset, error) {
	vars, steps := l.variables(), l.steps()
	ds := &Dataset{}
	id := func(side, i, level int) int { return 1 + level*2*(demoBays+1) + side*(demoBays+1) + i }

	for level := range 2 {
		for side := range 2 {
			for i := 0; i <= demoBays; i++ {
				x := demoSpan * float64(i) / demoBays
				y := demoWidth * float64(side)
				z := 0.0
				if level == 1 {
					z = demoRise * math.Sin(math.Pi*float64(i)/demoBays)
				}
				ds.Nodes = append(ds.Nodes, mesh.Node{ID: id(side, i, level), Pos: mesh.Vec3{X: x, Y: y, Z: z}})
			}
		}
	}

	el := 0
	next := func() int { el++; return el }
	for i := 0; i < demoBays; i++ {
		ds.Rows = append(ds.Rows, mesh.QuadRow(next(), id(0, i, 0), id(0, i+1, 0), id(1, i+1, 0), id(1, i, 0)))
		for side := range 2 {
			ds.Rows = append(ds.Rows, mesh.EdgeRow(next(), id(side, i, 1), id(side, i+1, 1)))
		}
	}
	for i := 1; i < demoBays; i++ {
		for side := range 2 {
			ds.Rows = append(ds.Rows, mesh.EdgeRow(next(), id(side, i, 0), id(side, i, 1)))
		}
	}

	b := newFieldBuilder(vars, steps)
	for p, name := range vars {
		amp := 1.0 / float64(p+1)
		for _, n := range ds.Nodes {
			for t := range steps {
				phase := 2 * math.Pi * float64(t) / float64(steps)
				v := amp * math.Sin(math.Pi*n.Pos.X/demoSpan+phase) * (1 + n.Pos.Z/demoRise)
				b.set(name, n.ID, t, v)
			}
		}
	}
	var err error
	if ds.Fields, err = b.build(); err != nil {
		return nil, err
	}

	for k, i := range []int{demoBays / 4, demoBays / 2, 3 * demoBays / 4} {
		pos := ds.Nodes[id(0, i, 0)-1].Pos
		ds.Sensors = append(ds.Sensors,
			sensor.Sensor{Name: fmt.Sprintf("Accelerometer %d", k+1), Location: "deck", Pos: pos, Kind: sensor.KindAccelerometer},
			sensor.Sensor{Name: fmt.Sprintf("Strain Gauge %d", k+1), Location: "deck", Pos: pos.Add(mesh.Vec3{Y: demoWidth}), Kind: sensor.KindStrainGauge},
		)
		series := sensor.Series{Name: fmt.Sprintf("Accelerometer %d", k+1)}
		for s := range 200 {
			tm := float64(s) * 0.01
			series.Times = append(series.Times, tm)
			series.Values = append(series.Values, math.Sin(2*math.Pi*(1.5+float64(k))*tm)*math.Exp(-tm))
		}
		ds.Series = append(ds.Series, series)
	}
	return ds, nil
}
