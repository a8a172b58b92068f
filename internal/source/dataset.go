package source

import (
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

// Dataset is everything read from one set of input files.
type Dataset struct {
	Nodes   []mesh.Node
	Rows    []mesh.ConnectivityRow
	Fields  *field.Set
	Sensors []sensor.Sensor
	Series  []sensor.Series
	// Skipped counts input rows dropped while reading.
	Skipped int
}

func (d *Dataset) NodeSeq() iter.Seq[mesh.Node] { return slices.Values(d.Nodes) }

func (d *Dataset) RowSeq() iter.Seq[mesh.ConnectivityRow] { return slices.Values(d.Rows) }

// Load hands the dataset to a renderer.
func (d *Dataset) Load(r *render.Renderer) (mesh.LoadReport, error) {
	return r.Load(d.NodeSeq(), d.RowSeq(), d.Fields)
}

// Open reads the dataset described by l.
func Open(l Layout, log *slog.Logger) (*Dataset, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var (
		ds  *Dataset
		err error
	)
	switch l.Format {
	case FormatExcel, "":
		ds, err = ReadExcel(l, log)
	case FormatCSV:
		ds, err = ReadCSV(l, log)
	case FormatDemo:
		ds, err = Demo(l)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, l.Format)
	}
	if err != nil {
		return nil, err
	}
	if len(ds.Nodes) == 0 {
		return nil, ErrNoNodes
	}
	log.Info("dataset loaded",
		slog.String("format", l.Format),
		slog.Int("nodes", len(ds.Nodes)),
		slog.Int("rows", len(ds.Rows)),
		slog.Any("variables", ds.Fields.Variables()),
		slog.Int("steps", ds.Fields.Steps()),
		slog.Int("sensors", len(ds.Sensors)),
		slog.Int("skipped", ds.Skipped))
	return ds, nil
}

// WithBase resolves relative input paths against dir.
func (l Layout) WithBase(dir string) Layout {
	if dir == "" {
		return l
	}
	join := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	join(&l.Excel.Geometry)
	join(&l.Excel.Data)
	join(&l.CSV.Nodes)
	join(&l.CSV.Heatmap)
	join(&l.CSV.Sensors)
	join(&l.CSV.Series)
	return l
}

func (l Layout) variables() []string {
	if len(l.Variables) == 0 {
		return DefaultVariables
	}
	return l.Variables
}

func (l Layout) steps() int {
	if l.Steps <= 0 {
		return DefaultSteps
	}
	return l.Steps
}

// reader carries the state shared by the format readers.
type reader struct {
	log     *slog.Logger
	num     number
	skipped int
}

func (r *reader) skip(sheet string, row int, err error) {
	r.skipped++
	r.log.Warn("skipping row", slog.Any("error", &RowError{Sheet: sheet, Row: row, Err: err}))
}

// fieldBuilder collects node values into per-variable fields.
type fieldBuilder struct {
	steps int
	vars  []string
	data  map[string]field.Field
}

func newFieldBuilder(vars []string, steps int) *fieldBuilder {
	b := &fieldBuilder{steps: steps, vars: vars, data: make(map[string]field.Field)}
	for _, v := range vars {
		b.data[v] = field.Field{}
	}
	return b
}

func (b *fieldBuilder) has(variable string, node int) bool {
	_, ok := b.data[variable][node]
	return ok
}

func (b *fieldBuilder) set(variable string, node, step int, v float64) {
	f, ok := b.data[variable]
	if !ok || step < 0 || step >= b.steps {
		return
	}
	vals, ok := f[node]
	if !ok {
		vals = make([]float64, b.steps)
		f[node] = vals
	}
	vals[step] = v
}

func (b *fieldBuilder) build() (*field.Set, error) {
	if len(b.vars) == 0 {
		return nil, ErrNoVariables
	}
	set, err := field.NewSet(b.steps)
	if err != nil {
		return nil, err
	}
	for _, v := range b.vars {
		if err := set.Add(v, b.data[v]); err != nil {
			return nil, err
		}
	}
	return set, nil
}
