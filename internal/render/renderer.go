package render

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/mesh"
)

// RangeMode selects which values the color range is computed from.
type RangeMode int

const (
	// RangeStep uses the values of the current time step only.
	RangeStep RangeMode = iota
	// RangeGlobal uses every step of the active variable, giving a stable legend.
	RangeGlobal
)

func (m RangeMode) String() string {
	if m == RangeGlobal {
		return "global"
	}
	return "step"
}

func ParseRangeMode(s string) (RangeMode, error) {
	switch strings.ToLower(s) {
	case "", "step":
		return RangeStep, nil
	case "global":
		return RangeGlobal, nil
	}
	return RangeStep, fmt.Errorf("render: unknown range mode %q", s)
}

type Option func(*Renderer)

func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMargin sets how far a degenerate range is widened on each side.
func WithMargin(m float64) Option { return func(r *Renderer) { r.margin = m } }

func WithRangeMode(m RangeMode) Option { return func(r *Renderer) { r.mode = m } }

// WithVariable picks the variable shown after Load. It falls back to the
// first variable of the set when absent.
func WithVariable(name string) Option { return func(r *Renderer) { r.initial = name } }

type Renderer struct {
	mu      sync.Mutex
	log     *slog.Logger
	margin  float64
	mode    RangeMode
	initial string

	geom     *mesh.Geometry
	fields   *field.Set
	variable string
	active   field.Field
	global   field.Range
	step     int
	frame    *Frame

	observers []Observer
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		log:    slog.New(slog.DiscardHandler),
		margin: field.DefaultMargin,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Observe registers o for every subsequent frame.
func (r *Renderer) Observe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Load builds the geometry buffers and renders step 0 of the initial
// variable. Unresolvable elements are dropped and counted in the report. On
// error the renderer is left unloaded.
func (r *Renderer) Load(nodes iter.Seq[mesh.Node], rows iter.Seq[mesh.ConnectivityRow], fields *field.Set) (mesh.LoadReport, error) {
	if fields == nil || fields.Len() == 0 {
		r.reset()
		return mesh.LoadReport{}, ErrNoFields
	}

	geom, rep := mesh.Build(nodes, rows, r.log)

	r.mu.Lock()
	name := r.initial
	if !fields.Has(name) {
		if name != "" {
			r.log.Warn("initial variable not found, using first", slog.String("variable", name))
		}
		name = fields.Variables()[0]
	}
	active, _ := fields.Get(name)

	r.geom, r.fields = geom, fields
	r.variable, r.active, r.step = name, active, 0
	r.global = r.globalRange()
	frame, obs := r.rebuild()
	r.mu.Unlock()

	notify(obs, frame)
	return rep, nil
}

func (r *Renderer) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.geom, r.fields, r.active, r.frame = nil, nil, nil, nil
	r.variable, r.step = "", 0
}

// SetTimeStep recolors the mesh for step t in [0, Steps()-1].
func (r *Renderer) SetTimeStep(t int) error {
	r.mu.Lock()
	if r.geom == nil {
		r.mu.Unlock()
		return ErrNotLoaded
	}
	if steps := r.fields.Steps(); t < 0 || t >= steps {
		r.mu.Unlock()
		return &StepError{Step: t, Steps: steps}
	}
	r.step = t
	frame, obs := r.rebuild()
	r.mu.Unlock()

	notify(obs, frame)
	return nil
}

// Advance moves the time step by delta, wrapping around at either end.
func (r *Renderer) Advance(delta int) error {
	r.mu.Lock()
	if r.geom == nil {
		r.mu.Unlock()
		return ErrNotLoaded
	}
	steps := r.fields.Steps()
	r.step = ((r.step+delta)%steps + steps) % steps
	frame, obs := r.rebuild()
	r.mu.Unlock()

	notify(obs, frame)
	return nil
}

// SetActiveVariable swaps in another preloaded field and re-renders the
// current step.
func (r *Renderer) SetActiveVariable(name string) error {
	r.mu.Lock()
	if r.geom == nil {
		r.mu.Unlock()
		return ErrNotLoaded
	}
	f, err := r.fields.Get(name)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	r.variable, r.active = name, f
	r.global = r.globalRange()
	frame, obs := r.rebuild()
	r.mu.Unlock()

	notify(obs, frame)
	return nil
}

// rebuild recomputes the frame. Callers hold r.mu.
func (r *Renderer) rebuild() (*Frame, []Observer) {
	g, f, step := r.geom, r.active, r.step
	fr := &Frame{
		Variable: r.variable,
		Step:     step,
		Steps:    r.fields.Steps(),
		Points:   make([]Point, len(g.Nodes)),
		Segments: make([]Segment, len(g.Edges)),
		Quads:    make([]Quad, len(g.Quads)),
	}

	var acc field.Accumulator
	for i, n := range g.Nodes {
		v := f.At(n.ID, step)
		fr.Points[i] = Point{Node: n.ID, Pos: n.Pos, Value: v}
		acc.Add(v)
	}
	for i, e := range g.Edges {
		v := (fr.Points[e.I].Value + fr.Points[e.J].Value) / 2
		fr.Segments[i] = Segment{
			Element: e.Element,
			Nodes:   [2]int{e.A, e.B},
			Ends:    [2]mesh.Vec3{g.Nodes[e.I].Pos, g.Nodes[e.J].Pos},
			Value:   v,
		}
		acc.Add(v)
	}
	for i, q := range g.Quads {
		sq := Quad{Element: q.Element, Nodes: q.IDs}
		sum := 0.0
		for k, idx := range q.Idx {
			sum += fr.Points[idx].Value
			sq.Corners[k] = g.Nodes[idx].Pos
		}
		sq.Value = sum / 4
		fr.Quads[i] = sq
		acc.Add(sq.Value)
	}

	fr.Range = acc.Range(r.margin)
	if r.mode == RangeGlobal {
		fr.Range = r.global
	}
	lo, hi := fr.Range.Min, fr.Range.Max
	for i := range fr.Points {
		fr.Points[i].Color = colormap.ColorFor(fr.Points[i].Value, lo, hi)
	}
	for i := range fr.Segments {
		fr.Segments[i].Color = colormap.ColorFor(fr.Segments[i].Value, lo, hi)
	}
	for i := range fr.Quads {
		fr.Quads[i].Color = colormap.ColorFor(fr.Quads[i].Value, lo, hi)
	}

	r.frame = fr
	r.log.Debug("frame rendered",
		slog.String("variable", fr.Variable),
		slog.Int("step", fr.Step),
		slog.Float64("min", lo),
		slog.Float64("max", hi))

	obs := make([]Observer, len(r.observers))
	copy(obs, r.observers)
	return fr, obs
}

// globalRange spans node, edge and quad values over every step of the active
// field. Callers hold r.mu.
func (r *Renderer) globalRange() field.Range {
	g, f := r.geom, r.active
	vals := make([]float64, len(g.Nodes))
	var acc field.Accumulator
	for step := 0; step < r.fields.Steps(); step++ {
		for i, n := range g.Nodes {
			vals[i] = f.At(n.ID, step)
		}
		acc.Add(vals...)
		for _, e := range g.Edges {
			acc.Add((vals[e.I] + vals[e.J]) / 2)
		}
		for _, q := range g.Quads {
			acc.Add((vals[q.Idx[0]] + vals[q.Idx[1]] + vals[q.Idx[2]] + vals[q.Idx[3]]) / 4)
		}
	}
	return acc.Range(r.margin)
}

func notify(obs []Observer, f *Frame) {
	for _, o := range obs {
		o.OnFrame(f)
	}
}

// Frame returns the most recent frame, or nil before Load.
func (r *Renderer) Frame() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

func (r *Renderer) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geom != nil
}

func (r *Renderer) Step() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// Steps is the number of time steps, 0 before Load.
func (r *Renderer) Steps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fields == nil {
		return 0
	}
	return r.fields.Steps()
}

func (r *Renderer) Variable() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.variable
}

func (r *Renderer) Variables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fields == nil {
		return nil
	}
	return r.fields.Variables()
}

// NextVariable activates the variable after the current one.
func (r *Renderer) NextVariable() error {
	r.mu.Lock()
	if r.fields == nil {
		r.mu.Unlock()
		return ErrNotLoaded
	}
	next := r.fields.Next(r.variable)
	r.mu.Unlock()
	return r.SetActiveVariable(next)
}

func (r *Renderer) Geometry() *mesh.Geometry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geom
}

type Series struct {
	Variable string    `json:"variable"`
	Values   []float64 `json:"values"`
}

// History returns every variable's values for one node across all steps.
func (r *Renderer) History(node int) ([]Series, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.geom == nil {
		return nil, ErrNotLoaded
	}
	if !r.geom.Has(node) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, node)
	}
	out := make([]Series, 0, r.fields.Len())
	for _, name := range r.fields.Variables() {
		f, _ := r.fields.Get(name)
		out = append(out, Series{Variable: name, Values: f.Series(node, r.fields.Steps())})
	}
	return out, nil
}
