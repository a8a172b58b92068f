package mesh

import (
	"iter"
	"log/slog"
)

// Geometry is the resolved mesh. It is never mutated after Build returns.
type Geometry struct {
	Nodes []Node
	Edges []Edge
	Quads []Quad

	index map[int]int
}

// LoadReport counts what Build kept and what it skipped.
type LoadReport struct {
	Nodes           int
	Edges           int
	Quads           int
	SkippedNodes    int
	SkippedRows     int
	DroppedElements int
}

func (r LoadReport) Attrs() []any {
	return []any{
		slog.Int("nodes", r.Nodes),
		slog.Int("edges", r.Edges),
		slog.Int("quads", r.Quads),
		slog.Int("skipped_nodes", r.SkippedNodes),
		slog.Int("skipped_rows", r.SkippedRows),
		slog.Int("dropped_elements", r.DroppedElements),
	}
}

// Build resolves nodes and connectivity into a Geometry. Bad input never fails
// the build: duplicate or non-finite nodes, malformed rows and elements that
// reference unknown nodes are logged at warn level and left out.
func Build(nodes iter.Seq[Node], rows iter.Seq[ConnectivityRow], log *slog.Logger) (*Geometry, LoadReport) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	g := &Geometry{index: make(map[int]int)}
	var rep LoadReport

	if nodes != nil {
		for n := range nodes {
			if !n.Pos.IsFinite() {
				log.Warn("skipping node", slog.Int("node", n.ID), slog.Any("error", ErrInvalidPosition))
				rep.SkippedNodes++
				continue
			}
			if _, dup := g.index[n.ID]; dup {
				log.Warn("skipping node", slog.Int("node", n.ID), slog.Any("error", ErrDuplicateNode))
				rep.SkippedNodes++
				continue
			}
			g.index[n.ID] = len(g.Nodes)
			g.Nodes = append(g.Nodes, n)
		}
	}

	if rows != nil {
		for r := range rows {
			kind, err := r.Classify()
			if err != nil {
				log.Warn("skipping connectivity row", slog.Int("element", r.Element), slog.Any("error", err))
				rep.SkippedRows++
				continue
			}
			if !g.resolve(r, kind) {
				log.Warn("dropping element", slog.Int("element", r.Element), slog.String("kind", kind.String()),
					slog.Any("error", ErrUnresolvedNode))
				rep.DroppedElements++
			}
		}
	}

	rep.Nodes, rep.Edges, rep.Quads = len(g.Nodes), len(g.Edges), len(g.Quads)
	log.Info("geometry built", rep.Attrs()...)
	return g, rep
}

func (g *Geometry) resolve(r ConnectivityRow, kind Kind) bool {
	n := 2
	if kind == KindQuad {
		n = 4
	}
	var idx [4]int
	for k := 0; k < n; k++ {
		i, ok := g.index[r.Nodes[k]]
		if !ok {
			return false
		}
		idx[k] = i
	}
	if kind == KindEdge {
		g.Edges = append(g.Edges, Edge{Element: r.Element, A: r.Nodes[0], B: r.Nodes[1], I: idx[0], J: idx[1]})
		return true
	}
	g.Quads = append(g.Quads, Quad{Element: r.Element, IDs: r.Nodes, Idx: idx})
	return true
}

// IndexOf returns the position of a node id in Nodes.
func (g *Geometry) IndexOf(id int) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

func (g *Geometry) Has(id int) bool {
	_, ok := g.index[id]
	return ok
}

// Node looks up a node by id.
func (g *Geometry) Node(id int) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

func (g *Geometry) Bounds() Bounds {
	if len(g.Nodes) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: g.Nodes[0].Pos, Max: g.Nodes[0].Pos}
	for _, n := range g.Nodes[1:] {
		p := n.Pos
		b.Min = Vec3{min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)}
		b.Max = Vec3{max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)}
	}
	return b
}
