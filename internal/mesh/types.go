package mesh

type Node struct {
	ID  int
	Pos Vec3
}

// ConnectivityRow is an element row before classification. Has marks which of
// the four node cells carried a value.
type ConnectivityRow struct {
	Element int
	Nodes   [4]int
	Has     [4]bool
}

// EdgeRow builds a two-node row.
func EdgeRow(element, a, b int) ConnectivityRow {
	return ConnectivityRow{Element: element, Nodes: [4]int{a, b}, Has: [4]bool{true, true}}
}

// QuadRow builds a four-node row.
func QuadRow(element, a, b, c, d int) ConnectivityRow {
	return ConnectivityRow{Element: element, Nodes: [4]int{a, b, c, d}, Has: [4]bool{true, true, true, true}}
}

type Kind int

const (
	KindInvalid Kind = iota
	KindEdge
	KindQuad
)

func (k Kind) String() string {
	switch k {
	case KindEdge:
		return "edge"
	case KindQuad:
		return "quad"
	default:
		return "invalid"
	}
}

// Classify reports what element a row describes. A missing third node id makes
// an edge regardless of the fourth cell.
func (r ConnectivityRow) Classify() (Kind, error) {
	if !r.Has[0] || !r.Has[1] {
		return KindInvalid, ErrMalformedRow
	}
	if !r.Has[2] {
		return KindEdge, nil
	}
	if r.Has[3] {
		return KindQuad, nil
	}
	return KindInvalid, ErrUnsupportedElement
}

// Edge links two nodes. A and B are node ids, I and J their indices in the
// owning Geometry.
type Edge struct {
	Element int
	A, B    int
	I, J    int
}

// Quad links four nodes in winding order.
type Quad struct {
	Element int
	IDs     [4]int
	Idx     [4]int
}
