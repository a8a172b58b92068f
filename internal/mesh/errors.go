package mesh

import "errors"

var (
	// ErrMalformedRow indicates a connectivity row without its first two node ids.
	ErrMalformedRow = errors.New("mesh: connectivity row needs at least two node ids")

	// ErrUnsupportedElement indicates a three-node row, which is neither an edge nor a quad.
	ErrUnsupportedElement = errors.New("mesh: element is neither an edge nor a quad")

	// ErrUnresolvedNode indicates an element that references a node id not in the node set.
	ErrUnresolvedNode = errors.New("mesh: element references unknown node")

	// ErrDuplicateNode indicates a node id seen more than once.
	ErrDuplicateNode = errors.New("mesh: duplicate node id")

	// ErrInvalidPosition indicates a node with a NaN or infinite coordinate.
	ErrInvalidPosition = errors.New("mesh: node position is not finite")
)
