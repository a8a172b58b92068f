// Package mesh holds the immutable bridge geometry: labeled nodes and the
// edges and quads that connect them.
//
//   - [Node]: a labeled point in 3D space
//   - [ConnectivityRow]: one element row as read from a source table
//   - [Geometry]: nodes plus resolved edges and quads, built once by [Build]
//
// # Element classification
//
// A connectivity row whose third node cell is empty is an edge. A row with all
// four node cells present is a quad. Anything else is skipped. Rows that
// reference a node id absent from the node set are dropped at build time, so
// every element in a [Geometry] resolves to a node index.
package mesh
