// Package render builds triangle meshes of discretized curves, a sphere per
// nucleotide and a tube along the helix axis, and writes them as binary STL
// or as float32 instance buffers.
package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams the triangles of a mesh. ReadTriangles returns io.EOF
// once every triangle has been read.
type Renderer interface {
	ReadTriangles(t []r3.Triangle) (int, error)
}
