// Package pick finds the nucleotides of discretized curves closest to a
// point in space.
package pick

import (
	"math"
	"sort"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = nucleotides{}
	_ kdtree.Bounder    = nucleotides{}
	_ kdtree.Comparable = Nucleotide{}
)

// Nucleotide locates one nucleotide of a helix.
type Nucleotide struct {
	Helix    int
	Offset   int
	Forward  bool
	Position r3.Vec
}

// Hit is a nucleotide found by a query.
type Hit struct {
	Nucleotide
	Distance float64
}

// Index is a kd-tree of nucleotide positions. An Index is immutable and
// safe for concurrent queries.
type Index struct {
	tree kdtree.Tree
}

// Helix is a discretized curve indexed under the identifier ID.
type Helix struct {
	ID    int
	Curve *dnacurve.Discretized
	// Roll turns the nucleotides of the helix about its axis.
	Roll float64
}

// New indexes every nucleotide of both strands of the given helices.
func New(hp dnacurve.HelixParameters, helices ...Helix) *Index {
	var nucl nucleotides
	for _, h := range helices {
		d := h.Curve
		for n := -d.PointCountBackward(); n < d.PointCountForward(); n++ {
			for _, forward := range [2]bool{true, false} {
				p, ok := d.NucleotidePosition(n, forward, hp.Theta(n, forward, h.Roll), hp)
				if !ok {
					continue
				}
				nucl = append(nucl, Nucleotide{Helix: h.ID, Offset: n, Forward: forward, Position: p})
			}
		}
	}
	dnacurve.Logger().Debug("nucleotide index", "helices", len(helices), "nucleotides", len(nucl))
	return &Index{tree: *kdtree.New(nucl, true)}
}

// Len returns the number of indexed nucleotides.
func (ix *Index) Len() int { return ix.tree.Count }

// Bounds returns the box containing every indexed nucleotide.
func (ix *Index) Bounds() r3.Box {
	if ix.tree.Root == nil || ix.tree.Root.Bounding == nil {
		return r3.Box{}
	}
	bb := ix.tree.Root.Bounding
	return r3.Box{
		Min: bb.Min.(Nucleotide).Position,
		Max: bb.Max.(Nucleotide).Position,
	}
}

// Nearest returns the nucleotide closest to p. It returns false on an
// empty index.
func (ix *Index) Nearest(p r3.Vec) (Hit, bool) {
	got, dist := ix.tree.Nearest(Nucleotide{Position: p})
	if got == nil {
		return Hit{}, false
	}
	return Hit{Nucleotide: got.(Nucleotide), Distance: math.Sqrt(dist)}, true
}

// NearestN returns up to k nucleotides closest to p, nearest first.
func (ix *Index) NearestN(p r3.Vec, k int) []Hit {
	if k <= 0 {
		return nil
	}
	keep := kdtree.NewNKeeper(k)
	ix.tree.NearestSet(keep, Nucleotide{Position: p})
	return hits(keep.Heap)
}

// Within returns the nucleotides at most radius away from p, nearest first.
func (ix *Index) Within(p r3.Vec, radius float64) []Hit {
	if radius < 0 {
		return nil
	}
	keep := kdtree.NewDistKeeper(radius * radius)
	ix.tree.NearestSet(keep, Nucleotide{Position: p})
	return hits(keep.Heap)
}

func hits(h kdtree.Heap) []Hit {
	out := make([]Hit, 0, len(h))
	for _, c := range h {
		if c.Comparable == nil {
			continue
		}
		out = append(out, Hit{Nucleotide: c.Comparable.(Nucleotide), Distance: math.Sqrt(c.Dist)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a Nucleotide) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return component(a.Position, int(d)) - component(b.(Nucleotide).Position, int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (Nucleotide) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a Nucleotide) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.Position, b.(Nucleotide).Position))
}

func component(v r3.Vec, dim int) float64 {
	switch dim {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

type nucleotides []Nucleotide

func (k nucleotides) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k nucleotides) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k nucleotides) Pivot(d kdtree.Dim) int {
	p := plane{dim: int(d), nucl: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k nucleotides) Slice(start, end int) kdtree.Interface { return k[start:end] }

func (k nucleotides) Bounds() *kdtree.Bounding {
	set := make(d3.Set, len(k))
	for i := range k {
		set[i] = k[i].Position
	}
	box := set.Bounds()
	return &kdtree.Bounding{
		Min: Nucleotide{Position: box.Min},
		Max: Nucleotide{Position: box.Max},
	}
}

type plane struct {
	dim  int
	nucl nucleotides
}

func (p plane) Less(i, j int) bool {
	return component(p.nucl[i].Position, p.dim) < component(p.nucl[j].Position, p.dim)
}
func (p plane) Swap(i, j int) { p.nucl[i], p.nucl[j] = p.nucl[j], p.nucl[i] }
func (p plane) Len() int      { return len(p.nucl) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.nucl = p.nucl[start:end]
	return p
}
