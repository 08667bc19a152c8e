package render

import (
	"io"
	"math"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Style sizes the meshes of a discretized curve.
type Style struct {
	// NucleotideRadius is the radius of nucleotide spheres. Zero omits them.
	NucleotideRadius float64
	// AxisRadius is the radius of the tube along the helix axis. Zero omits it.
	AxisRadius float64
	// Roll turns the nucleotides about the axis, in radians.
	Roll float64
	// Resolution is the number of sides of tubes and of meridians of spheres.
	Resolution int
}

// DefaultStyle draws thin nucleotide beads on a thinner axis.
var DefaultStyle = Style{
	NucleotideRadius: 0.2,
	AxisRadius:       0.1,
	Resolution:       12,
}

// Sphere is a nucleotide.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

// Tube is a segment of the helix axis. Prev and Next are the directions of
// the neighbouring segments, zero at the open ends of the axis. Tube ends are
// cut along the bisector planes with their neighbours so that consecutive
// tubes join without gaps.
type Tube struct {
	From, To   r3.Vec
	Prev, Next r3.Vec
	Radius     float64
}

// Model is the geometry of one discretized curve.
type Model struct {
	Spheres []Sphere
	Tubes   []Tube
	// Cyclic is set when the axis is a closed loop.
	Cyclic bool
}

// NewModel places a sphere on every nucleotide of both strands of d and a
// chain of tubes along its axis.
func NewModel(d *dnacurve.Discretized, hp dnacurve.HelixParameters, style Style) Model {
	var m Model
	if style.NucleotideRadius > 0 {
		for n := -d.PointCountBackward(); n < d.PointCountForward(); n++ {
			for _, forward := range [2]bool{true, false} {
				p, ok := d.NucleotidePosition(n, forward, hp.Theta(n, forward, style.Roll), hp)
				if ok {
					m.Spheres = append(m.Spheres, Sphere{Center: p, Radius: style.NucleotideRadius})
				}
			}
		}
	}
	axis := d.AxisPositions()
	if fullTurn, ok := d.FullTurn(); ok && math.Abs(fullTurn-float64(len(axis))) < 1 {
		m.Cyclic = len(axis) > 2
	}
	if style.AxisRadius > 0 {
		m.Tubes = rosary(axis, m.Cyclic, style.AxisRadius)
	}
	dnacurve.Logger().Debug("curve model", "spheres", len(m.Spheres), "tubes", len(m.Tubes), "cyclic", m.Cyclic)
	return m
}

// rosary joins consecutive points with tubes.
func rosary(points []r3.Vec, cyclic bool, radius float64) []Tube {
	n := len(points)
	if n < 2 {
		return nil
	}
	segments := n - 1
	if cyclic {
		segments = n
	}
	dir := func(i int) r3.Vec {
		if !cyclic && (i < 0 || i >= segments) {
			return r3.Vec{}
		}
		i = (i + segments) % segments
		return r3.Sub(points[(i+1)%n], points[i])
	}
	tubes := make([]Tube, segments)
	for i := range tubes {
		tubes[i] = Tube{
			From:   points[i],
			To:     points[(i+1)%n],
			Prev:   dir(i - 1),
			Next:   dir(i + 1),
			Radius: radius,
		}
	}
	return tubes
}

// Bounds returns the box containing the centers of the spheres and the ends
// of the tubes.
func (m Model) Bounds() r3.Box {
	set := make(d3.Set, 0, len(m.Spheres)+2*len(m.Tubes))
	for _, s := range m.Spheres {
		set = append(set, s.Center)
	}
	for _, t := range m.Tubes {
		set = append(set, t.From, t.To)
	}
	return set.Bounds()
}

// Renderer streams the triangles of m.
func (m Model) Renderer(resolution int) Renderer {
	resolution = max(resolution, 4)
	return &modelRenderer{
		model:  m,
		sides:  resolution,
		sphere: unitSphere(resolution, resolution/2),
	}
}

type modelRenderer struct {
	model  Model
	sides  int
	sphere []r3.Triangle
	next   int
	buf    triangleBuffer
}

func (r *modelRenderer) objects() int { return len(r.model.Spheres) + len(r.model.Tubes) }

func (r *modelRenderer) ReadTriangles(t []r3.Triangle) (int, error) {
	for r.buf.Len() < len(t) && r.next < r.objects() {
		if r.next < len(r.model.Spheres) {
			r.buf.Write(sphereTriangles(r.sphere, r.model.Spheres[r.next])...)
		} else {
			r.buf.Write(tubeTriangles(r.model.Tubes[r.next-len(r.model.Spheres)], r.sides)...)
		}
		r.next++
	}
	n := r.buf.Read(t)
	if n == 0 && r.next >= r.objects() {
		return 0, io.EOF
	}
	return n, nil
}

// unitSphere is a UV sphere of radius 1 centered at the origin.
func unitSphere(meridians, bands int) []r3.Triangle {
	bands = max(bands, 2)
	vertex := func(i, j int) r3.Vec {
		polar := math.Pi * float64(i) / float64(bands)
		azimuth := 2 * math.Pi * float64(j%meridians) / float64(meridians)
		sp, cp := math.Sincos(polar)
		sa, ca := math.Sincos(azimuth)
		return r3.Vec{X: sp * ca, Y: sp * sa, Z: cp}
	}
	tris := make([]r3.Triangle, 0, meridians*(2*bands-2))
	for i := 0; i < bands; i++ {
		for j := 0; j < meridians; j++ {
			a, b, c, d := vertex(i, j), vertex(i+1, j), vertex(i+1, j+1), vertex(i, j+1)
			if i != bands-1 {
				tris = append(tris, r3.Triangle{a, b, c})
			}
			if i != 0 {
				tris = append(tris, r3.Triangle{a, c, d})
			}
		}
	}
	return tris
}

func sphereTriangles(unit []r3.Triangle, s Sphere) []r3.Triangle {
	t := d3.ComposeTransform(s.Center, r3.Vec{X: s.Radius, Y: s.Radius, Z: s.Radius}, r3.Rotation{})
	tris := make([]r3.Triangle, len(unit))
	for i, u := range unit {
		tris[i] = r3.Triangle{t.Apply(u[0]), t.Apply(u[1]), t.Apply(u[2])}
	}
	return tris
}

// cutShift returns how far along axis the point offset from an end of a
// tube moves to lie on the plane of normal n through that end.
func cutShift(n, axis, offset r3.Vec) float64 {
	const minCos = 0.2
	c := r3.Dot(n, axis)
	if c < minCos {
		return 0
	}
	return -r3.Dot(n, offset) / c
}

// bisector returns the normal of the plane cutting the joint between
// directions a and b, b alone if a is zero.
func bisector(a, b r3.Vec) r3.Vec {
	if r3.Norm(a) == 0 {
		return b
	}
	if s := r3.Add(r3.Unit(a), b); r3.Norm(s) > 1e-9 {
		return r3.Unit(s)
	}
	return b
}

func tubeTriangles(tb Tube, sides int) []r3.Triangle {
	length := r3.Norm(r3.Sub(tb.To, tb.From))
	if length == 0 || tb.Radius <= 0 {
		return nil
	}
	axis := r3.Scale(1/length, r3.Sub(tb.To, tb.From))
	ring := d3.ComposeTransform(r3.Vec{}, r3.Vec{X: 1, Y: tb.Radius, Z: tb.Radius}, d3.RotationBetween(r3.Vec{X: 1}, axis))
	startCut := bisector(tb.Prev, axis)
	endCut := bisector(tb.Next, axis)
	start := make([]r3.Vec, sides)
	end := make([]r3.Vec, sides)
	for k := range start {
		s, c := math.Sincos(2 * math.Pi * float64(k) / float64(sides))
		offset := ring.Apply(r3.Vec{Y: c, Z: s})
		start[k] = r3.Add(r3.Add(tb.From, offset), r3.Scale(cutShift(startCut, axis, offset), axis))
		end[k] = r3.Add(r3.Add(tb.To, offset), r3.Scale(cutShift(endCut, axis, offset), axis))
	}
	tris := make([]r3.Triangle, 0, 4*sides)
	for k := 0; k < sides; k++ {
		k1 := (k + 1) % sides
		tris = append(tris,
			r3.Triangle{start[k], start[k1], end[k]},
			r3.Triangle{start[k1], end[k1], end[k]},
		)
	}
	if r3.Norm(tb.Prev) == 0 {
		for k := 0; k < sides; k++ {
			tris = append(tris, r3.Triangle{tb.From, start[(k+1)%sides], start[k]})
		}
	}
	if r3.Norm(tb.Next) == 0 {
		for k := 0; k < sides; k++ {
			tris = append(tris, r3.Triangle{tb.To, end[k], end[(k+1)%sides]})
		}
	}
	return tris
}
