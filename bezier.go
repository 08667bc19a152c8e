package dnacurve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CubicBezier is a cubic Bezier segment, t ∈ [0, 1].
type CubicBezier struct {
	Start    r3.Vec `json:"start"`
	Control1 r3.Vec `json:"control1"`
	Control2 r3.Vec `json:"control2"`
	End      r3.Vec `json:"end"`
}

func (b CubicBezier) Position(t float64) r3.Vec {
	u := 1 - t
	return sum4(
		r3.Scale(u*u*u, b.Start),
		r3.Scale(3*u*u*t, b.Control1),
		r3.Scale(3*u*t*t, b.Control2),
		r3.Scale(t*t*t, b.End),
	)
}

func (b CubicBezier) Speed(t float64) r3.Vec {
	u := 1 - t
	return sum4(
		r3.Scale(3*u*u, r3.Sub(b.Control1, b.Start)),
		r3.Scale(6*u*t, r3.Sub(b.Control2, b.Control1)),
		r3.Scale(3*t*t, r3.Sub(b.End, b.Control2)),
		r3.Vec{},
	)
}

func (b CubicBezier) Acceleration(t float64) r3.Vec {
	u := 1 - t
	a := r3.Add(r3.Sub(b.Control2, r3.Scale(2, b.Control1)), b.Start)
	c := r3.Add(r3.Sub(b.End, r3.Scale(2, b.Control2)), b.Control1)
	return r3.Add(r3.Scale(6*u, a), r3.Scale(6*t, c))
}

func (b CubicBezier) Bounds() Bounds { return Finite }

// Points returns the control polygon of b.
func (b CubicBezier) Points() [4]r3.Vec {
	return [4]r3.Vec{b.Start, b.Control1, b.Control2, b.End}
}

func sum4(a, b, c, d r3.Vec) r3.Vec {
	return r3.Add(r3.Add(a, b), r3.Add(c, d))
}

// BezierVertex is a vertex of a piecewise Bezier curve with the tangent
// vectors of the segments that arrive at and leave from it.
type BezierVertex struct {
	Position  r3.Vec
	VectorIn  r3.Vec
	VectorOut r3.Vec
}

// BezierVertices computes Catmull-Rom tangents at every point, scaled by
// inward and outward coefficients. Nil coefficient slices default to 1.
func BezierVertices(points []r3.Vec, inward, outward []float64, cyclic bool) []BezierVertex {
	n := len(points)
	vs := make([]BezierVertex, n)
	coeff := func(c []float64, i int) float64 {
		if i < len(c) {
			return c[i]
		}
		return 1
	}
	for i, p := range points {
		var tangent r3.Vec
		switch {
		case n < 2:
		case cyclic:
			tangent = r3.Scale(0.5, r3.Sub(points[(i+1)%n], points[(i+n-1)%n]))
		case i == 0:
			tangent = r3.Sub(points[1], points[0])
		case i == n-1:
			tangent = r3.Sub(points[n-1], points[n-2])
		default:
			tangent = r3.Scale(0.5, r3.Sub(points[i+1], points[i-1]))
		}
		vs[i] = BezierVertex{
			Position:  p,
			VectorIn:  r3.Scale(coeff(inward, i)/3, tangent),
			VectorOut: r3.Scale(coeff(outward, i)/3, tangent),
		}
	}
	return vs
}

// PiecewiseBezier is a chain of cubic Bezier segments, segment i joining
// vertex i to vertex i+1 for t ∈ [i, i+1]. Outside of the vertices the curve
// is extended linearly, so that its domain may be widened.
type PiecewiseBezier struct {
	Vertices []BezierVertex
	// Cyclic curves have a last segment joining the last vertex to the first.
	Cyclic bool
	// MinT and MaxT replace the natural domain [0, number of segments] if not nil.
	MinT, MaxT *float64
	Quick      bool
}

// Segments returns the number of Bezier segments of pb.
func (pb *PiecewiseBezier) Segments() int {
	n := len(pb.Vertices)
	switch {
	case n < 2:
		return 0
	case pb.Cyclic:
		return n
	}
	return n - 1
}

// Segment returns the i-th Bezier segment.
func (pb *PiecewiseBezier) Segment(i int) CubicBezier {
	n := len(pb.Vertices)
	a, b := pb.Vertices[i%n], pb.Vertices[(i+1)%n]
	return CubicBezier{
		Start:    a.Position,
		Control1: r3.Add(a.Position, a.VectorOut),
		Control2: r3.Sub(b.Position, b.VectorIn),
		End:      b.Position,
	}
}

// Empty reports whether pb has no vertex.
func (pb *PiecewiseBezier) Empty() bool { return len(pb.Vertices) == 0 }

// locate returns the segment holding t and the local parameter in it.
// extension is the signed parameter distance beyond the ends of an open curve.
func (pb *PiecewiseBezier) locate(t float64) (seg int, u, extension float64) {
	ns := pb.Segments()
	if pb.Cyclic {
		t = remEuclid(t, float64(ns))
	}
	switch {
	case t < 0:
		return 0, 0, t
	case t > float64(ns):
		return ns - 1, 1, t - float64(ns)
	}
	seg = int(math.Floor(t))
	if seg >= ns {
		seg = ns - 1
	}
	return seg, t - float64(seg), 0
}

func (pb *PiecewiseBezier) Position(t float64) r3.Vec {
	switch len(pb.Vertices) {
	case 0:
		return r3.Vec{}
	case 1:
		return pb.Vertices[0].Position
	}
	seg, u, ext := pb.locate(t)
	b := pb.Segment(seg)
	p := b.Position(u)
	if ext != 0 {
		p = r3.Add(p, r3.Scale(ext, b.Speed(u)))
	}
	return p
}

func (pb *PiecewiseBezier) Speed(t float64) r3.Vec {
	if len(pb.Vertices) < 2 {
		return r3.Vec{}
	}
	seg, u, _ := pb.locate(t)
	return pb.Segment(seg).Speed(u)
}

func (pb *PiecewiseBezier) Acceleration(t float64) r3.Vec {
	if len(pb.Vertices) < 2 {
		return r3.Vec{}
	}
	seg, u, ext := pb.locate(t)
	if ext != 0 {
		return r3.Vec{}
	}
	return pb.Segment(seg).Acceleration(u)
}

func (pb *PiecewiseBezier) Bounds() Bounds { return BiInfinite }

func (pb *PiecewiseBezier) TMin() float64 {
	if pb.MinT != nil {
		return *pb.MinT
	}
	return 0
}

func (pb *PiecewiseBezier) TMax() float64 {
	if pb.MaxT != nil {
		return *pb.MaxT
	}
	return float64(pb.Segments())
}

// FullTurnAt implements Periodic for cyclic curves.
func (pb *PiecewiseBezier) FullTurnAt() (float64, bool) {
	if pb.Cyclic && pb.Segments() > 0 {
		return float64(pb.Segments()), true
	}
	return 0, false
}

// DiscretizeQuickly implements QuickDiscretizer.
func (pb *PiecewiseBezier) DiscretizeQuickly() bool { return pb.Quick }

// ControlPoints returns the control polygon of every segment, sharing the
// points at the vertices.
func (pb *PiecewiseBezier) ControlPoints() []r3.Vec {
	ns := pb.Segments()
	if ns == 0 {
		if len(pb.Vertices) == 1 {
			return []r3.Vec{pb.Vertices[0].Position}
		}
		return nil
	}
	pts := make([]r3.Vec, 0, 3*ns+1)
	for i := 0; i < ns; i++ {
		b := pb.Segment(i)
		pts = append(pts, b.Start, b.Control1, b.Control2)
	}
	return append(pts, pb.Segment(ns-1).End)
}

// FrameAtOrigin returns the parallel transported frame of pb at t = 0, the
// frame given to helices following the path.
func (pb *PiecewiseBezier) FrameAtOrigin() (Frame, bool) {
	if len(pb.Vertices) < 2 {
		return Frame{}, false
	}
	return PerpendicularBasis(pb.Speed(0)), true
}

// TranslatedPiecewiseBezier follows a piecewise Bezier path at a constant
// offset expressed in the frame transported along the path.
type TranslatedPiecewiseBezier struct {
	Path   *PiecewiseBezier
	Offset r3.Vec
	Frame  Frame
	// LegacyPlacement selects the single precision placement of older designs.
	LegacyPlacement bool
	Sync
}

func (tp *TranslatedPiecewiseBezier) Position(t float64) r3.Vec     { return tp.Path.Position(t) }
func (tp *TranslatedPiecewiseBezier) Speed(t float64) r3.Vec        { return tp.Path.Speed(t) }
func (tp *TranslatedPiecewiseBezier) Acceleration(t float64) r3.Vec { return tp.Path.Acceleration(t) }
func (tp *TranslatedPiecewiseBezier) Bounds() Bounds                { return tp.Path.Bounds() }
func (tp *TranslatedPiecewiseBezier) TMin() float64                 { return tp.Path.TMin() }
func (tp *TranslatedPiecewiseBezier) TMax() float64                 { return tp.Path.TMax() }
func (tp *TranslatedPiecewiseBezier) Empty() bool                   { return tp.Path.Empty() }

func (tp *TranslatedPiecewiseBezier) FullTurnAt() (float64, bool) { return tp.Path.FullTurnAt() }

// Translation implements Translator.
func (tp *TranslatedPiecewiseBezier) Translation() (r3.Vec, bool) { return tp.Offset, true }

// InitialFrame implements InitialFramer.
func (tp *TranslatedPiecewiseBezier) InitialFrame() (Frame, bool) { return tp.Frame, true }

// Legacy implements Legacier.
func (tp *TranslatedPiecewiseBezier) Legacy() bool { return tp.LegacyPlacement }

// Subdivision implements Subdivider, one 2D helix segment per Bezier segment.
func (tp *TranslatedPiecewiseBezier) Subdivision(t float64) (int, bool) {
	ns := tp.Path.Segments()
	if ns == 0 {
		return 0, false
	}
	seg := int(math.Floor(t))
	return min(max(seg, 0), ns-1), true
}

func (tp *TranslatedPiecewiseBezier) DiscretizeQuickly() bool { return tp.Path.Quick }
